/*
Copyright © 2024 the gridio authors.
This file is part of gridio.

gridio is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridio is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridio.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridio

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

// NetCDFDataVersion is written to, and required in, the netCDF files
// created by WriteNetCDF.
const NetCDFDataVersion = "1.0"

// DefaultVariable is the name of the netCDF variable that holds the
// grid values when no other name is given.
const DefaultVariable = "value"

// WriteNetCDF writes g to w as a netCDF file with dimensions z, y and x
// and a single double precision variable called name. The geometry is
// stored in the global attributes x0, y0, z0, dx, dy and dz.
func WriteNetCDF(w cdf.ReaderWriterAt, g *Grid, geom Geometry, name string) error {
	if err := geom.Validate(); err != nil {
		return err
	}
	if name == "" {
		name = DefaultVariable
	}
	nx, ny, nz := g.Dims()
	h := cdf.NewHeader([]string{"z", "y", "x"}, []int{nz, ny, nx})
	h.AddAttribute("", "comment", "gridio 3D grid")
	h.AddAttribute("", "data_version", NetCDFDataVersion)
	h.AddAttribute("", "x0", []float64{geom.X0})
	h.AddAttribute("", "y0", []float64{geom.Y0})
	h.AddAttribute("", "z0", []float64{geom.Z0})
	h.AddAttribute("", "dx", []float64{geom.DX})
	h.AddAttribute("", "dy", []float64{geom.DY})
	h.AddAttribute("", "dz", []float64{geom.DZ})
	h.AddVariable(name, []string{"z", "y", "x"}, []float64{0})
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return fmt.Errorf("gridio: writing netCDF: invalid header: %v", errs[0])
	}

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("gridio: writing netCDF: %v", err)
	}
	if _, err = f.Writer(name, nil, nil).Write(g.Elements); err != nil {
		return fmt.Errorf("gridio: writing netCDF variable %s: %v", name, err)
	}
	return nil
}

// WriteToNetCDFFile writes a simulation grid to a netCDF file.
func WriteToNetCDFFile(fileName string, g *Grid, geom Geometry, name string) error {
	return createFile(fileName, func(f *os.File) error {
		if err := WriteNetCDF(f, g, geom, name); err != nil {
			return err
		}
		if err := cdf.UpdateNumRecs(f); err != nil {
			return fmt.Errorf("gridio: writing netCDF: %v", err)
		}
		return nil
	})
}

// ReadNetCDF reads variable name (DefaultVariable if empty) and the grid
// geometry from a netCDF file created by WriteNetCDF.
func ReadNetCDF(r cdf.ReaderWriterAt, name string) (*Grid, Geometry, error) {
	const format = "netCDF"
	if name == "" {
		name = DefaultVariable
	}
	f, err := cdf.Open(r)
	if err != nil {
		return nil, Geometry{}, headerErr(format, "%v", err)
	}
	if v, ok := f.Header.GetAttribute("", "data_version").(string); !ok || v != NetCDFDataVersion {
		return nil, Geometry{}, headerErr(format, "data version %q is incompatible with the required version %s",
			v, NetCDFDataVersion)
	}
	var geom Geometry
	for _, a := range []struct {
		name string
		v    *float64
	}{
		{"x0", &geom.X0}, {"y0", &geom.Y0}, {"z0", &geom.Z0},
		{"dx", &geom.DX}, {"dy", &geom.DY}, {"dz", &geom.DZ},
	} {
		vals, ok := f.Header.GetAttribute("", a.name).([]float64)
		if !ok || len(vals) != 1 {
			return nil, Geometry{}, headerErr(format, "missing or invalid attribute %s", a.name)
		}
		*a.v = vals[0]
	}
	if err := geom.Validate(); err != nil {
		return nil, Geometry{}, headerErr(format, "%v", err)
	}

	dims := f.Header.Lengths(name)
	if len(dims) != 3 {
		return nil, Geometry{}, headerErr(format, "variable %s has %d dimensions; 3 are required", name, len(dims))
	}
	g, err := newGridChecked(dims[2], dims[1], dims[0])
	if err != nil {
		return nil, Geometry{}, headerErr(format, "%v", err)
	}
	buf, ok := f.Header.ZeroValue(name, len(g.Elements)).([]float64)
	if !ok {
		return nil, Geometry{}, headerErr(format, "variable %s is not double precision", name)
	}
	n, err := f.Reader(name, nil, nil).Read(buf)
	if err != nil {
		return nil, Geometry{}, sizeErr(format, "read %d of %d values: %v", n, len(buf), err)
	}
	copy(g.Elements, buf)
	return g, geom, nil
}

// ReadNetCDFFile reads a grid and its geometry from a netCDF file.
func ReadNetCDFFile(fileName, name string) (*Grid, Geometry, error) {
	var (
		g    *Grid
		geom Geometry
	)
	err := openFile(fileName, func(f *os.File) error {
		var err error
		g, geom, err = ReadNetCDF(f, name)
		return err
	})
	if err != nil {
		return nil, Geometry{}, err
	}
	return g, geom, nil
}
