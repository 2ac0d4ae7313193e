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
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// gs3dHeader is the first row of a GS3D CSV file.
var gs3dHeader = []string{"X", "Y", "Z", "Value"}

// WriteGS3DCSV writes g to w in GS3D CSV format: a header row and then
// one row per cell holding the cell's world coordinate and its value.
// Cells are written with z in the outer loop, then y, then x.
func WriteGS3DCSV(w io.Writer, g *Grid, geom Geometry) error {
	if err := geom.Validate(); err != nil {
		return err
	}
	nx, ny, nz := g.Dims()
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(gs3dHeader, ","))
	bw.WriteByte('\n')
	i := 0
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for ii := 0; ii < nx; ii++ {
				x, y, z := geom.Coord(ii, j, k)
				fmt.Fprintf(bw, "%s,%s,%s,%s\n", formatFloat(x), formatFloat(y),
					formatFloat(z), formatFloat(g.Elements[i]))
				i++
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gridio: writing GS3D CSV: %v", err)
	}
	return nil
}

// WriteToGS3DCSVFile writes a simulation grid to a GS3D CSV file.
func WriteToGS3DCSVFile(fileName string, g *Grid, geom Geometry) error {
	return createFile(fileName, func(f *os.File) error { return WriteGS3DCSV(f, g, geom) })
}

// csvPoint is one data row of a GS3D CSV file.
type csvPoint struct {
	x, y, z, v float64
}

// ReadGS3DCSV reads a GS3D CSV file from r. The X, Y, Z and Value columns
// are found by name. The grid origin is the smallest coordinate along
// each axis and the cell size is the smallest spacing between distinct
// coordinates. Cells that have no row in the file are set to NaN.
func ReadGS3DCSV(r io.Reader) (*Grid, Geometry, error) {
	const format = "GS3D CSV"
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, Geometry{}, headerErr(format, "empty file")
	} else if err != nil {
		return nil, Geometry{}, csvErr(format, err)
	}
	ix, iy, iz, iv, err := gs3dColumns(header)
	if err != nil {
		return nil, Geometry{}, err
	}

	var points []csvPoint
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, Geometry{}, csvErr(format, err)
		}
		line, _ := cr.FieldPos(0)
		var vals [4]float64
		for i, col := range [4]int{ix, iy, iz, iv} {
			vals[i], err = strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, Geometry{}, rowErr(format, line, "%v", err)
			}
			if i < 3 && (math.IsNaN(vals[i]) || math.IsInf(vals[i], 0)) {
				return nil, Geometry{}, rowErr(format, line, "%s coordinate %g is not finite", gs3dHeader[i], vals[i])
			}
		}
		points = append(points, csvPoint{x: vals[0], y: vals[1], z: vals[2], v: vals[3]})
	}
	if len(points) == 0 {
		return nil, Geometry{}, sizeErr(format, "no data rows")
	}

	var geom Geometry
	var dims [3]int
	for axis := 0; axis < 3; axis++ {
		coords := make([]float64, len(points))
		for i, p := range points {
			coords[i] = [3]float64{p.x, p.y, p.z}[axis]
		}
		origin, step, n, err := axisExtent(coords)
		if err != nil {
			return nil, Geometry{}, sizeErr(format, "%s axis: %v", gs3dHeader[axis], err)
		}
		dims[axis] = n
		switch axis {
		case 0:
			geom.X0, geom.DX = origin, step
		case 1:
			geom.Y0, geom.DY = origin, step
		case 2:
			geom.Z0, geom.DZ = origin, step
		}
	}

	g, err := newGridChecked(dims[0], dims[1], dims[2])
	if err != nil {
		return nil, Geometry{}, sizeErr(format, "%v", err)
	}
	g.Fill(math.NaN())
	for _, p := range points {
		i, j, k := geom.Index(p.x, p.y, p.z)
		g.Set(p.v, i, j, k)
	}
	return g, geom, nil
}

// axisExtent returns the smallest coordinate, the smallest positive
// spacing between coordinates (1 if all coordinates are equal), and the
// number of cells needed to span the coordinates. The coordinates must
// be finite.
func axisExtent(coords []float64) (origin, step float64, n int, err error) {
	sort.Float64s(coords)
	origin = coords[0]
	last := coords[len(coords)-1]
	if last == origin {
		return origin, 1, 1, nil
	}
	step = math.Inf(1)
	for i := 1; i < len(coords); i++ {
		if d := coords[i] - coords[i-1]; d > 0 && d < step {
			step = d
		}
	}
	// NaN when the spacing itself overflows.
	span := math.Round((last - origin) / step)
	if !(span < MaxCells) {
		return 0, 0, 0, fmt.Errorf("coordinates from %g to %g with spacing %g need more than %d cells",
			origin, last, step, MaxCells)
	}
	return origin, step, int(span) + 1, nil
}

// gs3dColumns finds the coordinate and value columns in a GS3D CSV header.
// If there is no column named "value", the first column that is not a
// coordinate is used.
func gs3dColumns(header []string) (ix, iy, iz, iv int, err error) {
	ix, iy, iz, iv = -1, -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x":
			ix = i
		case "y":
			iy = i
		case "z":
			iz = i
		case "value":
			iv = i
		}
	}
	if ix < 0 || iy < 0 || iz < 0 {
		return 0, 0, 0, 0, headerErr("GS3D CSV", "missing X, Y or Z column in %q", strings.Join(header, ","))
	}
	if iv < 0 {
		for i := range header {
			if i != ix && i != iy && i != iz {
				iv = i
				break
			}
		}
	}
	if iv < 0 {
		return 0, 0, 0, 0, headerErr("GS3D CSV", "no value column in %q", strings.Join(header, ","))
	}
	return ix, iy, iz, iv, nil
}

// csvErr converts an error from encoding/csv into a row error.
func csvErr(format string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return rowErr(format, perr.Line, "%v", perr.Err)
	}
	return fmt.Errorf("gridio: reading %s: %v", format, err)
}

// ReadTIFromGS3DCSVFile reads a training image and its geometry from a
// GS3D CSV file.
func ReadTIFromGS3DCSVFile(fileName string) (*Grid, Geometry, error) {
	var (
		g    *Grid
		geom Geometry
	)
	err := openFile(fileName, func(f *os.File) error {
		var err error
		g, geom, err = ReadGS3DCSV(f)
		return err
	})
	if err != nil {
		return nil, Geometry{}, err
	}
	return g, geom, nil
}
