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

package gridioutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/gridio"
	"github.com/spf13/cast"
)

// These are the names of the supported file formats.
const (
	FormatGSLIB  = "gslib"
	FormatCSV    = "csv"
	FormatGRD3   = "grd3"
	FormatEAS    = "eas"
	FormatASCII  = "ascii"
	FormatNetCDF = "netcdf"
	FormatShp    = "shp"
)

// extFormats maps file extensions to format names.
var extFormats = map[string]string{
	".gslib": FormatGSLIB,
	".sgems": FormatGSLIB,
	".dat":   FormatGSLIB,
	".csv":   FormatCSV,
	".grd3":  FormatGRD3,
	".eas":   FormatEAS,
	".asc":   FormatASCII,
	".txt":   FormatASCII,
	".nc":    FormatNetCDF,
	".ncf":   FormatNetCDF,
	".shp":   FormatShp,
}

// readFormats and writeFormats list the formats that can be read and written.
var (
	readFormats  = []string{FormatGSLIB, FormatCSV, FormatGRD3, FormatEAS, FormatNetCDF}
	writeFormats = []string{FormatGSLIB, FormatCSV, FormatGRD3, FormatASCII, FormatNetCDF, FormatShp}
)

// checkFormat returns format if it is set, or the format implied by the
// extension of fileName otherwise. It returns an error if the resulting
// format is not one of allowed.
func checkFormat(format, fileName string, allowed []string) (string, error) {
	if format == "" {
		ext := strings.ToLower(filepath.Ext(fileName))
		var ok bool
		if format, ok = extFormats[ext]; !ok {
			return "", fmt.Errorf("gridio: can't determine the format of file '%s' from extension '%s'; "+
				"please specify the format explicitly", fileName, ext)
		}
	}
	format = strings.ToLower(format)
	for _, f := range allowed {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("gridio: format '%s' is not supported here; the options are %v", format, allowed)
}

// checkInputFile makes sure that the input file is specified, expanding
// any environment variables.
func checkInputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("gridio: InputFile must be specified")
	}
	return os.ExpandEnv(f), nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, expanding any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("gridio: OutputFile must be specified")
	}
	f = os.ExpandEnv(f)
	dir := filepath.Dir(f)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("gridio: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// GeometryConfig returns the grid geometry specified in cfg.
func GeometryConfig(cfg *viper.Viper) (gridio.Geometry, error) {
	g := gridio.Geometry{
		X0: cfg.GetFloat64("Geometry.X0"),
		Y0: cfg.GetFloat64("Geometry.Y0"),
		Z0: cfg.GetFloat64("Geometry.Z0"),
		DX: cfg.GetFloat64("Geometry.DX"),
		DY: cfg.GetFloat64("Geometry.DY"),
		DZ: cfg.GetFloat64("Geometry.DZ"),
	}
	if err := g.Validate(); err != nil {
		return gridio.Geometry{}, fmt.Errorf("gridio: invalid Geometry configuration: %v", err)
	}
	return g, nil
}

// sliceValue splits list options that were set as a single string,
// such as "[10,10,1]" or "0,1,2" from an environment variable.
func sliceValue(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// dimsConfig returns the grid dimensions specified in cfg.
func dimsConfig(cfg *viper.Viper) (nx, ny, nz int, err error) {
	dims, err := cast.ToIntSliceE(sliceValue(cfg.Get("Dims")))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("gridio: reading 'Dims': %v", err)
	}
	if len(dims) != 3 {
		return 0, 0, 0, fmt.Errorf("gridio: 'Dims' must have 3 values (nx, ny, nz) but has %d", len(dims))
	}
	for _, d := range dims {
		if d <= 0 {
			return 0, 0, 0, fmt.Errorf("gridio: 'Dims' must be positive but are %v", dims)
		}
	}
	return dims[0], dims[1], dims[2], nil
}

// categoriesConfig returns the soft data categories specified in cfg.
func categoriesConfig(cfg *viper.Viper) ([]float64, error) {
	s, err := cast.ToStringSliceE(sliceValue(cfg.Get("Categories")))
	if err != nil {
		return nil, fmt.Errorf("gridio: reading 'Categories': %v", err)
	}
	var cats []float64
	for _, c := range s {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		v, err := cast.ToFloat64E(c)
		if err != nil {
			return nil, fmt.Errorf("gridio: reading 'Categories': %v", err)
		}
		cats = append(cats, v)
	}
	return cats, nil
}

// valueTypeConfig returns the GRD3 value type specified in cfg.
func valueTypeConfig(cfg *viper.Viper) (gridio.ValueType, error) {
	name := strings.ToLower(cfg.GetString("ValueType"))
	for _, t := range []gridio.ValueType{gridio.Float32, gridio.Float64, gridio.Uint8, gridio.Int16} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("gridio: invalid ValueType '%s'; the options are float32, float64, uint8 and int16", name)
}

// ReadGrid reads the grid specified by the InputFile and InputFormat
// configuration options. Formats that don't store the grid geometry
// (GSLIB and EAS) take it from the Geometry options, and EAS files take
// the grid dimensions from the Dims option.
func ReadGrid(cfg *viper.Viper) (*gridio.Grid, gridio.Geometry, error) {
	fileName, err := checkInputFile(cfg.GetString("InputFile"))
	if err != nil {
		return nil, gridio.Geometry{}, err
	}
	format, err := checkFormat(cfg.GetString("InputFormat"), fileName, readFormats)
	if err != nil {
		return nil, gridio.Geometry{}, err
	}
	var (
		g    *gridio.Grid
		geom gridio.Geometry
	)
	switch format {
	case FormatGSLIB:
		if geom, err = GeometryConfig(cfg); err != nil {
			return nil, gridio.Geometry{}, err
		}
		g, err = gridio.ReadTIFromGSLIBFile(fileName, cfg.GetInt("Channel"), cfg.GetFloat64("MeanFactor"))
	case FormatCSV:
		g, geom, err = gridio.ReadTIFromGS3DCSVFile(fileName)
	case FormatGRD3:
		g, geom, err = gridio.ReadTIFromGS3DGRD3File(fileName)
	case FormatNetCDF:
		g, geom, err = gridio.ReadNetCDFFile(fileName, cfg.GetString("Variable"))
	case FormatEAS:
		if geom, err = GeometryConfig(cfg); err != nil {
			return nil, gridio.Geometry{}, err
		}
		nx, ny, nz, err2 := dimsConfig(cfg)
		if err2 != nil {
			return nil, gridio.Geometry{}, err2
		}
		g, err = gridio.ReadHardDataFromEASFile(fileName, cfg.GetFloat64("NoDataValue"), nx, ny, nz, geom)
	}
	if err != nil {
		return nil, gridio.Geometry{}, err
	}
	return g, geom, nil
}

// ReadSoftData reads the soft data in the EAS file specified by the
// InputFile option, with one column per category in the Categories option.
func ReadSoftData(cfg *viper.Viper) (*gridio.CategoricalGrid, error) {
	fileName, err := checkInputFile(cfg.GetString("InputFile"))
	if err != nil {
		return nil, err
	}
	if _, err = checkFormat(cfg.GetString("InputFormat"), fileName, []string{FormatEAS}); err != nil {
		return nil, err
	}
	cats, err := categoriesConfig(cfg)
	if err != nil {
		return nil, err
	}
	geom, err := GeometryConfig(cfg)
	if err != nil {
		return nil, err
	}
	nx, ny, nz, err := dimsConfig(cfg)
	if err != nil {
		return nil, err
	}
	return gridio.ReadSoftDataFromEASFile(fileName, cats, nx, ny, nz, geom)
}

// WriteGrid writes g to the file specified by the OutputFile and
// OutputFormat configuration options.
func WriteGrid(cfg *viper.Viper, g *gridio.Grid, geom gridio.Geometry) error {
	fileName, err := checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return err
	}
	format, err := checkFormat(cfg.GetString("OutputFormat"), fileName, writeFormats)
	if err != nil {
		return err
	}
	switch format {
	case FormatGSLIB:
		err = gridio.WriteToGSLIBFile(fileName, g)
	case FormatCSV:
		err = gridio.WriteToGS3DCSVFile(fileName, g, geom)
	case FormatGRD3:
		var vt gridio.ValueType
		if vt, err = valueTypeConfig(cfg); err == nil {
			err = gridio.WriteToGRD3File(fileName, g, geom, vt)
		}
	case FormatASCII:
		err = gridio.WriteToASCIIFile(fileName, g, geom)
	case FormatNetCDF:
		err = gridio.WriteToNetCDFFile(fileName, g, geom, cfg.GetString("Variable"))
	case FormatShp:
		err = gridio.WriteShapefile(fileName, g, geom)
	}
	return err
}
