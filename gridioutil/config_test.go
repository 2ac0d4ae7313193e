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
	"reflect"
	"testing"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/gridio"
)

func TestCheckFormat(t *testing.T) {
	for _, test := range []struct {
		format, file string
		want         string
		ok           bool
	}{
		{"", "ti.gslib", FormatGSLIB, true},
		{"", "ti.SGEMS", FormatGSLIB, true},
		{"", "dir/ti.grd3", FormatGRD3, true},
		{"", "hard.eas", FormatEAS, true},
		{"", "out.nc", FormatNetCDF, true},
		{"CSV", "ti.dat", FormatCSV, true},
		{"", "ti.xyz", "", false},
		{"", "out.shp", "", false}, // write only
		{"ascii", "out.txt", "", false},
	} {
		have, err := checkFormat(test.format, test.file, readFormats)
		if test.ok && (err != nil || have != test.want) {
			t.Errorf("%s %s: have %q, %v; want %q", test.format, test.file, have, err, test.want)
		} else if !test.ok && err == nil {
			t.Errorf("%s %s: expected an error", test.format, test.file)
		}
	}
	if f, err := checkFormat("", "out.shp", writeFormats); err != nil || f != FormatShp {
		t.Errorf("shapefile output: %q, %v", f, err)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Dims", []int{4, 5, 6})
	cfg.Set("Categories", "[0, 1.5,3]")
	cfg.Set("ValueType", "Int16")
	cfg.Set("Geometry.DX", 2.0)
	cfg.Set("Geometry.DY", 2.0)
	cfg.Set("Geometry.DZ", 1.0)
	cfg.Set("Geometry.X0", -1.0)

	nx, ny, nz, err := dimsConfig(cfg)
	if err != nil || nx != 4 || ny != 5 || nz != 6 {
		t.Errorf("dims: %d, %d, %d, %v", nx, ny, nz, err)
	}
	cats, err := categoriesConfig(cfg)
	if err != nil || !reflect.DeepEqual(cats, []float64{0, 1.5, 3}) {
		t.Errorf("categories: %v, %v", cats, err)
	}
	vt, err := valueTypeConfig(cfg)
	if err != nil || vt != gridio.Int16 {
		t.Errorf("value type: %v, %v", vt, err)
	}
	geom, err := GeometryConfig(cfg)
	if err != nil || geom != (gridio.Geometry{X0: -1, DX: 2, DY: 2, DZ: 1}) {
		t.Errorf("geometry: %+v, %v", geom, err)
	}

	cfg.Set("Dims", "10,10")
	if _, _, _, err := dimsConfig(cfg); err == nil {
		t.Error("two dims: expected an error")
	}
	cfg.Set("ValueType", "complex128")
	if _, err := valueTypeConfig(cfg); err == nil {
		t.Error("bad value type: expected an error")
	}
	cfg.Set("Geometry.DZ", 0.0)
	if _, err := GeometryConfig(cfg); err == nil {
		t.Error("zero cell size: expected an error")
	}
}
