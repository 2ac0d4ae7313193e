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
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

func TestWriteShapefile(t *testing.T) {
	fileName := tempFile(t, "shapefile_test.shp")
	g := NewGrid(2, 1, 2)
	copy(g.Elements, []float64{1.5, math.NaN(), 3, 4})
	gm := Geometry{X0: 10, Y0: 20, Z0: 0, DX: 2, DY: 4, DZ: 1}
	if err := WriteShapefile(fileName, g, gm); err != nil {
		t.Fatal(err)
	}

	d, err := shp.NewDecoder(fileName)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	var cells []ShapeCell
	for {
		var c ShapeCell
		if more := d.DecodeRow(&c); !more {
			break
		}
		cells = append(cells, c)
	}
	if err := d.Error(); err != nil {
		t.Fatal(err)
	}
	if len(cells) != 3 {
		t.Fatalf("have %d cells, want 3", len(cells))
	}
	want := []struct {
		col, row, layer int
		value           float64
	}{
		{0, 0, 0, 1.5},
		{0, 0, 1, 3},
		{1, 0, 1, 4},
	}
	for i, c := range cells {
		w := want[i]
		if c.Column != w.col || c.Row != w.row || c.Layer != w.layer || different(c.Value, w.value, 1e-8) {
			t.Errorf("cell %d: have (%d, %d, %d) %g, want %+v", i, c.Column, c.Row, c.Layer, c.Value, w)
		}
	}
	b := cells[2].Polygon.Bounds()
	wantBounds := &geom.Bounds{Min: geom.Point{X: 11, Y: 18}, Max: geom.Point{X: 13, Y: 22}}
	if *b != *wantBounds {
		t.Errorf("bounds: have %+v, want %+v", b, wantBounds)
	}
}
