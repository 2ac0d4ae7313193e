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
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// ShapeCell is one record of a shapefile written by WriteShapefile:
// the footprint of a grid cell in the x-y plane and the cell's value.
type ShapeCell struct {
	geom.Polygon
	Column, Row, Layer int
	Value              float64
}

// cellPolygon returns the footprint of cell (i, j) in world coordinates.
// Cell centers are at the grid coordinates, so the footprint extends half
// a cell in each direction.
func cellPolygon(i, j int, g Geometry) geom.Polygon {
	x, y, _ := g.Coord(i, j, 0)
	x0, x1 := x-g.DX/2, x+g.DX/2
	y0, y1 := y-g.DY/2, y+g.DY/2
	return geom.Polygon{{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
	}}
}

// WriteShapefile writes one polygon record per grid cell to the shapefile
// fileName. Cells are written layer by layer; cells whose value is NaN are
// left out.
func WriteShapefile(fileName string, g *Grid, gm Geometry) error {
	if err := gm.Validate(); err != nil {
		return err
	}
	e, err := shp.NewEncoder(fileName, ShapeCell{})
	if err != nil {
		return fmt.Errorf("gridio: creating shapefile: %v", err)
	}
	defer e.Close()
	nx, ny, nz := g.Dims()
	n := 0
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				v := g.At(i, j, k)
				if math.IsNaN(v) {
					continue
				}
				err := e.Encode(ShapeCell{
					Polygon: cellPolygon(i, j, gm),
					Column:  i,
					Row:     j,
					Layer:   k,
					Value:   v,
				})
				if err != nil {
					return fmt.Errorf("gridio: writing shapefile cell (%d, %d, %d): %v", i, j, k, err)
				}
				n++
			}
		}
	}
	Log.WithField("cells", n).Debug("wrote shapefile")
	return nil
}
