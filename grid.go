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

/*
Package gridio imports and exports the 3D grids used in multiple-point
geostatistics: training images that are read from GSLIB, GS3D CSV, GS3D GRD3
and EAS files, and simulation grids that are written back out to the same
formats, plus a plain ASCII dump and a console preview.

GRD3 files use a three-dimensional variant of the Surfer 7 tagged binary
grid defined by this package (see WriteGRD3). Tools that read Surfer grids
will not read them.
*/
package gridio

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Version gives the version number.
const Version = "1.0.0"

// Grid is a dense 3D array of cell values indexed [x][y][z].
// The values are held in the embedded DenseArray with shape [nz, ny, nx],
// so Elements are ordered with x varying fastest, then y, then z. This is
// the traversal order of every supported file format.
type Grid struct {
	*sparse.DenseArray
}

// NewGrid returns a zero-valued grid with the given dimensions.
func NewGrid(nx, ny, nz int) *Grid {
	return &Grid{DenseArray: sparse.ZerosDense(nz, ny, nx)}
}

// newGridChecked is NewGrid for dimensions that come from a file or
// from a caller, where non-positive sizes are an error instead of a panic.
func newGridChecked(nx, ny, nz int) (*Grid, error) {
	if err := checkDims(nx, ny, nz); err != nil {
		return nil, err
	}
	return NewGrid(nx, ny, nz), nil
}

// MaxCells is the largest number of cells in a grid read from a file.
const MaxCells = math.MaxInt32

func checkDims(nx, ny, nz int) error {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return fmt.Errorf("gridio: invalid grid dimensions %dx%dx%d", nx, ny, nz)
	}
	// Divide instead of multiplying so the check can't overflow.
	if nx > MaxCells || ny > MaxCells/nx || nz > MaxCells/(nx*ny) {
		return fmt.Errorf("gridio: %dx%dx%d grid has more than %d cells", nx, ny, nz, MaxCells)
	}
	return nil
}

// Dims returns the number of cells along each axis.
func (g *Grid) Dims() (nx, ny, nz int) {
	return g.Shape[2], g.Shape[1], g.Shape[0]
}

// Len returns the total number of cells.
func (g *Grid) Len() int { return len(g.Elements) }

func (g *Grid) index(x, y, z int) int {
	nx, ny, nz := g.Dims()
	if x < 0 || x >= nx || y < 0 || y >= ny || z < 0 || z >= nz {
		panic(fmt.Sprintf("gridio: index (%d, %d, %d) out of range for %dx%dx%d grid",
			x, y, z, nx, ny, nz))
	}
	return (z*ny+y)*nx + x
}

// At returns the value of cell (x, y, z).
func (g *Grid) At(x, y, z int) float64 {
	return g.Elements[g.index(x, y, z)]
}

// Set sets cell (x, y, z) to v. Unlike DenseArray.Set, zero values
// are stored too.
func (g *Grid) Set(v float64, x, y, z int) {
	g.Elements[g.index(x, y, z)] = v
}

// Fill sets every cell to v.
func (g *Grid) Fill(v float64) {
	for i := range g.Elements {
		g.Elements[i] = v
	}
}

// Copy returns a deep copy of g.
func (g *Grid) Copy() *Grid {
	nx, ny, nz := g.Dims()
	o := NewGrid(nx, ny, nz)
	copy(o.Elements, g.Elements)
	return o
}

// CategoricalGrid holds soft data: one probability or indicator value
// per category for each cell, indexed [x][y][z][k]. The embedded array
// has shape [nz, ny, nx, len(Categories)].
type CategoricalGrid struct {
	*sparse.DenseArray

	// Categories are the category codes, in the order of the last axis.
	Categories []float64
}

// NewCategoricalGrid returns a zero-valued categorical grid.
func NewCategoricalGrid(nx, ny, nz int, categories []float64) *CategoricalGrid {
	c := make([]float64, len(categories))
	copy(c, categories)
	return &CategoricalGrid{
		DenseArray: sparse.ZerosDense(nz, ny, nx, len(categories)),
		Categories: c,
	}
}

// Dims returns the number of cells along each spatial axis and the
// number of categories.
func (g *CategoricalGrid) Dims() (nx, ny, nz, nc int) {
	return g.Shape[2], g.Shape[1], g.Shape[0], g.Shape[3]
}

func (g *CategoricalGrid) index(x, y, z, k int) int {
	nx, ny, nz, nc := g.Dims()
	if x < 0 || x >= nx || y < 0 || y >= ny || z < 0 || z >= nz || k < 0 || k >= nc {
		panic(fmt.Sprintf("gridio: index (%d, %d, %d, %d) out of range for %dx%dx%dx%d grid",
			x, y, z, k, nx, ny, nz, nc))
	}
	return ((z*ny+y)*nx+x)*nc + k
}

// At returns the value of category index k at cell (x, y, z).
func (g *CategoricalGrid) At(x, y, z, k int) float64 {
	return g.Elements[g.index(x, y, z, k)]
}

// Set sets the value of category index k at cell (x, y, z).
func (g *CategoricalGrid) Set(v float64, x, y, z, k int) {
	g.Elements[g.index(x, y, z, k)] = v
}

// Fill sets every value to v.
func (g *CategoricalGrid) Fill(v float64) {
	for i := range g.Elements {
		g.Elements[i] = v
	}
}

// CategoryIndex returns the position of category c in g.Categories,
// or -1 if c is not one of the categories.
func (g *CategoricalGrid) CategoryIndex(c float64) int {
	for i, v := range g.Categories {
		if v == c {
			return i
		}
	}
	return -1
}

// Geometry georeferences a grid: the world coordinate of cell (0, 0, 0)
// and the cell size along each axis.
type Geometry struct {
	X0, Y0, Z0 float64
	DX, DY, DZ float64
}

// DefaultGeometry returns a geometry with its origin at zero and unit
// cell size.
func DefaultGeometry() Geometry {
	return Geometry{DX: 1, DY: 1, DZ: 1}
}

// Validate returns an error if any cell size is not a positive number.
func (g Geometry) Validate() error {
	for _, s := range []float64{g.DX, g.DY, g.DZ} {
		if !(s > 0) || math.IsInf(s, 0) {
			return fmt.Errorf("gridio: invalid cell size (%g, %g, %g)", g.DX, g.DY, g.DZ)
		}
	}
	return nil
}

// Coord returns the world coordinate of cell (i, j, k).
func (g Geometry) Coord(i, j, k int) (x, y, z float64) {
	return g.X0 + float64(i)*g.DX, g.Y0 + float64(j)*g.DY, g.Z0 + float64(k)*g.DZ
}

// Index returns the cell containing world coordinate (x, y, z), rounded
// to the nearest index. The result may be outside of any particular grid.
func (g Geometry) Index(x, y, z float64) (i, j, k int) {
	return int(math.Round((x - g.X0) / g.DX)),
		int(math.Round((y - g.Y0) / g.DY)),
		int(math.Round((z - g.Z0) / g.DZ))
}
