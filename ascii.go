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
	"fmt"
	"io"
	"os"
)

// WriteASCII writes a human-readable dump of g to w: the dimensions, the
// origin and the cell size on the first three lines, followed by one line
// of nx values for every row of cells, with z in the outer loop and y in
// the inner loop.
func WriteASCII(w io.Writer, g *Grid, geom Geometry) error {
	if err := geom.Validate(); err != nil {
		return err
	}
	nx, ny, nz := g.Dims()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", nx, ny, nz)
	fmt.Fprintf(bw, "%s %s %s\n", formatFloat(geom.X0), formatFloat(geom.Y0), formatFloat(geom.Z0))
	fmt.Fprintf(bw, "%s %s %s\n", formatFloat(geom.DX), formatFloat(geom.DY), formatFloat(geom.DZ))
	for row := 0; row < ny*nz; row++ {
		for i, v := range g.Elements[row*nx : (row+1)*nx] {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gridio: writing ASCII: %v", err)
	}
	return nil
}

// WriteToASCIIFile writes a simulation grid to an ASCII file.
func WriteToASCIIFile(fileName string, g *Grid, geom Geometry) error {
	return createFile(fileName, func(f *os.File) error { return WriteASCII(f, g, geom) })
}
