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
	"math"
)

// onscreenChars are the tokens used to show grid values on the screen.
// Callers index into the table by value, so its order must not change.
var onscreenChars = [...]string{" ", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"a", "A", "b", "B", "c", "C", "d", "D", "e", "E", "f", "F", "g", "G", "h", "H",
	"i", "I", "j", "J", "k", "K", "l", "L", "m", "M", "n", "N", "p", "P", "q", "Q",
	"r", "R", "s", "S", "t", "T", "u", "U", "v", "v", "w", "W", ",", ";", ".", ":",
	"-", "_", "+", "/", "*", "<", ">", "!", "#", "¤", "%", "&", "(", ")", "=", "?"}

// OnscreenChars returns a copy of the glyph table.
func OnscreenChars() []string {
	o := make([]string, len(onscreenChars))
	copy(o, onscreenChars[:])
	return o
}

// NumGlyphs is the number of entries in the glyph table.
const NumGlyphs = len(onscreenChars)

// Glyph returns entry i of the glyph table. Indices past either end of
// the table are clamped to it.
func Glyph(i int) string {
	if i < 0 {
		i = 0
	} else if i >= NumGlyphs {
		i = NumGlyphs - 1
	}
	return onscreenChars[i]
}

// GlyphFor returns the glyph that represents value v: a space for NaN,
// and otherwise the entry one past the integer part of v so that
// category 0 is shown as "0".
func GlyphFor(v float64) string {
	if math.IsNaN(v) {
		return onscreenChars[0]
	}
	return Glyph(int(math.Floor(v)) + 1)
}

// DrawSlice prints layer z of g to w, one line per y row from the top
// (largest y) down, one glyph per cell.
func DrawSlice(w io.Writer, g *Grid, z int) error {
	nx, ny, nz := g.Dims()
	if z < 0 || z >= nz {
		return fmt.Errorf("gridio: layer %d out of range [0, %d)", z, nz)
	}
	bw := bufio.NewWriter(w)
	for y := ny - 1; y >= 0; y-- {
		for x := 0; x < nx; x++ {
			bw.WriteString(GlyphFor(g.At(x, y, z)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// DrawGrid prints every layer of g to w, separated by a line naming the
// layer.
func DrawGrid(w io.Writer, g *Grid) error {
	_, _, nz := g.Dims()
	for z := 0; z < nz; z++ {
		if _, err := fmt.Fprintf(w, "layer %d\n", z); err != nil {
			return err
		}
		if err := DrawSlice(w, g, z); err != nil {
			return err
		}
	}
	return nil
}
