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

// Package hash computes content fingerprints of grids.
package hash

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// nan is the bit pattern every NaN is hashed as, so that missing cells
// hash the same whatever their payload.
var nan = math.Float64bits(math.NaN())

// Sum returns the hex encoded 128-bit FNV-1a hash of a grid's shape and
// values. Values are hashed by their IEEE 754 bits.
func Sum(shape []int, vals []float64) string {
	h := fnv.New128a()
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(len(shape)))
	h.Write(buf)
	for _, n := range shape {
		binary.LittleEndian.PutUint64(buf, uint64(n))
		h.Write(buf)
	}
	for _, v := range vals {
		bits := math.Float64bits(v)
		if math.IsNaN(v) {
			bits = nan
		}
		binary.LittleEndian.PutUint64(buf, bits)
		h.Write(buf)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
