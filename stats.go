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

	"github.com/GaryBoone/GoStats/stats"
	"github.com/spatialmodel/gridio/internal/hash"
)

// Summary holds descriptive statistics of the values in a grid.
// NaN cells are counted in Missing and otherwise ignored.
type Summary struct {
	NX, NY, NZ int
	Cells      int
	Missing    int
	Min, Max   float64
	Mean       float64
	StdDev     float64 // sample standard deviation
}

// Summarize computes descriptive statistics of the values in g.
// The statistics are NaN if every cell is NaN.
func Summarize(g *Grid) Summary {
	s := Summary{Cells: g.Len()}
	s.NX, s.NY, s.NZ = g.Dims()
	vals := make([]float64, 0, len(g.Elements))
	for _, v := range g.Elements {
		if math.IsNaN(v) {
			s.Missing++
			continue
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 0:
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	case 1:
		s.Min, s.Max, s.Mean = vals[0], vals[0], vals[0]
	default:
		s.Min = stats.StatsMin(vals)
		s.Max = stats.StatsMax(vals)
		s.Mean = stats.StatsMean(vals)
		s.StdDev = stats.StatsSampleStandardDeviation(vals)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%dx%dx%d grid, %d cells (%d missing): min=%g max=%g mean=%g sd=%g",
		s.NX, s.NY, s.NZ, s.Cells, s.Missing, s.Min, s.Max, s.Mean, s.StdDev)
}

// Fingerprint returns a hash of the dimensions and values of g.
// Grids with identical contents have identical fingerprints.
func (g *Grid) Fingerprint() string {
	return hash.Sum(g.Shape, g.Elements)
}
