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
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
)

// easCoordColumns is the number of leading coordinate columns (X, Y, Z)
// in an EAS data file.
const easCoordColumns = 3

// easRows calls f for every data row of an EAS file after checking that
// the header declares ncols columns (or at least ncols if exact is false).
// f receives the grid index of the row's coordinate and the values that
// follow the coordinates; it is not called for rows that fall outside of
// an nx×ny×nz grid. The number of skipped rows is returned.
func easRows(r io.Reader, format string, ncols int, exact bool, nx, ny, nz int, geom Geometry,
	f func(i, j, k int, vals []float64)) (skipped int, err error) {

	if err := checkDims(nx, ny, nz); err != nil {
		return 0, err
	}
	if err := geom.Validate(); err != nil {
		return 0, err
	}
	s := newLineScanner(r)
	h, err := readEASHeader(s, format)
	if err != nil {
		return 0, err
	}
	if exact && len(h.Columns) != ncols || !exact && len(h.Columns) < ncols {
		return 0, headerErr(format, "the header declares %d columns but %d are needed", len(h.Columns), ncols)
	}

	buf := make([]float64, 0, len(h.Columns))
	for s.Scan() {
		vals, err := parseRow(s, format, len(h.Columns), buf)
		if err != nil {
			return 0, err
		}
		if vals == nil {
			continue
		}
		i, j, k := geom.Index(vals[0], vals[1], vals[2])
		if i < 0 || i >= nx || j < 0 || j >= ny || k < 0 || k >= nz {
			skipped++
			continue
		}
		f(i, j, k, vals[easCoordColumns:])
	}
	if err := s.Err(); err != nil {
		return 0, fmt.Errorf("gridio: reading %s: %v", format, err)
	}
	return skipped, nil
}

// ReadHardDataEAS reads hard data from an EAS file into a new nx×ny×nz
// grid located by geom. The first three columns hold the X, Y and Z world
// coordinates of each sample and the fourth its value. Samples are placed
// in the nearest cell; samples outside of the grid and samples whose value
// equals noDataValue are skipped. Cells without a sample are NaN.
func ReadHardDataEAS(r io.Reader, noDataValue float64, nx, ny, nz int, geom Geometry) (*Grid, error) {
	const format = "EAS"
	g, err := newGridChecked(nx, ny, nz)
	if err != nil {
		return nil, err
	}
	g.Fill(math.NaN())
	skipped, err := easRows(r, format, easCoordColumns+1, false, nx, ny, nz, geom,
		func(i, j, k int, vals []float64) {
			if vals[0] != noDataValue {
				g.Set(vals[0], i, j, k)
			}
		})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		Log.WithFields(logrus.Fields{"format": format, "rows": skipped}).
			Debug("skipped hard data outside of the grid")
	}
	return g, nil
}

// ReadSoftDataEAS reads soft data from an EAS file into a new categorical
// grid. After the three coordinate columns the file must have one column
// per category, in the same order as categories. Samples outside of the
// grid are skipped and cells without a sample are NaN.
func ReadSoftDataEAS(r io.Reader, categories []float64, nx, ny, nz int, geom Geometry) (*CategoricalGrid, error) {
	const format = "EAS"
	if len(categories) == 0 {
		return nil, fmt.Errorf("gridio: reading %s soft data: no categories", format)
	}
	if err := checkDims(nx, ny, nz); err != nil {
		return nil, err
	}
	g := NewCategoricalGrid(nx, ny, nz, categories)
	g.Fill(math.NaN())
	skipped, err := easRows(r, format, easCoordColumns+len(categories), true, nx, ny, nz, geom,
		func(i, j, k int, vals []float64) {
			for c, v := range vals {
				g.Set(v, i, j, k, c)
			}
		})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		Log.WithFields(logrus.Fields{"format": format, "rows": skipped}).
			Debug("skipped soft data outside of the grid")
	}
	return g, nil
}

// ReadHardDataFromEASFile reads hard data from an EAS file.
// See ReadHardDataEAS.
func ReadHardDataFromEASFile(fileName string, noDataValue float64, nx, ny, nz int, geom Geometry) (*Grid, error) {
	var g *Grid
	err := openFile(fileName, func(f *os.File) error {
		var err error
		g, err = ReadHardDataEAS(f, noDataValue, nx, ny, nz, geom)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ReadSoftDataFromEASFile reads soft data from an EAS file.
// See ReadSoftDataEAS.
func ReadSoftDataFromEASFile(fileName string, categories []float64, nx, ny, nz int, geom Geometry) (*CategoricalGrid, error) {
	var g *CategoricalGrid
	err := openFile(fileName, func(f *os.File) error {
		var err error
		g, err = ReadSoftDataEAS(f, categories, nx, ny, nz, geom)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}
