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
	"errors"
	"os"
	"testing"

	"github.com/kr/pretty"
)

func TestNetCDFRoundTrip(t *testing.T) {
	fileName := tempFile(t, "netcdf_test.nc")
	g := testGrid()
	if err := WriteToNetCDFFile(fileName, g, testGeometry, ""); err != nil {
		t.Fatal(err)
	}
	g2, geom, err := ReadNetCDFFile(fileName, DefaultVariable)
	if err != nil {
		t.Fatal(err)
	}
	sameGrid(t, g2, g)
	if diff := pretty.Diff(geom, testGeometry); len(diff) > 0 {
		t.Errorf("geometry: %v", diff)
	}
}

func TestNetCDFVariable(t *testing.T) {
	f, err := os.Create(tempFile(t, "netcdf_var.nc"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g := NewGrid(2, 3, 1)
	g.Fill(4.5)
	if err := WriteNetCDF(f, g, DefaultGeometry(), "facies"); err != nil {
		t.Fatal(err)
	}
	g2, _, err := ReadNetCDF(f, "facies")
	if err != nil {
		t.Fatal(err)
	}
	sameGrid(t, g2, g)

	if _, _, err := ReadNetCDF(f, "value"); !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("missing variable: have error %v", err)
	}
}

func TestReadNetCDFNotNetCDF(t *testing.T) {
	fileName := tempFile(t, "not_netcdf.nc")
	if err := WriteToGSLIBFile(fileName, testGrid()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadNetCDFFile(fileName, ""); !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("have error %v", err)
	}
}
