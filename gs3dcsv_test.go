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
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func TestGS3DCSVRoundTrip(t *testing.T) {
	g := testGrid()
	g.Set(7, 1, 1, 1) // every cell needs a finite value for the geometry to round trip.
	var b bytes.Buffer
	if err := WriteGS3DCSV(&b, g, testGeometry); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(b.String(), "\n")
	if lines[0] != "X,Y,Z,Value" {
		t.Errorf("header: have %q", lines[0])
	}
	if lines[2] != "110,200,-5,1" {
		t.Errorf("second row: have %q, want %q", lines[2], "110,200,-5,1")
	}
	g2, geom, err := ReadGS3DCSV(&b)
	if err != nil {
		t.Fatal(err)
	}
	sameGrid(t, g2, g)
	if diff := pretty.Diff(geom, testGeometry); len(diff) > 0 {
		t.Errorf("geometry: %v", diff)
	}
}

func TestReadGS3DCSV(t *testing.T) {
	t.Run("column order", func(t *testing.T) {
		const file = "value,z,y,x\n5,0,0,0\n6,0,0,2\n"
		g, geom, err := ReadGS3DCSV(strings.NewReader(file))
		if err != nil {
			t.Fatal(err)
		}
		nx, ny, nz := g.Dims()
		if nx != 2 || ny != 1 || nz != 1 {
			t.Fatalf("dims: %dx%dx%d", nx, ny, nz)
		}
		if geom.DX != 2 || geom.DY != 1 || geom.DZ != 1 {
			t.Errorf("cell size: %+v", geom)
		}
		if g.At(0, 0, 0) != 5 || g.At(1, 0, 0) != 6 {
			t.Errorf("values: %v", g.Elements)
		}
	})
	t.Run("missing cells", func(t *testing.T) {
		const file = "X,Y,Z,Facies\n0,0,0,1\n2,0,0,0\n"
		g, _, err := ReadGS3DCSV(strings.NewReader(file))
		if err != nil {
			t.Fatal(err)
		}
		if g.Len() != 2 {
			t.Fatalf("len: %d", g.Len())
		}
		// The facies column is used since there is no value column.
		if g.At(0, 0, 0) != 1 || g.At(1, 0, 0) != 0 {
			t.Errorf("values: %v", g.Elements)
		}

		g, _, err = ReadGS3DCSV(strings.NewReader("X,Y,Z,Value\n0,0,0,1\n1,0,0,1\n3,0,0,1\n"))
		if err != nil {
			t.Fatal(err)
		}
		if g.Len() != 4 || !math.IsNaN(g.At(2, 0, 0)) {
			t.Errorf("cell 2 should be NaN: %v", g.Elements)
		}
	})
	t.Run("whitespace", func(t *testing.T) {
		g, _, err := ReadGS3DCSV(strings.NewReader("X, Y, Z, Value\n0, 0, 0, 1.5 \n"))
		if err != nil {
			t.Fatal(err)
		}
		if g.At(0, 0, 0) != 1.5 {
			t.Errorf("value: %v", g.Elements)
		}
	})
}

func TestReadGS3DCSVErrors(t *testing.T) {
	for _, test := range []struct {
		name, file string
		want       error
	}{
		{"empty", "", ErrMalformedHeader},
		{"missing coordinate", "X,Y,Value\n0,0,1\n", ErrMalformedHeader},
		{"no value", "X,Y,Z\n0,0,0\n", ErrMalformedHeader},
		{"bad number", "X,Y,Z,Value\n0,0,0,abc\n", ErrMalformedRow},
		{"wrong field count", "X,Y,Z,Value\n0,0,0\n", ErrMalformedRow},
		{"no rows", "X,Y,Z,Value\n", ErrSizeMismatch},
		{"NaN coordinate", "X,Y,Z,Value\n0,0,0,1\nNaN,0,0,2\n", ErrMalformedRow},
		{"infinite coordinate", "X,Y,Z,Value\n0,0,0,1\n0,0,-Inf,2\n", ErrMalformedRow},
		{"tiny spacing", "X,Y,Z,Value\n0,0,0,1\n1e-300,0,0,2\n1,0,0,3\n", ErrSizeMismatch},
		{"huge extent", "X,Y,Z,Value\n-1e308,0,0,1\n1e308,0,0,2\n", ErrSizeMismatch},
		{"too many cells", "X,Y,Z,Value\n0,0,0,1\n1,1,1,2\n100000,100000,100000,3\n", ErrSizeMismatch},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := ReadGS3DCSV(strings.NewReader(test.file))
			if !errors.Is(err, test.want) {
				t.Errorf("have error %v, want %v", err, test.want)
			}
		})
	}
}

func TestReadGS3DCSVMissingValue(t *testing.T) {
	g, _, err := ReadGS3DCSV(strings.NewReader("X,Y,Z,Value\n0,0,0,NaN\n1,0,0,2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v := g.At(0, 0, 0); !math.IsNaN(v) {
		t.Errorf("have %g, want NaN", v)
	}
	if v := g.At(1, 0, 0); v != 2 {
		t.Errorf("have %g, want 2", v)
	}
}

func TestGS3DCSVFile(t *testing.T) {
	fileName := tempFile(t, "gs3d_test.csv")
	g := NewGrid(2, 2, 1)
	g.Fill(3)
	if err := WriteToGS3DCSVFile(fileName, g, DefaultGeometry()); err != nil {
		t.Fatal(err)
	}
	g2, geom, err := ReadTIFromGS3DCSVFile(fileName)
	if err != nil {
		t.Fatal(err)
	}
	sameGrid(t, g2, g)
	if geom != DefaultGeometry() {
		t.Errorf("geometry: %+v", geom)
	}
}
