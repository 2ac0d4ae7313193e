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
	"os"
	"strings"
	"testing"
)

func TestGSLIBRoundTrip(t *testing.T) {
	g := testGrid()
	var b bytes.Buffer
	if err := WriteGSLIB(&b, g); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "3 2 2\n1\nv\n0\n1\n2\n10\n") {
		t.Errorf("unexpected output:\n%s", b.String())
	}
	g2, err := ReadGSLIB(&b, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	sameGrid(t, g2, g)
}

func TestReadGSLIB(t *testing.T) {
	const file = `2 1 1 training image
3
facies
porosity
perm
1 2 3
4 5 9
`
	t.Run("mean", func(t *testing.T) {
		g, err := ReadGSLIB(strings.NewReader(file), AllChannels, 1)
		if err != nil {
			t.Fatal(err)
		}
		if v := g.At(0, 0, 0); different(v, 2, 1e-10) {
			t.Errorf("cell 0: have %g, want 2", v)
		}
		if v := g.At(1, 0, 0); different(v, 6, 1e-10) {
			t.Errorf("cell 1: have %g, want 6", v)
		}
	})
	t.Run("channel", func(t *testing.T) {
		g, err := ReadGSLIB(strings.NewReader(file), 2, 1)
		if err != nil {
			t.Fatal(err)
		}
		if g.At(0, 0, 0) != 3 || g.At(1, 0, 0) != 9 {
			t.Errorf("have %v, want [3 9]", g.Elements)
		}
	})
	t.Run("meanFactor", func(t *testing.T) {
		g, err := ReadGSLIB(strings.NewReader(file), 2, 3)
		if err != nil {
			t.Fatal(err)
		}
		if different(g.At(0, 0, 0), 1, 1e-10) || different(g.At(1, 0, 0), 3, 1e-10) {
			t.Errorf("have %v, want [1 3]", g.Elements)
		}
	})
	t.Run("blank lines", func(t *testing.T) {
		g, err := ReadGSLIB(strings.NewReader("2 1 1\n1\nv\n\n10\n\n20\n\n"), 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		if g.At(0, 0, 0) != 10 || g.At(1, 0, 0) != 20 {
			t.Errorf("have %v, want [10 20]", g.Elements)
		}
	})
}

func TestReadGSLIBMeanFactor(t *testing.T) {
	g, err := ReadGSLIB(strings.NewReader("1 1 1\n1\nv\n10\n"), 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v := g.At(0, 0, 0); v != 5 {
		t.Errorf("have %g, want 5", v)
	}
}

func TestReadGSLIBErrors(t *testing.T) {
	for _, test := range []struct {
		name       string
		file       string
		channel    int
		meanFactor float64
		want       error
	}{
		{"empty", "", 0, 1, ErrMalformedHeader},
		{"no dims", "training image\n1\nv\n1\n", 0, 1, ErrMalformedHeader},
		{"bad dims", "2 x 1\n1\nv\n1\n2\n", 0, 1, ErrMalformedHeader},
		{"zero dims", "2 0 1\n1\nv\n", 0, 1, ErrMalformedHeader},
		{"too many cells", "4000000000 4000000000 4000000000\n1\nv\n1\n", 0, 1, ErrMalformedHeader},
		{"product overflows", "2097152 2097152 4194304\n1\nv\n1\n", 0, 1, ErrMalformedHeader},
		{"bad column count", "1 1 1\nabc\nv\n1\n", 0, 1, ErrMalformedHeader},
		{"missing names", "1 1 1\n3\nv\n", 0, 1, ErrMalformedHeader},
		{"channel out of range", "1 1 1\n1\nv\n1\n", 1, 1, ErrMalformedHeader},
		{"too few fields", "1 1 1\n2\na\nb\n1\n", 0, 1, ErrMalformedRow},
		{"bad value", "1 1 1\n1\nv\nabc\n", 0, 1, ErrMalformedRow},
		{"too few rows", "2 1 1\n1\nv\n1\n", 0, 1, ErrSizeMismatch},
		{"too many rows", "1 1 1\n1\nv\n1\n2\n", 0, 1, ErrSizeMismatch},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadGSLIB(strings.NewReader(test.file), test.channel, test.meanFactor)
			if !errors.Is(err, test.want) {
				t.Errorf("have error %v, want %v", err, test.want)
			}
		})
	}
	if _, err := ReadGSLIB(strings.NewReader("1 1 1\n1\nv\n1\n"), 0, 0); err == nil {
		t.Error("zero mean factor: expected an error")
	}
}

func TestReadGSLIBRowNumber(t *testing.T) {
	_, err := ReadGSLIB(strings.NewReader("2 1 1\n1\nv\n1\nx\n"), 0, 1)
	if err == nil || !strings.Contains(err.Error(), "line 5") {
		t.Errorf("error should name line 5: %v", err)
	}
}

func TestWriteGSLIBIndices(t *testing.T) {
	var b bytes.Buffer
	if err := WriteGSLIBIndices(&b, []int{3, 1, 4, 1}, 2, 2, 1); err != nil {
		t.Fatal(err)
	}
	const want = "2 2 1\n1\nindex\n3\n1\n4\n1\n"
	if b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
	if err := WriteGSLIBIndices(&b, []int{1, 2}, 2, 2, 1); err == nil {
		t.Error("wrong index count: expected an error")
	}
}

func TestGSLIBFile(t *testing.T) {
	fileName := tempFile(t, "gslib_test.gslib")
	g := testGrid()
	if err := WriteToGSLIBFile(fileName, g); err != nil {
		t.Fatal(err)
	}
	g2, err := ReadTIFromGSLIBFile(fileName, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	sameGrid(t, g2, g)

	if err := WriteIndicesToGSLIBFile(fileName, []int{0, 1}, 1, 2, 1); err != nil {
		t.Fatal(err)
	}
	g3, err := ReadTIFromGSLIBFile(fileName, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if g3.At(0, 1, 0) != 1 {
		t.Errorf("have %v", g3.Elements)
	}

	if _, err := ReadTIFromGSLIBFile("does_not_exist.gslib", 0, 1); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: have error %v", err)
	}
}
