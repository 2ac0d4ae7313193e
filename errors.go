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
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// These errors classify reading failures. Errors returned by the readers
// wrap one of them (or an *os.PathError when the file can't be opened)
// and can be checked with errors.Is.
var (
	// ErrMalformedHeader means the file header has the wrong number of
	// tokens or fields that can't be parsed.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedRow means a data row has the wrong number of fields or
	// a value that can't be parsed.
	ErrMalformedRow = errors.New("malformed data row")

	// ErrSizeMismatch means the amount of data disagrees with the
	// dimensions declared in the header.
	ErrSizeMismatch = errors.New("size mismatch")
)

// Log receives diagnostic messages from the readers and writers.
var Log logrus.FieldLogger = logrus.StandardLogger()

func headerErr(format, detail string, args ...interface{}) error {
	return fmt.Errorf("gridio: reading %s: %w: %s", format, ErrMalformedHeader, fmt.Sprintf(detail, args...))
}

func rowErr(format string, line int, detail string, args ...interface{}) error {
	return fmt.Errorf("gridio: reading %s: %w at line %d: %s", format, ErrMalformedRow, line, fmt.Sprintf(detail, args...))
}

func sizeErr(format, detail string, args ...interface{}) error {
	return fmt.Errorf("gridio: reading %s: %w: %s", format, ErrSizeMismatch, fmt.Sprintf(detail, args...))
}

// createFile creates path and calls write on it, making sure the file
// is closed and the close error is reported.
func createFile(path string, write func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gridio: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("gridio: closing %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// openFile opens path and calls read on it.
func openFile(path string, read func(f *os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("gridio: %w", err)
	}
	defer f.Close()
	return read(f)
}
