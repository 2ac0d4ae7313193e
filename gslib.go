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
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// AllChannels can be given as the channel index to ReadGSLIB to use the
// mean of all channels as the cell value.
const AllChannels = -1

// maxLineLength is the longest line the text readers accept.
const maxLineLength = 16 << 20

// lineScanner reads a text file line by line, keeping track of the
// line number for error messages.
type lineScanner struct {
	*bufio.Scanner
	line int
}

func newLineScanner(r io.Reader) *lineScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineLength)
	return &lineScanner{Scanner: s}
}

func (s *lineScanner) Scan() bool {
	ok := s.Scanner.Scan()
	if ok {
		s.line++
	}
	return ok
}

// easHeader is the header shared by the GSLIB and EAS text formats:
// a title line, the number of columns, and one name per column.
type easHeader struct {
	Title   string
	Columns []string
}

func readEASHeader(s *lineScanner, format string) (*easHeader, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("gridio: reading %s: %v", format, err)
		}
		return nil, headerErr(format, "empty file")
	}
	h := &easHeader{Title: strings.TrimSpace(s.Text())}
	if !s.Scan() {
		return nil, headerErr(format, "missing column count")
	}
	fields := strings.Fields(s.Text())
	if len(fields) == 0 {
		return nil, headerErr(format, "missing column count")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return nil, headerErr(format, "invalid column count %q", fields[0])
	}
	for i := 0; i < n; i++ {
		if !s.Scan() {
			return nil, headerErr(format, "expected %d column names but found %d", n, i)
		}
		h.Columns = append(h.Columns, strings.TrimSpace(s.Text()))
	}
	return h, nil
}

// parseRow splits a whitespace separated data row into numbers.
// It returns nil for a blank line.
func parseRow(s *lineScanner, format string, ncols int, buf []float64) ([]float64, error) {
	fields := strings.Fields(s.Text())
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields) != ncols {
		return nil, rowErr(format, s.line, "found %d values but the header declares %d columns",
			len(fields), ncols)
	}
	buf = buf[:0]
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, rowErr(format, s.line, "%v", err)
		}
		buf = append(buf, v)
	}
	return buf, nil
}

// gslibDims parses the grid dimensions from the leading fields
// of a GSLIB title line.
func gslibDims(title string) (nx, ny, nz int, err error) {
	fields := strings.Fields(title)
	if len(fields) < 3 {
		return 0, 0, 0, headerErr("GSLIB", "title line %q does not start with the grid dimensions", title)
	}
	var d [3]int
	for i := range d {
		d[i], err = strconv.Atoi(fields[i])
		if err != nil || d[i] <= 0 {
			return 0, 0, 0, headerErr("GSLIB", "invalid grid dimension %q", fields[i])
		}
	}
	if err := checkDims(d[0], d[1], d[2]); err != nil {
		return 0, 0, 0, headerErr("GSLIB", "%v", err)
	}
	return d[0], d[1], d[2], nil
}

// ReadGSLIB reads a GSLIB file from r. The title line must start with
// the grid dimensions "nx ny nz". If channel is AllChannels the value of
// each cell is the mean of all of its channels; otherwise the column with
// index channel is used. Every value is divided by meanFactor.
func ReadGSLIB(r io.Reader, channel int, meanFactor float64) (*Grid, error) {
	const format = "GSLIB"
	if meanFactor == 0 || math.IsNaN(meanFactor) {
		return nil, fmt.Errorf("gridio: reading %s: invalid mean factor %g", format, meanFactor)
	}
	s := newLineScanner(r)
	h, err := readEASHeader(s, format)
	if err != nil {
		return nil, err
	}
	nx, ny, nz, err := gslibDims(h.Title)
	if err != nil {
		return nil, err
	}
	nvar := len(h.Columns)
	if channel < AllChannels || channel >= nvar {
		return nil, headerErr(format, "channel %d requested but the file has %d channels", channel, nvar)
	}

	g := NewGrid(nx, ny, nz)
	buf := make([]float64, 0, nvar)
	n := 0
	for s.Scan() {
		vals, err := parseRow(s, format, nvar, buf)
		if err != nil {
			return nil, err
		}
		if vals == nil {
			continue
		}
		if n >= len(g.Elements) {
			return nil, sizeErr(format, "more than %d rows for a %dx%dx%d grid", len(g.Elements), nx, ny, nz)
		}
		var v float64
		if channel == AllChannels {
			v = floats.Sum(vals) / float64(nvar)
		} else {
			v = vals[channel]
		}
		g.Elements[n] = v / meanFactor
		n++
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("gridio: reading %s: %v", format, err)
	}
	if n != len(g.Elements) {
		return nil, sizeErr(format, "found %d rows but a %dx%dx%d grid needs %d", n, nx, ny, nz, len(g.Elements))
	}
	return g, nil
}

// ReadTIFromGSLIBFile reads a training image from a GSLIB file.
// See ReadGSLIB for the meaning of channel and meanFactor.
func ReadTIFromGSLIBFile(fileName string, channel int, meanFactor float64) (*Grid, error) {
	var g *Grid
	err := openFile(fileName, func(f *os.File) error {
		var err error
		g, err = ReadGSLIB(f, channel, meanFactor)
		return err
	})
	if err != nil {
		return nil, err
	}
	Log.WithField("file", fileName).Debug("read GSLIB training image")
	return g, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteGSLIB writes g to w in GSLIB format with a single channel.
func WriteGSLIB(w io.Writer, g *Grid) error {
	nx, ny, nz := g.Dims()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n1\nv\n", nx, ny, nz)
	for _, v := range g.Elements {
		bw.WriteString(formatFloat(v))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gridio: writing GSLIB: %v", err)
	}
	return nil
}

// WriteGSLIBIndices writes an index vector with x varying fastest,
// then y, then z, to w in GSLIB format.
func WriteGSLIBIndices(w io.Writer, idx []int, nx, ny, nz int) error {
	if err := checkDims(nx, ny, nz); err != nil {
		return err
	}
	if len(idx) != nx*ny*nz {
		return fmt.Errorf("gridio: writing GSLIB: %d indices for a %dx%dx%d grid", len(idx), nx, ny, nz)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n1\nindex\n", nx, ny, nz)
	for _, v := range idx {
		bw.WriteString(strconv.Itoa(v))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gridio: writing GSLIB: %v", err)
	}
	return nil
}

// WriteToGSLIBFile writes a simulation grid to a GSLIB file.
func WriteToGSLIBFile(fileName string, g *Grid) error {
	return createFile(fileName, func(f *os.File) error { return WriteGSLIB(f, g) })
}

// WriteIndicesToGSLIBFile writes an index vector to a GSLIB file.
func WriteIndicesToGSLIBFile(fileName string, idx []int, nx, ny, nz int) error {
	return createFile(fileName, func(f *os.File) error { return WriteGSLIBIndices(f, idx, nx, ny, nz) })
}
