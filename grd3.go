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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
)

// ValueType is the on-disk encoding of the cell values in a GRD3 file.
type ValueType int32

// These are the GRD3 value types.
const (
	Float32 ValueType = 0 // 4-byte IEEE float
	Float64 ValueType = 1 // 8-byte IEEE float
	Uint8   ValueType = 2 // 1-byte unsigned integer
	Int16   ValueType = 3 // 2-byte signed integer
)

// DefaultValueType is the value type used when none is specified.
const DefaultValueType = Float64

// Width returns the number of bytes used to store one value, or 0 if
// t is not a valid value type.
func (t ValueType) Width() int {
	switch t {
	case Float32:
		return 4
	case Float64:
		return 8
	case Uint8:
		return 1
	case Int16:
		return 2
	default:
		return 0
	}
}

func (t ValueType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	default:
		return fmt.Sprintf("ValueType(%d)", int32(t))
	}
}

// Blank codes mark cells with no value (NaN in memory).
const (
	grd3BlankFloat = 1.70141e38
	grd3BlankUint8 = math.MaxUint8
	grd3BlankInt16 = math.MinInt16
)

// GRD3 section tags and sizes.
var (
	grd3TagHeader = [4]byte{'D', 'S', 'R', 'B'}
	grd3TagGrid   = [4]byte{'G', 'R', 'I', 'D'}
	grd3TagData   = [4]byte{'D', 'A', 'T', 'A'}
)

const (
	grd3Version  = 3
	grd3GridSize = 88 // bytes in grd3Grid
)

var grd3Order = binary.LittleEndian

// grd3Grid is the body of the GRID section.
type grd3Grid struct {
	NX, NY, NZ int32
	X0, Y0, Z0 float64
	DX, DY, DZ float64
	VMin, VMax float64
	Blank      float64
	ValueType  ValueType
}

// grd3Section is the tag and size that start every section.
type grd3Section struct {
	Tag  [4]byte
	Size int32
}

// WriteGRD3 writes g to w as a GRD3 binary grid, storing each value with
// the encoding given by valueType. The file holds a "DSRB" section with
// version 3, an 88-byte "GRID" section with the dimensions, geometry,
// value range, blank code and value type, and a "DATA" section with the
// values, x varying fastest; all little-endian. Integer encodings round to the nearest
// integer and clamp to the representable range; NaN is stored as the
// blank code.
func WriteGRD3(w io.Writer, g *Grid, geom Geometry, valueType ValueType) error {
	if err := geom.Validate(); err != nil {
		return err
	}
	width := valueType.Width()
	if width == 0 {
		return fmt.Errorf("gridio: writing GRD3: invalid value type %d", int32(valueType))
	}
	nx, ny, nz := g.Dims()
	size := int64(len(g.Elements)) * int64(width)
	if size > math.MaxInt32 {
		return fmt.Errorf("gridio: writing GRD3: %d bytes of data is too large for the DATA section", size)
	}
	vmin, vmax := valueRange(g.Elements)
	hdr := grd3Grid{
		NX: int32(nx), NY: int32(ny), NZ: int32(nz),
		X0: geom.X0, Y0: geom.Y0, Z0: geom.Z0,
		DX: geom.DX, DY: geom.DY, DZ: geom.DZ,
		VMin: vmin, VMax: vmax,
		Blank:     grd3BlankFloat,
		ValueType: valueType,
	}

	bw := bufio.NewWriter(w)
	for _, v := range []interface{}{
		grd3Section{Tag: grd3TagHeader, Size: 4}, int32(grd3Version),
		grd3Section{Tag: grd3TagGrid, Size: grd3GridSize}, hdr,
		grd3Section{Tag: grd3TagData, Size: int32(size)},
	} {
		if err := binary.Write(bw, grd3Order, v); err != nil {
			return fmt.Errorf("gridio: writing GRD3 header: %v", err)
		}
	}
	buf := make([]byte, width)
	for _, v := range g.Elements {
		encodeGRD3Value(buf, v, valueType)
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("gridio: writing GRD3 data: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gridio: writing GRD3 data: %v", err)
	}
	return nil
}

// valueRange returns the minimum and maximum of the non-NaN values,
// or zeros if there are none.
func valueRange(vals []float64) (min, max float64) {
	finite := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0
	}
	return floats.Min(finite), floats.Max(finite)
}

func encodeGRD3Value(buf []byte, v float64, t ValueType) {
	switch t {
	case Float32:
		if math.IsNaN(v) {
			v = grd3BlankFloat
		}
		grd3Order.PutUint32(buf, math.Float32bits(float32(v)))
	case Float64:
		if math.IsNaN(v) {
			v = grd3BlankFloat
		}
		grd3Order.PutUint64(buf, math.Float64bits(v))
	case Uint8:
		if math.IsNaN(v) {
			buf[0] = grd3BlankUint8
			return
		}
		buf[0] = uint8(clamp(math.Round(v), 0, grd3BlankUint8-1))
	case Int16:
		if math.IsNaN(v) {
			blank := int16(grd3BlankInt16)
			grd3Order.PutUint16(buf, uint16(blank))
			return
		}
		grd3Order.PutUint16(buf, uint16(int16(clamp(math.Round(v), grd3BlankInt16+1, math.MaxInt16))))
	}
}

func decodeGRD3Value(buf []byte, t ValueType) float64 {
	switch t {
	case Float32:
		v := float64(math.Float32frombits(grd3Order.Uint32(buf)))
		if v == float64(float32(grd3BlankFloat)) {
			return math.NaN()
		}
		return v
	case Float64:
		v := math.Float64frombits(grd3Order.Uint64(buf))
		if v == grd3BlankFloat {
			return math.NaN()
		}
		return v
	case Uint8:
		if buf[0] == grd3BlankUint8 {
			return math.NaN()
		}
		return float64(buf[0])
	case Int16:
		v := int16(grd3Order.Uint16(buf))
		if v == grd3BlankInt16 {
			return math.NaN()
		}
		return float64(v)
	}
	panic("gridio: invalid GRD3 value type")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// WriteToGRD3File writes a simulation grid to a GRD3 file.
func WriteToGRD3File(fileName string, g *Grid, geom Geometry, valueType ValueType) error {
	return createFile(fileName, func(f *os.File) error { return WriteGRD3(f, g, geom, valueType) })
}

// ReadGRD3 reads a GRD3 binary grid from r, returning the grid and the
// geometry stored in its header. The value encoding is taken from the
// header and every value is widened to float64.
func ReadGRD3(r io.Reader) (*Grid, Geometry, error) {
	const format = "GRD3"
	br := bufio.NewReader(r)

	var sec grd3Section
	if err := binary.Read(br, grd3Order, &sec); err != nil {
		return nil, Geometry{}, headerErr(format, "reading file tag: %v", err)
	}
	if sec.Tag != grd3TagHeader || sec.Size != 4 {
		return nil, Geometry{}, headerErr(format, "not a GRD3 file (tag %q, size %d)", sec.Tag[:], sec.Size)
	}
	var version int32
	if err := binary.Read(br, grd3Order, &version); err != nil {
		return nil, Geometry{}, headerErr(format, "reading version: %v", err)
	}
	if version != grd3Version {
		return nil, Geometry{}, headerErr(format, "unsupported version %d", version)
	}

	if err := binary.Read(br, grd3Order, &sec); err != nil {
		return nil, Geometry{}, headerErr(format, "reading GRID section: %v", err)
	}
	if sec.Tag != grd3TagGrid || sec.Size != grd3GridSize {
		return nil, Geometry{}, headerErr(format, "expected GRID section of %d bytes, found %q of %d bytes",
			grd3GridSize, sec.Tag[:], sec.Size)
	}
	var hdr grd3Grid
	if err := binary.Read(br, grd3Order, &hdr); err != nil {
		return nil, Geometry{}, headerErr(format, "reading GRID section: %v", err)
	}
	width := hdr.ValueType.Width()
	if width == 0 {
		return nil, Geometry{}, headerErr(format, "unknown value type %d", int32(hdr.ValueType))
	}
	geom := Geometry{X0: hdr.X0, Y0: hdr.Y0, Z0: hdr.Z0, DX: hdr.DX, DY: hdr.DY, DZ: hdr.DZ}
	if err := geom.Validate(); err != nil {
		return nil, Geometry{}, headerErr(format, "%v", err)
	}
	if err := checkDims(int(hdr.NX), int(hdr.NY), int(hdr.NZ)); err != nil {
		return nil, Geometry{}, headerErr(format, "%v", err)
	}

	// Skip any sections that come before the data.
	for {
		if err := binary.Read(br, grd3Order, &sec); err != nil {
			return nil, Geometry{}, headerErr(format, "missing DATA section: %v", err)
		}
		if sec.Tag == grd3TagData {
			break
		}
		if sec.Size < 0 {
			return nil, Geometry{}, headerErr(format, "section %q has negative size", sec.Tag[:])
		}
		Log.WithField("section", string(sec.Tag[:])).Debug("skipping unknown GRD3 section")
		if _, err := io.CopyN(io.Discard, br, int64(sec.Size)); err != nil {
			return nil, Geometry{}, headerErr(format, "skipping section %q: %v", sec.Tag[:], err)
		}
	}
	n := int64(hdr.NX) * int64(hdr.NY) * int64(hdr.NZ)
	if int64(sec.Size) != n*int64(width) {
		return nil, Geometry{}, sizeErr(format, "DATA section is %d bytes but a %dx%dx%d %v grid needs %d",
			sec.Size, hdr.NX, hdr.NY, hdr.NZ, hdr.ValueType, n*int64(width))
	}

	g := NewGrid(int(hdr.NX), int(hdr.NY), int(hdr.NZ))
	buf := make([]byte, width)
	for i := range g.Elements {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, Geometry{}, sizeErr(format, "data ends after %d of %d values", i, n)
		}
		g.Elements[i] = decodeGRD3Value(buf, hdr.ValueType)
	}
	return g, geom, nil
}

// ReadTIFromGS3DGRD3File reads a training image and its geometry from a
// GRD3 file.
func ReadTIFromGS3DGRD3File(fileName string) (*Grid, Geometry, error) {
	var (
		g    *Grid
		geom Geometry
	)
	err := openFile(fileName, func(f *os.File) error {
		var err error
		g, geom, err = ReadGRD3(f)
		return err
	})
	if err != nil {
		return nil, Geometry{}, err
	}
	return g, geom, nil
}
