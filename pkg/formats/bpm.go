// Package formats provides parsers for BlockProject 3D binary mesh files.
// BPM (Binary Packed Mesh) stores one record per triangle corner.
package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// BPM format errors.
var (
	ErrIO           = errors.New("BPM I/O failure")
	ErrBadSignature = errors.New("invalid BPM signature: expected 'BPM'")
	ErrBadVersion   = errors.New("invalid BPM format tag: expected 0")
	ErrTruncated    = errors.New("truncated BPM data")
	ErrTooManyVerts = errors.New("too many BPM vertices")
)

// bpmSignature identifies a BPM file.
const bpmSignature = "BPM"

// BPMHeaderSize is the size of the fixed header in bytes.
const BPMHeaderSize = 6

// BPMMaxVertices is the largest corner count the header can declare.
const BPMMaxVertices = 0xFFFF

// BPMHeader is the fixed 6-byte file header.
type BPMHeader struct {
	Signature   [3]byte
	Tag         uint8 // Only 0 was ever defined
	VertexCount uint16
}

// BPMLayout selects the on-disk record layout.
type BPMLayout int

const (
	BPMLayoutCompact BPMLayout = iota // Position + UV, 20 bytes
	BPMLayoutFull                     // Position + normal + UV, 32 bytes
)

// String returns a human-readable layout name.
func (l BPMLayout) String() string {
	switch l {
	case BPMLayoutCompact:
		return "Compact"
	case BPMLayoutFull:
		return "Full"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// RecordSize returns the size of a single corner record in bytes.
func (l BPMLayout) RecordSize() int {
	if l == BPMLayoutFull {
		return 32
	}
	return 20
}

// FlatVertex is one triangle corner.
type FlatVertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3 // Zero for compact files
	UV       mgl32.Vec2
}

// BPM represents a parsed BPM file.
type BPM struct {
	Header   BPMHeader
	Layout   BPMLayout
	Vertices []FlatVertex
}

// TriangleCount returns the number of whole triangles described by the corners.
func (b *BPM) TriangleCount() int {
	return len(b.Vertices) / 3
}

type bpmCompactRecord struct {
	Position [3]float32
	UV       [2]float32
}

type bpmFullRecord struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// SelectBPMLayout picks the record layout from the declared corner count and
// the total input size. The header tag cannot tell the two layouts apart, so
// only an exact full-layout size selects full records.
func SelectBPMLayout(vertexCount uint16, totalSize int64) BPMLayout {
	fullSize := int64(BPMHeaderSize) + int64(vertexCount)*int64(BPMLayoutFull.RecordSize())
	if totalSize == fullSize {
		return BPMLayoutFull
	}
	return BPMLayoutCompact
}

// ParseBPM parses BPM data from a byte slice.
func ParseBPM(data []byte) (*BPM, error) {
	return DecodeBPM(bytes.NewReader(data), int64(len(data)))
}

// ParseBPMFile parses a BPM file from disk.
func ParseBPMFile(path string) (*BPM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, path, err)
	}

	return DecodeBPM(bufio.NewReader(f), info.Size())
}

// DecodeBPM reads a BPM stream of the given total size.
func DecodeBPM(r io.Reader, size int64) (*BPM, error) {
	var header BPMHeader
	if err := readRecord(r, &header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if string(header.Signature[:]) != bpmSignature {
		return nil, ErrBadSignature
	}
	if header.Tag != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadVersion, header.Tag)
	}

	bpm := &BPM{
		Header:   header,
		Layout:   SelectBPMLayout(header.VertexCount, size),
		Vertices: make([]FlatVertex, header.VertexCount),
	}

	for i := range bpm.Vertices {
		v, err := readBPMVertex(r, bpm.Layout)
		if err != nil {
			return nil, fmt.Errorf("reading vertex %d: %w", i, err)
		}
		bpm.Vertices[i] = v
	}

	return bpm, nil
}

func readBPMVertex(r io.Reader, layout BPMLayout) (FlatVertex, error) {
	if layout == BPMLayoutFull {
		var rec bpmFullRecord
		if err := readRecord(r, &rec); err != nil {
			return FlatVertex{}, err
		}
		return FlatVertex{
			Position: mgl32.Vec3(rec.Position),
			Normal:   mgl32.Vec3(rec.Normal),
			UV:       mgl32.Vec2(rec.UV),
		}, nil
	}

	var rec bpmCompactRecord
	if err := readRecord(r, &rec); err != nil {
		return FlatVertex{}, err
	}
	return FlatVertex{
		Position: mgl32.Vec3(rec.Position),
		UV:       mgl32.Vec2(rec.UV),
	}, nil
}

// readRecord reads one fixed-size little-endian value.
// Short reads are reported as ErrTruncated, anything else as ErrIO.
func readRecord(r io.Reader, v any) error {
	err := binary.Read(r, binary.LittleEndian, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrTruncated
	default:
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
}

// EncodeBPM writes corners as a BPM file using the given layout.
// Normals are dropped when writing the compact layout.
func EncodeBPM(w io.Writer, verts []FlatVertex, layout BPMLayout) error {
	if len(verts) > BPMMaxVertices {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyVerts, len(verts), BPMMaxVertices)
	}

	bw := bufio.NewWriter(w)
	header := BPMHeader{VertexCount: uint16(len(verts))}
	copy(header.Signature[:], bpmSignature)
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("%w: writing header: %v", ErrIO, err)
	}

	for i, v := range verts {
		var rec any
		if layout == BPMLayoutFull {
			rec = &bpmFullRecord{Position: v.Position, Normal: v.Normal, UV: v.UV}
		} else {
			rec = &bpmCompactRecord{Position: v.Position, UV: v.UV}
		}
		if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
			return fmt.Errorf("%w: writing vertex %d: %v", ErrIO, i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
