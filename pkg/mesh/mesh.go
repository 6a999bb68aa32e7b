// Package mesh rebuilds an indexed triangle mesh from flattened BPM corners.
package mesh

import (
	stderrors "errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/Faultbox/bpmobj/pkg/formats"
)

// Reindexing errors.
var (
	ErrCornerCount = stderrors.New("corner count not divisible by three")

	// ErrInconsistentIndex marks a corner missing from its own compacted column.
	// It is a defect, never a property of the input file.
	ErrInconsistentIndex = stderrors.New("internal consistency failure")
)

// IndexTriple holds the zero-based attribute indices of one corner.
type IndexTriple struct {
	Position uint32
	Normal   uint32
	UV       uint32
}

// Triangle is three corners in file order.
type Triangle [3]IndexTriple

// Mesh is an indexed mesh with shared attribute arrays.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Triangles []Triangle
}

// Stats summarises mesh sizes.
type Stats struct {
	Positions int
	Normals   int
	UVs       int
	Triangles int
}

// Stats returns the element counts of the mesh.
func (m *Mesh) Stats() Stats {
	return Stats{
		Positions: len(m.Positions),
		Normals:   len(m.Normals),
		UVs:       len(m.UVs),
		Triangles: len(m.Triangles),
	}
}

// String returns the counts in a compact form.
func (s Stats) String() string {
	return fmt.Sprintf("%d positions, %d normals, %d uvs, %d triangles",
		s.Positions, s.Normals, s.UVs, s.Triangles)
}

// Reindex converts corner records into an indexed mesh.
func Reindex(verts []formats.FlatVertex) (*Mesh, error) {
	if len(verts)%3 != 0 {
		return nil, fmt.Errorf("%w: %d corners", ErrCornerCount, len(verts))
	}

	positions, normals, uvs := ExtractColumns(verts)

	m := &Mesh{
		Positions: CompactVec3(positions),
		Normals:   CompactVec3(normals),
		UVs:       CompactVec2(uvs),
	}

	indices, err := rebuildIndices(verts, m)
	if err != nil {
		return nil, err
	}

	m.Triangles = make([]Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		m.Triangles = append(m.Triangles, Triangle{indices[i], indices[i+1], indices[i+2]})
	}

	return m, nil
}

// ExtractColumns splits corners into parallel attribute columns.
func ExtractColumns(verts []formats.FlatVertex) (positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) {
	positions = make([]mgl32.Vec3, len(verts))
	normals = make([]mgl32.Vec3, len(verts))
	uvs = make([]mgl32.Vec2, len(verts))

	for i, v := range verts {
		positions[i] = v.Position
		normals[i] = v.Normal
		uvs[i] = v.UV
	}
	return positions, normals, uvs
}

// CompactVec3 drops entries equal to the previous retained entry.
// Equal values separated by a different value are both kept.
func CompactVec3(in []mgl32.Vec3) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, len(in))
	for _, v := range in {
		if len(out) > 0 && equalVec3(out[len(out)-1], v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// CompactVec2 is CompactVec3 for two-component values.
func CompactVec2(in []mgl32.Vec2) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, 0, len(in))
	for _, v := range in {
		if len(out) > 0 && equalVec2(out[len(out)-1], v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// IndexOfVec3 returns the index of the first entry equal to v, or -1.
func IndexOfVec3(list []mgl32.Vec3, v mgl32.Vec3) int {
	for i, e := range list {
		if equalVec3(e, v) {
			return i
		}
	}
	return -1
}

// IndexOfVec2 returns the index of the first entry equal to v, or -1.
func IndexOfVec2(list []mgl32.Vec2, v mgl32.Vec2) int {
	for i, e := range list {
		if equalVec2(e, v) {
			return i
		}
	}
	return -1
}

func rebuildIndices(verts []formats.FlatVertex, m *Mesh) ([]IndexTriple, error) {
	out := make([]IndexTriple, len(verts))

	for i, v := range verts {
		p := IndexOfVec3(m.Positions, v.Position)
		if p < 0 {
			return nil, errors.Wrapf(ErrInconsistentIndex, "corner %d: position %v not in compacted column", i, v.Position)
		}
		n := IndexOfVec3(m.Normals, v.Normal)
		if n < 0 {
			return nil, errors.Wrapf(ErrInconsistentIndex, "corner %d: normal %v not in compacted column", i, v.Normal)
		}
		t := IndexOfVec2(m.UVs, v.UV)
		if t < 0 {
			return nil, errors.Wrapf(ErrInconsistentIndex, "corner %d: uv %v not in compacted column", i, v.UV)
		}
		out[i] = IndexTriple{Position: uint32(p), Normal: uint32(n), UV: uint32(t)}
	}

	return out, nil
}

// Components compare by bit pattern, so NaN matches itself and -0 differs from +0.
func equalVec3(a, b mgl32.Vec3) bool {
	return math.Float32bits(a[0]) == math.Float32bits(b[0]) &&
		math.Float32bits(a[1]) == math.Float32bits(b[1]) &&
		math.Float32bits(a[2]) == math.Float32bits(b[2])
}

func equalVec2(a, b mgl32.Vec2) bool {
	return math.Float32bits(a[0]) == math.Float32bits(b[0]) &&
		math.Float32bits(a[1]) == math.Float32bits(b[1])
}
