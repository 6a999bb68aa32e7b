package obj

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/bpmobj/pkg/formats"
	"github.com/Faultbox/bpmobj/pkg/mesh"
)

func testMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1.5, -2}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 0}, {0.25, 1}},
		Triangles: []mesh.Triangle{
			{{Position: 0, Normal: 0, UV: 0}, {Position: 1, Normal: 0, UV: 1}, {Position: 2, Normal: 0, UV: 0}},
		},
	}
}

func TestWrite(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := Write(buf, testMesh(), Options{Comment: "test", Object: "tri"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := strings.Join([]string{
		"# test",
		"o tri",
		"v 0 0 0",
		"v 1 0 0",
		"v 0 1.5 -2",
		"vt 0 0",
		"vt 0.25 1",
		"vn 0 0 1",
		"f 1/1/1 2/2/1 3/1/1",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("Write() output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWrite_NoHeader(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := Write(buf, &mesh.Mesh{}, Options{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty output for empty mesh, got %q", buf.String())
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in       float32
		expected string
	}{
		{0, "0"},
		{1, "1"},
		{-0.5, "-0.5"},
		{0.1, "0.1"},
		{1e-7, "0.0000001"},
	}

	for _, tc := range tests {
		if got := formatFloat(tc.in); got != tc.expected {
			t.Errorf("formatFloat(%v) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.obj")
	if err := WriteFile(path, testMesh(), Options{}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "f 1/1/1 2/2/1 3/1/1\n") {
		t.Errorf("face line missing from output:\n%s", data)
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.obj")
	err := WriteFile(path, testMesh(), Options{})
	if !errors.Is(err, formats.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}
