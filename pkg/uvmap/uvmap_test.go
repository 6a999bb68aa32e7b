package uvmap

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/bpmobj/pkg/mesh"
)

// halfMesh covers the lower-left half of UV space.
func halfMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Triangles: []mesh.Triangle{
			{{Position: 0, UV: 0}, {Position: 1, UV: 1}, {Position: 2, UV: 2}},
		},
	}
}

func testOptions(supersample int) Options {
	return Options{
		Size:        32,
		Supersample: supersample,
		Fill:        color.NRGBA{R: 255, A: 255},
		Background:  color.NRGBA{A: 255},
	}
}

func TestRender_Coverage(t *testing.T) {
	for _, ss := range []int{1, 2} {
		img := Render(halfMesh(), testOptions(ss))

		if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
			t.Fatalf("supersample %d: unexpected size %v", ss, img.Bounds())
		}

		// Bottom-left is inside the triangle, top-right is not
		if c := img.NRGBAAt(2, 29); c.R < 200 {
			t.Errorf("supersample %d: expected filled pixel at (2,29), got %v", ss, c)
		}
		if c := img.NRGBAAt(29, 2); c.R > 50 {
			t.Errorf("supersample %d: expected background pixel at (29,2), got %v", ss, c)
		}
	}
}

func TestRender_ClampsOutOfRange(t *testing.T) {
	m := halfMesh()
	m.UVs = []mgl32.Vec2{{-1, -1}, {3, -1}, {-1, 3}}

	img := Render(m, testOptions(1))
	if c := img.NRGBAAt(8, 24); c.R < 200 {
		t.Errorf("expected clamped triangle to cover (8,24), got %v", c)
	}
}

func TestRender_Defaults(t *testing.T) {
	img := Render(&mesh.Mesh{}, Options{})
	if img.Bounds().Dx() != DefaultOptions().Size {
		t.Errorf("expected default size %d, got %d", DefaultOptions().Size, img.Bounds().Dx())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
		wantErr  bool
	}{
		{"png", FormatPNG, false},
		{"WEBP", FormatWebP, false},
		{"tga", FormatTGA, false},
		{"jpg", "", true},
	}

	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.expected {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}

	if f, err := FormatFromPath("mesh.bpm.uv.webp"); err != nil || f != FormatWebP {
		t.Errorf("FormatFromPath() = %q, %v", f, err)
	}
}

func TestEncode(t *testing.T) {
	img := Render(halfMesh(), testOptions(1))

	for _, f := range []Format{FormatPNG, FormatWebP, FormatTGA} {
		buf := new(bytes.Buffer)
		if err := Encode(buf, img, f); err != nil {
			t.Fatalf("Encode(%s) failed: %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Encode(%s) wrote nothing", f)
		}
	}

	buf := new(bytes.Buffer)
	Encode(buf, img, FormatPNG)
	decoded, err := png.Decode(buf)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds %v, want %v", decoded.Bounds(), img.Bounds())
	}

	if err := Encode(new(bytes.Buffer), img, Format("bmp")); err == nil {
		t.Error("expected error for unknown format")
	}
}
