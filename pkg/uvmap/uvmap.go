// Package uvmap renders the texture-space footprint of a mesh.
package uvmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/bpmobj/pkg/mesh"
)

// Format is an image output format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatTGA  Format = "tga"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatWebP, FormatTGA:
		return f, nil
	default:
		return "", fmt.Errorf("unknown uv map format %q", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Options controls rendering.
type Options struct {
	Size        int // Output width and height in pixels
	Supersample int // Render scale before downsampling; 1 disables it
	Fill        color.NRGBA
	Background  color.NRGBA
}

// DefaultOptions returns a 512px map with 2x supersampling.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 2,
		Fill:        color.NRGBA{R: 64, G: 160, B: 255, A: 160},
		Background:  color.NRGBA{A: 255},
	}
}

// Render fills every triangle's UV footprint. V points up, so v=0 is the
// bottom row. Coordinates outside [0,1] are clamped to the map edge.
func Render(m *mesh.Mesh, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}

	size := opts.Size * opts.Supersample
	hi := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(hi, hi.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	fill := image.NewUniform(opts.Fill)
	z := vector.NewRasterizer(0, 0)

	for _, tri := range m.Triangles {
		var pts [3][2]float32
		for i, c := range tri {
			pts[i] = toPixel(m.UVs[c.UV], size)
		}
		fillTriangle(z, hi, fill, pts)
	}

	out := image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	if opts.Supersample == 1 {
		draw.Draw(out, out.Bounds(), hi, image.Point{}, draw.Src)
		return out
	}
	draw.CatmullRom.Scale(out, out.Bounds(), hi, hi.Bounds(), draw.Src, nil)
	return out
}

func toPixel(uv mgl32.Vec2, size int) [2]float32 {
	u := mgl32.Clamp(uv[0], 0, 1)
	v := mgl32.Clamp(uv[1], 0, 1)
	return [2]float32{u * float32(size), (1 - v) * float32(size)}
}

// fillTriangle rasterizes only the triangle's bounding box.
func fillTriangle(z *vector.Rasterizer, dst draw.Image, src image.Image, pts [3][2]float32) {
	minX, minY := pts[0][0], pts[0][1]
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p[0])
		minY = min(minY, p[1])
		maxX = max(maxX, p[0])
		maxY = max(maxY, p[1])
	}

	r := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	)
	if r.Empty() {
		return
	}

	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	z.Reset(r.Dx(), r.Dy())
	z.MoveTo(pts[0][0]-ox, pts[0][1]-oy)
	z.LineTo(pts[1][0]-ox, pts[1][1]-oy)
	z.LineTo(pts[2][0]-ox, pts[2][1]-oy)
	z.ClosePath()
	z.Draw(dst, r, src, image.Point{})
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	default:
		return fmt.Errorf("unknown uv map format %q", string(format))
	}
}
