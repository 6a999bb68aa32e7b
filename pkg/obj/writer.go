// Package obj writes indexed meshes as Wavefront OBJ text.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"

	"github.com/Faultbox/bpmobj/pkg/formats"
	"github.com/Faultbox/bpmobj/pkg/mesh"
)

// Options controls OBJ output.
type Options struct {
	Comment string // Written as a leading "#" line when set
	Object  string // Emitted as an "o" statement when set
}

// Write emits m to w. Face indices are 1-based and ordered position/uv/normal.
func Write(w io.Writer, m *mesh.Mesh, opts Options) error {
	bw := bufio.NewWriter(w)

	if opts.Comment != "" {
		fmt.Fprintf(bw, "# %s\n", opts.Comment)
	}
	if opts.Object != "" {
		fmt.Fprintf(bw, "o %s\n", opts.Object)
	}

	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2]))
	}
	for _, t := range m.UVs {
		fmt.Fprintf(bw, "vt %s %s\n", formatFloat(t[0]), formatFloat(t[1]))
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", formatFloat(n[0]), formatFloat(n[1]), formatFloat(n[2]))
	}

	for _, tri := range m.Triangles {
		bw.WriteString("f")
		for _, c := range tri {
			fmt.Fprintf(bw, " %d/%d/%d", c.Position+1, c.UV+1, c.Normal+1)
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile(path string, m *mesh.Mesh, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", formats.ErrIO, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: closing %s: %v", formats.ErrIO, path, cerr))
		}
	}()

	if err := Write(f, m, opts); err != nil {
		return fmt.Errorf("%w: writing %s: %v", formats.ErrIO, path, err)
	}
	return nil
}

// formatFloat prints the shortest text that reads back as the same float32.
func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
