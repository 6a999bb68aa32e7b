// Package convert drives BPM to OBJ conversion.
package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/bpmobj/internal/config"
	"github.com/Faultbox/bpmobj/pkg/formats"
	"github.com/Faultbox/bpmobj/pkg/mesh"
	"github.com/Faultbox/bpmobj/pkg/obj"
	"github.com/Faultbox/bpmobj/pkg/uvmap"
)

// Result describes one finished conversion.
type Result struct {
	Input  string
	Output string
	UVMap  string // Empty unless a UV map was written
	Layout formats.BPMLayout
	Stats  mesh.Stats
}

// Converter converts BPM files using a fixed configuration.
type Converter struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a converter. A nil logger disables logging.
func New(cfg *config.Config, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{cfg: cfg, log: log}
}

// OutputPath returns the OBJ path for an input file.
func (c *Converter) OutputPath(input string) string {
	return input + c.cfg.Output.Suffix
}

// Convert decodes, reindexes and writes one file.
func (c *Converter) Convert(input string) (Result, error) {
	res := Result{Input: input, Output: c.OutputPath(input)}
	log := c.log.With(zap.String("file", input))

	log.Info("loading BPM")
	bpm, err := formats.ParseBPMFile(input)
	if err != nil {
		return res, fmt.Errorf("decoding %s: %w", input, err)
	}
	res.Layout = bpm.Layout
	log.Info("found BPM",
		zap.Stringer("layout", bpm.Layout),
		zap.Uint16("vertices", bpm.Header.VertexCount))

	log.Debug("reindexing corners")
	m, err := mesh.Reindex(bpm.Vertices)
	if err != nil {
		if errors.Is(err, mesh.ErrInconsistentIndex) {
			log.Error("reindex defect", zap.Error(err), zap.String("stack", fmt.Sprintf("%+v", err)))
		}
		return res, fmt.Errorf("reindexing %s: %w", input, err)
	}
	res.Stats = m.Stats()
	log.Debug("reindexed mesh", zap.Stringer("stats", res.Stats))

	log.Info("writing OBJ", zap.String("output", res.Output))
	if err := obj.WriteFile(res.Output, m, c.objOptions(input)); err != nil {
		return res, err
	}

	if c.cfg.UVMap.Enabled {
		path, err := c.writeUVMap(input, m)
		if err != nil {
			return res, err
		}
		res.UVMap = path
		log.Info("wrote UV map", zap.String("output", path))
	}

	return res, nil
}

// ConvertAll converts every input, continuing past failures.
func (c *Converter) ConvertAll(inputs []string) ([]Result, error) {
	var (
		results []Result
		errs    error
	)
	for _, in := range inputs {
		res, err := c.Convert(in)
		if err != nil {
			c.log.Error("conversion failed", zap.String("file", in), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

func (c *Converter) objOptions(input string) obj.Options {
	var opts obj.Options
	base := filepath.Base(input)
	if c.cfg.Output.Comment {
		opts.Comment = "Converted from " + base
	}
	if c.cfg.Output.ObjectNames {
		opts.Object = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return opts
}

func (c *Converter) writeUVMap(input string, m *mesh.Mesh) (path string, err error) {
	format, err := uvmap.ParseFormat(c.cfg.UVMap.Format)
	if err != nil {
		return "", err
	}

	path = input + ".uv." + string(format)
	img := uvmap.Render(m, uvmap.Options{
		Size:        c.cfg.UVMap.Size,
		Supersample: c.cfg.UVMap.Supersample,
		Fill:        uvmap.DefaultOptions().Fill,
		Background:  uvmap.DefaultOptions().Background,
	})

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", formats.ErrIO, path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if err := uvmap.Encode(f, img, format); err != nil {
		return "", fmt.Errorf("%w: encoding %s: %v", formats.ErrIO, path, err)
	}
	return path, nil
}
