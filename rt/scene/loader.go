package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gekko3d/svo/rt/octree"

	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatVox
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatVox:
		return "vox"
	}
	return "unknown"
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".vox":
		return FormatVox
	}
	return FormatUnknown
}

// Load reads the scene at path and pushes it into b. It returns the index
// of the root node; the caller seals the arena.
func Load(path string, b octree.Builder) (octree.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	idx, err := LoadReader(f, FormatOf(path), b)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return idx, nil
}

func LoadReader(r io.Reader, format Format, b octree.Builder) (octree.Index, error) {
	switch format {
	case FormatJSON:
		var doc Document
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidScene, err)
		}
		return doc.build(b)
	case FormatYAML:
		var doc Document
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidScene, err)
		}
		return doc.build(b)
	case FormatVox:
		vf, err := ParseVox(r)
		if err != nil {
			return 0, err
		}
		if len(vf.Models) == 0 {
			return 0, fmt.Errorf("%w: vox file has no models", ErrInvalidScene)
		}
		return Emit(Voxelize(&vf.Models[0], &vf.Palette), b)
	}
	return 0, ErrUnknownFormat
}
