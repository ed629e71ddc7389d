package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyModel is returned when a file parses but contains no vertices.
	ErrEmptyModel = errors.New("model has no vertices")
)

// Format identifies a model file format.
type Format string

const (
	FormatOBJ  Format = "obj"
	FormatGLTF Format = "gltf"
	FormatGLB  Format = "glb"
	FormatFBX  Format = "fbx"
)

// DetectFormat returns the format implied by the file extension
// (case-insensitive).
func DetectFormat(path string) Format {
	return Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Supported reports whether Load can read files of format f.
func Supported(f Format) bool {
	switch f {
	case FormatOBJ, FormatGLTF, FormatGLB:
		return true
	}
	return false
}

// Load reads a model file into a scene node named after the file.
//
// Supported formats:
//   - .obj: vertex positions, split into child nodes by "o" and "g" statements
//   - .gltf / .glb: every mesh node of the default scene, keeping node
//     translation and scale
//
// FBX and every other extension return ErrUnsupportedFormat. A model without
// vertices returns ErrEmptyModel.
func Load(path string) (*scene.Node, error) {
	format := DetectFormat(path)
	if !Supported(format) {
		if format == "" {
			return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
		}
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, format)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}

	name := filepath.Base(path)
	var (
		root *scene.Node
		err  error
	)
	switch format {
	case FormatOBJ:
		root, err = loadOBJ(path, name)
	default:
		root, err = loadGLTF(path, name)
	}
	if err != nil {
		return nil, err
	}

	if root.VertexCount() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyModel, name)
	}
	return root, nil
}
