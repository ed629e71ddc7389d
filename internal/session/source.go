package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
)

// FrameSource yields the latest captured frame. A source that has nothing yet
// returns a nil frame and a nil error; the detection tick retries later.
type FrameSource interface {
	Frame() (*imaging.Frame, error)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func() (*imaging.Frame, error)

// Frame calls f.
func (f FrameSourceFunc) Frame() (*imaging.Frame, error) {
	return f()
}

// ErrNoImages is returned for a directory without decodable images.
var ErrNoImages = errors.New("no images found")

// ImageSource replays a single still image.
type ImageSource struct {
	path  string
	frame *imaging.Frame
}

// NewImageSource loads path through cache and pre (which may be nil).
func NewImageSource(cache *imaging.ImageCache, path string, pre *imaging.Preprocessor) (*ImageSource, error) {
	f, err := imaging.LoadFrame(cache, path, pre, 1)
	if err != nil {
		return nil, err
	}
	return &ImageSource{path: path, frame: f}, nil
}

// Frame returns the still.
func (s *ImageSource) Frame() (*imaging.Frame, error) {
	return s.frame, nil
}

// String returns the image file name.
func (s *ImageSource) String() string {
	return filepath.Base(s.path)
}

// DirectorySource cycles through the images of a directory, one per call.
// Decoded images are cached, so each lap after the first costs one frame copy
// per call.
type DirectorySource struct {
	dir   string
	cache *imaging.ImageCache
	pre   *imaging.Preprocessor

	mu    sync.Mutex
	paths []string
	next  int
	seq   uint64
}

// NewDirectorySource lists the images in dir. It returns ErrNoImages when
// there are none.
func NewDirectorySource(cache *imaging.ImageCache, dir string, pre *imaging.Preprocessor) (*DirectorySource, error) {
	paths, err := imaging.ListImages(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	return &DirectorySource{dir: dir, cache: cache, pre: pre, paths: paths}, nil
}

// Frame loads the next image, wrapping after the last one.
func (s *DirectorySource) Frame() (*imaging.Frame, error) {
	s.mu.Lock()
	path := s.paths[s.next]
	s.next = (s.next + 1) % len(s.paths)
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	f, err := imaging.LoadFrame(s.cache, path, s.pre, seq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// Len returns the number of images in the rotation.
func (s *DirectorySource) Len() int {
	return len(s.paths)
}

// String returns the directory name.
func (s *DirectorySource) String() string {
	return filepath.Base(s.dir) + string(filepath.Separator)
}

// OpenSource returns a DirectorySource when path is a directory and an
// ImageSource otherwise.
func OpenSource(cache *imaging.ImageCache, path string, pre *imaging.Preprocessor) (FrameSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	if info.IsDir() {
		return NewDirectorySource(cache, path, pre)
	}
	return NewImageSource(cache, path, pre)
}
