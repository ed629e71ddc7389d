package imaging

import (
	"image"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

// PreprocessConfig selects the optional stages applied to a captured image
// before it becomes a Frame. Zero values disable a stage.
type PreprocessConfig struct {
	// MaxWidth downscales wider images (aspect ratio preserved). The edge pass
	// is linear in pixel count, so this bounds the per-frame cost.
	MaxWidth int `yaml:"max_width" json:"max_width"`

	// BlurSigma applies a Gaussian blur to suppress sensor noise.
	BlurSigma float32 `yaml:"blur_sigma" json:"blur_sigma"`

	// Contrast adjusts contrast in percent (-100..100).
	Contrast float32 `yaml:"contrast" json:"contrast"`
}

// Preprocessor applies a PreprocessConfig to images. A nil *Preprocessor is
// valid and passes images through unchanged.
type Preprocessor struct {
	cfg     PreprocessConfig
	filters *gift.GIFT
	stages  int
}

// NewPreprocessor builds the filter chain for cfg.
func NewPreprocessor(cfg PreprocessConfig) *Preprocessor {
	p := &Preprocessor{cfg: cfg, filters: gift.New()}
	if cfg.BlurSigma > 0 {
		p.filters.Add(gift.GaussianBlur(cfg.BlurSigma))
		p.stages++
	}
	if cfg.Contrast != 0 {
		p.filters.Add(gift.Contrast(cfg.Contrast))
		p.stages++
	}
	return p
}

// Config returns the configuration the preprocessor was built from.
func (p *Preprocessor) Config() PreprocessConfig {
	if p == nil {
		return PreprocessConfig{}
	}
	return p.cfg
}

// Apply runs the configured stages on img. Downscaling happens first so the
// filters run on the smaller image.
func (p *Preprocessor) Apply(img image.Image) image.Image {
	if p == nil || img == nil {
		return img
	}

	out := img
	if p.cfg.MaxWidth > 0 && out.Bounds().Dx() > p.cfg.MaxWidth {
		out = imaging.Resize(out, p.cfg.MaxWidth, 0, imaging.Linear)
	}

	if p.stages > 0 {
		dst := image.NewNRGBA(p.filters.Bounds(out.Bounds()))
		p.filters.Draw(dst, out)
		out = dst
	}
	return out
}

// Frame preprocesses img and copies the result into a Frame.
func (p *Preprocessor) Frame(img image.Image, seq uint64) *Frame {
	return FrameFromImage(p.Apply(img), seq)
}
