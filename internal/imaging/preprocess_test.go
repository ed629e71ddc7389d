package imaging

import (
	"encoding/json"
	"image"
	"image/color"
	"testing"
)

func TestPreprocessConfig_JSON(t *testing.T) {
	data, err := json.Marshal(PreprocessConfig{MaxWidth: 640, BlurSigma: 1.5, Contrast: 20})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"max_width":640,"blur_sigma":1.5,"contrast":20}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestPreprocessor_Nil(t *testing.T) {
	var p *Preprocessor
	img := createInMemoryImage(10, 10, color.RGBA{1, 2, 3, 255})

	if out := p.Apply(img); out != img {
		t.Error("nil preprocessor should return the input image")
	}
	if (p.Config() != PreprocessConfig{}) {
		t.Error("nil preprocessor should report a zero config")
	}
}

func TestPreprocessor_NoStages(t *testing.T) {
	p := NewPreprocessor(PreprocessConfig{})
	img := createInMemoryImage(10, 10, color.RGBA{1, 2, 3, 255})

	if out := p.Apply(img); out != img {
		t.Error("empty preprocessor should return the input image")
	}
}

func TestPreprocessor_Downscale(t *testing.T) {
	tests := []struct {
		name         string
		maxWidth     int
		inW, inH     int
		wantW, wantH int
	}{
		{"wider than max", 320, 1280, 720, 320, 180},
		{"narrower than max", 320, 200, 100, 200, 100},
		{"disabled", 0, 640, 480, 640, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPreprocessor(PreprocessConfig{MaxWidth: tt.maxWidth})
			out := p.Apply(createInMemoryImage(tt.inW, tt.inH, color.White))
			b := out.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPreprocessor_BlurSoftensEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	p := NewPreprocessor(PreprocessConfig{BlurSigma: 2})
	f := p.Frame(img, 1)

	// right next to the step the blur mixes both sides
	i := (20*40 + 20) * 4
	if f.Pix[i] == 255 || f.Pix[i] == 0 {
		t.Errorf("pixel at the step should be mid-grey after blur, got %d", f.Pix[i])
	}
	// far from the step the image is unchanged
	i = (20*40 + 2) * 4
	if f.Pix[i] > 5 {
		t.Errorf("pixel far from the step should stay black, got %d", f.Pix[i])
	}
}

func TestPreprocessor_Contrast(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{160, 160, 160, 255})

	p := NewPreprocessor(PreprocessConfig{Contrast: 50})
	f := p.Frame(img, 1)

	if f.Pix[0] <= 160 {
		t.Errorf("contrast boost should brighten a light grey, got %d", f.Pix[0])
	}
	if p.Config().Contrast != 50 {
		t.Errorf("Config().Contrast: got %v, want 50", p.Config().Contrast)
	}
}
