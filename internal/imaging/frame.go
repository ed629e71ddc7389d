package imaging

import (
	"image"
	"time"

	"github.com/disintegration/imaging"
)

// Frame is an immutable snapshot of one video frame.
//
// Pix holds Width*Height pixels, 4 bytes each (R, G, B, A), row-major with a
// stride of 4*Width. A Frame is owned by the detection cycle that captured it
// and must not be modified after it has been published.
type Frame struct {
	// Width of the frame in pixels.
	Width int

	// Height of the frame in pixels.
	Height int

	// Pix is the RGBA pixel buffer (non-premultiplied).
	Pix []uint8

	// Seq is a monotonically increasing number assigned by the frame source.
	Seq uint64

	// Captured is the time the source produced the frame.
	Captured time.Time
}

// NewFrame allocates a black, fully transparent frame of the given size.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		Width:    width,
		Height:   height,
		Pix:      make([]uint8, width*height*4),
		Captured: time.Now(),
	}
}

// FrameFromImage copies an image into a new Frame.
//
// Any image type is accepted; the pixels are converted to non-premultiplied
// RGBA and the bounds are shifted so the frame starts at (0,0). A nil image
// yields an empty (not ready) frame.
func FrameFromImage(img image.Image, seq uint64) *Frame {
	if img == nil {
		return &Frame{Seq: seq, Captured: time.Now()}
	}
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Frame{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Pix:      nrgba.Pix,
		Seq:      seq,
		Captured: time.Now(),
	}
}

// Ready reports whether the frame carries pixels. Capture devices report zero
// dimensions until the first frame arrives.
func (f *Frame) Ready() bool {
	return f != nil && f.Width > 0 && f.Height > 0 && len(f.Pix) >= f.Width*f.Height*4
}

// Image returns an *image.NRGBA view sharing the frame's pixel buffer.
// Callers must treat the returned image as read-only.
func (f *Frame) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
