// Package imaging provides the pixel-level plumbing for marker detection.
//
// This package turns decoded images into Frames (the immutable RGBA snapshot
// the detection pipeline consumes), caches images loaded from disk, applies
// optional preprocessing, and renders debug artifacts such as annotated
// frames, marker crops and edge-mask PNGs. Overlay colours are also produced
// here so every surface reports them the same way.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max is exclusive (bottom-right)
//
// # Frame Layout
//
// A Frame stores 4 channels per pixel (R, G, B, A, each 0-255), row-major,
// with a stride of exactly 4*Width bytes and no premultiplied alpha. This is
// the layout of a canvas ImageData buffer and of *image.NRGBA images whose
// bounds start at the origin.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A Frame must not be
// modified once it has been handed to a detection cycle. Preprocessor is
// safe for concurrent use after construction.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside image bounds or with non-positive size
//   - File I/O errors during image loading or saving
//   - Encoding errors during image output
package imaging
