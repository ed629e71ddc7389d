// Package scene is a minimal scene graph for marker overlays.
//
// It models only what the overlay layer needs to reason about: node
// transforms, vertex extents for bounding boxes, and the lifetime of GPU-side
// resources (geometry and material), which must be released exactly once.
// Rendering is left to whatever consumes the graph.
//
// # Coordinate System
//
// World space is right-handed with +Y up and the camera looking down -Z.
package scene
