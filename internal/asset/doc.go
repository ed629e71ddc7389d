// Package asset loads 3D models used as overlay templates.
//
// Models are reduced to what the overlay layer needs: a node hierarchy with
// translation and scale, and vertex positions for bounding boxes. Materials,
// textures and animations are discarded.
package asset
