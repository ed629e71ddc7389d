// Package overlay turns detected markers into animated 3D objects in a scene
// graph.
//
// Each detection cycle the Synchronizer discards the previous overlays and
// builds one object per marker, either a coloured primitive or a normalised
// clone of a loaded template. Between cycles the Animator spins and pulses
// whatever objects are live.
//
// # Placement
//
// Markers arrive in normalised frame coordinates (0..1, Y down). With the
// default Config a marker at (x, y) of size (w, h) becomes an object at
//
//	((x-0.5)*10, -(y-0.5)*10, -5)
//
// with base scale (w*5, h*5, 1). The marker's top-left corner is used, not
// its centre.
package overlay
