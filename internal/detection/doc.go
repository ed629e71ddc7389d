// Package detection finds rectangular fiducial markers in video frames.
//
// Detection is deliberately cheap: there is no contour tracing or Hough
// transform. Each cycle proposes a handful of random rectangles and keeps the
// ones whose perimeters coincide with strong edges.
//
// # Pipeline
//
// A Detector runs four stages per frame:
//
//  1. Edge extraction: Sobel gradient on the unweighted RGB mean, thresholded
//     into a binary mask (EdgeExtractor)
//  2. Proposal: a fixed number of random rectangles sized relative to the
//     shorter frame side (CandidateGenerator)
//  3. Scoring: the fraction of perimeter samples that land on edge pixels
//     (EdgeScorer)
//  4. Selection: threshold, rank and cap, then normalise to [0,1] frame
//     coordinates (MarkerSelector)
//
// # Coordinate System
//
// Pixel coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Markers are reported as fractions of the frame width and height with the
// same orientation, so (0,0) is the top-left corner and (1,1) the bottom-right.
//
// # Scores
//
// A score is the fraction of perimeter samples that hit an edge pixel:
//   - 1.0 = every sample on an edge
//   - 0.3 = the default acceptance threshold
//   - 0.0 = no edge support, or a zero-area rectangle
//
// # Determinism
//
// All randomness comes from the Source handed to NewDetector. Two detectors
// built from the same Config and identically seeded sources produce the same
// markers for the same frames.
//
// # Limitations
//
// Proposals are not refined, so reported rectangles only approximate the true
// marker outline, and a frame with a real marker can still yield zero markers
// when no proposal lands close enough.
package detection
