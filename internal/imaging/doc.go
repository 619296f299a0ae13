// Package imaging provides the per-frame image operations used by the
// temporal pipeline.
//
// This package implements decoding with a bounded frame cache, color
// sampling, cropping, Canny edge detection and PNG encoding. All operations
// work with standard Go image.Image types and use a coordinate system where
// (0,0) is at the top-left corner, X increases rightward, and Y increases
// downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Memory
//
// ImageCache holds at most a fixed number of decoded frames and evicts the
// least recently used one when full, so walking a long sequence never keeps
// more than that many frames alive.
package imaging
