// Package imaging loads images into the single-channel intensity form the
// tag decoder consumes, and renders annotated overlays of detection results.
//
// # Intensity Images
//
// An Intensity is a width×height buffer of 8-bit luminance samples. Each
// call to LoadIntensity produces a fresh buffer for exactly one file; the
// package performs no caching, and a buffer is never shared between images —
// the batch pipeline discards each one before loading the next.
//
// The color-to-intensity transform is fixed: images are decoded with the
// standard library codecs (JPEG, PNG, GIF) and converted through
// bild/effect.Grayscale, so repeated loads of the same file yield identical
// buffers.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Subpixel positions such
// as quad corners live in boundary coordinates: pixel (x, y) covers the unit
// square from (x, y) to (x+1, y+1), so its center is at (x+0.5, y+0.5).
//
// # Errors
//
// LoadIntensity fails (it never panics) on unreadable files, undecodable or
// unsupported container formats, and zero-area images.
package imaging
