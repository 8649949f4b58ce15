// Package document implements the pixel canvas and its PiXd file format.
//
// A Document is a fixed-size grid of packed RGBA colors stored row-major,
// index = y*width + x.
//
// # PiXd Format
//
// All integers are big-endian, with no padding:
//
//	offset  size           field
//	0       4              magic "PiXd"
//	4       4              width  (uint32, > 0)
//	8       4              height (uint32, > 0)
//	12      4*width*height canvas cells (uint32 RGBA, row-major)
//
// A file is valid only if its size is exactly 12 + 4*width*height bytes.
// Decode reports every deviation as a *FormatError.
//
// # Saving
//
// Save writes to a temporary file in the destination directory and renames
// it over the target, so a failed save never clobbers an existing document.
// SaveInPlace truncates and writes the target directly; a failure part way
// through leaves a partial file behind.
package document
