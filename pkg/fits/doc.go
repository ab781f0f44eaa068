// Package fits reads and writes single-image FITS files.
//
// Only the primary header/data unit is supported, which is all a synthetic
// frame needs. Frames are written with BITPIX = -64 so float64 pixels
// round-trip bit for bit; the reader also accepts the integer and float32
// encodings other tools produce, applying BZERO/BSCALE.
//
// Layout follows the FITS 4.0 standard: 80-byte header cards padded with
// spaces to a 2880-byte block, then big-endian pixel data padded with zeros
// to the next block. NAXIS1 is the fast (x) axis, so a row-major canvas maps
// onto the data unit without reordering.
//
// Reference: https://fits.gsfc.nasa.gov/fits_standard.html
package fits
