// Package psf models the point-spread function applied to synthetic frames.
//
// A PSF here is a centered, normalized 2D Gaussian [Kernel]. Applying it is
// abstracted behind [Blurrer] so the synthesizer does not care whether the
// convolution runs in the frequency domain ([FFT], the default) or directly
// in pixel space ([Direct], cheaper for tiny frames).
//
// # Boundaries
//
// Pixels outside the frame are supplied by a [Boundary] policy:
//
//   - [Fill]: zeros (default). Flux near the edge leaks out of the frame.
//   - [Reflect]: mirror without repeating the edge pixel.
//   - [Extend]: repeat the nearest edge pixel.
//   - [Wrap]: periodic.
//
// Both Blurrer implementations honor the same policy and agree to within
// floating-point rounding.
//
// # Usage
//
//	out, err := psf.FFT{}.Blur(pix, width, height, 1.0)
package psf
