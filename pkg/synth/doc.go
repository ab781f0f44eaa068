// Package synth generates synthetic star-cluster frames.
//
// [Generate] is the whole computation: it scatters stars around the frame
// center with a uniform radius (so surface density falls off as 1/r), draws
// fluxes biased toward faint stars, accumulates them into a [Canvas], blurs
// the result with a Gaussian PSF of [PSFSigma] pixels, and adds a background
// of [NoiseMean] with [NoiseStdDev] jitter.
//
// # Randomness
//
// All randomness flows through an explicit [Source]. Without options a fresh
// seed is drawn and reported in [Report.Seed], so any frame can be
// regenerated later with [WithSeed]:
//
//	c, rep, err := synth.GenerateWithReport(10000, 512, 512)
//	again, _ := synth.Generate(10000, 512, 512, synth.WithSeed(rep.Seed))
//
// # Quirks
//
// Star radii are drawn on [0, width) regardless of height, and the background
// has mean 1.0 rather than 0. Both are deliberate and stable.
package synth
