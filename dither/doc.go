// Package dither provides ditherers for quant.
//
// Ordered ditherers add a positional threshold from a small matrix to every
// pixel before it is mapped to the palette. They only touch the current
// pixel, so a pass using them may run in parallel.
//
// Error diffusion ditherers push the difference between a pixel and its
// palette color onto neighbors that have not been visited yet. Later
// pixels depend on earlier ones, so passes using them always run
// sequentially along the configured path.
//
// Threshold matrices and diffusion kernels come from
// github.com/makeworld-the-better-one/dither/v2.
package dither
