// Package quantizer provides palette synthesis algorithms for quant.
//
// Every quantizer implements quant.Quantizer:
//   - Octree: 8-level RGB tree, least popular subtrees folded first
//   - MedianCut: recursive split of the color set at the median of its widest channel
//   - Popularity: most populated 64x64x64 buckets
//   - Wu: greedy variance minimizing cuts of a 32x32x32 moment cube
//   - Distinct: background color plus maximally diverse HSV classes
//   - Predefined: a fixed palette
//
// All of them count distinct flattened colors in a concurrent table during
// the scan. When the image has no more distinct colors than requested the
// palette is exactly those colors in first-seen order and every observed
// color maps to its own entry without consulting a color cache.
//
// Under a parallel scan first-seen order is a valid discovery order, not
// necessarily the order of the pixels in memory.
package quantizer
