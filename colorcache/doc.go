// Package colorcache maps colors to the nearest entry of a palette.
//
// Both caches implement quant.ColorCache and memoize their answers per
// flattened 24-bit color in a sharded concurrent map, so lookups are safe
// from the parallel workers of a quantization pass. Concurrent misses on
// the same color may each compute the answer; they compute the same value.
//
//   - Euclidean scans the whole palette. Its answer is exact.
//   - Octree descends a bit-plane tree of the palette and scans only the
//     entries sharing the longest RGB prefix with the color. It is faster
//     on large palettes and approximate.
package colorcache
