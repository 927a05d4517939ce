package parallel

// RowRange is the half-open row interval [Start, End).
type RowRange struct {
	Start, End int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return r.End - r.Start
}

// SplitRows divides height rows into at most parts contiguous, disjoint,
// non-empty ranges whose sizes differ by at most one row.
func SplitRows(height, parts int) []RowRange {
	if height <= 0 {
		return nil
	}
	parts = min(max(parts, 1), height)

	ranges := make([]RowRange, parts)
	base, extra := height/parts, height%parts
	start := 0
	for i := range ranges {
		n := base
		if i < extra {
			n++
		}
		ranges[i] = RowRange{Start: start, End: start + n}
		start += n
	}
	return ranges
}

// ForEachRows runs fn over disjoint row ranges covering [0, height).
// With workers <= 1 (or a single row) fn runs once on the calling goroutine
// with the full range. Otherwise a pool of workers processes about four
// ranges per worker and ForEachRows returns after all of them are done.
func ForEachRows(height, workers int, fn func(RowRange)) {
	if height <= 0 {
		return
	}
	if workers <= 1 || height == 1 {
		fn(RowRange{Start: 0, End: height})
		return
	}

	ranges := SplitRows(height, workers*4)
	work := make([]func(), len(ranges))
	for i, r := range ranges {
		work[i] = func() { fn(r) }
	}

	pool := NewWorkerPool(min(workers, len(ranges)))
	defer pool.Close()
	pool.ExecuteAll(work)
}
