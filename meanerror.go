package quant

import "fmt"

// MeanError returns the mean squared per-channel difference between b and
// other: the sum of squared channel differences over all pixels divided by
// pixels x channels. Alpha is included when either buffer has an alpha
// channel.
func (b *Buffer) MeanError(other *Buffer) (float64, error) {
	if other == nil {
		return 0, fmt.Errorf("%w: nil buffer", ErrSizeMismatch)
	}
	if err := b.checkSource(); err != nil {
		return 0, err
	}
	if err := other.checkSource(); err != nil {
		return 0, err
	}
	if b.width != other.width || b.height != other.height {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, b.width, b.height, other.width, other.height)
	}

	withAlpha := b.format.HasAlpha() || other.format.HasAlpha()
	channels := 3
	if withAlpha {
		channels = 4
	}

	sq := func(a, b uint8) uint64 {
		d := int64(a) - int64(b)
		return uint64(d * d)
	}

	var sum uint64
	ca := &Cursor{buf: b, y: -1}
	cb := &Cursor{buf: other, y: -1}
	for y := range b.height {
		_ = ca.MoveTo(0, y)
		_ = cb.MoveTo(0, y)
		for x := range b.width {
			p, q := ca.ColorAt(x), cb.ColorAt(x)
			sum += sq(p.R(), q.R()) + sq(p.G(), q.G()) + sq(p.B(), q.B())
			if withAlpha {
				sum += sq(p.A(), q.A())
			}
		}
	}
	return float64(sum) / float64(b.width*b.height*channels), nil
}

// NormalizedMeanError returns MeanError scaled to [0, 1] by the largest
// possible squared channel difference.
func (b *Buffer) NormalizedMeanError(other *Buffer) (float64, error) {
	e, err := b.MeanError(other)
	if err != nil {
		return 0, err
	}
	return e / (255 * 255), nil
}
