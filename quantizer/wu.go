package quantizer

import "github.com/gogpu/quant"

// Wu implements Xiaolin Wu's greedy orthogonal bipartition. Pixels are
// binned into a 32x32x32 histogram with cumulative moments; the box with the
// largest variance is repeatedly cut where the summed variance of the two
// halves is smallest.
//
// The default color cache is colorcache.Euclidean.
type Wu struct {
	base
}

// NewWu creates a Wu quantizer.
func NewWu(opts ...Option) *Wu {
	return &Wu{base: newBase("wu", newConfig(opts), euclideanCache)}
}

// Palette returns at most n colors.
func (q *Wu) Palette(n int) (quant.Palette, error) {
	return q.reduce(n, reduceWu)
}

const wuSide = 33

type wuCube[T int64 | float64] [wuSide][wuSide][wuSide]T

type wuBox struct {
	r0, r1, g0, g1, b0, b1 int // exclusive lower, inclusive upper
	vol                    int
}

type wuAxis int

const (
	wuRed wuAxis = iota
	wuGreen
	wuBlue
)

type wuMoments struct {
	wt, mr, mg, mb *wuCube[int64]
	m2             *wuCube[float64]
}

func newWuMoments(samples []sample) *wuMoments {
	m := &wuMoments{
		wt: new(wuCube[int64]),
		mr: new(wuCube[int64]),
		mg: new(wuCube[int64]),
		mb: new(wuCube[int64]),
		m2: new(wuCube[float64]),
	}
	for _, s := range samples {
		r, g, b := s.rgb()
		ir, ig, ib := r>>3+1, g>>3+1, b>>3+1
		m.wt[ir][ig][ib] += s.count
		m.mr[ir][ig][ib] += r * s.count
		m.mg[ir][ig][ib] += g * s.count
		m.mb[ir][ig][ib] += b * s.count
		m.m2[ir][ig][ib] += float64(r*r+g*g+b*b) * float64(s.count)
	}
	m.accumulate()
	return m
}

// accumulate converts the histogram into cumulative moments so that any box
// sum is an inclusion-exclusion of eight corners.
func (m *wuMoments) accumulate() {
	for r := 1; r < wuSide; r++ {
		var area, areaR, areaG, areaB [wuSide]int64
		var area2 [wuSide]float64
		for g := 1; g < wuSide; g++ {
			var line, lineR, lineG, lineB int64
			var line2 float64
			for b := 1; b < wuSide; b++ {
				line += m.wt[r][g][b]
				lineR += m.mr[r][g][b]
				lineG += m.mg[r][g][b]
				lineB += m.mb[r][g][b]
				line2 += m.m2[r][g][b]

				area[b] += line
				areaR[b] += lineR
				areaG[b] += lineG
				areaB[b] += lineB
				area2[b] += line2

				m.wt[r][g][b] = m.wt[r-1][g][b] + area[b]
				m.mr[r][g][b] = m.mr[r-1][g][b] + areaR[b]
				m.mg[r][g][b] = m.mg[r-1][g][b] + areaG[b]
				m.mb[r][g][b] = m.mb[r-1][g][b] + areaB[b]
				m.m2[r][g][b] = m.m2[r-1][g][b] + area2[b]
			}
		}
	}
}

func wuVolume[T int64 | float64](c *wuBox, m *wuCube[T]) T {
	return m[c.r1][c.g1][c.b1] - m[c.r1][c.g1][c.b0] - m[c.r1][c.g0][c.b1] + m[c.r1][c.g0][c.b0] -
		m[c.r0][c.g1][c.b1] + m[c.r0][c.g1][c.b0] + m[c.r0][c.g0][c.b1] - m[c.r0][c.g0][c.b0]
}

// wuBottom is the part of the volume sum that does not depend on the cut
// position along axis.
func wuBottom(c *wuBox, axis wuAxis, m *wuCube[int64]) int64 {
	switch axis {
	case wuRed:
		return -m[c.r0][c.g1][c.b1] + m[c.r0][c.g1][c.b0] + m[c.r0][c.g0][c.b1] - m[c.r0][c.g0][c.b0]
	case wuGreen:
		return -m[c.r1][c.g0][c.b1] + m[c.r1][c.g0][c.b0] + m[c.r0][c.g0][c.b1] - m[c.r0][c.g0][c.b0]
	default:
		return -m[c.r1][c.g1][c.b0] + m[c.r1][c.g0][c.b0] + m[c.r0][c.g1][c.b0] - m[c.r0][c.g0][c.b0]
	}
}

// wuTop is the remainder of the volume sum for a cut at pos along axis.
func wuTop(c *wuBox, axis wuAxis, pos int, m *wuCube[int64]) int64 {
	switch axis {
	case wuRed:
		return m[pos][c.g1][c.b1] - m[pos][c.g1][c.b0] - m[pos][c.g0][c.b1] + m[pos][c.g0][c.b0]
	case wuGreen:
		return m[c.r1][pos][c.b1] - m[c.r1][pos][c.b0] - m[c.r0][pos][c.b1] + m[c.r0][pos][c.b0]
	default:
		return m[c.r1][c.g1][pos] - m[c.r1][c.g0][pos] - m[c.r0][c.g1][pos] + m[c.r0][c.g0][pos]
	}
}

func (m *wuMoments) variance(c *wuBox) float64 {
	dr := float64(wuVolume(c, m.mr))
	dg := float64(wuVolume(c, m.mg))
	db := float64(wuVolume(c, m.mb))
	w := float64(wuVolume(c, m.wt))
	return wuVolume(c, m.m2) - (dr*dr+dg*dg+db*db)/w
}

func wuScore(r, g, b, w int64) float64 {
	fr, fg, fb := float64(r), float64(g), float64(b)
	return (fr*fr + fg*fg + fb*fb) / float64(w)
}

// maximize returns the best cut position along axis in [first, last) and
// the score of the resulting halves, or -1 when no cut separates pixels.
func (m *wuMoments) maximize(c *wuBox, axis wuAxis, first, last int, whole [4]int64) (float64, int) {
	baseR := wuBottom(c, axis, m.mr)
	baseG := wuBottom(c, axis, m.mg)
	baseB := wuBottom(c, axis, m.mb)
	baseW := wuBottom(c, axis, m.wt)

	best, cut := 0.0, -1
	for i := first; i < last; i++ {
		hr := baseR + wuTop(c, axis, i, m.mr)
		hg := baseG + wuTop(c, axis, i, m.mg)
		hb := baseB + wuTop(c, axis, i, m.mb)
		hw := baseW + wuTop(c, axis, i, m.wt)
		if hw == 0 {
			continue
		}
		score := wuScore(hr, hg, hb, hw)

		hr, hg, hb, hw = whole[0]-hr, whole[1]-hg, whole[2]-hb, whole[3]-hw
		if hw == 0 {
			continue
		}
		score += wuScore(hr, hg, hb, hw)

		if score > best {
			best, cut = score, i
		}
	}
	return best, cut
}

// cut splits a into a and b. It reports false if a cannot be split.
func (m *wuMoments) cut(a, b *wuBox) bool {
	whole := [4]int64{wuVolume(a, m.mr), wuVolume(a, m.mg), wuVolume(a, m.mb), wuVolume(a, m.wt)}

	maxR, cutR := m.maximize(a, wuRed, a.r0+1, a.r1, whole)
	maxG, cutG := m.maximize(a, wuGreen, a.g0+1, a.g1, whole)
	maxB, cutB := m.maximize(a, wuBlue, a.b0+1, a.b1, whole)

	*b = *a
	switch {
	case maxR >= maxG && maxR >= maxB:
		if cutR < 0 {
			return false
		}
		b.r0, a.r1 = cutR, cutR
	case maxG >= maxR && maxG >= maxB:
		b.g0, a.g1 = cutG, cutG
	default:
		b.b0, a.b1 = cutB, cutB
	}

	a.vol = (a.r1 - a.r0) * (a.g1 - a.g0) * (a.b1 - a.b0)
	b.vol = (b.r1 - b.r0) * (b.g1 - b.g0) * (b.b1 - b.b0)
	return true
}

func reduceWu(samples []sample, n int) (quant.Palette, error) {
	m := newWuMoments(samples)

	boxes := make([]wuBox, n)
	vv := make([]float64, n)
	boxes[0] = wuBox{r1: wuSide - 1, g1: wuSide - 1, b1: wuSide - 1}
	boxes[0].vol = (wuSide - 1) * (wuSide - 1) * (wuSide - 1)

	count := n
	next := 0
	for i := 1; i < n; i++ {
		if m.cut(&boxes[next], &boxes[i]) {
			vv[next], vv[i] = 0, 0
			if boxes[next].vol > 1 {
				vv[next] = m.variance(&boxes[next])
			}
			if boxes[i].vol > 1 {
				vv[i] = m.variance(&boxes[i])
			}
		} else {
			vv[next] = 0
			i--
		}

		next = 0
		best := vv[0]
		for k := 1; k <= i; k++ {
			if vv[k] > best {
				best, next = vv[k], k
			}
		}
		if best <= 0 {
			count = i + 1
			break
		}
	}

	pal := make(quant.Palette, 0, count)
	for i := range count {
		c := &boxes[i]
		w := wuVolume(c, m.wt)
		if w == 0 {
			continue
		}
		r := (wuVolume(c, m.mr) + w/2) / w
		g := (wuVolume(c, m.mg) + w/2) / w
		b := (wuVolume(c, m.mb) + w/2) / w
		pal = append(pal, quant.RGB(uint8(r), uint8(g), uint8(b)))
	}
	return pal, nil
}
