package quantizer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/quant"
)

const octreeDepth = 8

// Octree reduces colors with an 8-level RGB octree. At each level, starting
// with the deepest, the subtrees with the fewest pixels are folded into
// their parent until the leaf count fits. The root is never folded, so a
// palette smaller than the number of occupied root octants cannot be
// produced and Palette fails with quant.ErrReductionFailed.
//
// The default color cache is colorcache.Octree.
type Octree struct {
	base
}

// NewOctree creates an octree quantizer.
func NewOctree(opts ...Option) *Octree {
	return &Octree{base: newBase("octree", newConfig(opts), octreeCache)}
}

// Palette returns at most n colors.
func (q *Octree) Palette(n int) (quant.Palette, error) {
	return q.reduce(n, reduceOctree)
}

type octNode struct {
	children [8]*octNode
	leaf     bool
	id       int   // creation order
	pixels   int64 // pixels below the node
	r, g, b  int64 // channel sums of a leaf
}

type octree struct {
	root   *octNode
	levels [octreeDepth][]*octNode // interior nodes per level, root at 0
	leaves int
	nextID int
}

func (t *octree) node(level int) *octNode {
	n := &octNode{id: t.nextID, leaf: level == octreeDepth}
	t.nextID++
	if n.leaf {
		t.leaves++
	} else {
		t.levels[level] = append(t.levels[level], n)
	}
	return n
}

func (t *octree) insert(s sample) {
	r, g, b := s.rgb()
	n := t.root
	n.pixels += s.count
	for level := range octreeDepth {
		shift := uint(7 - level)
		i := (r>>shift&1)<<2 | (g>>shift&1)<<1 | (b >> shift & 1)
		if n.children[i] == nil {
			n.children[i] = t.node(level + 1)
		}
		n = n.children[i]
		n.pixels += s.count
	}
	n.r += r * s.count
	n.g += g * s.count
	n.b += b * s.count
}

// fold turns n into a leaf holding the sums of its children, which are
// leaves already.
func (t *octree) fold(n *octNode) {
	kids := 0
	for i, c := range n.children {
		if c == nil {
			continue
		}
		n.r += c.r
		n.g += c.g
		n.b += c.b
		n.children[i] = nil
		kids++
	}
	n.leaf = true
	t.leaves -= kids - 1
}

func (t *octree) collect(n *octNode, out quant.Palette) quant.Palette {
	if n.leaf {
		p := n.pixels
		return append(out, quant.RGB(uint8((n.r+p/2)/p), uint8((n.g+p/2)/p), uint8((n.b+p/2)/p)))
	}
	for _, c := range n.children {
		if c != nil {
			out = t.collect(c, out)
		}
	}
	return out
}

func reduceOctree(samples []sample, n int) (quant.Palette, error) {
	t := &octree{}
	t.root = t.node(0)
	for _, s := range samples {
		t.insert(s)
	}

	for level := octreeDepth - 1; level >= 1 && t.leaves > n; level-- {
		nodes := t.levels[level]
		slices.SortFunc(nodes, func(a, b *octNode) int {
			if c := cmp.Compare(a.pixels, b.pixels); c != 0 {
				return c
			}
			return cmp.Compare(a.id, b.id)
		})
		for _, node := range nodes {
			if t.leaves <= n {
				break
			}
			t.fold(node)
		}
	}
	if t.leaves > n {
		return nil, fmt.Errorf("%w: octree: %d root octants occupied, %d colors requested",
			quant.ErrReductionFailed, t.leaves, n)
	}
	return t.collect(t.root, make(quant.Palette, 0, t.leaves)), nil
}
