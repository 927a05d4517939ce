package colorcache

import (
	"fmt"

	"github.com/gogpu/quant"
)

const treeDepth = 8

type treeNode struct {
	children [8]*treeNode
	entries  []int // palette indices below this node, ascending
}

func childIndex(key uint32, level int) int {
	shift := uint(7 - level)
	r := key >> 16 >> shift & 1
	g := key >> 8 >> shift & 1
	b := key >> shift & 1
	return int(r<<2 | g<<1 | b)
}

// Octree resolves colors through a tree of the palette keyed by RGB bit
// planes. A lookup descends to the deepest node matching the color's bits
// and returns the nearest entry among the entries below that node.
type Octree struct {
	memo
	model quant.ColorModel
	comps []quant.Components
	root  *treeNode
}

// NewOctree creates a bit-plane tree cache comparing colocated entries in
// model. An invalid model selects quant.ModelRGB.
func NewOctree(model quant.ColorModel) *Octree {
	return &Octree{memo: newMemo(), model: validModel(model)}
}

// Model returns the distance model.
func (o *Octree) Model() quant.ColorModel {
	return o.model
}

// Prepare clears memoized results.
func (o *Octree) Prepare() {
	o.reset()
}

// CachePalette builds the tree of p.
func (o *Octree) CachePalette(p quant.Palette) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: octree cache", quant.ErrEmptyPalette)
	}
	root := &treeNode{}
	for i, c := range p {
		key := c.Key()
		n := root
		n.entries = append(n.entries, i)
		for level := range treeDepth {
			ci := childIndex(key, level)
			if n.children[ci] == nil {
				n.children[ci] = &treeNode{}
			}
			n = n.children[ci]
			n.entries = append(n.entries, i)
		}
	}
	o.root = root
	o.comps = components(o.model, p)
	o.reset()
	return nil
}

// PaletteIndex returns the index of the nearest entry under the deepest
// node sharing c's bit prefix. It panics if no palette has been cached.
func (o *Octree) PaletteIndex(c quant.Color) int {
	if o.root == nil {
		panic("colorcache: octree: PaletteIndex before CachePalette")
	}
	return o.lookup(c, o.resolve)
}

func (o *Octree) resolve(key uint32) int {
	n := o.root
	for level := range treeDepth {
		next := n.children[childIndex(key, level)]
		if next == nil {
			break
		}
		n = next
	}
	if len(n.entries) == 1 {
		return n.entries[0]
	}
	return nearest(o.model, o.comps, o.model.Components(quant.ColorFromKey(key)), n.entries)
}
