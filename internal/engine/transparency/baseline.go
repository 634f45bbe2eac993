// Package transparency keeps translucent leaves compositing correctly while
// their opacity animates: it records authored material state per leaf and
// assigns painter's-order render indices.
package transparency

import "github.com/Faultbox/floorview/internal/engine/scene"

// Baseline is the authored material state of one leaf.
type Baseline struct {
	Opacity     float32
	Transparent bool
	DepthWrite  bool
}

// RestFlags returns the compositing flags for the leaf when it shows its
// authored opacity: translucent leaves blend and do not write depth.
func (b Baseline) RestFlags() (transparent, depthWrite bool) {
	if b.Opacity < 1 {
		return true, false
	}
	return b.Transparent, b.DepthWrite
}

// Baselines maps leaf IDs to their authored state. One map belongs to one
// loaded asset instance and is discarded wholesale when the asset reloads.
type Baselines struct {
	entries map[string]Baseline
}

// NewBaselines creates an empty baseline map.
func NewBaselines() *Baselines {
	return &Baselines{entries: make(map[string]Baseline)}
}

// Capture records the current material state of every leaf not seen
// before. Existing entries are never overwritten. It returns the number of
// newly captured leaves.
func (b *Baselines) Capture(leaves []*scene.Node) int {
	n := 0
	for _, leaf := range leaves {
		if leaf.Material == nil {
			continue
		}
		if _, ok := b.entries[leaf.ID]; ok {
			continue
		}
		b.entries[leaf.ID] = Baseline{
			Opacity:     leaf.Material.Opacity,
			Transparent: leaf.Material.Transparent,
			DepthWrite:  leaf.Material.DepthWrite,
		}
		n++
	}
	return n
}

// Get returns the baseline for a leaf.
func (b *Baselines) Get(id string) (Baseline, bool) {
	e, ok := b.entries[id]
	return e, ok
}

// Len returns the number of captured leaves.
func (b *Baselines) Len() int {
	return len(b.entries)
}

// Reset forgets every baseline.
func (b *Baselines) Reset() {
	clear(b.entries)
}
