package transparency

import (
	"cmp"
	"slices"

	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/pkg/math"
)

// Sort orders leaves for drawing and assigns RenderOrder = index.
// Opaque leaves come first; within each group leaves farther along local Z
// come first so overlapping translucent surfaces blend back to front. Ties
// break on leaf ID, making the result independent of traversal order.
// The returned slice is a sorted copy.
func Sort(leaves []*scene.Node) []*scene.Node {
	sorted := slices.Clone(leaves)
	slices.SortFunc(sorted, func(a, b *scene.Node) int {
		at, bt := a.Material.Transparent, b.Material.Transparent
		if at != bt {
			if !at {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.Position.Z, a.Position.Z); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for i, leaf := range sorted {
		leaf.Material.RenderOrder = i
	}
	return sorted
}

// Normalize applies the resting compositing flags of every captured leaf.
// It runs once per asset load, before the first sort.
func Normalize(leaves []*scene.Node, baselines *Baselines) {
	for _, leaf := range leaves {
		base, ok := baselines.Get(leaf.ID)
		if !ok {
			continue
		}
		leaf.Material.Transparent, leaf.Material.DepthWrite = base.RestFlags()
	}
}

// ForceBlend marks every leaf transparent with depth writes on. Applied
// while an opacity animation is running so fully opaque parts still
// occlude while partially transparent parts blend.
func ForceBlend(leaves []*scene.Node) {
	for _, leaf := range leaves {
		leaf.Material.Transparent = true
		leaf.Material.DepthWrite = true
	}
}

// Settle restores the resting flags of leaves whose opacity is back at its
// baseline. Other leaves keep blending, and any leaf below full opacity
// stays transparent. It reports whether every leaf is at its baseline.
func Settle(leaves []*scene.Node, baselines *Baselines) bool {
	all := true
	for _, leaf := range leaves {
		mat := leaf.Material
		base, ok := baselines.Get(leaf.ID)
		if ok && mat.Opacity == base.Opacity {
			mat.Transparent, mat.DepthWrite = base.RestFlags()
			continue
		}
		all = false
		if mat.Opacity < 1 {
			mat.Transparent = true
		}
	}
	return all
}

// Target returns the opacity a leaf animates to for a requested multiplier.
// The request is clamped to [0, 1]; opacities compose multiplicatively.
func Target(base Baseline, requested float32) float32 {
	return base.Opacity * math.Clamp(requested, 0, 1)
}

// NeedsBlend reports whether a leaf must be transparent while animating
// towards target.
func NeedsBlend(base Baseline, target float32) bool {
	return target < 1 || base.Opacity < 1
}
