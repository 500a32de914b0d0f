package core

import "strings"

// LayerMask selects which renderables take part in a draw pass.
type LayerMask uint32

const (
	LayerDefault     LayerMask = 1 << 0
	LayerRaycast     LayerMask = 1 << 1
	LayerShadowcast  LayerMask = 1 << 2
	LayerLight       LayerMask = 1 << 3
	LayerTranslucent LayerMask = 1 << 4
	LayerUI          LayerMask = 1 << 6
)

var layerNames = []struct {
	mask LayerMask
	name string
}{
	{LayerDefault, "DEFAULT"},
	{LayerRaycast, "RAYCAST"},
	{LayerShadowcast, "SHADOWCAST"},
	{LayerLight, "LIGHT"},
	{LayerTranslucent, "TRANSLUCENT"},
	{LayerUI, "UI"},
}

func (m LayerMask) Has(layer LayerMask) bool { return m&layer != 0 }

func (m LayerMask) String() string {
	if m == 0 {
		return "NONE"
	}
	var parts []string
	for _, l := range layerNames {
		if m&l.mask != 0 {
			parts = append(parts, l.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}
