package window

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/scanline/internal/core"
)

func keys(down ...ebiten.Key) func(ebiten.Key) bool {
	return func(k ebiten.Key) bool {
		for _, d := range down {
			if d == k {
				return true
			}
		}
		return false
	}
}

func TestActions(t *testing.T) {
	tests := []struct {
		name    string
		pressed []ebiten.Key
		just    []ebiten.Key
		want    []core.Action
		notWant []core.Action
	}{
		{
			name:    "held direction",
			pressed: []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyW},
			want:    []core.Action{core.ActionLeft, core.ActionUp},
			notWant: []core.Action{core.ActionRight, core.ActionDown},
		},
		{
			name:    "held button does not repeat",
			pressed: []ebiten.Key{ebiten.KeyZ},
			notWant: []core.Action{core.ActionButton1},
		},
		{
			name:    "pressed buttons",
			pressed: []ebiten.Key{ebiten.KeySpace, ebiten.KeyP},
			just:    []ebiten.Key{ebiten.KeySpace, ebiten.KeyP},
			want:    []core.Action{core.ActionButton1, core.ActionPause},
		},
		{
			name: "quit",
			just: []ebiten.Key{ebiten.KeyEscape},
			want: []core.Action{core.ActionQuit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Actions(keys(tt.pressed...), keys(tt.just...))
			for _, a := range tt.want {
				if !in.Has(a) {
					t.Errorf("Actions() missing %v", a)
				}
			}
			for _, a := range tt.notWant {
				if in.Has(a) {
					t.Errorf("Actions() has unexpected %v", a)
				}
			}
		})
	}
}
