package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/engine"
)

type stubDemo struct {
	id       string
	setupErr error
	frames   int
}

func (d *stubDemo) ID() string    { return d.id }
func (d *stubDemo) Title() string { return "Stub " + d.id }

func (d *stubDemo) Setup(e *engine.Engine, _ core.RuntimeConfig) error {
	if d.setupErr != nil {
		return d.setupErr
	}
	e.SetBGColor(core.ColorBlue)
	return nil
}

func (d *stubDemo) Update(int, core.InputFrame) { d.frames++ }
func (d *stubDemo) Close()                      {}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub", func() Demo { return &stubDemo{id: "zz-stub"} })

	if !Exists("zz-stub") {
		t.Fatal("Exists(zz-stub) = false")
	}
	d, err := Create("zz-stub")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if d.ID() != "zz-stub" {
		t.Errorf("ID() = %q, expected %q", d.ID(), "zz-stub")
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz-stub" {
			found = true
			if info.Title != "Stub zz-stub" {
				t.Errorf("Title = %q", info.Title)
			}
		}
	}
	if !found {
		t.Error("List() missing zz-stub")
	}

	if _, err := Create("nope"); err == nil {
		t.Error("Create(nope) expected error")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func() Demo { return &stubDemo{id: "zz-dup"} })
	defer func() {
		if recover() == nil {
			t.Error("second Register() did not panic")
		}
	}()
	Register("zz-dup", func() Demo { return &stubDemo{id: "zz-dup"} })
}

func TestListSorted(t *testing.T) {
	Register("zz-b", func() Demo { return &stubDemo{id: "zz-b"} })
	Register("zz-a", func() Demo { return &stubDemo{id: "zz-a"} })
	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Errorf("List() not sorted at %d: %q > %q", i, list[i-1].ID, list[i].ID)
		}
	}
}

func TestStart(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = 32, 16

	e, err := Start(&stubDemo{id: "s"}, cfg)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if e.Width() != 32 || e.NumSprites() != cfg.Sprites {
		t.Errorf("engine = %dx?, %d sprites", e.Width(), e.NumSprites())
	}
	if err := e.DrawFrame(0); err != nil {
		t.Fatalf("DrawFrame() error = %v", err)
	}
	if got := e.Framebuffer().Get(1, 1); got != core.ColorBlue {
		t.Errorf("pixel = %v, expected blue from Setup", got)
	}

	boom := errors.New("boom")
	if _, err := Start(&stubDemo{id: "s", setupErr: boom}, cfg); !errors.Is(err, boom) {
		t.Errorf("Start() error = %v, expected boom", err)
	}
	cfg.Width = 0
	if _, err := Start(&stubDemo{id: "s"}, cfg); !errors.Is(err, core.ErrWrongSize) {
		t.Errorf("Start(width 0) error = %v, expected ErrWrongSize", err)
	}
}
