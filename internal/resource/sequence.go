package resource

import (
	"github.com/vovakirdan/scanline/internal/core"
)

// SequenceKind tells which animation a sequence drives.
type SequenceKind int

const (
	// SequenceFrames is a list of picture or tile indices with delays.
	SequenceFrames SequenceKind = iota
	// SequenceCycle is a list of palette color strips.
	SequenceCycle
)

// SequenceFrame is one step of a frame sequence.
type SequenceFrame struct {
	Index int // Sprite picture or tileset entry shown by this step
	Delay int // Time units this step stays visible
}

// ColorStrip is one rotating range of palette entries.
type ColorStrip struct {
	Delay int   // Time units between rotation steps
	First uint8 // First palette entry of the range
	Count uint8 // Number of entries in the range
	Dir   uint8 // 1 rotates upwards, 0 downwards
}

// SequenceInfo describes a sequence.
type SequenceInfo struct {
	Name      string
	NumFrames int
}

// Sequence is an ordered list of animation steps.
type Sequence struct {
	object
	name   string
	kind   SequenceKind
	target int
	frames []SequenceFrame
	strips []ColorStrip
}

// NewSequence creates a frame sequence. For tileset animations target is
// the tileset entry whose picture is replaced; sprites ignore it.
func NewSequence(name string, target int, frames []SequenceFrame) (*Sequence, error) {
	if len(frames) == 0 {
		return nil, core.NewError("NewSequence", core.ErrWrongSize)
	}
	for _, f := range frames {
		if f.Index < 0 || f.Delay < 0 {
			return nil, core.NewError("NewSequence", core.ErrIdxPicture)
		}
	}
	s := &Sequence{name: name, kind: SequenceFrames, target: target}
	s.frames = append([]SequenceFrame(nil), frames...)
	return s, nil
}

// NewCycle creates a palette color-cycle sequence.
func NewCycle(name string, strips []ColorStrip) (*Sequence, error) {
	if len(strips) == 0 {
		return nil, core.NewError("NewCycle", core.ErrWrongSize)
	}
	for _, st := range strips {
		if st.Count == 0 || st.Delay <= 0 || int(st.First)+int(st.Count) > MaxPaletteEntries {
			return nil, core.NewError("NewCycle", core.ErrIdxPicture)
		}
	}
	s := &Sequence{name: name, kind: SequenceCycle}
	s.strips = append([]ColorStrip(nil), strips...)
	return s, nil
}

// Kind implements Object.
func (s *Sequence) Kind() Kind { return KindSequence }

// Alive reports whether the sequence has not been deleted.
func (s *Sequence) Alive() bool { return s != nil && s.alive() }

// Delete releases the sequence.
func (s *Sequence) Delete() {
	if s == nil {
		return
	}
	s.markDeleted()
}

// Name returns the sequence name.
func (s *Sequence) Name() string { return s.name }

// Type returns whether the sequence holds frames or color strips.
func (s *Sequence) Type() SequenceKind { return s.kind }

// Target returns the tileset entry a tileset animation replaces.
func (s *Sequence) Target() int { return s.target }

// Frames returns the frame list. Callers must not modify it.
func (s *Sequence) Frames() []SequenceFrame { return s.frames }

// Strips returns the color strips. Callers must not modify it.
func (s *Sequence) Strips() []ColorStrip { return s.strips }

// Info returns the name and the number of frames or strips.
func (s *Sequence) Info() SequenceInfo {
	n := len(s.frames)
	if s.kind == SequenceCycle {
		n = len(s.strips)
	}
	return SequenceInfo{Name: s.name, NumFrames: n}
}

// TotalDelay returns the sum of all frame delays.
func (s *Sequence) TotalDelay() int {
	total := 0
	for _, f := range s.frames {
		total += f.Delay
	}
	return total
}

// Clone returns an independent copy of the sequence.
func (s *Sequence) Clone() (*Sequence, error) {
	if err := Check("CloneSequence", s); err != nil {
		return nil, err
	}
	clone := &Sequence{name: s.name, kind: s.kind, target: s.target}
	clone.frames = append([]SequenceFrame(nil), s.frames...)
	clone.strips = append([]ColorStrip(nil), s.strips...)
	return clone, nil
}

// SequencePack is a named collection of sequences with unique names.
type SequencePack struct {
	object
	sequences []*Sequence
	byName    map[string]int
}

// NewSequencePack creates an empty pack.
func NewSequencePack() *SequencePack {
	return &SequencePack{byName: make(map[string]int)}
}

// Kind implements Object.
func (sp *SequencePack) Kind() Kind { return KindSequencePack }

// Alive reports whether the pack has not been deleted.
func (sp *SequencePack) Alive() bool { return sp != nil && sp.alive() }

// Delete releases the pack and every sequence it holds.
func (sp *SequencePack) Delete() {
	if sp == nil {
		return
	}
	for _, s := range sp.sequences {
		s.Delete()
	}
	sp.markDeleted()
	sp.sequences = nil
	sp.byName = nil
}

// Add appends a sequence. Names must be unique within the pack.
func (sp *SequencePack) Add(s *Sequence) error {
	if err := Check("AddSequenceToPack", sp); err != nil {
		return err
	}
	if err := Check("AddSequenceToPack", s); err != nil {
		return err
	}
	if _, exists := sp.byName[s.name]; exists {
		return core.NewError("AddSequenceToPack", core.ErrRefSequence)
	}
	sp.byName[s.name] = len(sp.sequences)
	sp.sequences = append(sp.sequences, s)
	return nil
}

// Count returns the number of sequences.
func (sp *SequencePack) Count() int {
	return len(sp.sequences)
}

// Sequence returns the sequence at index.
func (sp *SequencePack) Sequence(index int) (*Sequence, error) {
	if err := Check("GetSequence", sp); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sp.sequences) {
		return nil, core.NewError("GetSequence", core.ErrRefSequence)
	}
	return sp.sequences[index], nil
}

// Find returns the sequence with the given name.
func (sp *SequencePack) Find(name string) (*Sequence, error) {
	if err := Check("FindSequence", sp); err != nil {
		return nil, err
	}
	i, ok := sp.byName[name]
	if !ok {
		return nil, core.NewError("FindSequence", core.ErrRefSequence)
	}
	return sp.sequences[i], nil
}
