package assets

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/scanline/internal/resource"
)

// sqxFile is the <sequences> document of a sequence pack.
type sqxFile struct {
	XMLName   xml.Name      `xml:"sequences"`
	Sequences []sqxSequence `xml:"sequence"`
	Cycles    []sqxCycle    `xml:"cycle"`
}

type sqxSequence struct {
	Name   string `xml:"name,attr"`
	Target int    `xml:"target,attr"`
	First  int    `xml:"first,attr"`
	Delay  int    `xml:"delay,attr"`
	Count  int    `xml:"count,attr"`
	Body   string `xml:",chardata"`
}

type sqxCycle struct {
	Name   string     `xml:"name,attr"`
	Strips []sqxStrip `xml:"strip"`
}

type sqxStrip struct {
	Delay int `xml:"delay,attr"`
	First int `xml:"first,attr"`
	Count int `xml:"count,attr"`
	Dir   int `xml:"dir,attr"`
}

// LoadSequencePack reads an SQX file:
//
//	<sequences>
//	  <sequence name="walk" delay="6" count="4">1 2 3 2</sequence>
//	  <cycle name="water"><strip delay="10" first="16" count="8" dir="1"/></cycle>
//	</sequences>
//
// Frame indices are decimal, or hexadecimal with a leading '#'.
func LoadSequencePack(path string) (*resource.SequencePack, error) {
	data, err := readFile("LoadSequencePack", path)
	if err != nil {
		return nil, err
	}
	return DecodeSequencePack(data)
}

// DecodeSequencePack parses SQX data.
func DecodeSequencePack(data []byte) (*resource.SequencePack, error) {
	var doc sqxFile
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, formatError("LoadSequencePack", err)
	}

	sp := resource.NewSequencePack()
	fail := func(err error) (*resource.SequencePack, error) {
		sp.Delete()
		return nil, err
	}
	for _, s := range doc.Sequences {
		frames, err := parseFrameList(s.Body, s.Delay)
		if err != nil {
			return fail(formatError("LoadSequencePack", fmt.Errorf("sequence %q: %w", s.Name, err)))
		}
		if s.Count > 0 && s.Count < len(frames) {
			frames = frames[:s.Count]
		}
		target := s.Target
		if target == 0 {
			target = s.First
		}
		seq, err := resource.NewSequence(s.Name, target, frames)
		if err != nil {
			return fail(err)
		}
		if err := sp.Add(seq); err != nil {
			return fail(err)
		}
	}
	for _, c := range doc.Cycles {
		var strips []resource.ColorStrip
		for _, st := range c.Strips {
			// Strips without a delay never rotate.
			if st.Delay == 0 {
				continue
			}
			if st.First < 0 || st.First > 255 || st.Count <= 0 || st.Count > 255 {
				return fail(formatError("LoadSequencePack", fmt.Errorf("cycle %q: bad strip", c.Name)))
			}
			strips = append(strips, resource.ColorStrip{
				Delay: st.Delay,
				First: uint8(st.First),
				Count: uint8(st.Count),
				Dir:   uint8(st.Dir),
			})
		}
		seq, err := resource.NewCycle(c.Name, strips)
		if err != nil {
			return fail(err)
		}
		if err := sp.Add(seq); err != nil {
			return fail(err)
		}
	}
	return sp, nil
}

// parseFrameList reads whitespace or comma separated frame indices.
func parseFrameList(body string, delay int) ([]resource.SequenceFrame, error) {
	fields := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	frames := make([]resource.SequenceFrame, 0, len(fields))
	for _, f := range fields {
		base := 10
		if strings.HasPrefix(f, "#") {
			f = f[1:]
			base = 16
		}
		n, err := strconv.ParseUint(f, base, 16)
		if err != nil {
			return nil, err
		}
		frames = append(frames, resource.SequenceFrame{Index: int(n), Delay: delay})
	}
	return frames, nil
}
