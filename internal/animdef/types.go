// Package animdef provides data structures and parsers for sprite animation
// definition files. A definition names a playback mode and an ordered list of
// atlas frames; every frame either carries its own duration or inherits a
// shared default (frame_duration, fps or total_duration).
//
// Example document:
//
//	mode: ping-pong
//	frame_duration: 100
//	frames:
//	  - 0
//	  - index: 1
//	    duration: 250
//	  - range: [2, 5]
package animdef

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decker502/spriteanim/pkg/anim"
	"gopkg.in/yaml.v3"
)

// MaxFrames caps the number of frames a single definition may expand to.
// Ranges and whole documents above it are rejected with ErrInvalidFormat.
const MaxFrames = 4096

// Definition is the root structure of a single animation document.
type Definition struct {
	// Mode is the playback mode; absent means "repeat" from frame 0
	Mode ModeSpec `yaml:"mode"`

	// FrameDuration is the shared frame duration in milliseconds
	FrameDuration *uint64 `yaml:"frame_duration,omitempty"`

	// FPS is the shared frame rate, converted to a frame duration of 1s / fps
	FPS *float64 `yaml:"fps,omitempty"`

	// TotalDuration in milliseconds is split evenly across all frames
	TotalDuration *uint64 `yaml:"total_duration,omitempty"`

	// Frames is the playback sequence
	Frames []FrameSpec `yaml:"frames"`
}

// Library is a document holding several named definitions.
type Library struct {
	Animations map[string]*Definition `yaml:"animations"`
}

// ModeSpec wraps anim.Mode with the textual representation used in files:
// "once", "repeat", "ping-pong" or the mapping {repeat-from: n}.
type ModeSpec struct {
	anim.Mode
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *ModeSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		mode, err := ParseMode(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		m.Mode = mode
		return nil

	case yaml.MappingNode:
		if len(node.Content) != 2 || normalizeKey(node.Content[0].Value) != "repeat-from" {
			return fmt.Errorf("line %d: mode mapping must be {repeat-from: <index>}", node.Line)
		}
		var loopFrom uint
		if err := node.Content[1].Decode(&loopFrom); err != nil {
			return fmt.Errorf("line %d: repeat-from: %w", node.Line, err)
		}
		m.Mode = anim.ModeRepeatFrom(int(loopFrom))
		return nil
	}
	return fmt.Errorf("line %d: mode must be a string or a mapping", node.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (m ModeSpec) MarshalYAML() (interface{}, error) {
	switch m.Kind {
	case anim.Once:
		return "once", nil
	case anim.PingPong:
		return "ping-pong", nil
	default:
		if m.LoopFrom == 0 {
			return "repeat", nil
		}
		return map[string]int{"repeat-from": m.LoopFrom}, nil
	}
}

// FrameSpec is one entry of the frame list. It is written either as a bare
// atlas index, as {index, duration} or as {range: [from, to], duration}; a
// range expands to one frame per index, descending when from > to.
type FrameSpec struct {
	// Indices holds the atlas indices this entry expands to
	Indices []uint

	// Duration in milliseconds; nil inherits the shared default
	Duration *uint64
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FrameSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var index uint
		if err := node.Decode(&index); err != nil {
			return fmt.Errorf("line %d: frame index: %w", node.Line, err)
		}
		f.Indices = []uint{index}
		return nil

	case yaml.MappingNode:
		var raw struct {
			Index    *uint   `yaml:"index"`
			Range    []uint  `yaml:"range"`
			Duration *uint64 `yaml:"duration"`
		}
		for i := 0; i < len(node.Content); i += 2 {
			switch key := node.Content[i].Value; key {
			case "index", "range", "duration":
			default:
				return fmt.Errorf("line %d: unknown frame field %q", node.Content[i].Line, key)
			}
		}
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: frame: %w", node.Line, err)
		}

		switch {
		case raw.Index != nil && raw.Range != nil:
			return fmt.Errorf("line %d: frame cannot have both index and range", node.Line)
		case raw.Index != nil:
			f.Indices = []uint{*raw.Index}
		case raw.Range != nil:
			if len(raw.Range) != 2 {
				return fmt.Errorf("line %d: range must be [from, to]", node.Line)
			}
			lo, hi := raw.Range[0], raw.Range[1]
			if lo > hi {
				lo, hi = hi, lo
			}
			if hi-lo >= MaxFrames {
				return fmt.Errorf("line %d: range [%d, %d] exceeds %d frames", node.Line, raw.Range[0], raw.Range[1], MaxFrames)
			}
			f.Indices = anim.IndexRange(raw.Range[0], raw.Range[1])
		default:
			return fmt.Errorf("line %d: frame needs an index or a range", node.Line)
		}
		f.Duration = raw.Duration
		return nil
	}
	return fmt.Errorf("line %d: frame must be an index or a mapping", node.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (f FrameSpec) MarshalYAML() (interface{}, error) {
	if len(f.Indices) == 1 && f.Duration == nil {
		return f.Indices[0], nil
	}
	out := map[string]interface{}{}
	if len(f.Indices) == 1 {
		out["index"] = f.Indices[0]
	} else if len(f.Indices) > 1 {
		out["range"] = []uint{f.Indices[0], f.Indices[len(f.Indices)-1]}
	}
	if f.Duration != nil {
		out["duration"] = *f.Duration
	}
	return out, nil
}

// FrameCount returns the number of frames after range expansion.
func (d *Definition) FrameCount() int {
	n := 0
	for _, f := range d.Frames {
		n += len(f.Indices)
	}
	return n
}

// ParseMode parses the compact textual mode used by file formats that only
// carry strings (e.g. Tiled tile properties): "once", "repeat", "ping-pong"
// or "repeat-from:<index>".
func ParseMode(s string) (anim.Mode, error) {
	key := normalizeKey(s)
	switch key {
	case "", "repeat":
		return anim.ModeRepeat(), nil
	case "once":
		return anim.ModeOnce(), nil
	case "ping-pong", "pingpong":
		return anim.ModePingPong(), nil
	}
	if rest, ok := strings.CutPrefix(key, "repeat-from"); ok {
		rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
		loopFrom, err := strconv.ParseUint(rest, 10, 31)
		if err != nil {
			return anim.Mode{}, fmt.Errorf("invalid repeat-from index %q", rest)
		}
		return anim.ModeRepeatFrom(int(loopFrom)), nil
	}
	return anim.Mode{}, fmt.Errorf("unknown mode %q", s)
}

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}
