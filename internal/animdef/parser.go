package animdef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/decker502/spriteanim/pkg/anim"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidFormat is wrapped by every decoding error returned from this package.
	ErrInvalidFormat = errors.New("animation format invalid")

	// ErrUnsupportedExtension reports a file whose extension has no decoder.
	ErrUnsupportedExtension = fmt.Errorf("%w: unsupported file extension", ErrInvalidFormat)
)

// Parse decodes a single animation document.
//
// Unknown top-level fields are rejected so that typos such as "frame_durations"
// do not silently fall back to defaults.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := decodeStrict(data, &def); err != nil {
		return nil, invalid(err)
	}
	if err := def.checkFrameCount(); err != nil {
		return nil, invalid(err)
	}
	return &def, nil
}

// ParseLibrary decodes a document of the form {animations: {name: definition}}.
func ParseLibrary(data []byte) (map[string]*Definition, error) {
	var lib Library
	if err := decodeStrict(data, &lib); err != nil {
		return nil, invalid(err)
	}
	for name, def := range lib.Animations {
		if def == nil {
			return nil, invalid(fmt.Errorf("animation %q is empty", name))
		}
		if err := def.checkFrameCount(); err != nil {
			return nil, invalid(fmt.Errorf("animation %q: %w", name, err))
		}
	}
	return lib.Animations, nil
}

// ParseDocument decodes either a library document or a single definition.
// A single definition is returned under defaultName.
//
// Parameters:
//   - defaultName: Name for a single-definition document, usually the file stem
//   - data: Raw YAML
//
// Returns:
//   - map[string]*Definition: Definitions keyed by animation name
//   - error: Wraps ErrInvalidFormat on any failure
func ParseDocument(defaultName string, data []byte) (map[string]*Definition, error) {
	var probe map[string]yaml.Node
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, invalid(err)
	}
	if _, ok := probe["animations"]; ok {
		return ParseLibrary(data)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return map[string]*Definition{defaultName: def}, nil
}

// ParseFile reads and decodes a definition file from fsys.
//
// Only YAML files (.yaml, .yml) are supported; any other extension, RON
// included, fails with ErrUnsupportedExtension.
//
// Example:
//
//	defs, err := animdef.ParseFile(os.DirFS("data"), "animations/coin.yaml")
//	if err != nil {
//	    log.Fatalf("Failed to parse animation: %v", err)
//	}
//	coin, err := defs["coin"].Build()
func ParseFile(fsys fs.FS, filePath string) (map[string]*Definition, error) {
	if !IsDefinitionFile(filePath) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, filePath)
	}
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read animation file '%s': %w", filePath, err)
	}
	defs, err := ParseDocument(Stem(filePath), data)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", filePath, err)
	}
	return defs, nil
}

// IsDefinitionFile reports whether filePath has a supported extension.
func IsDefinitionFile(filePath string) bool {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Stem returns the base name of filePath without its extension. The
// compound ".anim.yaml" / ".anim.yml" suffix is removed as a whole.
func Stem(filePath string) string {
	base := path.Base(strings.ReplaceAll(filePath, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if IsDefinitionFile(base) && strings.EqualFold(path.Ext(stem), ".anim") {
		stem = strings.TrimSuffix(stem, path.Ext(stem))
	}
	return stem
}

// Build resolves frame durations and returns the animation.
//
// The shared default is taken from frame_duration, fps or total_duration (at
// most one of them may be set). A frame whose resolved duration is zero is
// rejected.
func (d *Definition) Build() (anim.Animation, error) {
	if err := d.checkFrameCount(); err != nil {
		return anim.Animation{}, invalid(err)
	}
	shared, hasShared, err := d.sharedDuration()
	if err != nil {
		return anim.Animation{}, invalid(err)
	}

	frames := make([]anim.Frame, 0, d.FrameCount())
	for i, spec := range d.Frames {
		duration := shared
		switch {
		case spec.Duration != nil:
			duration = time.Duration(*spec.Duration) * time.Millisecond
		case !hasShared:
			return anim.Animation{}, invalid(fmt.Errorf("frame #%d has no duration and no default is set", i))
		}
		for _, index := range spec.Indices {
			f, err := anim.NewFrame(index, duration)
			if err != nil {
				return anim.Animation{}, invalid(fmt.Errorf("frame #%d: %w", i, err))
			}
			frames = append(frames, f)
		}
	}

	return anim.FromFrames(frames).WithMode(d.Mode.Mode), nil
}

func (d *Definition) checkFrameCount() error {
	if n := d.FrameCount(); n > MaxFrames {
		return fmt.Errorf("%d frames exceed the limit of %d", n, MaxFrames)
	}
	return nil
}

func (d *Definition) sharedDuration() (time.Duration, bool, error) {
	set := 0
	for _, present := range []bool{d.FrameDuration != nil, d.FPS != nil, d.TotalDuration != nil} {
		if present {
			set++
		}
	}
	if set > 1 {
		return 0, false, errors.New("only one of frame_duration, fps and total_duration may be set")
	}

	switch {
	case d.FrameDuration != nil:
		return time.Duration(*d.FrameDuration) * time.Millisecond, true, nil
	case d.FPS != nil:
		rate, err := anim.FrameRateFromFPS(*d.FPS)
		if err != nil {
			return 0, false, err
		}
		return rate.FrameDuration(), true, nil
	case d.TotalDuration != nil:
		rate, ok := anim.FrameRateFromTotalDuration(time.Duration(*d.TotalDuration)*time.Millisecond, d.FrameCount())
		if !ok {
			return 0, false, errors.New("total_duration needs at least one frame")
		}
		return rate.FrameDuration(), true, nil
	}
	return 0, false, nil
}

// Marshal encodes a definition back to YAML.
func Marshal(d *Definition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeStrict(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func invalid(err error) error {
	if errors.Is(err, ErrInvalidFormat) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
}
