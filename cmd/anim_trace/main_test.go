package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/decker502/spriteanim/pkg/anim"
	"gopkg.in/yaml.v3"
)

func writeDefinition(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func TestTrace(t *testing.T) {
	a := anim.MustFromIndices([]uint{0, 1, 2}, anim.FrameRateFromFrameDuration(100*time.Millisecond)).Once()
	steps := Trace(&a, 100*time.Millisecond, 3)

	want := []struct {
		sprite uint
		ended  bool
	}{{1, false}, {2, false}, {2, true}}
	for i, w := range want {
		if steps[i].SpriteFrame != w.sprite || steps[i].Ended != w.ended {
			t.Errorf("step %d: got %+v, want sprite %d ended %v", i+1, steps[i], w.sprite, w.ended)
		}
	}
	if steps[2].Time != 300*time.Millisecond {
		t.Errorf("unexpected time %v", steps[2].Time)
	}
}

func TestRun_Text(t *testing.T) {
	path := writeDefinition(t, "coin.yaml", "mode: ping-pong\nframe_duration: 100\nframes: [0, 1, 2]\n")

	var out bytes.Buffer
	if err := run([]string{"--file", path, "--dt", "100ms", "--ticks", "4"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected title, header and 4 steps, got:\n%s", out.String())
	}
	// 0 -> 1 -> 2 -> 1 -> 0
	if fields := strings.Fields(lines[5]); fields[3] != "0" {
		t.Errorf("expected sprite 0 on tick 4, got %q", lines[5])
	}
}

func TestRun_YAML(t *testing.T) {
	path := writeDefinition(t, "hero.yaml", `
animations:
  idle:
    fps: 10
    frames: [0, 1]
  jump:
    mode: once
    frame_duration: 50
    frames: [4, 5]
`)

	var out bytes.Buffer
	if err := run([]string{"--file", path, "--name", "jump", "--dt", "50ms", "--ticks", "2", "--format", "yaml"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var doc struct {
		Animation string      `yaml:"animation"`
		Mode      string      `yaml:"mode"`
		Steps     []TraceStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out.String())
	}
	if doc.Animation != "jump" || doc.Mode != "Once" || len(doc.Steps) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !doc.Steps[1].Ended || doc.Steps[1].SpriteFrame != 5 {
		t.Errorf("expected ended on frame 5, got %+v", doc.Steps[1])
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRun_YAMLWriteError(t *testing.T) {
	path := writeDefinition(t, "coin.yaml", "animations:\n  spin:\n    fps: 10\n    frames: [0, 1]\n")

	err := run([]string{"--file", path, "--ticks", "3", "--format", "yaml"}, failingWriter{})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected the write error to be returned, got %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	library := writeDefinition(t, "many.yaml", "animations:\n  a:\n    fps: 1\n    frames: [0]\n  b:\n    fps: 1\n    frames: [1]\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file flag", nil},
		{"ambiguous name", []string{"--file", library}},
		{"unknown name", []string{"--file", library, "--name", "c"}},
		{"bad format", []string{"--file", library, "--name", "a", "--format", "json"}},
		{"negative ticks", []string{"--file", library, "--ticks", "-1"}},
		{"missing file", []string{"--file", filepath.Join(t.TempDir(), "nope.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args, &bytes.Buffer{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRun_List(t *testing.T) {
	path := writeDefinition(t, "many.yaml", "animations:\n  a:\n    fps: 1\n    frames: [0]\n  b:\n    mode: once\n    fps: 1\n    frames: [1]\n")

	var out bytes.Buffer
	if err := run([]string{"--file", path, "--list"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "a\t") || !strings.HasPrefix(lines[1], "b\t") {
		t.Errorf("unexpected listing:\n%s", out.String())
	}
}

// TestTraceWorld_MatchesTrace 测试 donburi 实体播放与直接推进状态得到相同轨迹
func TestTraceWorld_MatchesTrace(t *testing.T) {
	a := anim.MustFromIndices([]uint{3, 4, 5, 6}, anim.FrameRateFromFrameDuration(50*time.Millisecond)).PingPong()

	direct := Trace(&a, 20*time.Millisecond, 30)
	viaWorld := TraceWorld(&a, 20*time.Millisecond, 30, 1)
	for i := range direct {
		if direct[i] != viaWorld[i] {
			t.Fatalf("step %d differs: direct %+v, world %+v", i+1, direct[i], viaWorld[i])
		}
	}
}

func TestRun_ECSSpeed(t *testing.T) {
	path := writeDefinition(t, "pop.yaml", "mode: once\nframe_duration: 100\nframes: [0, 1]\n")

	var out bytes.Buffer
	if err := run([]string{"--file", path, "--ecs", "--speed", "0.5", "--dt", "100ms", "--ticks", "4", "--format", "yaml"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var doc struct {
		Steps []TraceStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	// 半速：两个 tick 才前进一帧
	if doc.Steps[1].SpriteFrame != 1 || doc.Steps[1].Ended {
		t.Errorf("tick 2: expected frame 1, got %+v", doc.Steps[1])
	}
	if !doc.Steps[3].Ended {
		t.Errorf("tick 4: expected ended, got %+v", doc.Steps[3])
	}
}
