package embedded

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func initTestEmbedded(t *testing.T) {
	t.Helper()
	Init(
		fstest.MapFS{"assets/sheets/coin.png": {Data: []byte("png")}},
		fstest.MapFS{
			"data/animations/coin.yaml": {Data: []byte("frames: [0]\n")},
			"data/animations/hero.yaml": {Data: []byte("frames: [1]\n")},
		},
	)
	t.Cleanup(func() {
		assetsFS, dataFS, initialized = nil, nil, false
	})
}

func TestNotInitialized(t *testing.T) {
	if IsInitialized() {
		t.Fatal("package should start uninitialized")
	}
	if _, err := Open("data/animations/coin.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Open: expected ErrNotInitialized, got %v", err)
	}
	if _, err := ReadDir("data"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadDir: expected ErrNotInitialized, got %v", err)
	}
	if Exists("data/animations/coin.yaml") {
		t.Error("Exists should be false before Init")
	}
}

func TestRouting(t *testing.T) {
	initTestEmbedded(t)

	data, err := ReadFile("./data/animations/coin.yaml")
	if err != nil || string(data) != "frames: [0]\n" {
		t.Errorf("ReadFile: got %q, %v", data, err)
	}
	if !Exists("assets/sheets/coin.png") {
		t.Error("asset should exist")
	}
	if Exists("data/sheets/coin.png") {
		t.Error("data prefix must not read from the assets file system")
	}

	matches, err := Glob("data/animations/*.yaml")
	if err != nil || len(matches) != 2 {
		t.Errorf("Glob: got %v, %v", matches, err)
	}
	entries, err := ReadDir("data/animations")
	if err != nil || len(entries) != 2 {
		t.Errorf("ReadDir: got %v, %v", entries, err)
	}

	if _, err := Open("levels/1.yaml"); err == nil {
		t.Error("unknown prefix should fail")
	}
}

func TestFS(t *testing.T) {
	initTestEmbedded(t)

	fsys := FS()
	data, err := fs.ReadFile(fsys, "data/animations/hero.yaml")
	if err != nil || string(data) != "frames: [1]\n" {
		t.Errorf("fs.ReadFile: got %q, %v", data, err)
	}
	if _, err := fs.ReadFile(fsys, "data/animations/missing.yaml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
	if _, err := fsys.Open("../etc/passwd"); err == nil {
		t.Error("invalid path should be rejected")
	}
}
