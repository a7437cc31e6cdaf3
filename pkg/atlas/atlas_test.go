package atlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNew_GridLayout(t *testing.T) {
	// 4x2 个 16x16 单元格，多出的 5 像素被忽略
	sheet := ebiten.NewImage(69, 37)
	a, err := New(sheet, 16, 16)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if a.FrameCount() != 8 {
		t.Errorf("expected 8 cells, got %d", a.FrameCount())
	}

	tests := []struct {
		index uint
		want  image.Rectangle
	}{
		{0, image.Rect(0, 0, 16, 16)},
		{3, image.Rect(48, 0, 64, 16)},
		{4, image.Rect(0, 16, 16, 32)},
		{7, image.Rect(48, 16, 64, 32)},
	}
	for _, tt := range tests {
		got, ok := a.CellRect(tt.index)
		if !ok || got != tt.want {
			t.Errorf("CellRect(%d) = %v, %v; want %v", tt.index, got, ok, tt.want)
		}
	}

	if _, ok := a.CellRect(8); ok {
		t.Error("index 8 should be out of range")
	}
}

func TestCell_Cached(t *testing.T) {
	a, err := New(ebiten.NewImage(32, 16), 16, 16)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first := a.Cell(1)
	if first == nil {
		t.Fatal("Cell(1) returned nil")
	}
	if a.Cell(1) != first {
		t.Error("Cell should return the cached sub-image")
	}
	if b := first.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("unexpected cell bounds %v", b)
	}
	if a.Cell(2) != nil {
		t.Error("out-of-range Cell should be nil")
	}
}

func TestCell_Wrap(t *testing.T) {
	a, err := New(ebiten.NewImage(32, 32), 16, 16)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a.SetWrap(true)

	if a.Cell(5001) != a.Cell(1) {
		t.Error("index 5001 should fold onto cell 1")
	}
	rect, ok := a.CellRect(^uint(0))
	if !ok {
		t.Fatal("the largest index should still resolve when wrapping")
	}
	if want, _ := a.CellRect(^uint(0) % 4); rect != want {
		t.Errorf("CellRect(max) = %v, want %v", rect, want)
	}

	a.SetWrap(false)
	if a.Cell(4) != nil {
		t.Error("without wrap an out-of-range Cell should be nil")
	}
}

func TestNew_InvalidGrid(t *testing.T) {
	tests := []struct {
		name  string
		sheet *ebiten.Image
		w, h  int
	}{
		{"nil sheet", nil, 8, 8},
		{"zero width", ebiten.NewImage(8, 8), 0, 8},
		{"negative height", ebiten.NewImage(8, 8), 8, -1},
		{"cell larger than sheet", ebiten.NewImage(8, 8), 16, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.sheet, tt.w, tt.h); !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 24, 8))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	fsys := fstest.MapFS{
		"sheets/coin.png": {Data: buf.Bytes()},
		"sheets/bad.png":  {Data: []byte("not a png")},
	}

	a, err := Load(fsys, "sheets/coin.png", 8, 8)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if a.FrameCount() != 3 {
		t.Errorf("expected 3 cells, got %d", a.FrameCount())
	}

	if _, err := Load(fsys, "sheets/bad.png", 8, 8); err == nil {
		t.Error("expected a decode error")
	}
	if _, err := Load(fsys, "sheets/missing.png", 8, 8); err == nil {
		t.Error("expected an open error")
	}
}
