package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

type recordingScene struct {
	updates []float64
	draws   int
	saves   int
}

func (s *recordingScene) Update(deltaTime float64)  { s.updates = append(s.updates, deltaTime) }
func (s *recordingScene) Draw(screen *ebiten.Image) { s.draws++ }
func (s *recordingScene) SaveOnExit() bool          { s.saves++; return true }

func TestSceneManager(t *testing.T) {
	sm := NewSceneManager()

	// 没有场景时不应 panic
	sm.Update(0.016)
	sm.Draw(nil)
	sm.SaveCurrent()

	first := &recordingScene{}
	sm.SwitchTo(first)
	sm.Update(0.5)
	sm.Draw(nil)
	if len(first.updates) != 1 || first.updates[0] != 0.5 || first.draws != 1 {
		t.Errorf("unexpected calls %+v", first)
	}

	second := &recordingScene{}
	sm.SwitchTo(second)
	if first.saves != 1 {
		t.Errorf("previous scene should be saved on switch, got %d saves", first.saves)
	}
	if sm.GetCurrentScene() != second {
		t.Error("current scene should be the second one")
	}
	sm.Update(0.1)
	if len(first.updates) != 1 || len(second.updates) != 1 {
		t.Error("only the active scene should be updated")
	}
}
