package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/viewer"
)

func water(ctx context.Context, source string) (*molecule.Molecule, error) {
	if source == "broken" {
		return nil, errors.New("no such file")
	}
	m := &molecule.Molecule{
		Name: "water",
		Atoms: []molecule.Atom{
			{Element: "O", Color: molecule.ColorFromHex(0xff0d0d)},
			{Element: "H", Position: molecule.Vec3{X: 0.96}, Color: molecule.ColorFromHex(0xffffff)},
			{Element: "H", Position: molecule.Vec3{X: -0.24, Y: 0.93}, Color: molecule.ColorFromHex(0xffffff)},
		},
	}
	_ = m.AddBond(0, 1)
	_ = m.AddBond(0, 2)
	return m, nil
}

func loaded(t *testing.T, source string) Model {
	t.Helper()
	m := New(water, scene.DefaultParams(), Options{Source: source, Labels: true})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 28})
	next, _ = next.(Model).Update(m.load()())
	return next.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModelLoad(t *testing.T) {
	m := New(water, scene.DefaultParams(), Options{Source: "water.pdb"})
	if !m.loading {
		t.Fatal("new model should be loading")
	}
	if !strings.Contains(m.View(), "loading water.pdb") {
		t.Errorf("loading view = %q", m.View())
	}

	m = loaded(t, "water.pdb")
	if m.loading {
		t.Error("still loading after loadedMsg")
	}
	if m.atoms != 3 || m.bonds != 2 {
		t.Errorf("atoms, bonds = %d, %d, want 3, 2", m.atoms, m.bonds)
	}
	if m.err != nil {
		t.Errorf("unexpected error: %v", m.err)
	}
}

func TestModelLoadErrors(t *testing.T) {
	m := loaded(t, "broken")
	if m.err == nil {
		t.Fatal("expected load error")
	}
	if m.atoms != 0 {
		t.Errorf("atoms = %d after failed load", m.atoms)
	}
	if !strings.Contains(m.View(), "no such file") {
		t.Error("error missing from status bar")
	}

	m = New(water, scene.DefaultParams(), Options{Source: "a"})
	next, _ := m.Update(loadedMsg{source: "a", err: fmt.Errorf("%w: a", viewer.ErrStale)})
	if err := next.(Model).err; err != nil {
		t.Errorf("stale load surfaced as %v", err)
	}

	next, _ = m.Update(loadedMsg{source: "other"})
	if !next.(Model).loading {
		t.Error("result for another source ended loading")
	}
}

func TestModelResize(t *testing.T) {
	m := New(water, scene.DefaultParams(), Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	w, h := m.view.Size()
	if w != 100 || h != 30-chromeRows {
		t.Errorf("viewer size = %dx%d", w, h)
	}
	if cols, rows := m.raster.Size(); cols != 100 || rows != 30-chromeRows {
		t.Errorf("raster size = %dx%d", cols, rows)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 2})
	if _, h := next.(Model).view.Size(); h != 1 {
		t.Errorf("tiny window height = %d, want 1", h)
	}
}

func TestModelKeys(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		distance float64
		paused   bool
	}{
		{"closer", []tea.KeyMsg{runes("+")}, 900, false},
		{"further", []tea.KeyMsg{runes("-")}, 1000 / dollyStep, false},
		{"clamped", []tea.KeyMsg{runes("+"), runes("+"), runes("+"), runes("+"), runes("+"), runes("+"), runes("+"), runes("+")}, scene.MinDistance, false},
		{"orbit keeps distance", []tea.KeyMsg{{Type: tea.KeyLeft}, {Type: tea.KeyUp}, runes("d"), runes("s")}, 1000, false},
		{"pause", []tea.KeyMsg{{Type: tea.KeySpace}}, 1000, true},
		{"pause twice", []tea.KeyMsg{{Type: tea.KeySpace}, {Type: tea.KeySpace}}, 1000, false},
		{"reset", []tea.KeyMsg{runes("+"), {Type: tea.KeyRight}, runes("r")}, 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loaded(t, "water.pdb")
			for _, k := range tt.keys {
				m, _ = press(m, k)
			}
			if d := m.view.Distance(); math.Abs(d-tt.distance) > 1e-6 {
				t.Errorf("distance = %v, want %v", d, tt.distance)
			}
			if m.paused != tt.paused {
				t.Errorf("paused = %v, want %v", m.paused, tt.paused)
			}
		})
	}
}

func TestModelLabelsToggle(t *testing.T) {
	m := loaded(t, "water.pdb")
	m, _ = press(m, runes("l"))
	if m.showLabels {
		t.Error("labels still shown after toggle")
	}
	m, _ = press(m, runes("l"))
	if !m.showLabels {
		t.Error("labels hidden after second toggle")
	}
}

func TestModelQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m := New(water, scene.DefaultParams(), Options{})
		m, cmd := press(m, k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command is not quit", k)
		}
		if m.ctx.Err() == nil {
			t.Errorf("%s: load context not cancelled", k)
		}
	}
}

func TestModelTick(t *testing.T) {
	m := loaded(t, "water.pdb")
	start := time.Now()
	next, cmd := m.Update(TickMsg(start))
	if cmd == nil {
		t.Fatal("tick did not schedule the next frame")
	}
	next, _ = next.(Model).Update(TickMsg(start.Add(100 * time.Millisecond)))
	m = next.(Model)

	drawn := strings.IndexFunc(m.raster.String(), func(r rune) bool { return r > 0x2800 && r <= 0x28ff })
	if drawn < 0 {
		t.Error("no dots drawn after a frame")
	}
	view := m.View()
	for _, want := range []string{"MOLVIEW", "atoms", "bonds", "distance"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if g := m.view.Snapshot(); g.Rotation.X == 0 {
		t.Error("group did not spin between frames")
	}
}

func TestModelPausedView(t *testing.T) {
	m := loaded(t, "water.pdb")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeySpace})
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("paused state missing from status bar")
	}
}
