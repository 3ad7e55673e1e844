package ui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ace/internal/diag"
	"ace/internal/source"
	"ace/internal/ui"
)

func sampleBag() *diag.Bag {
	buf := &source.FileBuffer{Path: "demo.ace", Text: "ret 1;\nret 2;\n"}
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.CodeUnexpectedToken, source.Location{Buf: buf, Begin: 0, End: 3}, "unexpected token"))
	bag.Add(diag.NewWarning(diag.CodeUnconstrainedTypeParam, source.Location{Buf: buf, Begin: 7, End: 10}, "unconstrained type param"))
	return bag
}

func TestBrowserModelNavigatesWithArrowKeys(t *testing.T) {
	m := ui.NewBrowserModel(sampleBag())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	if view == "" {
		t.Fatal("expected a non-empty view")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if next == nil {
		t.Fatal("expected Update to return a model")
	}
}

func TestBrowserModelQuitsOnQ(t *testing.T) {
	m := ui.NewBrowserModel(sampleBag())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestBrowserModelHandlesEmptyBag(t *testing.T) {
	bag := diag.NewBag(1)
	m := ui.NewBrowserModel(bag)
	view := m.View()
	if view == "" {
		t.Fatal("expected a non-empty view even with no diagnostics")
	}
}
