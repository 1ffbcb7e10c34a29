package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

func date(y int) *family.Date {
	d := family.NewDate(y, 3, 1)
	return &d
}

func TestLifespan(t *testing.T) {
	tests := []struct {
		name string
		p    family.Person
		want string
	}{
		{"unknown", family.Person{}, ""},
		{"living", family.Person{Birth: date(1950)}, "1950 –"},
		{"dead", family.Person{Birth: date(1900), Death: date(1970)}, "1900 – 1970"},
		{"death only", family.Person{Death: date(1970)}, "– 1970"},
		{"flagged deceased", family.Person{IsDeceased: true}, "†"},
		{"flagged deceased with birth", family.Person{Birth: date(1900), IsDeceased: true}, "1900 –"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lifespan(tt.p); got != tt.want {
				t.Errorf("lifespan() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerationsTable(t *testing.T) {
	members := []pipeline.Member{
		{Person: family.Person{ID: "b", Name: "Bob", Birth: date(1928)}, Generation: 0},
		{Person: family.Person{ID: "d", Name: "Di"}, Generation: 1},
	}
	got := generationsTable(members)
	for _, want := range []string{"Gen", "Name", "Bob", "1928", "Di"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if n := generationCount(members); n != 2 {
		t.Errorf("generationCount = %d, want 2", n)
	}
	if n := generationCount(nil); n != 0 {
		t.Errorf("generationCount(nil) = %d", n)
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	prev := out
	out = &buf
	defer func() { out = prev }()

	printStats(true, "3 persons", "2 generations")
	got := buf.String()
	for _, want := range []string{"3 persons", "2 generations", iconCached} {
		if !strings.Contains(got, want) {
			t.Errorf("stats %q missing %q", got, want)
		}
	}
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestPersonListModel(t *testing.T) {
	m := newPersonListModel(testSnapshot().Persons)

	var names []string
	for _, i := range m.visible {
		names = append(names, m.persons[i].Name)
	}
	if strings.Join(names, ",") != "Ada,Bob,Cy,Di" {
		t.Fatalf("rows = %v, want sorted by name", names)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := next.(personListModel).Cursor; got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}

	next, _ = next.Update(keyRunes("d"))
	lm := next.(personListModel)
	if len(lm.visible) != 2 || lm.Cursor != 0 {
		t.Errorf("filter 'd': %d rows, cursor %d; want Ada and Di with cursor reset", len(lm.visible), lm.Cursor)
	}

	next, _ = next.Update(keyRunes("i"))
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	lm = next.(personListModel)
	if lm.Selected == nil || lm.Selected.ID != "d" {
		t.Fatalf("selected = %v, want Di", lm.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
	if !strings.Contains(lm.View(), "Di") {
		t.Errorf("view:\n%s", lm.View())
	}
}

func TestPersonListModelEmptyFilter(t *testing.T) {
	m := newPersonListModel(testSnapshot().Persons)
	next, _ := m.Update(keyRunes("zzz"))
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if lm := next.(personListModel); lm.Selected != nil {
		t.Errorf("selected %v with no matching rows", lm.Selected)
	}

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if lm := next.(personListModel); len(lm.visible) != 4 || lm.query != "" {
		t.Errorf("after clearing the filter: %d rows, query %q", len(lm.visible), lm.query)
	}
	_ = next.View()
}

func TestPersonListModelScrolls(t *testing.T) {
	var persons []family.Person
	for _, id := range strings.Split("a b c d e f g h", " ") {
		persons = append(persons, family.Person{ID: id, Name: strings.ToUpper(id)})
	}
	var next tea.Model = newPersonListModel(persons)
	next, _ = next.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if h := next.(personListModel).Height; h != 5 {
		t.Fatalf("height = %d, want the minimum of 5", h)
	}
	for range 6 {
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	lm := next.(personListModel)
	if lm.Cursor != 6 || lm.Offset != 2 {
		t.Errorf("cursor %d offset %d, want 6 and 2", lm.Cursor, lm.Offset)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug logged at info level: %s", buf.String())
	}
	logger.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("info not logged: %s", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	p.done("Loaded 3 persons")
	if got := buf.String(); !strings.Contains(got, "Loaded 3 persons (") || !strings.Contains(got, "ms)") {
		t.Errorf("progress output = %q", got)
	}
}

func TestSpinnerStop(t *testing.T) {
	s := newSpinner(context.Background(), "working")
	s.w = io.Discard
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "working")
	s.w = io.Discard
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	s.Stop()
}
