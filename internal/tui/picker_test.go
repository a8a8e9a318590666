package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testEntries() []Entry {
	return []Entry{
		{Path: "/src/app/org.example.App.Devel.json", Display: "org.example.App.Devel.json", AppID: "org.example.App.Devel"},
		{Path: "/src/app/build-aux/org.example.App.json", Display: "build-aux/org.example.App.json", AppID: "org.example.App", Active: true},
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path   string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"/home/user/workspace", 20, "/home/user/workspace"},
		{"/home/user/very/long/path/to/workspace", 20, "...path/to/workspace"},
		{"", 10, ""},
		{"exactly10!", 10, "exactly10!"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := truncatePath(tt.path, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestManifestItemMethods(t *testing.T) {
	entries := testEntries()
	active := manifestItem{entry: entries[1]}
	other := manifestItem{entry: entries[0]}

	if got := active.Title(); got != "* build-aux/org.example.App.json" {
		t.Errorf("Title() = %q", got)
	}
	if got := other.Title(); got != "  org.example.App.Devel.json" {
		t.Errorf("Title() = %q", got)
	}
	if got := active.FilterValue(); got != "build-aux/org.example.App.json" {
		t.Errorf("FilterValue() = %q", got)
	}
	if desc := active.Description(); !strings.Contains(desc, "org.example.App") {
		t.Errorf("Description() = %q, should contain the app ID", desc)
	}

	unknown := manifestItem{entry: Entry{Path: "/x/app.json", Display: "app.json"}}
	if desc := unknown.Description(); !strings.Contains(desc, "unknown app ID") {
		t.Errorf("Description() = %q", desc)
	}
}

func TestNewEntries(t *testing.T) {
	root := t.TempDir()
	valid := filepath.Join(root, "build-aux", "org.example.App.json")
	os.MkdirAll(filepath.Dir(valid), 0755)
	os.WriteFile(valid, []byte(`{"id":"org.example.App","sdk":"s","runtime":"r","runtime-version":"1","command":"c"}`), 0644)
	outside := "/elsewhere/app.json"

	entries := NewEntries([]string{valid, outside}, valid, root)

	if entries[0].Display != filepath.Join("build-aux", "org.example.App.json") {
		t.Errorf("Display = %q", entries[0].Display)
	}
	if entries[0].AppID != "org.example.App" || !entries[0].Active {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[1].Display != outside || entries[1].AppID != "" || entries[1].Active {
		t.Errorf("entry = %+v", entries[1])
	}
}

func TestNewPickerSelectsActive(t *testing.T) {
	m := NewPicker(testEntries())
	if got := m.list.Index(); got != 1 {
		t.Errorf("selected index = %d, want the active entry", got)
	}
}

func TestModelKeyHandling(t *testing.T) {
	t.Run("select with enter", func(t *testing.T) {
		m := NewPicker(testEntries())
		newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := newModel.(Model)

		if model.result.Action != ActionSelect {
			t.Errorf("Action = %v, want ActionSelect", model.result.Action)
		}
		if model.result.Path != "/src/app/build-aux/org.example.App.json" {
			t.Errorf("Path = %q", model.result.Path)
		}
		if cmd == nil {
			t.Error("Should return tea.Quit command")
		}
	})

	t.Run("quit with q", func(t *testing.T) {
		m := NewPicker(testEntries())
		newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		model := newModel.(Model)

		if model.result.Action != ActionQuit {
			t.Errorf("Action = %v, want ActionQuit", model.result.Action)
		}
		if !model.quitting {
			t.Error("Model should be quitting")
		}
		if cmd == nil {
			t.Error("Should return tea.Quit command")
		}
	})

	t.Run("quit with esc", func(t *testing.T) {
		m := NewPicker(testEntries())
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		model := newModel.(Model)

		if model.result.Action != ActionQuit {
			t.Errorf("Action = %v, want ActionQuit", model.result.Action)
		}
	})

	t.Run("window size update", func(t *testing.T) {
		m := NewPicker(testEntries())
		newModel, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
		model := newModel.(Model)

		if model.width != 100 || model.height != 50 {
			t.Errorf("size = %dx%d, want 100x50", model.width, model.height)
		}
		if cmd != nil {
			t.Error("Window size update should not return a command")
		}
	})
}

func TestModelInit(t *testing.T) {
	m := Model{}
	if cmd := m.Init(); cmd != nil {
		t.Error("Init() should return nil")
	}
}

func TestModelView(t *testing.T) {
	t.Run("normal view contains help", func(t *testing.T) {
		view := NewPicker(testEntries()).View()

		if !strings.Contains(view, "[enter] Select") {
			t.Error("View should contain select help")
		}
		if !strings.Contains(view, "[q] Cancel") {
			t.Error("View should contain cancel help")
		}
	})

	t.Run("quitting view is empty", func(t *testing.T) {
		m := NewPicker(testEntries())
		m.quitting = true
		if view := m.View(); view != "" {
			t.Errorf("Quitting view should be empty, got %q", view)
		}
	})
}

func TestRunPickerEmpty(t *testing.T) {
	result, err := RunPicker(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunPicker with no entries failed: %v", err)
	}
	if result.Action != ActionQuit {
		t.Errorf("Action = %v, want ActionQuit", result.Action)
	}
}

func TestSimplePicker(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if output := SimplePicker(nil); !strings.Contains(output, "No manifest files found") {
			t.Errorf("output = %q", output)
		}
	})

	t.Run("with manifests", func(t *testing.T) {
		output := SimplePicker(testEntries())

		for _, want := range []string{
			"  1. org.example.App.Devel.json (org.example.App.Devel)",
			"* 2. build-aux/org.example.App.json (org.example.App)",
			"flatplay select-manifest <path>",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output should contain %q:\n%s", want, output)
			}
		}
	})
}

func TestIsInteractive(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsInteractive(f) {
		t.Error("regular file should not be interactive")
	}
}
