package project

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"clipforge/internal/captions"
	"clipforge/internal/config"
	"clipforge/internal/overlay"
	"clipforge/internal/render"
	"clipforge/internal/scheduler"
	"clipforge/internal/timeline"
)

// captureCompositor records what Export hands to the render boundary.
type captureCompositor struct {
	base   string
	out    string
	layers []render.Layer
	err    error
}

func (c *captureCompositor) Compose(_ context.Context, basePath, outPath string, layers []render.Layer) error {
	c.base = basePath
	c.out = outPath
	c.layers = layers
	return c.err
}

func testSettings() config.Settings {
	s := config.Default()
	s.Encoder = "libx264"
	s.Quality = 23
	s.Workers = 2
	return s
}

func newTestProject(t *testing.T) *Project {
	t.Helper()
	p, err := New(testSettings(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	p.attachBase("clip.mp4", 20.0)
	return p
}

func TestOperationsRequireBase(t *testing.T) {
	p, err := New(testSettings(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer p.Close()

	if _, _, err := p.AddOverlays(context.Background(), nil); !errors.Is(err, ErrNoBase) {
		t.Errorf("AddOverlays without base: %v", err)
	}
	if _, _, err := p.AddCaptionSegments(nil); !errors.Is(err, ErrNoBase) {
		t.Errorf("AddCaptionSegments without base: %v", err)
	}
	if err := p.Export(context.Background(), "out.mp4"); !errors.Is(err, ErrNoBase) {
		t.Errorf("Export without base: %v", err)
	}
}

func TestAddOverlaysTextBatch(t *testing.T) {
	p := newTestProject(t)

	handles, warnings, err := p.AddOverlays(context.Background(), []scheduler.Request{
		{Text: "first", Start: "1s", Duration: 2},
		{Text: "second", Start: "bogus"},
		{Text: "third", Start: "4s", Duration: 2},
	})
	if err != nil {
		t.Fatalf("AddOverlays failed: %v", err)
	}
	if len(handles) != 2 || len(warnings) != 1 {
		t.Errorf("Expected 2 placed / 1 warning, got %d / %d", len(handles), len(warnings))
	}
	if got := len(p.Model.ItemsOfKind(timeline.ItemText)); got != 2 {
		t.Errorf("Expected 2 text items, got %d", got)
	}
}

func TestAddCaptionSegmentsWordByWord(t *testing.T) {
	p := newTestProject(t)

	handles, warnings, err := p.AddCaptionSegments([]captions.Segment{
		{Text: "one two three", Start: 2.5, End: 4.5},
		{Text: "broken", Start: 5.0, End: 4.0},
	})
	if err != nil {
		t.Fatalf("AddCaptionSegments failed: %v", err)
	}
	if len(handles) != 3 {
		t.Errorf("Expected 3 word items, got %d", len(handles))
	}
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning for the invalid segment, got %d", len(warnings))
	}

	item, err := p.Model.Item(handles[1])
	if err != nil {
		t.Fatalf("Item lookup failed: %v", err)
	}
	if abs(item.StartTime-3.1666666667) > 1e-6 {
		t.Errorf("Expected second word at ~3.1667, got %.4f", item.StartTime)
	}
}

func TestAddCaptionSegmentsSkipsZeroLengthWindows(t *testing.T) {
	p := newTestProject(t)

	// A zero-length segment splits into one zero-length window, which must
	// be dropped with a warning rather than inherit the text default.
	handles, warnings, err := p.AddCaptionSegments([]captions.Segment{
		{Text: "one two three", Start: 2.5, End: 4.5},
		{Text: "blip", Start: 6.0, End: 6.0},
	})
	if err != nil {
		t.Fatalf("AddCaptionSegments failed: %v", err)
	}
	if len(handles) != 3 {
		t.Errorf("Expected 3 word items, got %d", len(handles))
	}
	if len(warnings) != 1 || warnings[0].Ref != "blip" {
		t.Fatalf("Expected 1 warning for the zero-length word, got %+v", warnings)
	}

	for _, h := range handles {
		item, err := p.Model.Item(h)
		if err != nil {
			t.Fatalf("Item lookup failed: %v", err)
		}
		if item.Duration > 1.0 {
			t.Errorf("Item %q got a defaulted duration %.1f", overlayText(t, item), item.Duration)
		}
	}
}

func TestAddCaptionSegmentsWholeSegments(t *testing.T) {
	s := testSettings()
	s.WordByWord = false
	s.MaxLineChars = 10
	s.MaxLines = 1
	p, err := New(s, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer p.Close()
	p.attachBase("clip.mp4", 20.0)

	handles, _, err := p.AddCaptionSegments([]captions.Segment{
		{Text: "alpha beta gamma", Start: 0, End: 3},
	})
	if err != nil {
		t.Fatalf("AddCaptionSegments failed: %v", err)
	}
	if len(handles) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(handles))
	}

	item, _ := p.Model.Item(handles[0])
	txt := overlayText(t, item)
	if txt != "alpha b..." {
		t.Errorf("Expected truncated caption %q, got %q", "alpha b...", txt)
	}
}

func TestExportSnapshot(t *testing.T) {
	p := newTestProject(t)
	comp := &captureCompositor{}
	p.Compositor = comp

	if _, _, err := p.AddCaptionSegments([]captions.Segment{
		{Text: "hi", Start: 0, End: 2},
	}); err != nil {
		t.Fatalf("AddCaptionSegments failed: %v", err)
	}

	if err := p.Export(context.Background(), "out.mp4"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if comp.base != "clip.mp4" || comp.out != "out.mp4" {
		t.Errorf("Wrong paths: base %q, out %q", comp.base, comp.out)
	}
	if len(comp.layers) != 1 {
		t.Fatalf("Expected 1 layer, got %d", len(comp.layers))
	}

	// The snapshot must not see edits made after Export.
	p.Model.Clear()
	if comp.layers[0].Text != "hi" {
		t.Errorf("Layer lost its payload: %+v", comp.layers[0])
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	p := newTestProject(t)
	if _, _, err := p.AddCaptionSegments([]captions.Segment{
		{Text: "one two", Start: 1, End: 3},
	}); err != nil {
		t.Fatalf("AddCaptionSegments failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	back, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer back.Close()

	if back.BaseDuration() != 20.0 {
		t.Errorf("Base duration lost: %.1f", back.BaseDuration())
	}
	if got, want := len(back.Model.Handles()), len(p.Model.Handles()); got != want {
		t.Fatalf("Expected %d items back, got %d", want, got)
	}

	// Overlay payloads survive with their animation specs.
	for _, h := range back.Model.Handles() {
		item, err := back.Model.Item(h)
		if err != nil {
			t.Fatalf("Item lookup failed: %v", err)
		}
		if item.Overlay == nil {
			t.Errorf("Item %+v lost its overlay payload", item)
		}
	}

	// The restored scheduler still clamps against the stored duration.
	_, _, err = back.AddCaptionSegments([]captions.Segment{{Text: "late", Start: 25, End: 26}})
	if !errors.Is(err, scheduler.ErrNoValidItems) {
		t.Errorf("Expected ErrNoValidItems past media end, got %v", err)
	}
}

func overlayText(t *testing.T, item timeline.Item) string {
	t.Helper()
	txt, ok := item.Overlay.(*overlay.Text)
	if !ok {
		t.Fatalf("Expected text overlay, got %T", item.Overlay)
	}
	return txt.Text
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
