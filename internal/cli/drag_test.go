package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/asteria/pagereview/pkg/config"
	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/observability"
	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/store"
)

type dragEvent struct {
	target   string
	moves    int
	snapped  bool
	canceled bool
}

type recordingDragHooks struct {
	starts []string
	ends   []dragEvent
}

func (h *recordingDragHooks) OnDragStart(_ context.Context, _, target string) {
	h.starts = append(h.starts, target)
}

func (h *recordingDragHooks) OnDragEnd(_ context.Context, _, target string, moves int, snapped, canceled bool) {
	h.ends = append(h.ends, dragEvent{target, moves, snapped, canceled})
}

var (
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(m dragModel, keys ...tea.KeyMsg) dragModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(dragModel)
	}
	return m
}

func repeat(k tea.KeyMsg, n int) []tea.KeyMsg {
	out := make([]tea.KeyMsg, n)
	for i := range out {
		out[i] = k
	}
	return out
}

// plainSidecar is a 100×50 page with nothing to snap to.
func plainSidecar() *review.Sidecar {
	crop := geometry.NewBox(0, 0, 99, 49)
	return &review.Sidecar{PageID: "p-0001", Normalization: review.Normalization{CropBox: &crop}}
}

func newTestDragModel(t *testing.T, sc *review.Sidecar) dragModel {
	t.Helper()
	m, err := newDragModel(context.Background(), sc, config.Default(), dragOpts{step: 1, zoom: 1})
	if err != nil {
		t.Fatalf("newDragModel: %v", err)
	}
	return m
}

func TestDragModelMovesRightEdge(t *testing.T) {
	hooks := &recordingDragHooks{}
	observability.SetDragHooks(hooks)
	t.Cleanup(observability.Reset)

	m := newTestDragModel(t, plainSidecar())
	m = press(m, keySpace)
	if !m.pressed {
		t.Fatalf("space on the right edge should grab it, status %q", m.status)
	}
	m = press(m, repeat(keyLeft, 20)...)
	m = press(m, keySpace)

	if m.pressed {
		t.Error("second space should release")
	}
	got, _ := m.draft.CropBox()
	if want := geometry.NewBox(0, 0, 79, 49); got != want {
		t.Errorf("crop = %v, want %v", got, want)
	}
	if !m.draft.Dirty() {
		t.Error("draft should be dirty after a drag")
	}
	if len(hooks.starts) != 1 || hooks.starts[0] != "crop" {
		t.Errorf("drag starts = %v", hooks.starts)
	}
	if len(hooks.ends) != 1 || hooks.ends[0].canceled || hooks.ends[0].moves != 21 {
		t.Errorf("drag ends = %+v, want one committed drag with 21 moves", hooks.ends)
	}
	if !strings.Contains(m.View(), "unsaved edits") {
		t.Error("view should flag unsaved edits")
	}
}

func TestDragModelEscCancels(t *testing.T) {
	hooks := &recordingDragHooks{}
	observability.SetDragHooks(hooks)
	t.Cleanup(observability.Reset)

	m := newTestDragModel(t, plainSidecar())
	m = press(m, keySpace)
	m = press(m, repeat(keyLeft, 5)...)
	m = press(m, keyEsc)

	if m.pressed {
		t.Error("esc should drop the gesture")
	}
	if m.draft.Dirty() {
		t.Error("canceled drag must not change the draft")
	}
	if len(hooks.ends) != 1 || !hooks.ends[0].canceled {
		t.Errorf("drag ends = %+v, want one canceled drag", hooks.ends)
	}

	_, cmd := m.Update(keyEsc)
	if cmd == nil {
		t.Error("esc with no gesture should quit")
	}
}

func TestDragModelNothingToGrab(t *testing.T) {
	m := newTestDragModel(t, plainSidecar())
	m = press(m, repeat(keyLeft, 40)...)
	m = press(m, keySpace)
	if m.pressed {
		t.Error("space in the middle of the page should not grab")
	}
	if m.status == "" {
		t.Error("status should explain the miss")
	}
}

func TestDragModelSnapsToDetectedElement(t *testing.T) {
	sc := plainSidecar()
	sc.Elements = []review.Element{{ID: "e1", Type: review.ElementTextBlock, BBox: geometry.NewBox(10, 5, 55, 40), Confidence: 0.9}}

	m := newTestDragModel(t, sc)
	m = press(m, keySpace)
	m = press(m, repeat(keyLeft, 40)...)
	if !strings.Contains(m.View(), "Snapped: Text block") {
		t.Errorf("view should show the snap tooltip:\n%s", m.View())
	}
	m = press(m, keySpace)
	got, _ := m.draft.CropBox()
	if want := geometry.NewBox(0, 0, 55, 49); got != want {
		t.Errorf("crop = %v, want %v", got, want)
	}

	// With the bypass modifier held the same drag lands on the raw position.
	m = press(m, keyRune('u'))
	m.x, m.y = 99, 24
	m = press(m, keyRune('s'), keySpace)
	m = press(m, repeat(keyLeft, 40)...)
	m = press(m, keySpace)
	got, _ = m.draft.CropBox()
	if want := geometry.NewBox(0, 0, 59, 49); got != want {
		t.Errorf("bypassed crop = %v, want %v", got, want)
	}
}

func TestDragModelUndoAndSave(t *testing.T) {
	m := newTestDragModel(t, plainSidecar())
	m = press(m, keySpace)
	m = press(m, repeat(keyLeft, 10)...)
	m = press(m, keySpace)

	m = press(m, keyRune('u'))
	if m.draft.Dirty() {
		t.Fatal("undo should clear the draft")
	}
	if want := geometry.NewBox(0, 0, 99, 49); m.ctl.Box != want {
		t.Errorf("controller box after undo = %v, want %v", m.ctl.Box, want)
	}

	m.x, m.y = 99, 24
	m = press(m, keySpace)
	m = press(m, repeat(keyLeft, 10)...)
	m = press(m, keySpace)
	next, cmd := m.Update(keyEnter)
	m = next.(dragModel)
	if !m.save || cmd == nil {
		t.Fatal("enter should save and quit")
	}

	st, err := store.NewFilePatchStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	ctx := context.Background()
	if err := c.saveDraft(ctx, st, "run-1", m.draft); err != nil {
		t.Fatalf("saveDraft: %v", err)
	}
	if m.draft.Dirty() {
		t.Error("draft should be committed after save")
	}
	saved, err := st.Get(ctx, "run-1", "p-0001")
	if err != nil {
		t.Fatal(err)
	}
	if want := geometry.NewBox(0, 0, 89, 49); saved.Normalization == nil || *saved.Normalization.CropBox != want {
		t.Errorf("saved patch = %+v, want crop %v", saved, want)
	}
	if !strings.Contains(out.String(), "Saved p-0001") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDragModelSwitchTarget(t *testing.T) {
	sc := plainSidecar()
	trim := geometry.NewBox(5, 5, 90, 45)
	sc.Normalization.Trim = &trim

	m := newTestDragModel(t, sc)
	m = press(m, keyRune('t'))
	if m.ctl.Target != review.TargetTrim || m.ctl.Box != trim {
		t.Fatalf("target = %s box = %v, want trim %v", m.ctl.Target, m.ctl.Box, trim)
	}
	m.x, m.y = 90, 25
	m = press(m, keySpace)
	m = press(m, repeat(keyLeft, 20)...)
	m = press(m, keySpace)
	got, _ := m.draft.TrimBox()
	if want := geometry.NewBox(5, 5, 70, 45); got != want {
		t.Errorf("trim = %v, want %v", got, want)
	}
	if crop, _ := m.draft.CropBox(); crop != geometry.NewBox(0, 0, 99, 49) {
		t.Errorf("crop changed to %v", crop)
	}
}

func TestNewDragModelRequiresCropBox(t *testing.T) {
	_, err := newDragModel(context.Background(), &review.Sidecar{PageID: "p"}, config.Default(), dragOpts{step: 1, zoom: 1})
	if err == nil {
		t.Fatal("expected an error for a page without a crop box")
	}
}
