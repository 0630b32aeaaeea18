package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/config"
	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/observability"
	"github.com/asteria/pagereview/pkg/review"
	"github.com/asteria/pagereview/pkg/templates"
	"github.com/asteria/pagereview/pkg/viewport"
)

// keyboardPointer is the pointer id used for the keyboard-driven cursor.
const keyboardPointer = 1

var (
	dragPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	dragLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

type dragOpts struct {
	run      string
	storeDir string
	step     float64
	zoom     float64
}

// dragCommand creates the drag command, an interactive editor that moves a
// pointer over the page with the keyboard.
func (c *CLI) dragCommand() *cobra.Command {
	opts := dragOpts{step: 1, zoom: 1}

	cmd := &cobra.Command{
		Use:   "drag [sidecar]",
		Short: "Interactively drag crop, trim and guide lines with snapping",
		Long: `Drag opens a keyboard-driven editor for one page. The arrow keys move a
pointer in output pixels; space grabs whatever is under it (an editable
guide first, then a handle of the active box) and releases it again.

  ←↑→↓ / hjkl   move the pointer (shift: ×10)
  space         grab / release
  s             hold or release the snap-bypass modifier
  t             switch between crop and trim
  u             undo all unsaved edits
  esc           cancel the current drag, or quit
  enter         save the draft and quit
  q             quit without saving`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDrag(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.run, "run", defaultRunID, "run id to save the draft under")
	cmd.Flags().StringVar(&opts.storeDir, "store", "", "override store directory")
	cmd.Flags().Float64Var(&opts.step, "step", opts.step, "pointer step in output pixels")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "viewport zoom for hit tolerances")

	return cmd
}

func (c *CLI) runDrag(ctx context.Context, path string, opts dragOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sc, err := c.loadSidecar(path)
	if err != nil {
		return err
	}
	m, err := newDragModel(ctx, sc, cfg, opts)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m = final.(dragModel)
	if !m.save {
		if m.draft.Dirty() {
			c.printWarning("Discarded unsaved edits on %s", sc.PageID)
		}
		return nil
	}
	if !m.draft.Dirty() {
		c.printInfo("No changes on %s", sc.PageID)
		return nil
	}

	st, err := c.openStore(cfg, opts.storeDir)
	if err != nil {
		return err
	}
	return c.saveDraft(ctx, st, opts.run, m.draft)
}

// saveDraft writes the draft's patch for its page and commits the draft.
func (c *CLI) saveDraft(ctx context.Context, a review.Applier, runID string, d *review.Draft) error {
	page := templates.ReviewPage{ID: d.PageID}
	outcomes, err := review.ApplyScoped(ctx, a, runID, []templates.ReviewPage{page}, d.Patch(), review.ApplyOptions{
		Scope:  templates.ScopePage,
		Source: page,
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}
	summary := review.Summarize(outcomes)
	if summary.Failed > 0 {
		c.printError("%s", summary.Message())
		return summary.FirstError
	}
	d.Commit()
	c.printSuccess("Saved %s", d.PageID)
	return nil
}

// =============================================================================
// dragModel - keyboard pointer over one page
// =============================================================================

type dragModel struct {
	ctx     context.Context
	sidecar *review.Sidecar
	draft   *review.Draft
	ctl     *review.Controller
	snapCfg config.SnapConfig

	x, y    float64
	step    float64
	bypass  bool
	pressed bool
	status  string
	save    bool
}

func newDragModel(ctx context.Context, sc *review.Sidecar, cfg config.Config, opts dragOpts) (dragModel, error) {
	draft := review.NewDraft(sc)
	box, ok := draft.CropBox()
	if !ok {
		return dragModel{}, errors.New(errors.ErrCodeInvalidSidecar, "page %s has no crop box", sc.PageID)
	}
	canvas := sc.Canvas()
	scale, ok := sc.OverlayScale(&canvas)
	if !ok {
		return dragModel{}, errors.New(errors.ErrCodeInvalidSidecar, "page %s has no usable overlay scale", sc.PageID)
	}

	// The keyboard pointer works in output pixels, so the client rect is the
	// canvas itself.
	mapping := viewport.Mapping{
		Rect:    viewport.Rect{Width: canvas.Width, Height: canvas.Height},
		Preview: canvas,
		Scale:   scale,
	}
	m := dragModel{
		ctx:     ctx,
		sidecar: sc,
		draft:   draft,
		snapCfg: cfg.Snap,
		x:       box.MaxX,
		y:       box.MinY + box.Height()/2,
		step:    opts.step,
	}
	m.ctl = &review.Controller{
		Context: review.DragContext{
			Mapping:      mapping,
			Bounds:       draft.Bounds,
			MinSize:      cfg.Box.MinSize,
			SnapDisabled: !cfg.Snap.Enabled,
		},
		Zoom:   opts.zoom,
		Hit:    cfg.HitParams(),
		Target: review.TargetCrop,
		Box:    box,
	}
	m.ctl.OnCommit = m.commit
	m.refresh()
	return m, nil
}

// refresh rebuilds the layout and snap sources from the draft.
func (m dragModel) refresh() {
	layout := m.draft.Layout(m.sidecar.Guides)
	m.ctl.Layout = layout
	m.ctl.Context.Sources = review.SnapSources(m.sidecar, layout, m.snapCfg.Sources)
}

func (m dragModel) commit(s review.DragSession) {
	if m.draft.ApplyDrag(s) {
		m.refresh()
	}
	observability.Drag().OnDragEnd(m.ctx, m.sidecar.PageID, string(s.Target), s.Moves, s.Snapped(), false)
}

func (m dragModel) event() review.PointerEvent {
	return review.PointerEvent{PointerID: keyboardPointer, ClientX: m.x, ClientY: m.y, SnapBypass: m.bypass}
}

func (m dragModel) Init() tea.Cmd {
	return nil
}

func (m dragModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "enter":
		m.cancel()
		m.save = true
		return m, tea.Quit
	case "esc":
		if !m.pressed {
			return m, tea.Quit
		}
		m.cancel()
		m.status = "drag canceled"
	case "left", "h":
		m.move(-m.step, 0)
	case "right", "l":
		m.move(m.step, 0)
	case "up", "k":
		m.move(0, -m.step)
	case "down", "j":
		m.move(0, m.step)
	case "shift+left", "H":
		m.move(-10*m.step, 0)
	case "shift+right", "L":
		m.move(10*m.step, 0)
	case "shift+up", "K":
		m.move(0, -10*m.step)
	case "shift+down", "J":
		m.move(0, 10*m.step)
	case " ", "space":
		m.toggleGrab()
	case "s":
		m.bypass = !m.bypass
		if m.pressed {
			m.ctl.PointerMove(m.event())
		}
	case "t":
		m.switchTarget()
	case "u":
		m.cancel()
		m.draft.Revert()
		m.syncBox()
		m.refresh()
		m.status = "edits undone"
	}
	return m, nil
}

func (m *dragModel) move(dx, dy float64) {
	m.x += dx
	m.y += dy
	if m.pressed {
		m.ctl.PointerMove(m.event())
	}
}

func (m *dragModel) toggleGrab() {
	if m.pressed {
		m.ctl.PointerUp(m.event())
		m.pressed = false
		m.status = ""
		return
	}
	if !m.ctl.PointerDown(m.event()) {
		m.status = "nothing to grab here"
		return
	}
	m.pressed = true
	s, _ := m.ctl.Active()
	m.status = ""
	observability.Drag().OnDragStart(m.ctx, m.sidecar.PageID, string(s.Target))
}

// cancel drops an active gesture without committing it.
func (m *dragModel) cancel() {
	if !m.pressed {
		return
	}
	s, _ := m.ctl.Active()
	m.ctl.PointerCancel()
	m.pressed = false
	observability.Drag().OnDragEnd(m.ctx, m.sidecar.PageID, string(s.Target), s.Moves, s.Snapped(), true)
}

func (m *dragModel) switchTarget() {
	if m.pressed {
		return
	}
	if m.ctl.Target == review.TargetTrim {
		m.ctl.Target = review.TargetCrop
	} else {
		m.ctl.Target = review.TargetTrim
	}
	m.syncBox()
}

// syncBox points the controller at the draft's box for the current target.
// A page without a trim box starts trimming from its crop box.
func (m *dragModel) syncBox() {
	if m.ctl.Target == review.TargetTrim {
		if b, ok := m.draft.TrimBox(); ok {
			m.ctl.Box = b
			return
		}
	}
	b, _ := m.draft.CropBox()
	m.ctl.Box = b
}

func (m dragModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Drag %s", m.sidecar.PageID)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  · %s", m.ctl.Target)))
	b.WriteString("\n\n")

	var rows []string
	row := func(label, value string) {
		rows = append(rows, dragLabelStyle.Render(label)+" "+value)
	}
	row("pointer", fmt.Sprintf("(%s, %s)", formatFloat(m.x), formatFloat(m.y)))
	row("box", m.ctl.Box.String())
	if s, ok := m.ctl.Active(); ok {
		if s.Target == review.TargetGuide {
			row("guide", fmt.Sprintf("%s → %s", s.Guide.ID, formatFloat(s.Position)))
		} else {
			row("handle", fmt.Sprintf("%s → %s", s.Handle, s.Box))
		}
		if s.Snap.Tooltip != "" {
			row("snap", lipgloss.NewStyle().Foreground(snapColors[true]).Render(s.Snap.Tooltip))
		}
	}
	if m.bypass {
		row("snapping", StyleWarning.Render("bypassed"))
	}
	if m.draft.Dirty() {
		row("draft", StyleWarning.Render("unsaved edits"))
	}
	b.WriteString(dragPanelStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(StyleDim.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("arrows move · space grab · s bypass · t target · u undo · enter save · q quit"))
	b.WriteString("\n")
	return b.String()
}
