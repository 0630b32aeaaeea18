package review

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/observability"
	"github.com/asteria/pagereview/pkg/templates"
)

// Applier persists an override patch for one page.
type Applier interface {
	ApplyOverride(ctx context.Context, runID, pageID string, patch OverridePatch) error
}

// SignalSink receives training signals for broad-scope edits.
type SignalSink interface {
	RecordSignal(ctx context.Context, sig TrainingSignal) error
}

// ApplyOptions configures ApplyScoped.
type ApplyOptions struct {
	Scope templates.Scope
	// Source is the page the reviewer edited.
	Source templates.ReviewPage
	// Sink, when set, receives a training signal for section and template
	// scopes with at least one applied page.
	Sink   SignalSink
	Logger *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Outcome is the result of applying a patch to one page.
type Outcome struct {
	PageID string
	Err    error
}

// OK reports whether the page was applied.
func (o Outcome) OK() bool { return o.Err == nil }

// ApplyScoped submits patch once per target page. Every target is attempted
// independently; a failure is recorded in that target's Outcome and the
// batch continues. Once ctx is done the remaining targets are not attempted
// and carry ctx.Err().
//
// The returned error is reserved for problems with the batch as a whole: an
// invalid run id, an empty patch, or a failed training signal. Outcomes are
// returned in every case except the first two.
func ApplyScoped(ctx context.Context, a Applier, runID string, targets []templates.ReviewPage, patch OverridePatch, opts ApplyOptions) ([]Outcome, error) {
	if err := errors.ValidateRunID(runID); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "override patch is empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	scope := opts.Scope
	if scope == "" {
		scope = templates.ScopePage
	}

	hooks := observability.Apply()
	start := time.Now()
	hooks.OnApplyStart(ctx, runID, string(scope), len(targets))

	outcomes := make([]Outcome, 0, len(targets))
	var applied []string
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{PageID: t.ID, Err: err})
			continue
		}
		began := time.Now()
		err := errors.ValidatePageID(t.ID)
		if err == nil {
			err = a.ApplyOverride(ctx, runID, t.ID, patch)
		}
		hooks.OnApplyTarget(ctx, runID, t.ID, time.Since(began), err)
		if err != nil {
			logger.Warn("apply override failed", "run", runID, "page", t.ID, "err", err)
		} else {
			logger.Debug("applied override", "run", runID, "page", t.ID)
			applied = append(applied, t.ID)
		}
		outcomes = append(outcomes, Outcome{PageID: t.ID, Err: err})
	}

	summary := Summarize(outcomes)
	hooks.OnApplyComplete(ctx, runID, string(scope), summary.Failed, time.Since(start))

	if !scope.Broad() || opts.Sink == nil || len(applied) == 0 {
		return outcomes, nil
	}
	sig := TrainingSignal{
		TemplateID:    templates.TemplateKey(opts.Source),
		Scope:         scope,
		Pages:         applied,
		Overrides:     patch,
		AppliedAt:     now().UTC(),
		SourcePageID:  opts.Source.ID,
		LayoutProfile: opts.Source.LayoutProfile,
	}
	if err := opts.Sink.RecordSignal(ctx, sig); err != nil {
		logger.Warn("record training signal failed", "template", sig.TemplateID, "err", err)
		return outcomes, errors.Wrap(errors.ErrCodeInternal, err, "record training signal for %s", sig.TemplateID)
	}
	logger.Debug("recorded training signal", "template", sig.TemplateID, "pages", len(applied))
	return outcomes, nil
}

// BatchSummary condenses a batch of outcomes.
type BatchSummary struct {
	Total       int
	Applied     int
	Failed      int
	FirstPageID string
	FirstError  error
}

// Summarize counts outcomes and keeps the first failure.
func Summarize(outcomes []Outcome) BatchSummary {
	s := BatchSummary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.OK() {
			s.Applied++
			continue
		}
		s.Failed++
		if s.FirstError == nil {
			s.FirstPageID, s.FirstError = o.PageID, o.Err
		}
	}
	return s
}

// Message renders the summary for the reviewer.
func (s BatchSummary) Message() string {
	if s.Failed == 0 {
		return fmt.Sprintf("Applied override to %d %s", s.Applied, plural(s.Applied, "page", "pages"))
	}
	msg := fmt.Sprintf("Failed to apply override to %d of %d %s: %s: %s",
		s.Failed, s.Total, plural(s.Total, "page", "pages"), s.FirstPageID, errors.UserMessage(s.FirstError))
	if others := s.Failed - 1; others > 0 {
		msg += fmt.Sprintf(" (and %d other %s)", others, plural(others, "error", "errors"))
	}
	return msg
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
