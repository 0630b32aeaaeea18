// Package store persists override patches and training signals on disk.
//
// The layout under the base directory is:
//
//	<base>/<runId>/<pageId>.json   merged override patch per page
//	<base>/signals.jsonl           one training signal per line
//
// Applying a patch merges it onto the stored patch, so guide overrides keep
// their tri-state leaves across edits. FilePatchStore is safe for concurrent
// use within one process.
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/observability"
	"github.com/asteria/pagereview/pkg/review"
)

const signalsFile = "signals.jsonl"

// FilePatchStore keeps one JSON file per (run, page).
type FilePatchStore struct {
	mu      sync.RWMutex
	baseDir string
	newID   func() string
}

var (
	_ review.Applier    = (*FilePatchStore)(nil)
	_ review.SignalSink = (*FilePatchStore)(nil)
)

// NewFilePatchStore opens a store rooted at baseDir, creating it if needed.
// An empty baseDir means DefaultDir.
func NewFilePatchStore(baseDir string) (*FilePatchStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create store dir %s", baseDir)
	}
	return &FilePatchStore{baseDir: baseDir, newID: uuid.NewString}, nil
}

// DefaultDir returns $XDG_DATA_HOME/pagereview, or ~/.local/share/pagereview.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "pagereview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".local", "share", "pagereview"), nil
}

// Path returns the base directory.
func (s *FilePatchStore) Path() string {
	return s.baseDir
}

func (s *FilePatchStore) patchPath(runID, pageID string) (string, error) {
	if err := errors.ValidateRunID(runID); err != nil {
		return "", err
	}
	if err := errors.ValidatePageID(pageID); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, runID, pageID+".json"), nil
}

// Get returns the stored patch for a page. A page without a stored patch
// yields PAGE_NOT_FOUND.
func (s *FilePatchStore) Get(ctx context.Context, runID, pageID string) (review.OverridePatch, error) {
	path, err := s.patchPath(runID, pageID)
	if err != nil {
		return review.OverridePatch{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(ctx, runID, pageID, path)
}

func (s *FilePatchStore) read(ctx context.Context, runID, pageID, path string) (review.OverridePatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			observability.Store().OnPatchRead(ctx, runID, false)
			return review.OverridePatch{}, errors.New(errors.ErrCodePageNotFound, "no stored override for %s/%s", runID, pageID)
		}
		return review.OverridePatch{}, errors.Wrap(errors.ErrCodeInternal, err, "read override file")
	}
	observability.Store().OnPatchRead(ctx, runID, true)

	var p review.OverridePatch
	if err := json.Unmarshal(data, &p); err != nil {
		return review.OverridePatch{}, errors.Wrap(errors.ErrCodeInternal, err, "parse override %s", path)
	}
	return p, nil
}

// ApplyOverride merges patch onto the stored patch for the page.
func (s *FilePatchStore) ApplyOverride(ctx context.Context, runID, pageID string, patch review.OverridePatch) error {
	path, err := s.patchPath(runID, pageID)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(ctx, runID, pageID, path)
	if err != nil && !errors.Is(err, errors.ErrCodePageNotFound) {
		return err
	}
	merged := review.MergePatch(current, patch)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal override")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create run dir")
	}
	if err := writeFileAtomic(path, data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write override file")
	}
	observability.Store().OnPatchWrite(ctx, runID, len(data))
	return nil
}

// Delete removes the stored patch for a page. Missing patches are not an
// error.
func (s *FilePatchStore) Delete(ctx context.Context, runID, pageID string) error {
	path, err := s.patchPath(runID, pageID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove override file")
	}
	return nil
}

// Pages lists the page ids with a stored patch in a run.
func (s *FilePatchStore) Pages(ctx context.Context, runID string) ([]string, error) {
	if err := errors.ValidateRunID(runID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.baseDir, runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read run dir")
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, e.Name()[:len(e.Name())-len(".json")])
	}
	return ids, nil
}

// RecordSignal appends sig to the signal log, assigning an id when it has
// none.
func (s *FilePatchStore) RecordSignal(ctx context.Context, sig review.TrainingSignal) error {
	if sig.ID == "" {
		sig.ID = s.newID()
	}
	line, err := json.Marshal(sig)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal signal")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.baseDir, signalsFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open signal log")
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "append signal")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close signal log")
	}
	observability.Store().OnSignalAppend(ctx, sig.TemplateID, len(sig.Pages))
	return nil
}

// Signals reads every recorded training signal in order.
func (s *FilePatchStore) Signals(ctx context.Context) ([]review.TrainingSignal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(filepath.Join(s.baseDir, signalsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open signal log")
	}
	defer f.Close()

	var out []review.TrainingSignal
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for n := 1; sc.Scan(); n++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var sig review.TrainingSignal
		if err := json.Unmarshal(sc.Bytes(), &sig); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "signal log line %d", n)
		}
		out = append(out, sig)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read signal log")
	}
	return out, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", tmp.Name(), err)
	}
	return nil
}
