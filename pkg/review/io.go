package review

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/templates"
)

// Queue is the review queue exported by the pipeline for one run.
type Queue struct {
	RunID string                 `json:"runId"`
	Pages []templates.ReviewPage `json:"pages"`
}

// ReadSidecar decodes and validates a sidecar from r. ReadSidecar does not
// close r.
func ReadSidecar(r io.Reader) (*Sidecar, error) {
	var sc Sidecar
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSidecar, err, "decode sidecar")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadSidecar reads the sidecar file at path.
func LoadSidecar(path string) (*Sidecar, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc, err := ReadSidecar(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "sidecar %s", path)
	}
	return sc, nil
}

// ReadQueue decodes a review queue. Both {"runId", "pages"} objects and bare
// page arrays are accepted; a bare array has no run id.
func ReadQueue(r io.Reader) (*Queue, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read queue")
	}

	var q Queue
	dec := json.NewDecoder(br)
	if first == '[' {
		err = dec.Decode(&q.Pages)
	} else {
		err = dec.Decode(&q)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode queue")
	}
	seen := make(map[string]bool, len(q.Pages))
	for i, p := range q.Pages {
		if err := errors.ValidatePageID(p.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "queue page %d", i)
		}
		if seen[p.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "queue page %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
	}
	return &q, nil
}

// LoadQueue reads the queue file at path.
func LoadQueue(path string) (*Queue, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadQueue(f)
}

// ReadPatch decodes an override patch.
func ReadPatch(r io.Reader) (OverridePatch, error) {
	var p OverridePatch
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return OverridePatch{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode patch")
	}
	if n := p.Normalization; n != nil {
		for _, b := range [...]struct {
			name string
			ok   bool
		}{
			{"cropBox", n.CropBox == nil || n.CropBox.Valid()},
			{"trimBox", n.TrimBox == nil || n.TrimBox.Valid()},
		} {
			if !b.ok {
				return OverridePatch{}, errors.New(errors.ErrCodeInvalidBox, "patch normalization.%s is not a valid box", b.name)
			}
		}
	}
	return p, nil
}

// LoadPatch reads the patch file at path.
func LoadPatch(path string) (OverridePatch, error) {
	f, err := openFile(path)
	if err != nil {
		return OverridePatch{}, err
	}
	defer f.Close()
	return ReadPatch(f)
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	return f, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}
