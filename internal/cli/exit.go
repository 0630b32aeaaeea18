package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/asteria/pagereview/pkg/errors"
)

// Exit codes returned by the binary.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitCanceled = 130
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.IsNotFound(err):
		return ExitNotFound
	case strings.HasPrefix(string(errors.GetCode(err)), "INVALID_"):
		return ExitUsage
	}
	return ExitFailure
}

// ReportError prints err for a terminal user, without the code prefix.
func ReportError(w io.Writer, err error) {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintf(w, "%s %s\n", renderMark(statusFailed), errors.UserMessage(err))
}
