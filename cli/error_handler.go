package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/pulse/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err keyed by its error code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	pe, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "❌ Configuration not found. Create pulse.yml or pass --config.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "❌ Invalid configuration: %v\n", err)
		if pe != nil && pe.Details["path"] != nil {
			fmt.Fprintf(h.Out, "Check %v, or run 'pulse config schema' to see the expected format.\n", pe.Details["path"])
		}

	case errors.ErrCodeInvalidPhase:
		fmt.Fprintf(h.Out, "❌ %v\n", err)

	case errors.ErrCodeInvalidField:
		fmt.Fprintf(h.Out, "❌ %v\n", err)
		if pe != nil && pe.Details["phase"] != nil {
			fmt.Fprintf(h.Out, "Run 'pulse phase %v' to see the fields it accepts.\n", pe.Details["phase"])
		}

	case errors.ErrCodeDaemonNotRunning:
		fmt.Fprintf(h.Out, "❌ The pulse daemon is not running. Start it with 'pulse daemon start'.\n")

	case errors.ErrCodeDaemonRunning:
		fmt.Fprintf(h.Out, "❌ %v\n", err)
		fmt.Fprintf(h.Out, "Stop it first with 'pulse daemon stop'.\n")

	default:
		fmt.Fprintf(h.Out, "❌ Error: %v\n", err)
	}

	// If verbose mode, show full error details
	if h.Verbose && pe != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", pe.ToJSON())
	}
	return err
}
