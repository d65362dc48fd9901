// Package report prints one line per evaluated check.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/stale/internal/ui/output"
	"go.trai.ch/stale/internal/ui/style"
)

var _ ports.Reporter = (*Reporter)(nil)

// Reporter implements ports.Reporter with line-oriented output on stdout.
type Reporter struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewReporter creates a Reporter writing to w. A nil w means os.Stdout.
// Colour is only used when w is a terminal.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{
		out: output.NewForWriter(w),
	}
}

// Report prints `<check>: up to date` or `<check>: stale (<reason>[: <trigger>])`.
// With colour enabled the line is prefixed with a status icon and the name is highlighted.
func (r *Reporter) Report(check domain.Check, verdict domain.Verdict) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := Format(check, verdict)
	if r.out.Profile == termenv.Ascii {
		_, _ = fmt.Fprintln(r.out, line)
		return
	}

	icon, color := style.Check, style.Green
	if verdict.Stale {
		icon, color = style.Cross, style.Red
	}
	prefix := r.out.String(icon).Foreground(termenv.RGBColor(string(color))).String()
	name := r.out.String(check.Name).Foreground(termenv.RGBColor(string(style.Iris))).Bold().String()
	_, _ = fmt.Fprintln(r.out, prefix+" "+name+strings.TrimPrefix(line, check.Name))
}

// Format renders the uncoloured report line for a verdict.
func Format(check domain.Check, verdict domain.Verdict) string {
	if !verdict.Stale {
		return check.Name + ": up to date"
	}
	if verdict.Trigger != "" {
		return fmt.Sprintf("%s: stale (%s: %s)", check.Name, verdict.Reason, verdict.Trigger)
	}
	return fmt.Sprintf("%s: stale (%s)", check.Name, verdict.Reason)
}
