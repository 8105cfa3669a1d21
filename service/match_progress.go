package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// MatchProgressBar draws one tick per reference function and keeps a running
// matched/total tally in the bar description.
type MatchProgressBar struct {
	mu      sync.Mutex
	out     io.Writer
	bar     *progressbar.ProgressBar
	done    int
	matched int
	last    string
}

// NewMatchProgressBar draws on out, or on stderr when out is nil.
func NewMatchProgressBar(out io.Writer) *MatchProgressBar {
	if out == nil {
		out = os.Stderr
	}
	return &MatchProgressBar{out: out}
}

// ProgressEnabled reports whether a bar should be drawn: stderr must be a
// terminal and neither CI nor LIBFINDER_NO_PROGRESS may be set.
func ProgressEnabled() bool {
	for _, key := range []string{"CI", "LIBFINDER_NO_PROGRESS"} {
		if os.Getenv(key) != "" {
			return false
		}
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (p *MatchProgressBar) Begin(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done, p.matched, p.last = 0, 0, ""
	out := p.out
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("matching"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
	)
}

func (p *MatchProgressBar) Advance(reference string, matched bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.last = reference
	if matched {
		p.matched++
	}
	if p.bar == nil {
		return
	}
	p.bar.Describe(p.describe())
	_ = p.bar.Add(1)
}

func (p *MatchProgressBar) Finish(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if success {
		_ = p.bar.Finish()
	} else {
		_ = p.bar.Exit()
	}
	p.bar = nil
}

// Tally returns how many references were seen and how many matched.
func (p *MatchProgressBar) Tally() (done, matched int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.matched
}

func (p *MatchProgressBar) describe() string {
	return fmt.Sprintf("%-24.24s %d/%d matched", p.last, p.matched, p.done)
}
