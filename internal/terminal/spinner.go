package terminal

import (
	"context"
	"fmt"
	"os"
	"time"
)

const spinnerInterval = 200 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// PhaseSpinner displays an animated spinner for a single phase of the run
// (diffing, reviewing, posting). On non-TTY stderr it stays silent.
type PhaseSpinner struct {
	isTTY bool
	label string
}

// NewPhaseSpinner creates a spinner with the given label.
func NewPhaseSpinner(label string) *PhaseSpinner {
	return &PhaseSpinner{
		isTTY: IsStderrTTY(),
		label: label,
	}
}

// Run animates the spinner until ctx is cancelled, then prints the final
// checkmark line.
func (s *PhaseSpinner) Run(ctx context.Context) {
	if !s.isTTY {
		<-ctx.Done()
		return
	}

	idx := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			tag := fmt.Sprintf("%s[%s%sazr%s%s]%s",
				Color(Dim), Color(Reset), Color(Green), Color(Reset), Color(Dim), Color(Reset))
			final := fmt.Sprintf("\r%s %s✓%s %s",
				tag, Color(Green), Color(Reset), s.label)
			fmt.Fprint(os.Stderr, final+"          \n")
			return

		case <-ticker.C:
			frame := string(spinnerFrames[idx%len(spinnerFrames)])
			tag := fmt.Sprintf("%s[%s%sazr%s%s]%s",
				Color(Dim), Color(Reset), Color(Cyan), Color(Reset), Color(Dim), Color(Reset))
			line := fmt.Sprintf("\r%s %s%s%s %s",
				tag, Color(Cyan), frame, Color(Reset), s.label)
			fmt.Fprint(os.Stderr, line+"          ")
			idx++
		}
	}
}

// WithSpinner runs fn while animating a phase spinner labelled label.
// The spinner goroutine is the only concurrency in the program.
func WithSpinner(ctx context.Context, label string, fn func() error) error {
	spinCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	s := NewPhaseSpinner(label)
	go func() {
		s.Run(spinCtx)
		close(done)
	}()

	err := fn()
	stop()
	<-done
	return err
}
