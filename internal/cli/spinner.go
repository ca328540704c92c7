package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/md2ifdam/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates "Rendering <name>: <stage>..." on stderr while a
// pipeline runs. It stops on Stop or when its context is cancelled.
type Spinner struct {
	out     io.Writer
	name    string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	stage pipeline.Stage
	width int // widest line drawn so far
}

// newSpinnerWithContext creates a spinner for the named source that stops
// when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, name string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		name:    name,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// SetStage shows stage after the source name. It matches the signature of
// pipeline.Options.Progress.
func (s *Spinner) SetStage(stage pipeline.Stage) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
}

func (s *Spinner) line() string {
	if s.stage == "" {
		return fmt.Sprintf("Rendering %s...", s.name)
	}
	return fmt.Sprintf("Rendering %s: %s...", s.name, s.stage)
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.line()
	// pad over the tail of a longer previous stage
	pad := max(s.width-len(line), 0)
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.out, "\r%s %s%s", styleIconSpinner.Render(frame), StyleDim.Render(line), strings.Repeat(" ", pad))
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and clears the line. It may be called more than
// once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)
	})
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+2))
}

// StopWithError stops the spinner and reports which stage failed.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	s.mu.Lock()
	stage := s.stage
	s.mu.Unlock()
	if stage != "" {
		printError("%s while %s", message, stage)
		return
	}
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
