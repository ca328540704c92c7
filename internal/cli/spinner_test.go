package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/md2ifdam/pkg/pipeline"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "login.md")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	select {
	case <-s.stopped:
	default:
		t.Error("spinner goroutine should have exited")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "login.md")
	s.Start()
	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "login.md")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "login.md")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "login.md")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Render failed")
}

func TestSpinnerShowsStage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(context.Background(), "login.md")
	s.out = &buf

	s.draw(spinnerFrames[0])
	if got := buf.String(); !strings.Contains(got, "Rendering login.md...") {
		t.Errorf("before first stage: %q", got)
	}

	s.SetStage(pipeline.StageDraw)
	buf.Reset()
	s.draw(spinnerFrames[1])
	if got := buf.String(); !strings.Contains(got, "Rendering login.md: laying out diagram...") {
		t.Errorf("after SetStage: %q", got)
	}

	// a shorter line pads over the previous one
	s.SetStage(pipeline.StageEncode)
	buf.Reset()
	s.draw(spinnerFrames[2])
	if !strings.HasSuffix(buf.String(), strings.Repeat(" ", len(pipeline.StageDraw)-len(pipeline.StageEncode))) {
		t.Errorf("shorter stage not padded: %q", buf.String())
	}
}
