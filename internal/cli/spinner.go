package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// spinnerFrames is the animation cycle, one glyph per tick.
var spinnerFrames = []string{"⠟", "⠯", "⠷", "⠾", "⠽", "⠻"}

// spinnerInterval is the time between animation frames.
const spinnerInterval = 100 * time.Millisecond

// Spinner renders an animated status line on one terminal row while a pack
// runs, with the elapsed time trailing the message. It stops on demand or
// when its context is cancelled, erasing the line either way.
type Spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	quit    chan struct{}
	idle    chan struct{}
	stop    sync.Once
	mu      sync.Mutex
	started time.Time
}

// newSpinner creates a spinner with the given status message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that also stops when ctx is
// cancelled, so an interrupted run does not leave a live animation behind.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     os.Stderr,
		ctx:     spinCtx,
		cancel:  cancel,
		quit:    make(chan struct{}),
		idle:    make(chan struct{}),
	}
}

// Start begins the animation. It returns immediately; rendering happens on
// a background goroutine until Stop or context cancellation.
func (s *Spinner) Start() {
	s.started = time.Now()
	go func() {
		defer close(s.idle)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				s.eraseLine()
				return
			case <-s.quit:
				return
			case <-ticker.C:
				s.render(spinnerFrames[frame%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and erases the status line. Calling Stop more
// than once is safe; later calls do nothing.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		close(s.quit)
	})
	<-s.idle
	s.eraseLine()
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended before Stop.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.quit:
		return false
	default:
		return s.ctx.Err() != nil
	}
}

// render draws one animation frame over the current line.
func (s *Spinner) render(frame string) {
	elapsed := time.Since(s.started).Round(time.Second)
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s %s",
		styleIconSpinner.Render(frame),
		StyleDim.Render(s.message),
		StyleDim.Render(elapsed.String()))
}

// eraseLine clears the status line with an ANSI erase so the next print
// starts on a clean row regardless of the message length.
func (s *Spinner) eraseLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, "\r\x1b[2K")
}
