package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const progressInterval = 100 * time.Millisecond

// progress animates a status line on w until Stop is called.
type progress struct {
	w       io.Writer
	message string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func startProgress(w io.Writer, message string) (p *progress) {
	ctx, cancel := context.WithCancel(context.Background())
	p = &progress{w: w, message: message, cancel: cancel}

	p.wg.Add(1)
	go p.run(ctx)

	return p
}

func (p *progress) run(ctx context.Context) {
	defer p.wg.Done()

	frames := []string{"|", "/", "-", "\\"}
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		_, _ = fmt.Fprintf(p.w, "\r%s %s", p.message, frames[i%len(frames)])

		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", len(p.message)+2))
			return
		case <-ticker.C:
		}
	}
}

// Stop clears the status line and waits for the animation to exit. Later
// calls return immediately.
func (p *progress) Stop() {
	p.cancel()
	p.wg.Wait()
}
