package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressBar tracks an ordered run of pipeline stages. Stages run
// strictly in sequence, so at most one can fail and the bar stops
// advancing there.
type ProgressBar struct {
	total     int
	current   int
	startTime time.Time
	mu        sync.Mutex

	stage  string
	failed bool
}

// NewProgressBar creates a progress bar over total pipeline stages
func NewProgressBar(total int) *ProgressBar {
	return &ProgressBar{
		total:     total,
		current:   0,
		startTime: time.Now(),
	}
}

// Update records the outcome of a stage and redraws the bar
func (p *ProgressBar) Update(current int, stage string, success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.stage = stage
	if !success {
		p.failed = true
	}

	p.render()
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	if p.failed {
		fmt.Printf("\n\n%s Pipeline stopped at stage %d of %d (%s) after %s\n",
			ColorError("✗"), p.current, p.total, p.stage, formatDuration(elapsed))
		return
	}
	fmt.Printf("\n\n%s Pipeline completed: %d stages in %s\n",
		ColorSuccess("✓"), p.total, formatDuration(elapsed))
}

func (p *ProgressBar) render() {
	// Clear line
	fmt.Print("\r\033[K")

	barWidth := 30
	filled := barWidth * p.current / p.total

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	marker := ColorProgress("►")
	if p.failed {
		marker = ColorError("✗")
	}

	elapsed := time.Since(p.startTime)

	fmt.Printf("%s %s stage %d/%d: %s - %s",
		marker,
		bar,
		p.current,
		p.total,
		p.stage,
		formatDuration(elapsed),
	)
}

// Spinner represents an animated spinner for long operations
type Spinner struct {
	frames  []string
	current int
	message string
	stop    chan bool
	stopped bool
	mu      sync.Mutex
}

// NewSpinner creates a new spinner
func NewSpinner(message string) *Spinner {
	return &Spinner{
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		current: 0,
		message: message,
		stop:    make(chan bool),
	}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.stopped {
					fmt.Printf("\r%s %s %s",
						ColorProgress(s.frames[s.current]),
						s.message,
						strings.Repeat(" ", 20),
					)
					s.current = (s.current + 1) % len(s.frames)
				}
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner
func (s *Spinner) Stop(success bool, message string) {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	close(s.stop)

	// Clear line and print final status
	fmt.Print("\r\033[K")

	if success {
		fmt.Printf("%s %s\n", ColorSuccess("✓"), message)
	} else {
		fmt.Printf("%s %s\n", ColorError("✗"), message)
	}
}

// UpdateMessage updates the spinner message
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
