package utils

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar renders a fractional progress value on a single terminal line
type ProgressBar struct {
	out         io.Writer
	current     float64
	description string
	startTime   time.Time
	width       int
	showETA     bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(out io.Writer, description string) *ProgressBar {
	return &ProgressBar{
		out:         out,
		description: description,
		startTime:   time.Now(),
		width:       40,
		showETA:     true,
	}
}

// Update sets the progress fraction (clamped to [0, 1])
func (pb *ProgressBar) Update(fraction float64) {
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	pb.current = fraction
	pb.render()
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() {
	pb.current = 1
	pb.render()
	fmt.Fprintln(pb.out)
}

func (pb *ProgressBar) render() {
	filled := int(float64(pb.width) * pb.current)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", pb.width-filled)

	var eta string
	elapsed := time.Since(pb.startTime)
	if pb.showETA && pb.current > 0 && pb.current < 1 {
		total := time.Duration(float64(elapsed) / pb.current)
		if remaining := total - elapsed; remaining > 0 {
			eta = fmt.Sprintf(" ETA: %v", remaining.Round(time.Second))
		}
	}

	fmt.Fprintf(pb.out, "\r%s [%s] %5.1f%%%s", pb.description, bar, pb.current*100, eta)
}

// FormatBytes renders a byte count with a binary unit
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
