package ui

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 40

// Progress renders a single-line download meter driven by the persist
// progress callback. It redraws in place with carriage returns and is not
// safe for concurrent use.
type Progress struct {
	w       io.Writer
	total   int64
	written int64
}

// NewProgress creates a progress meter for an artifact of the given total
// size.
func NewProgress(w io.Writer, total int64) *Progress {
	return &Progress{w: w, total: total}
}

// Update redraws the meter for the cumulative byte count.
func (p *Progress) Update(written int64) {
	p.written = written

	filled := barWidth
	percent := 100
	if p.total > 0 {
		filled = int(written * barWidth / p.total)
		percent = int(written * 100 / p.total)
	}
	if filled > barWidth {
		filled = barWidth
		percent = 100
	}

	bar := BarStyle.Render(strings.Repeat("=", filled)) + strings.Repeat("-", barWidth-filled)
	fmt.Fprintf(p.w, "\rDownloading [%s] %3d%% %s", bar, percent, humanBytes(written))
}

// Done finishes the meter line.
func (p *Progress) Done() {
	fmt.Fprintln(p.w)
}

// humanBytes formats a byte count for display.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
