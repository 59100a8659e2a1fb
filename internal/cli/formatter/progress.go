package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func progressStyleFor(pct float64) func(...string) string {
	switch {
	case pct < 33:
		return StyleRed.Render
	case pct < 66:
		return StyleYellow.Render
	default:
		return StyleGreen.Render
	}
}

func bar(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// RenderProgress renders a completion percentage (0-100) like [████░░░░]  45%.
// Green from 66, yellow from 33, red below.
func RenderProgress(pct float64, width int) string {
	pct = clampPercent(pct)
	render := progressStyleFor(pct)
	return fmt.Sprintf("[%s] %3.0f%%", render(bar(pct, width)), pct)
}

// RenderCompactBar renders just the blocks, optionally dimmed, for inline use.
func RenderCompactBar(pct float64, width int, dim bool) string {
	pct = clampPercent(pct)
	if dim {
		return StyleDim.Render(bar(pct, width))
	}
	return progressStyleFor(pct)(bar(pct, width))
}
