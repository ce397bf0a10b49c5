package outwriter

import (
	"os"

	"github.com/huangsam/crashspot/internal/contract"
	"golang.org/x/term"
)

// Bar widths are clamped to this range.
const (
	minBarWidth = 10
	maxBarWidth = 60
)

// getTermWidth returns the configured width override or the detected terminal width.
func getTermWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80
	}
	return detectedWidth
}

// getMaxTableBarWidth calculates the room left for bars in table output
// after the key, count and share columns.
func getMaxTableBarWidth(cfg *contract.Config) int {
	// Key + Count + Share + Label with borders/padding
	baseWidth := 50

	available := getTermWidth(cfg) - baseWidth
	return max(minBarWidth, min(available, maxBarWidth))
}

// getMaxTableKeyWidth calculates the widest key that fits next to the fixed columns.
func getMaxTableKeyWidth(cfg *contract.Config) int {
	available := getTermWidth(cfg) - 45
	return max(12, min(available, 40))
}
