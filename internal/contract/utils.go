package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Intensity label constants.
const (
	PeakValue     = "Peak"     // Peak value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	PeakColor     = color.New(color.FgRed, color.Bold)     // PeakColor marks the busiest entries.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor marks strong activity.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor marks average activity.
	LowColor      = color.New(color.FgCyan)                // LowColor marks quiet entries.
)

// GetPlainLabel returns a plain text intensity label for a value relative to
// the largest value of its series. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(value, maxValue float64) string {
	if maxValue <= 0 {
		return LowValue
	}
	ratio := value / maxValue
	switch {
	case ratio >= 0.9:
		return PeakValue
	case ratio >= 0.75:
		return HighValue
	case ratio >= 0.5:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored intensity label for console output (table).
func GetColorLabel(value, maxValue float64) string {
	text := GetPlainLabel(value, maxValue)

	switch text {
	case PeakValue:
		return PeakColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for record storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".crashspot.db"
	}
	return filepath.Join(homeDir, ".crashspot.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
