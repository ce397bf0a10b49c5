package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
)

// icon returns the emoji followed by a space, or nothing when emojis are off.
func icon(cfg *contract.Config, emoji string) string {
	if !cfg.UseEmojis {
		return ""
	}
	return emoji + " "
}

// headerWriter picks stdout for tables and stderr for everything else,
// so machine-readable output on stdout stays clean.
func headerWriter(cfg *contract.Config) io.Writer {
	if cfg.Output == schema.TextOut || cfg.Output == "" {
		return os.Stdout
	}
	return os.Stderr
}

// logReportHeader prints a concise, 2-line header for each report.
func logReportHeader(ctx context.Context, cfg *contract.Config, report, scope string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	writeReportHeader(headerWriter(cfg), cfg, report, scope)
}

func writeReportHeader(w io.Writer, cfg *contract.Config, report, scope string) {
	// Line 1: The report summary (Borough and Report)
	_, _ = fmt.Fprintf(w, "%sBorough: %s (Report: %s)\n", icon(cfg, "🔎"), cfg.Borough, report)

	// Line 2: The dates the report covers
	_, _ = fmt.Fprintf(w, "%s%s\n", icon(cfg, "📅"), scope)
}

// seasonsScope describes the cleaning seasons.
func seasonsScope(cfg *contract.Config) string {
	parts := make([]string, len(cfg.Seasons))
	for i, s := range cfg.Seasons {
		parts[i] = s.Start.Format(contract.DateTimeFormat) + " → " + s.End.Format(contract.DateTimeFormat)
	}
	return "Seasons: " + strings.Join(parts, ", ")
}

// windowScope describes the window search range.
func windowScope(cfg *contract.Config) string {
	return fmt.Sprintf("Range: %s → %s (length: %d, semantics: %s)",
		cfg.WindowRange.Start.Format(contract.DateTimeFormat),
		cfg.WindowRange.End.Format(contract.DateTimeFormat),
		cfg.WindowLength, cfg.Semantics)
}

// yearScope describes a single-year report.
func yearScope(year int) string {
	return fmt.Sprintf("Year: %d", year)
}

// compareScope describes a two-year comparison.
func compareScope(cfg *contract.Config) string {
	return fmt.Sprintf("Comparing: %d ↔ %d", cfg.BaseYear, cfg.TargetYear)
}
