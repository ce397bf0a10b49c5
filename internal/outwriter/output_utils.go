package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/crashspot/internal/contract"
)

// barRune draws the bars of timeseries and pie tables.
const barRune = "█"

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatCount renders a count value without decimals.
func formatCount(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// renderBar draws a bar proportional to value/maxValue, at most width runes long.
// Any positive value gets at least one rune so it stays visible.
func renderBar(value, maxValue float64, width int) string {
	if value <= 0 || maxValue <= 0 || width <= 0 {
		return ""
	}
	n := int(value / maxValue * float64(width))
	n = max(1, min(n, width))
	return strings.Repeat(barRune, n)
}

// intensityLabel picks the colored or plain intensity label.
func intensityLabel(value, maxValue float64, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(value, maxValue)
	}
	return contract.GetPlainLabel(value, maxValue)
}
