package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/simcluster/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - labels
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(10)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// PrintError writes a styled error line. main uses it for fatal errors.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// PrintHint writes a dim follow-up line under an error.
func PrintHint(w io.Writer, msg string) {
	fmt.Fprintln(w, "  "+styleDim.Render(msg))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, "  "+styleLabel.Render(key)+" "+styleValue.Render(value))
}

// =============================================================================
// Frame Summary
// =============================================================================

// printFrameSummary prints placement counts, the seed and pixel statistics.
func printFrameSummary(w io.Writer, res *pipeline.Result) {
	rep := res.Report
	status, statusStyle := iconFresh, styleComputed
	if res.CacheInfo.FrameHit {
		status, statusStyle = iconCached, styleCached
	}

	parts := []string{
		styleNumber.Render(fmt.Sprintf("%d", rep.Placed)) + styleDim.Render(" placed"),
		styleNumber.Render(fmt.Sprintf("%d", rep.Dropped)) + styleDim.Render(" dropped"),
		statusStyle.Render(status),
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, styleDim.Render(" · ")))

	printKeyValue(w, "size", fmt.Sprintf("%dx%d", res.Canvas.Width, res.Canvas.Height))
	printKeyValue(w, "seed", fmt.Sprintf("%d", rep.Seed))
	printKeyValue(w, "flux", fmt.Sprintf("%.3f", rep.TotalFlux))
	ps := res.Stats.Pixels
	printKeyValue(w, "pixels", fmt.Sprintf("mean %.4f  std %.4f  min %.4f  max %.4f", ps.Mean, ps.StdDev, ps.Min, ps.Max))
	if ps.NonFinite > 0 {
		printWarning(w, "%d non-finite pixels", ps.NonFinite)
	}
	printKeyValue(w, "frame", res.FrameID)
}
