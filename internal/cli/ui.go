package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ankek/terraform-provider-plottoru/internal/pipeline"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

// printSummary reports a finished render: title, items plotted and the
// output path, plus a warning line when items were dropped or clamped.
func printSummary(w io.Writer, res *pipeline.Result, path string) {
	fmt.Fprintln(w, styleTitle.Render(renderer.DefaultTitle(res.Request.Theme)))
	fmt.Fprintf(w, "%s %s items plotted %s %s\n",
		styleSuccess.Render(iconSuccess),
		styleNumber.Render(fmt.Sprint(res.Items.Len())),
		styleDim.Render(iconArrow),
		path)

	for _, it := range res.Items.Items() {
		fmt.Fprintf(w, "  %s %s\n", it.Name, styleDim.Render(fmt.Sprintf("(%g, %g)", it.X, it.Y)))
	}

	if res.Dropped > 0 || res.Clamped > 0 {
		fmt.Fprintln(w, styleWarning.Render(fmt.Sprintf("%s %d dropped, %d clamped", iconWarning, res.Dropped, res.Clamped)))
	}
}
