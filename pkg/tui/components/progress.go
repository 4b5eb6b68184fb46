// Package components provides reusable TUI widgets for the simulation
// dashboard: a coverage bar, a rolling prediction-error readout, and a
// Spearman-correlation readout, updated as simulation.Progress values
// arrive from the driver's progress channel.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Progress renders a simulation run's live convergence state.
type Progress struct {
	container   *tview.Flex
	coverageBar *tview.TextView
	metricsText *tview.TextView
	statusText  *tview.TextView

	lastUpdate     time.Time
	updateInterval time.Duration

	progressColor tcell.Color
	completeColor tcell.Color
	textColor     tcell.Color

	// runningMean is a trailing exponential estimate of prediction error,
	// cheaper to keep live than re-deriving a windowed mean from the raw
	// series on every redraw.
	runningMean float64
	haveMean    bool
}

// ProgressConfig configures a Progress widget's appearance and redraw rate.
type ProgressConfig struct {
	UpdateInterval time.Duration
	ProgressColor  tcell.Color
	CompleteColor  tcell.Color
	TextColor      tcell.Color
}

// DefaultProgressConfig returns sensible defaults.
func DefaultProgressConfig() ProgressConfig {
	return ProgressConfig{
		UpdateInterval: 100 * time.Millisecond,
		ProgressColor:  tcell.ColorBlue,
		CompleteColor:  tcell.ColorGreen,
		TextColor:      tcell.ColorWhite,
	}
}

// NewProgress creates a Progress widget.
func NewProgress(config ProgressConfig) *Progress {
	p := &Progress{
		container:      tview.NewFlex().SetDirection(tview.FlexRow),
		coverageBar:    tview.NewTextView().SetDynamicColors(true),
		metricsText:    tview.NewTextView().SetDynamicColors(true),
		statusText:     tview.NewTextView().SetDynamicColors(true),
		lastUpdate:     time.Now(),
		updateInterval: config.UpdateInterval,
		progressColor:  config.ProgressColor,
		completeColor:  config.CompleteColor,
		textColor:      config.TextColor,
	}
	if p.updateInterval == 0 {
		p.updateInterval = 100 * time.Millisecond
	}
	if p.progressColor == 0 {
		p.progressColor = tcell.ColorBlue
	}
	if p.completeColor == 0 {
		p.completeColor = tcell.ColorGreen
	}
	if p.textColor == 0 {
		p.textColor = tcell.ColorWhite
	}

	p.container.
		AddItem(p.coverageBar, 1, 0, false).
		AddItem(p.metricsText, 1, 0, false).
		AddItem(p.statusText, 1, 0, false)
	return p
}

// GetPrimitive returns the widget's tview.Primitive for embedding.
func (p *Progress) GetPrimitive() tview.Primitive { return p.container }

// Update refreshes the widget from one match's progress event. matchIndex
// and games give the coverage bar's fraction; predictionError feeds the
// rolling mean; spearman is the latest correlation readout (the caller
// recomputes it periodically, not every match, since it is O(N log N)).
func (p *Progress) Update(matchIndex, games int, predictionError, spearman float64) {
	if !p.haveMean {
		p.runningMean = predictionError
		p.haveMean = true
	} else {
		const alpha = 0.01
		p.runningMean = alpha*predictionError + (1-alpha)*p.runningMean
	}

	fraction := 0.0
	if games > 0 {
		fraction = float64(matchIndex+1) / float64(games)
	}
	p.coverageBar.SetText(renderBar("coverage", fraction, p.progressColor, p.completeColor))
	p.metricsText.SetText(fmt.Sprintf("[white]prediction error (ema): [yellow]%.4f", p.runningMean))
	p.statusText.SetText(fmt.Sprintf("[white]spearman(skill, rating): [yellow]%.4f", spearman))
}

func renderBar(label string, fraction float64, color, completeColor tcell.Color) string {
	const width = 40
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	tag := "blue"
	if fraction >= 1 {
		tag = "green"
	}
	return fmt.Sprintf("[white]%s [%s]%s[white] %5.1f%%", label, tag, bar, fraction*100)
}
