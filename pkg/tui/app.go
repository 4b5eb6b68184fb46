// Package tui hosts the simulation run's live dashboard: a single-screen
// tview/tcell application that polls a simulation.Progress channel from a
// background goroutine and renders a coverage bar, a rolling
// prediction-error readout, and a periodically recomputed
// Spearman-correlation readout. It never touches simulation state
// directly — the driver owns that on its own goroutine and only ever
// writes to the channel.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/journal"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simulation"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/tui/components"
)

// App is the dashboard application.
type App struct {
	tviewApp *tview.Application
	progress *components.Progress

	ctx    context.Context
	cancel context.CancelFunc

	mu               sync.Mutex
	spearmanInterval int // recompute Spearman every N matches
}

// New builds a dashboard App.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		tviewApp:         tview.NewApplication(),
		progress:         components.NewProgress(components.DefaultProgressConfig()),
		ctx:              ctx,
		cancel:           cancel,
		spearmanInterval: 1000,
	}

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewTextView().SetText(" matchsim — live convergence dashboard (press q to quit) ").SetTextColor(tcell.ColorWhite), 1, 0, false).
		AddItem(app.progress.GetPrimitive(), 3, 0, false)

	app.tviewApp.SetRoot(root, true)
	app.tviewApp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' || event.Key() == tcell.KeyCtrlC {
			app.cancel()
			app.tviewApp.Stop()
			return nil
		}
		return event
	})

	return app
}

// Run starts the tview event loop and a goroutine that drains progress
// until the channel closes or the user quits. It blocks until either
// happens, then returns. store is read (never mutated) on this goroutine
// only, to recompute the Spearman correlation every spearmanInterval
// matches.
func (a *App) Run(store *player.Store, progress <-chan simulation.Progress) error {
	go a.drain(store, progress)
	return a.tviewApp.Run()
}

func (a *App) drain(store *player.Store, progress <-chan simulation.Progress) {
	lastSpearman := 0.0
	lastCompute := time.Time{}
	for {
		select {
		case <-a.ctx.Done():
			return
		case p, ok := <-progress:
			if !ok {
				a.cancel()
				a.tviewApp.Stop()
				return
			}
			a.mu.Lock()
			interval := a.spearmanInterval
			a.mu.Unlock()

			if interval > 0 && (p.MatchIndex%interval == 0 || time.Since(lastCompute) > time.Second) {
				if rho, err := journal.SpearmanSkillVsRating(store); err == nil {
					lastSpearman = rho
				}
				lastCompute = time.Now()
			}

			rho := lastSpearman
			a.tviewApp.QueueUpdateDraw(func() {
				a.progress.Update(p.MatchIndex, p.Games, p.PredictionError, rho)
			})
		}
	}
}

// Stop requests the dashboard to exit, as if the user pressed q.
func (a *App) Stop() {
	a.cancel()
	a.tviewApp.Stop()
}
