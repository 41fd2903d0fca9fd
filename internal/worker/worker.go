// Package worker drives the periodic game tick: it polls the store on an
// interval and expires the active game once its max duration has elapsed.
// Any process in the deployment may run it; the store transaction makes the
// timeout idempotent when several tick at once.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/soundslike/guesstrack/internal/app"
	"github.com/soundslike/guesstrack/internal/logger"
)

type Worker struct {
	Game     *app.GameService
	Interval time.Duration
	Logger   *logger.Logger
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewWorker(game *app.GameService, interval time.Duration, log *logger.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		Game:     game,
		Interval: interval,
		Logger:   log.WithComponent("timeout-worker"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (w *Worker) Start() {
	w.Logger.Info("Starting timeout worker", "interval", w.Interval.String())
	w.wg.Add(1)
	go w.run()
}

func (w *Worker) Stop() {
	w.Logger.Info("Stopping timeout worker")
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if w.Game.CheckGameTimeout(w.ctx) {
				w.Logger.Info("Active game expired")
			}
		}
	}
}
