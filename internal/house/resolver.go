package house

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"wingo/internal/wingo"
)

// Game is the part of the engine the resolver drives.
type Game interface {
	GetCurrentRound(ctx context.Context) (wingo.Round, error)
	PendingRounds() []wingo.Round
	ResolveRound(ctx context.Context, caller wingo.Principal, roundID int64, winningNumber int, colorResult wingo.Color) (wingo.Round, error)
}

// Resolver settles every round whose betting window has closed, acting as
// an admin principal. It also keeps a round open between ticks.
type Resolver struct {
	game      Game
	principal wingo.Principal
	interval  time.Duration
	draw      DrawFunc
	log       *logrus.Entry

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewResolver(game Game, principal wingo.Principal, interval time.Duration) *Resolver {
	if interval <= 0 {
		interval = time.Second
	}
	return &Resolver{
		game:      game,
		principal: principal,
		interval:  interval,
		draw:      SeedDraw,
		log:       logrus.WithFields(logrus.Fields{"component": "house", "principal": principal}),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// WithDraw replaces the digit source.
func (r *Resolver) WithDraw(draw DrawFunc) *Resolver {
	r.draw = draw
	return r
}

func (r *Resolver) Start() {
	go r.loop()
}

// Stop ends the loop and waits for the tick in progress to finish.
func (r *Resolver) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
	<-r.done
}

func (r *Resolver) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.WithField("interval", r.interval).Info("house resolver started")
	for {
		select {
		case <-r.stopChan:
			r.log.Info("house resolver stopped")
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.interval)
			r.Tick(ctx)
			cancel()
		}
	}
}

// Tick opens the current round if needed and resolves every pending round.
// It returns how many rounds it resolved.
func (r *Resolver) Tick(ctx context.Context) int {
	if _, err := r.game.GetCurrentRound(ctx); err != nil {
		r.log.WithError(err).Error("open round failed")
	}

	resolved := 0
	for _, round := range r.game.PendingRounds() {
		if err := r.resolve(ctx, round.ID); err != nil {
			if errors.Is(err, wingo.ErrAlreadyResolved) {
				continue
			}
			r.log.WithError(err).WithField("round_id", round.ID).Error("resolve failed")
			continue
		}
		resolved++
	}
	return resolved
}

func (r *Resolver) resolve(ctx context.Context, roundID int64) error {
	digit, seed, err := r.draw(roundID)
	if err != nil {
		return err
	}
	color, err := wingo.ColorOf(digit)
	if err != nil {
		return err
	}
	if _, err := r.game.ResolveRound(ctx, r.principal, roundID, digit, color); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{
		"round_id": roundID,
		"digit":    digit,
		"color":    color,
		"seed":     seed,
	}).Debug("round drawn")
	return nil
}
