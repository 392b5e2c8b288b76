package wingo

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func closedRoundWithBets(t *testing.T) (*Game, *fakeClock, Round) {
	t.Helper()
	clock := newFakeClock()
	g := newTestGame(t, clock, NopStore{})
	ctx := context.Background()
	r := mustCurrent(t, g)
	for _, bet := range []struct {
		p  Principal
		bt BetType
		a  int64
	}{
		{alice, NumberBet{Value: 5}, 50},
		{alice, ColorBet{Color: Red}, 20},
		{bob, VioletBet{}, 100},
	} {
		if _, err := g.PlaceBet(ctx, bet.p, r.ID, bet.bt, bet.a); err != nil {
			t.Fatalf("PlaceBet() error = %v", err)
		}
	}
	clock.Advance(31 * time.Second)
	return g, clock, r
}

func TestSettlementEngine_ResolveRound(t *testing.T) {
	g, _, r := closedRoundWithBets(t)
	ctx := context.Background()

	resolved, err := g.ResolveRound(ctx, admin, r.ID, 5, Violet)
	if err != nil {
		t.Fatalf("ResolveRound() error = %v", err)
	}
	if resolved.Result == nil || resolved.Result.WinningNumber != 5 || resolved.Result.ColorResult != Violet {
		t.Fatalf("resolved round = %+v", resolved)
	}

	for _, b := range g.Ledger.RoundBets(r.ID) {
		if b.RoundResult == nil || *b.RoundResult != *resolved.Result {
			t.Errorf("bet %s RoundResult = %v, want %v", b.ID, b.RoundResult, resolved.Result)
		}
	}

	report, err := g.RoundReport(admin, r.ID)
	if err != nil {
		t.Fatalf("RoundReport() error = %v", err)
	}
	if report.TotalStaked != 170 {
		t.Errorf("TotalStaked = %d, want 170", report.TotalStaked)
	}
	if report.TotalPayout != 450+450 {
		t.Errorf("TotalPayout = %d, want 900", report.TotalPayout)
	}
	if report.Winners != 2 {
		t.Errorf("Winners = %d, want 2", report.Winners)
	}
}

func TestSettlementEngine_ResolveOnce(t *testing.T) {
	g, _, r := closedRoundWithBets(t)
	ctx := context.Background()

	if _, err := g.ResolveRound(ctx, admin, r.ID, 3, Red); err != nil {
		t.Fatalf("first ResolveRound() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		_, err := g.ResolveRound(ctx, admin, r.ID, 8, Green)
		wantErr(t, err, ErrAlreadyResolved)
	}

	got, _ := g.Scheduler.Round(r.ID)
	if got.Result.WinningNumber != 3 || got.Result.ColorResult != Red {
		t.Errorf("stored outcome changed to %+v", got.Result)
	}
}

func TestSettlementEngine_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  Principal
		roundID func(Round) int64
		number  int
		color   Color
		wantErr error
	}{
		{name: "user caller", caller: alice, roundID: func(r Round) int64 { return r.ID }, number: 5, color: Violet, wantErr: ErrUnauthorized},
		{name: "anonymous caller", caller: Anonymous, roundID: func(r Round) int64 { return r.ID }, number: 5, color: Violet, wantErr: ErrUnauthorized},
		{name: "unknown round", caller: admin, roundID: func(r Round) int64 { return r.ID + 100 }, number: 5, color: Violet, wantErr: ErrRoundNotFound},
		{name: "mismatched colour", caller: admin, roundID: func(r Round) int64 { return r.ID }, number: 5, color: Red, wantErr: ErrInconsistentColor},
		{name: "number out of range", caller: admin, roundID: func(r Round) int64 { return r.ID }, number: 12, color: Red, wantErr: ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, r := closedRoundWithBets(t)
			beforeRounds := g.GetRoundHistory(100)
			beforeBets := g.Ledger.RoundBets(r.ID)

			_, err := g.ResolveRound(ctx, tt.caller, tt.roundID(r), tt.number, tt.color)
			wantErr(t, err, tt.wantErr)

			if !reflect.DeepEqual(beforeRounds, g.GetRoundHistory(100)) {
				t.Error("rounds changed after rejected resolve")
			}
			if !reflect.DeepEqual(beforeBets, g.Ledger.RoundBets(r.ID)) {
				t.Error("bets changed after rejected resolve")
			}
		})
	}
}

func TestSettlementEngine_StoreFailureLeavesRoundUnresolved(t *testing.T) {
	clock := newFakeClock()
	store := newMemStore()
	g := newTestGame(t, clock, store)
	ctx := context.Background()
	r := mustCurrent(t, g)
	if _, err := g.PlaceBet(ctx, alice, r.ID, VioletBet{}, 10); err != nil {
		t.Fatalf("PlaceBet() error = %v", err)
	}
	clock.Advance(time.Minute)

	store.failNext = errors.New("tx aborted")
	if _, err := g.ResolveRound(ctx, admin, r.ID, 0, Violet); err == nil {
		t.Fatal("expected store error")
	}
	got, _ := g.Scheduler.Round(r.ID)
	if got.Result != nil {
		t.Error("round resolved despite store failure")
	}
	for _, b := range g.Ledger.RoundBets(r.ID) {
		if b.RoundResult != nil {
			t.Error("bet received a result despite store failure")
		}
	}

	if _, err := g.ResolveRound(ctx, admin, r.ID, 0, Violet); err != nil {
		t.Fatalf("retry ResolveRound() error = %v", err)
	}
}

func TestSettlementEngine_OpenRoundCannotBeResolved(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(t, clock, NopStore{})
	ctx := context.Background()
	r := mustCurrent(t, g)

	// At start, mid-window and on the last open nanosecond.
	for _, step := range []time.Duration{0, 15 * time.Second, 15*time.Second - 1} {
		clock.Advance(step)
		_, err := g.ResolveRound(ctx, admin, r.ID, 1, Red)
		wantErr(t, err, ErrRoundStillOpen)
	}

	got, _ := g.Scheduler.Round(r.ID)
	if got.Result != nil || got.StatusAt(clock.Now()) != RoundOpen {
		t.Fatalf("round = %+v, want it untouched and open", got)
	}
	if _, err := g.PlaceBet(ctx, alice, r.ID, NumberBet{Value: 1}, 10); err != nil {
		t.Fatalf("PlaceBet() after rejected resolve error = %v", err)
	}
	if len(g.PendingRounds()) != 0 {
		t.Error("open round listed as pending")
	}

	clock.Advance(1)
	if _, err := g.ResolveRound(ctx, admin, r.ID, 1, Red); err != nil {
		t.Fatalf("ResolveRound() once closed error = %v", err)
	}
}

func TestRoundReport_AdminOnly(t *testing.T) {
	g, _, r := closedRoundWithBets(t)
	if _, err := g.RoundReport(alice, r.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("RoundReport() by user error = %v, want ErrUnauthorized", err)
	}
	if _, err := g.RoundReport(admin, 999); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("RoundReport() unknown round error = %v, want ErrRoundNotFound", err)
	}
}
