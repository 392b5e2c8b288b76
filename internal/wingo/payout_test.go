package wingo

import "testing"

func outcome(n int) Outcome {
	c, _ := ColorOf(n)
	return Outcome{WinningNumber: n, ColorResult: c}
}

func TestPayout(t *testing.T) {
	tests := []struct {
		name   string
		bet    BetType
		amount int64
		number int
		want   int64
	}{
		{name: "violet on five", bet: VioletBet{}, amount: 100, number: 5, want: 450},
		{name: "violet on zero", bet: VioletBet{}, amount: 10, number: 0, want: 45},
		{name: "violet floors", bet: VioletBet{}, amount: 3, number: 5, want: 13},
		{name: "violet on one", bet: VioletBet{}, amount: 1, number: 0, want: 4},
		{name: "violet loses on red", bet: VioletBet{}, amount: 100, number: 7, want: 0},
		{name: "digit match", bet: NumberBet{Value: 7}, amount: 10, number: 7, want: 90},
		{name: "digit miss", bet: NumberBet{Value: 7}, amount: 10, number: 3, want: 0},
		{name: "red match", bet: ColorBet{Color: Red}, amount: 25, number: 9, want: 50},
		{name: "green match", bet: ColorBet{Color: Green}, amount: 25, number: 8, want: 50},
		{name: "green loses on violet", bet: ColorBet{Color: Green}, amount: 25, number: 0, want: 0},
		{name: "red loses on five", bet: ColorBet{Color: Red}, amount: 25, number: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Payout(tt.bet, tt.amount, outcome(tt.number)); got != tt.want {
				t.Errorf("Payout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettle(t *testing.T) {
	t.Run("losing bet nets minus amount", func(t *testing.T) {
		s := Settle(NumberBet{Value: 1}, 40, outcome(2))
		if s.Won || s.Payout != 0 || s.Net != -40 {
			t.Errorf("Settle() = %+v, want loss of 40", s)
		}
	})

	t.Run("winning bet nets payout minus amount", func(t *testing.T) {
		s := Settle(NumberBet{Value: 2}, 40, outcome(2))
		if !s.Won || s.Payout != 360 || s.Net != 320 {
			t.Errorf("Settle() = %+v, want payout 360 net 320", s)
		}
	})
}

func TestMultiplier(t *testing.T) {
	if got := Multiplier(KindViolet).String(); got != "4.5" {
		t.Errorf("Multiplier(violet) = %v, want 4.5", got)
	}
	if got := Multiplier(KindNumber).IntPart(); got != 9 {
		t.Errorf("Multiplier(number) = %v, want 9", got)
	}
	if got := Multiplier(KindColor).IntPart(); got != 2 {
		t.Errorf("Multiplier(color) = %v, want 2", got)
	}
}
