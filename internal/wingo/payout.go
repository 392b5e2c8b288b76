package wingo

import "github.com/shopspring/decimal"

var multipliers = map[BetKind]decimal.Decimal{
	KindNumber: decimal.NewFromInt(9),
	KindColor:  decimal.NewFromInt(2),
	KindViolet: decimal.RequireFromString("4.5"),
}

// Multiplier returns the payout multiplier for a bet kind.
func Multiplier(k BetKind) decimal.Decimal {
	return multipliers[k]
}

// Wins reports whether a bet type wins against the outcome.
func Wins(bt BetType, o Outcome) bool {
	switch b := bt.(type) {
	case NumberBet:
		return b.Value == o.WinningNumber
	case ColorBet:
		return b.Color == o.ColorResult
	case VioletBet:
		return o.ColorResult == Violet
	}
	return false
}

// Payout is amount times the kind's multiplier, floored, for a winning bet and
// zero otherwise.
func Payout(bt BetType, amount int64, o Outcome) int64 {
	if !Wins(bt, o) {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(Multiplier(bt.Kind())).Floor().IntPart()
}

type Settlement struct {
	Won    bool  `json:"won"`
	Payout int64 `json:"payout"`
	Net    int64 `json:"net"`
}

func Settle(bt BetType, amount int64, o Outcome) Settlement {
	p := Payout(bt, amount, o)
	return Settlement{Won: Wins(bt, o), Payout: p, Net: p - amount}
}
