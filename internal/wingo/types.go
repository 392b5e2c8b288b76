package wingo

import (
	"encoding/json"
	"fmt"
	"time"
)

// Principal identifies a caller. The empty principal is the anonymous caller.
type Principal string

const Anonymous Principal = ""

type Color string

const (
	Red    Color = "red"
	Green  Color = "green"
	Violet Color = "violet"
)

// Outcome is the result of a resolved round. The colour is always ColorOf(WinningNumber).
type Outcome struct {
	WinningNumber int   `json:"winningNumber"`
	ColorResult   Color `json:"colorResult"`
}

type RoundStatus string

const (
	RoundOpen     RoundStatus = "OPEN"
	RoundClosed   RoundStatus = "CLOSED"
	RoundResolved RoundStatus = "RESOLVED"
)

// Round is one timed betting window. Timestamps are unix nanoseconds.
type Round struct {
	ID        int64
	StartTime int64
	EndTime   int64
	Result    *Outcome
}

// StatusAt reports the lifecycle state of the round at the given instant.
func (r Round) StatusAt(now time.Time) RoundStatus {
	switch {
	case r.Result != nil:
		return RoundResolved
	case now.UnixNano() < r.EndTime:
		return RoundOpen
	default:
		return RoundClosed
	}
}

func (r Round) OpenAt(now time.Time) bool {
	return r.StatusAt(now) == RoundOpen
}

type roundJSON struct {
	ID            int64  `json:"id"`
	StartTime     int64  `json:"startTime"`
	EndTime       int64  `json:"endTime"`
	WinningNumber *int   `json:"winningNumber,omitempty"`
	ColorResult   *Color `json:"colorResult,omitempty"`
}

func (r Round) MarshalJSON() ([]byte, error) {
	out := roundJSON{ID: r.ID, StartTime: r.StartTime, EndTime: r.EndTime}
	if r.Result != nil {
		n, c := r.Result.WinningNumber, r.Result.ColorResult
		out.WinningNumber = &n
		out.ColorResult = &c
	}
	return json.Marshal(out)
}

func (r *Round) UnmarshalJSON(data []byte) error {
	var in roundJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if (in.WinningNumber == nil) != (in.ColorResult == nil) {
		return fmt.Errorf("round %d: winningNumber and colorResult must be set together", in.ID)
	}
	out := Round{ID: in.ID, StartTime: in.StartTime, EndTime: in.EndTime}
	if in.WinningNumber != nil {
		o, err := NewOutcome(*in.WinningNumber, *in.ColorResult)
		if err != nil {
			return fmt.Errorf("round %d: %w", in.ID, err)
		}
		out.Result = &o
	}
	*r = out
	return nil
}

type BetKind string

const (
	KindNumber BetKind = "numberValue"
	KindColor  BetKind = "color"
	KindViolet BetKind = "violet"
)

// BetType is a closed sum: NumberBet, ColorBet or VioletBet.
type BetType interface {
	Kind() BetKind
	validate() error
}

type NumberBet struct {
	Value int
}

type ColorBet struct {
	Color Color
}

type VioletBet struct{}

func (NumberBet) Kind() BetKind { return KindNumber }
func (ColorBet) Kind() BetKind  { return KindColor }
func (VioletBet) Kind() BetKind { return KindViolet }

func (b NumberBet) validate() error {
	if b.Value < 0 || b.Value > 9 {
		return fmt.Errorf("%w: number must be between 0 and 9, got %d", ErrInvalidBetType, b.Value)
	}
	return nil
}

func (b ColorBet) validate() error {
	if b.Color != Red && b.Color != Green {
		return fmt.Errorf("%w: colour bet must be red or green, got %q", ErrInvalidBetType, b.Color)
	}
	return nil
}

func (VioletBet) validate() error { return nil }

func (b NumberBet) String() string { return fmt.Sprintf("number %d", b.Value) }
func (b ColorBet) String() string  { return string(b.Color) }
func (VioletBet) String() string   { return string(Violet) }

// BetTypeWire is the JSON shape of a BetType.
type BetTypeWire struct {
	Kind  BetKind `json:"kind" validate:"required,oneof=numberValue color violet"`
	Value *int    `json:"value,omitempty"`
	Color Color   `json:"color,omitempty"`
}

// Decode converts the wire form into a validated BetType.
func (w BetTypeWire) Decode() (BetType, error) {
	var bt BetType
	switch w.Kind {
	case KindNumber:
		if w.Value == nil {
			return nil, fmt.Errorf("%w: number bet needs a value", ErrInvalidBetType)
		}
		bt = NumberBet{Value: *w.Value}
	case KindColor:
		bt = ColorBet{Color: w.Color}
	case KindViolet:
		bt = VioletBet{}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidBetType, w.Kind)
	}
	if err := bt.validate(); err != nil {
		return nil, err
	}
	return bt, nil
}

func EncodeBetType(bt BetType) BetTypeWire {
	switch b := bt.(type) {
	case NumberBet:
		v := b.Value
		return BetTypeWire{Kind: KindNumber, Value: &v}
	case ColorBet:
		return BetTypeWire{Kind: KindColor, Color: b.Color}
	default:
		return BetTypeWire{Kind: KindViolet}
	}
}

// Bet is one wager. RoundResult is attached once, when the round resolves.
type Bet struct {
	ID          string
	Player      Principal
	RoundID     int64
	Type        BetType
	Amount      int64
	PlacedAt    int64
	RoundResult *Outcome
}

type betJSON struct {
	ID          string      `json:"id"`
	Player      Principal   `json:"player"`
	RoundID     int64       `json:"roundId"`
	BetType     BetTypeWire `json:"betType"`
	Amount      int64       `json:"amount"`
	PlacedAt    int64       `json:"placedAt"`
	RoundResult *Outcome    `json:"roundResult,omitempty"`
	Won         *bool       `json:"won,omitempty"`
	Payout      *int64      `json:"payout,omitempty"`
	Net         *int64      `json:"net,omitempty"`
}

// MarshalJSON includes the derived payout once the round is resolved.
func (b Bet) MarshalJSON() ([]byte, error) {
	out := betJSON{
		ID:          b.ID,
		Player:      b.Player,
		RoundID:     b.RoundID,
		BetType:     EncodeBetType(b.Type),
		Amount:      b.Amount,
		PlacedAt:    b.PlacedAt,
		RoundResult: b.RoundResult,
	}
	if s, ok := b.Settlement(); ok {
		out.Won, out.Payout, out.Net = &s.Won, &s.Payout, &s.Net
	}
	return json.Marshal(out)
}

// Settlement returns the bet's result, or false while its round is unresolved.
func (b Bet) Settlement() (Settlement, bool) {
	if b.RoundResult == nil {
		return Settlement{}, false
	}
	return Settle(b.Type, b.Amount, *b.RoundResult), true
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

type UserProfile struct {
	Name string `json:"name"`
}
