package database

import (
	"context"
	"database/sql"
	"fmt"

	"wingo/internal/wingo"
)

// Store persists the round table, the bet ledger, roles and profiles in postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ wingo.Store = (*Store)(nil)

func (s *Store) Load(ctx context.Context) (wingo.Snapshot, error) {
	snap := wingo.Snapshot{
		Roles:    make(map[wingo.Principal]wingo.Role),
		Profiles: make(map[wingo.Principal]wingo.UserProfile),
	}

	rounds, err := s.loadRounds(ctx)
	if err != nil {
		return snap, err
	}
	snap.Rounds = rounds

	bets, err := s.loadBets(ctx)
	if err != nil {
		return snap, err
	}
	snap.Bets = bets

	rows, err := s.db.QueryContext(ctx, `SELECT principal, role FROM user_roles`)
	if err != nil {
		return snap, fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p, r string
		if err := rows.Scan(&p, &r); err != nil {
			return snap, fmt.Errorf("scan role: %w", err)
		}
		snap.Roles[wingo.Principal(p)] = wingo.Role(r)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("load roles: %w", err)
	}

	profiles, err := s.db.QueryContext(ctx, `SELECT principal, name FROM user_profiles`)
	if err != nil {
		return snap, fmt.Errorf("load profiles: %w", err)
	}
	defer profiles.Close()
	for profiles.Next() {
		var p, name string
		if err := profiles.Scan(&p, &name); err != nil {
			return snap, fmt.Errorf("scan profile: %w", err)
		}
		snap.Profiles[wingo.Principal(p)] = wingo.UserProfile{Name: name}
	}
	return snap, profiles.Err()
}

func (s *Store) loadRounds(ctx context.Context) ([]wingo.Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_time, end_time, winning_number, color_result
		FROM rounds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	defer rows.Close()

	var rounds []wingo.Round
	for rows.Next() {
		var (
			r      wingo.Round
			number sql.NullInt16
			color  sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.StartTime, &r.EndTime, &number, &color); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		r.Result = outcomeOf(number, color)
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

func (s *Store) loadBets(ctx context.Context) ([]wingo.Bet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player, round_id, bet_kind, bet_number, bet_color, amount, placed_at,
		       winning_number, color_result
		FROM bets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load bets: %w", err)
	}
	defer rows.Close()

	var bets []wingo.Bet
	for rows.Next() {
		var (
			b         wingo.Bet
			player    string
			kind      string
			betNumber sql.NullInt16
			betColor  sql.NullString
			number    sql.NullInt16
			color     sql.NullString
		)
		if err := rows.Scan(&b.ID, &player, &b.RoundID, &kind, &betNumber, &betColor,
			&b.Amount, &b.PlacedAt, &number, &color); err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}
		wire := wingo.BetTypeWire{Kind: wingo.BetKind(kind), Color: wingo.Color(betColor.String)}
		if betNumber.Valid {
			v := int(betNumber.Int16)
			wire.Value = &v
		}
		bt, err := wire.Decode()
		if err != nil {
			return nil, fmt.Errorf("bet %s: %w", b.ID, err)
		}
		b.Player = wingo.Principal(player)
		b.Type = bt
		b.RoundResult = outcomeOf(number, color)
		bets = append(bets, b)
	}
	return bets, rows.Err()
}

func outcomeOf(number sql.NullInt16, color sql.NullString) *wingo.Outcome {
	if !number.Valid || !color.Valid {
		return nil
	}
	return &wingo.Outcome{WinningNumber: int(number.Int16), ColorResult: wingo.Color(color.String)}
}

func (s *Store) InsertRound(ctx context.Context, r wingo.Round) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (id, start_time, end_time) VALUES ($1, $2, $3)`,
		r.ID, r.StartTime, r.EndTime)
	if err != nil {
		return fmt.Errorf("insert round %d: %w", r.ID, err)
	}
	return nil
}

func (s *Store) InsertBet(ctx context.Context, b wingo.Bet) error {
	wire := wingo.EncodeBetType(b.Type)
	var (
		number sql.NullInt16
		color  sql.NullString
	)
	if wire.Value != nil {
		number = sql.NullInt16{Int16: int16(*wire.Value), Valid: true}
	}
	if wire.Color != "" {
		color = sql.NullString{String: string(wire.Color), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bets (id, player, round_id, bet_kind, bet_number, bet_color, amount, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, string(b.Player), b.RoundID, string(wire.Kind), number, color, b.Amount, b.PlacedAt)
	if err != nil {
		return fmt.Errorf("insert bet %s: %w", b.ID, err)
	}
	return nil
}

// ResolveRound writes the outcome onto the round and its bets in one transaction.
func (s *Store) ResolveRound(ctx context.Context, roundID int64, o wingo.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE rounds SET winning_number = $2, color_result = $3, resolved_at = now()
		WHERE id = $1 AND winning_number IS NULL`,
		roundID, o.WinningNumber, string(o.ColorResult))
	if err != nil {
		return fmt.Errorf("resolve round %d: %w", roundID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rounds WHERE id = $1)`, roundID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %d", wingo.ErrRoundNotFound, roundID)
		}
		return fmt.Errorf("%w: round %d", wingo.ErrAlreadyResolved, roundID)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bets SET winning_number = $2, color_result = $3 WHERE round_id = $1`,
		roundID, o.WinningNumber, string(o.ColorResult)); err != nil {
		return fmt.Errorf("attach result to bets of round %d: %w", roundID, err)
	}
	return tx.Commit()
}

func (s *Store) SaveRole(ctx context.Context, p wingo.Principal, r wingo.Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (principal, role) VALUES ($1, $2)
		ON CONFLICT (principal) DO UPDATE SET role = EXCLUDED.role, updated_at = now()`,
		string(p), string(r))
	if err != nil {
		return fmt.Errorf("save role of %s: %w", p, err)
	}
	return nil
}

func (s *Store) SaveProfile(ctx context.Context, p wingo.Principal, profile wingo.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (principal, name) VALUES ($1, $2)
		ON CONFLICT (principal) DO UPDATE SET name = EXCLUDED.name, updated_at = now()`,
		string(p), profile.Name)
	if err != nil {
		return fmt.Errorf("save profile of %s: %w", p, err)
	}
	return nil
}
