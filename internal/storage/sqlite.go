// Package storage provides SQLite-based persistence for domino rooms,
// game states, the move log and match results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jh2023at0610/telefondomino/internal/domino"
	"github.com/jh2023at0610/telefondomino/internal/table"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; commits run inside a single transaction.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			players INTEGER NOT NULL,
			rules TEXT NOT NULL,
			current_game_index INTEGER NOT NULL DEFAULT 0,
			last_game_winner INTEGER NOT NULL DEFAULT -1,
			match_winner INTEGER NOT NULL DEFAULT -1,
			match_scores TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS members (
			room_id TEXT NOT NULL REFERENCES rooms(id),
			user_id TEXT NOT NULL,
			nickname TEXT NOT NULL,
			seat INTEGER NOT NULL,
			is_bot INTEGER NOT NULL DEFAULT 0,
			strategy TEXT NOT NULL DEFAULT '',
			joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (room_id, user_id),
			UNIQUE (room_id, seat)
		);

		CREATE TABLE IF NOT EXISTS game_states (
			room_id TEXT PRIMARY KEY REFERENCES rooms(id),
			game_index INTEGER NOT NULL,
			version INTEGER NOT NULL,
			state TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS moves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id TEXT NOT NULL REFERENCES rooms(id),
			game_index INTEGER NOT NULL,
			seat INTEGER NOT NULL,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_moves_room_game ON moves(room_id, game_index);

		CREATE TABLE IF NOT EXISTS match_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id TEXT NOT NULL UNIQUE REFERENCES rooms(id),
			room_code TEXT NOT NULL,
			winner_seat INTEGER NOT NULL,
			winner_name TEXT NOT NULL,
			scores TEXT NOT NULL,
			games_played INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_match_results_created ON match_results(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure Store implements table.Repository
var _ table.Repository = (*Store)(nil)

// CreateRoom inserts a new room.
func (s *Store) CreateRoom(ctx context.Context, room table.Room) error {
	rules, err := json.Marshal(room.Rules)
	if err != nil {
		return fmt.Errorf("storage: cannot encode rules: %w", err)
	}
	scores, err := json.Marshal(room.MatchScores)
	if err != nil {
		return fmt.Errorf("storage: cannot encode scores: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rooms
		 (id, code, status, players, rules, current_game_index, last_game_winner, match_winner, match_scores)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.ID, room.Code, string(room.Status), room.Players, string(rules),
		room.CurrentGameIndex, room.LastGameWinner, room.MatchWinner, string(scores),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot create room: %w", err)
	}
	return nil
}

const roomColumns = `id, code, status, players, rules, current_game_index,
	last_game_winner, match_winner, match_scores, created_at, updated_at`

// RoomByID retrieves a room by its ID.
func (s *Store) RoomByID(ctx context.Context, id string) (table.Room, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	return scanRoom(row)
}

// RoomByCode retrieves a room by its join code.
func (s *Store) RoomByCode(ctx context.Context, code string) (table.Room, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE code = ?`, code)
	return scanRoom(row)
}

// Rooms retrieves the most recently updated rooms.
func (s *Store) Rooms(ctx context.Context, limit int) ([]table.Room, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms ORDER BY updated_at DESC, created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []table.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return rooms, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(row scanner) (table.Room, error) {
	var (
		room                 table.Room
		status, rules, score string
		createdAt, updatedAt any
	)
	err := row.Scan(
		&room.ID,
		&room.Code,
		&status,
		&room.Players,
		&rules,
		&room.CurrentGameIndex,
		&room.LastGameWinner,
		&room.MatchWinner,
		&score,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return table.Room{}, fmt.Errorf("storage: room: %w", table.ErrNotFound)
	}
	if err != nil {
		return table.Room{}, fmt.Errorf("storage: cannot scan room: %w", err)
	}

	room.Status = table.RoomStatus(status)
	if err := json.Unmarshal([]byte(rules), &room.Rules); err != nil {
		return table.Room{}, fmt.Errorf("storage: cannot decode rules: %w", err)
	}
	if err := json.Unmarshal([]byte(score), &room.MatchScores); err != nil {
		return table.Room{}, fmt.Errorf("storage: cannot decode scores: %w", err)
	}
	room.CreatedAt = parseTime(createdAt)
	room.UpdatedAt = parseTime(updatedAt)
	return room, nil
}

// AddMember seats a member in a room.
func (s *Store) AddMember(ctx context.Context, m table.Member) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (room_id, user_id, nickname, seat, is_bot, strategy)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.RoomID, m.UserID, m.Nickname, m.Seat, m.IsBot, m.Strategy,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot add member: %w", err)
	}
	return nil
}

// Members retrieves the members of a room ordered by seat.
func (s *Store) Members(ctx context.Context, roomID string) ([]table.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT room_id, user_id, nickname, seat, is_bot, strategy, joined_at
		 FROM members
		 WHERE room_id = ?
		 ORDER BY seat`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query members: %w", err)
	}
	defer rows.Close()

	var members []table.Member
	for rows.Next() {
		var m table.Member
		var joinedAt any
		if err := rows.Scan(&m.RoomID, &m.UserID, &m.Nickname, &m.Seat, &m.IsBot, &m.Strategy, &joinedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		m.JoinedAt = parseTime(joinedAt)
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return members, nil
}

// LoadGame retrieves the current game state of a room and its version.
func (s *Store) LoadGame(ctx context.Context, roomID string) (*domino.GameState, int64, error) {
	var data string
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT state, version FROM game_states WHERE room_id = ?`,
		roomID,
	).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("storage: game state: %w", table.ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("storage: cannot query game state: %w", err)
	}

	var state domino.GameState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, 0, fmt.Errorf("storage: cannot decode game state: %w", err)
	}
	return &state, version, nil
}

// Commit writes the game state, the move log entries, the room update and
// the match result of one action in a single transaction. The state is only
// replaced if its stored version still equals c.Version.
func (s *Store) Commit(ctx context.Context, c table.Commit) (int64, error) {
	data, err := json.Marshal(c.State)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode game state: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	version := c.Version + 1
	var res sql.Result
	if c.Version == 0 {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO game_states (room_id, game_index, version, state)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (room_id) DO NOTHING`,
			c.RoomID, c.State.GameIndex, version, string(data),
		)
	} else {
		res, err = tx.ExecContext(ctx,
			`UPDATE game_states
			 SET game_index = ?, version = ?, state = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE room_id = ? AND version = ?`,
			c.State.GameIndex, version, string(data), c.RoomID, c.Version,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot write game state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("storage: room %s is not at version %d: %w", c.RoomID, c.Version, table.ErrConflict)
	}

	for _, m := range c.Moves {
		payload, err := json.Marshal(m.Payload)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot encode move: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO moves (room_id, game_index, seat, kind, payload) VALUES (?, ?, ?, ?, ?)`,
			c.RoomID, m.GameIndex, m.Seat, string(m.Kind), string(payload),
		); err != nil {
			return 0, fmt.Errorf("storage: cannot append move: %w", err)
		}
	}

	if u := c.Room; u != nil {
		scores, err := json.Marshal(u.MatchScores)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot encode scores: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE rooms
			 SET status = ?, current_game_index = ?, last_game_winner = ?, match_winner = ?,
			     match_scores = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			string(u.Status), u.CurrentGameIndex, u.LastGameWinner, u.MatchWinner, string(scores), c.RoomID,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot update room: %w", err)
		}
	}

	if r := c.Result; r != nil {
		scores, err := json.Marshal(r.Scores)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot encode scores: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_results (room_id, room_code, winner_seat, winner_name, scores, games_played)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.RoomID, r.RoomCode, r.WinnerSeat, r.WinnerName, string(scores), r.GamesPlayed,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save match result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return version, nil
}

// Moves retrieves the move log of a room. A negative gameIndex returns
// every game.
func (s *Store) Moves(ctx context.Context, roomID string, gameIndex int) ([]table.Move, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, game_index, seat, kind, payload, created_at
		 FROM moves
		 WHERE room_id = ? AND (? < 0 OR game_index = ?)
		 ORDER BY id`,
		roomID, gameIndex, gameIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query moves: %w", err)
	}
	defer rows.Close()

	var moves []table.Move
	for rows.Next() {
		var m table.Move
		var kind, payload string
		var createdAt any
		if err := rows.Scan(&m.ID, &m.RoomID, &m.GameIndex, &m.Seat, &kind, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		m.Kind = table.MoveKind(kind)
		if err := json.Unmarshal([]byte(payload), &m.Payload); err != nil {
			return nil, fmt.Errorf("storage: cannot decode move %d: %w", m.ID, err)
		}
		m.CreatedAt = parseTime(createdAt)
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return moves, nil
}

// RecentResults retrieves the most recent match results.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]table.MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, room_code, winner_seat, winner_name, scores, games_played, created_at
		 FROM match_results
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match results: %w", err)
	}
	defer rows.Close()

	var results []table.MatchResult
	for rows.Next() {
		var r table.MatchResult
		var scores string
		var createdAt any
		if err := rows.Scan(&r.ID, &r.RoomID, &r.RoomCode, &r.WinnerSeat, &r.WinnerName, &scores, &r.GamesPlayed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(scores), &r.Scores); err != nil {
			return nil, fmt.Errorf("storage: cannot decode scores: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// parseTime handles datetimes scanned as either time.Time or string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
