package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/judgesched/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS entrants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			kind TEXT,
			format TEXT,
			preferences TEXT,
			avoid TEXT,
			room TEXT,
			included BOOLEAN DEFAULT 1,
			scores TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS judges (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT,
			room TEXT,
			active BOOLEAN DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS session_units (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			entrant_id TEXT NOT NULL,
			entrant_name TEXT,
			format TEXT NOT NULL,
			sequence INTEGER,
			scheduled BOOLEAN DEFAULT 0,
			start_slot INTEGER,
			judge_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_units_entrant ON session_units(entrant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_units_judge ON session_units(judge_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Entrant Methods ====================

const entrantColumns = `id, name, kind, format, preferences, avoid, room, included, scores`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntrant(row rowScanner) (models.Entrant, error) {
	var e models.Entrant
	var kind, format, prefs, avoid, room, scores sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &kind, &format, &prefs, &avoid, &room, &e.Included, &scores); err != nil {
		return e, err
	}
	e.Kind = models.GroupKind(kind.String)
	e.Format = models.SessionFormat(format.String)
	e.Room = room.String
	if err := decodeJSON(prefs, &e.Preferences); err != nil {
		return e, err
	}
	if err := decodeJSON(avoid, &e.Avoid); err != nil {
		return e, err
	}
	if err := decodeJSON(scores, &e.Scores); err != nil {
		return e, err
	}
	return e, nil
}

// ListEntrants returns all entrants in creation order
func (r *Repository) ListEntrants(ctx context.Context) ([]models.Entrant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entrantColumns+` FROM entrants ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entrants []models.Entrant
	for rows.Next() {
		e, err := scanEntrant(rows)
		if err != nil {
			return nil, err
		}
		entrants = append(entrants, e)
	}
	return entrants, rows.Err()
}

// GetEntrant retrieves an entrant by id
func (r *Repository) GetEntrant(ctx context.Context, id string) (*models.Entrant, error) {
	e, err := scanEntrant(r.db.QueryRowContext(ctx, `SELECT `+entrantColumns+` FROM entrants WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveEntrant inserts or updates an entrant, keeping its original position
func (r *Repository) SaveEntrant(ctx context.Context, e models.Entrant) error {
	prefs, err := encodeJSON(e.Preferences)
	if err != nil {
		return err
	}
	avoid, err := encodeJSON(e.Avoid)
	if err != nil {
		return err
	}
	scores, err := encodeJSON(e.Scores)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO entrants (`+entrantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, kind = excluded.kind, format = excluded.format,
			preferences = excluded.preferences, avoid = excluded.avoid, room = excluded.room,
			included = excluded.included, scores = excluded.scores
	`, e.ID, e.Name, string(e.Kind), string(e.Format), prefs, avoid, e.Room, e.Included, scores)
	return err
}

// DeleteEntrant removes an entrant and its session units
func (r *Repository) DeleteEntrant(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM entrants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM session_units WHERE entrant_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Judge Methods ====================

const judgeColumns = `id, name, category, room, active`

func scanJudge(row rowScanner) (models.Judge, error) {
	var j models.Judge
	var category, room sql.NullString
	if err := row.Scan(&j.ID, &j.Name, &category, &room, &j.Active); err != nil {
		return j, err
	}
	j.Category = models.Category(category.String)
	j.Room = room.String
	return j, nil
}

// ListJudges returns all judges in creation order
func (r *Repository) ListJudges(ctx context.Context) ([]models.Judge, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+judgeColumns+` FROM judges ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var judges []models.Judge
	for rows.Next() {
		j, err := scanJudge(rows)
		if err != nil {
			return nil, err
		}
		judges = append(judges, j)
	}
	return judges, rows.Err()
}

// GetJudge retrieves a judge by id
func (r *Repository) GetJudge(ctx context.Context, id string) (*models.Judge, error) {
	j, err := scanJudge(r.db.QueryRowContext(ctx, `SELECT `+judgeColumns+` FROM judges WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// SaveJudge inserts or updates a judge
func (r *Repository) SaveJudge(ctx context.Context, j models.Judge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO judges (`+judgeColumns+`) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, category = excluded.category, room = excluded.room, active = excluded.active
	`, j.ID, j.Name, string(j.Category), j.Room, j.Active)
	return err
}

// DeleteJudge removes a judge and unschedules the units assigned to it
func (r *Repository) DeleteJudge(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM judges WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE session_units SET scheduled = 0, start_slot = NULL, judge_id = NULL WHERE judge_id = ?
	`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Session Unit Methods ====================

const unitColumns = `id, entrant_id, entrant_name, format, sequence, scheduled, start_slot, judge_id`

func scanUnit(row rowScanner) (models.SessionUnit, error) {
	var u models.SessionUnit
	var name, judgeID sql.NullString
	var sequence, startSlot sql.NullInt64
	var scheduled bool
	var format string
	if err := row.Scan(&u.ID, &u.EntrantID, &name, &format, &sequence, &scheduled, &startSlot, &judgeID); err != nil {
		return u, err
	}
	u.EntrantName = name.String
	u.Format = models.SessionFormat(format)
	if sequence.Valid {
		seq := int(sequence.Int64)
		u.Sequence = &seq
	}
	if scheduled && startSlot.Valid && judgeID.Valid {
		u.Assign(judgeID.String, int(startSlot.Int64))
	}
	return u, nil
}

func unitArgs(u models.SessionUnit) []any {
	var sequence, startSlot, judgeID any
	if u.Sequence != nil {
		sequence = *u.Sequence
	}
	if u.Scheduled && u.Consistent() {
		startSlot = *u.StartSlot
		judgeID = u.JudgeID
	}
	return []any{u.EntrantID, u.EntrantName, string(u.Format), sequence, startSlot != nil, startSlot, judgeID}
}

// ListUnits returns all session units in stored order
func (r *Repository) ListUnits(ctx context.Context) ([]models.SessionUnit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+unitColumns+` FROM session_units ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []models.SessionUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// GetUnit retrieves a session unit by id
func (r *Repository) GetUnit(ctx context.Context, id string) (*models.SessionUnit, error) {
	u, err := scanUnit(r.db.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM session_units WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveUnit updates an existing session unit
func (r *Repository) SaveUnit(ctx context.Context, u models.SessionUnit) error {
	args := append(unitArgs(u), u.ID)
	res, err := r.db.ExecContext(ctx, `
		UPDATE session_units SET entrant_id = ?, entrant_name = ?, format = ?, sequence = ?,
			scheduled = ?, start_slot = ?, judge_id = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceUnits swaps the whole unit set in one transaction
func (r *Repository) ReplaceUnits(ctx context.Context, units []models.SessionUnit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_units`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO session_units (id, position, entrant_id, entrant_name, format, sequence, scheduled, start_slot, judge_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, u := range units {
		args := append([]any{u.ID, i}, unitArgs(u)...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"entrants": true, "judges": true, "session_units": true, "settings": true,
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	if !validTables[table] {
		return ErrInvalidTable
	}

	// Safe to use string concatenation now that we've validated the table name
	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}

func encodeJSON(v any) (any, error) {
	switch x := v.(type) {
	case []string:
		if len(x) == 0 {
			return nil, nil
		}
	case map[string]float64:
		if len(x) == 0 {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeJSON(s sql.NullString, dst any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}
