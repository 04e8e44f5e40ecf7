// Package storage remembers each user's last match setup in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-pong/internal/core"
)

// DefaultUser is the key for preferences of a local, unnamed player.
const DefaultUser = "local"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Preferences is the match setup a user picked last time.
type Preferences struct {
	User       string
	Mode       core.Mode
	Difficulty core.Difficulty
	Variant    core.Variant
	UpdatedAt  time.Time
}

// DefaultPreferences returns the setup used before a user has saved one.
func DefaultPreferences(user string) Preferences {
	return Preferences{
		User:       user,
		Mode:       core.ModeAI,
		Difficulty: core.DifficultyMedium,
		Variant:    core.VariantClassic,
	}
}

// Apply copies the preferences onto a runtime config.
func (p Preferences) Apply(cfg core.RuntimeConfig) core.RuntimeConfig {
	cfg.Mode = p.Mode
	cfg.Difficulty = p.Difficulty
	cfg.Variant = p.Variant
	return cfg
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS preferences (
			user TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			variant TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
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

// SavePreferences stores the setup for p.User, replacing any previous one.
func (s *Store) SavePreferences(p Preferences) error {
	if p.User == "" {
		p.User = DefaultUser
	}
	_, err := s.db.Exec(
		`INSERT INTO preferences (user, mode, difficulty, variant, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user) DO UPDATE SET
			mode = excluded.mode,
			difficulty = excluded.difficulty,
			variant = excluded.variant,
			updated_at = excluded.updated_at`,
		p.User, p.Mode.String(), p.Difficulty.String(), p.Variant.String(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save preferences: %w", err)
	}
	return nil
}

// LoadPreferences returns the stored setup for user.
// A user with nothing stored gets DefaultPreferences and found == false.
func (s *Store) LoadPreferences(user string) (prefs Preferences, found bool, err error) {
	if user == "" {
		user = DefaultUser
	}
	prefs = DefaultPreferences(user)

	var mode, difficulty, variant string
	var updatedAt any
	err = s.db.QueryRow(
		"SELECT mode, difficulty, variant, updated_at FROM preferences WHERE user = ?",
		user,
	).Scan(&mode, &difficulty, &variant, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs, false, nil
	}
	if err != nil {
		return prefs, false, fmt.Errorf("storage: cannot load preferences: %w", err)
	}

	// Unknown names fall back to the defaults already in prefs.
	if m, err := core.ParseMode(mode); err == nil {
		prefs.Mode = m
	}
	if d, err := core.ParseDifficulty(difficulty); err == nil {
		prefs.Difficulty = d
	}
	if v, err := core.ParseVariant(variant); err == nil {
		prefs.Variant = v
	}
	prefs.UpdatedAt = parseTime(updatedAt)

	return prefs, true, nil
}

// DeletePreferences forgets the setup for user.
func (s *Store) DeletePreferences(user string) error {
	if _, err := s.db.Exec("DELETE FROM preferences WHERE user = ?", user); err != nil {
		return fmt.Errorf("storage: cannot delete preferences: %w", err)
	}
	return nil
}

// Users lists everyone with stored preferences, most recent first.
func (s *Store) Users() ([]string, error) {
	rows, err := s.db.Query("SELECT user FROM preferences ORDER BY updated_at DESC, user")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return users, nil
}

// parseTime handles the driver returning DATETIME as either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
