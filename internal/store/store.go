// Package store persists exported game snapshots in named SQLite save
// slots. Payloads are the core's snapshot JSON, stored opaque: the store
// validates slot names, never the game inside.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/store/migrations"
	_ "modernc.org/sqlite"
)

// ErrNoSave reports a load or delete against an empty slot.
var ErrNoSave = errors.New("no save in slot")

const maxSlotLen = 64

// SlotInfo describes one occupied save slot.
type SlotInfo struct {
	Slot      string    `json:"slot"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is a SQLite-backed save-slot store. Safe for concurrent use; the
// pool serializes writers and the busy timeout absorbs lock contention.
type Store struct {
	db *sql.DB
}

// Open opens, creating if needed, and migrates a save database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes the snapshot into the slot, overwriting any previous save.
func (s *Store) Save(ctx context.Context, slot string, snap game.Snapshot) error {
	slot, err := cleanSlot(slot)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	now := time.Now().UTC().UnixMilli()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		slot, string(payload), now, now,
	)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Load reads the snapshot saved in the slot. A missing slot is ErrNoSave.
func (s *Store) Load(ctx context.Context, slot string) (game.Snapshot, error) {
	slot, err := cleanSlot(slot)
	if err != nil {
		return game.Snapshot{}, err
	}
	var payload string
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = ?`, slot)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.Snapshot{}, fmt.Errorf("slot %s: %w", slot, ErrNoSave)
		}
		return game.Snapshot{}, fmt.Errorf("load slot %s: %w", slot, err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode slot %s: %w", slot, err)
	}
	return snap, nil
}

// List returns the occupied slots, most recently updated first.
func (s *Store) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, created_at, updated_at FROM saves ORDER BY updated_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	infos := make([]SlotInfo, 0)
	for rows.Next() {
		var info SlotInfo
		var created, updated int64
		if err := rows.Scan(&info.Slot, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		info.CreatedAt = time.UnixMilli(created).UTC()
		info.UpdatedAt = time.UnixMilli(updated).UTC()
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}
	return infos, nil
}

// Delete removes the save in the slot. A missing slot is ErrNoSave.
func (s *Store) Delete(ctx context.Context, slot string) error {
	slot, err := cleanSlot(slot)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	if n == 0 {
		return fmt.Errorf("slot %s: %w", slot, ErrNoSave)
	}
	return nil
}

func cleanSlot(slot string) (string, error) {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return "", fmt.Errorf("slot name is required")
	}
	if len(slot) > maxSlotLen {
		return "", fmt.Errorf("slot name longer than %d chars", maxSlotLen)
	}
	return slot, nil
}
