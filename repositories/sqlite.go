package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"msg-kernel/domain"
	"msg-kernel/domain/component"
	errs "msg-kernel/errors"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRepository is the relational backend: a threads table holding
// the participants pair and a messages table holding the full encoded
// payload per message, ordered by insertion sequence. The handle is
// shared, so a mutex serializes save/load; the embedded store expects a
// single writer at a time.
type SQLiteRepository struct {
	db       *sql.DB
	registry *component.Registry
	log      *slog.Logger
	mu       sync.Mutex
}

func NewSQLiteRepository(path string, registry *component.Registry, log *slog.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set sqlite busy_timeout", "error", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("failed to set sqlite journal_mode=WAL", "error", err)
	}
	r := &SQLiteRepository{db: db, registry: registry, log: log}
	if err := r.prepare(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) prepare() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS threads(
			id TEXT PRIMARY KEY,
			participants TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS messages(
			id TEXT PRIMARY KEY,
			thread_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			payload TEXT NOT NULL,
			FOREIGN KEY(thread_id) REFERENCES threads(id)
		);
		CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, seq);
	`)
	if err != nil {
		return fmt.Errorf("prepare schema: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveThread inserts the thread row if absent and upserts every message
// row keyed by message id, so a re-save after appending only adds or
// updates rows.
func (r *SQLiteRepository) SaveThread(thread *domain.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	participants, err := json.Marshal(thread.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO threads(id, participants) VALUES(?, ?)",
		thread.ID.String(), string(participants),
	); err != nil {
		return fmt.Errorf("insert thread %s: %w", thread.ID, err)
	}
	for seq, m := range thread.Messages {
		raw, err := m.Encode()
		if err != nil {
			return err
		}
		payload, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("marshal message %s: %w", m.ID, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO messages(id, thread_id, seq, payload) VALUES(?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET seq = excluded.seq, payload = excluded.payload`,
			m.ID.String(), thread.ID.String(), seq, string(payload),
		); err != nil {
			return fmt.Errorf("upsert message %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	r.log.Debug("thread saved", "backend", "sqlite", "thread_id", thread.ID, "messages", len(thread.Messages))
	return nil
}

func (r *SQLiteRepository) LoadThread(id uuid.UUID) (*domain.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var encoded string
	err := r.db.QueryRow("SELECT participants FROM threads WHERE id = ?", id.String()).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", errs.ErrThreadNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select thread %s: %w", id, err)
	}
	var participants []string
	if err := json.Unmarshal([]byte(encoded), &participants); err != nil {
		return nil, fmt.Errorf("%w: thread %s: bad participants row: %v", errs.ErrMalformedMessage, id, err)
	}

	rows, err := r.db.Query("SELECT payload FROM messages WHERE thread_id = ? ORDER BY seq", id.String())
	if err != nil {
		return nil, fmt.Errorf("select messages of %s: %w", id, err)
	}
	defer rows.Close()

	var data []map[string]any
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(payload), &raw); err != nil {
			return nil, fmt.Errorf("%w: thread %s: bad payload row: %v", errs.ErrMalformedMessage, id, err)
		}
		data = append(data, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages of %s: %w", id, err)
	}
	return domain.DeserializeThread(r.registry, id, participants, data)
}
