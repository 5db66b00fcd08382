// Package repositories provides the storage backends for threads.
// Callers pick exactly one backend per deployment; the backends are
// interchangeable and never mixed for the same thread id.
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"msg-kernel/domain"
	"msg-kernel/domain/component"
	errs "msg-kernel/errors"

	"github.com/google/uuid"
)

// JSONFileRepository stores every thread in its own .json file under a
// root directory. The file content is the serialized message array; a
// save overwrites the file wholesale.
type JSONFileRepository struct {
	root     string
	registry *component.Registry
	log      *slog.Logger
}

func NewJSONFileRepository(root string, registry *component.Registry, log *slog.Logger) (JSONFileRepository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return JSONFileRepository{}, fmt.Errorf("create storage root: %w", err)
	}
	return JSONFileRepository{root: root, registry: registry, log: log}, nil
}

func (r JSONFileRepository) fileFor(id uuid.UUID) string {
	return filepath.Join(r.root, id.String()+".json")
}

// SaveThread rejects empty threads up front: the file layout re-derives
// participants from the first stored message, so a zero-message file
// could never be loaded back.
func (r JSONFileRepository) SaveThread(thread *domain.Thread) error {
	if len(thread.Messages) == 0 {
		return fmt.Errorf("%w: thread %s cannot be stored as a JSON file", errs.ErrEmptyThread, thread.ID)
	}
	data, err := thread.Serialize()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal thread %s: %w", thread.ID, err)
	}
	if err := os.WriteFile(r.fileFor(thread.ID), b, 0o644); err != nil {
		return fmt.Errorf("write thread %s: %w", thread.ID, err)
	}
	r.log.Debug("thread saved", "backend", "jsonfile", "thread_id", thread.ID, "messages", len(thread.Messages))
	return nil
}

// LoadThread re-derives the participants from the first stored
// message's sender and receiver, then replays the whole array.
func (r JSONFileRepository) LoadThread(id uuid.UUID) (*domain.Thread, error) {
	b, err := os.ReadFile(r.fileFor(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errs.ErrThreadNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read thread %s: %w", id, err)
	}
	var data []map[string]any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("%w: thread %s: %v", errs.ErrMalformedMessage, id, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: thread %s has an empty message array", errs.ErrEmptyThread, id)
	}
	sender, ok := data[0]["sender"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: thread %s: first message has no sender", errs.ErrMalformedMessage, id)
	}
	receiver, ok := data[0]["receiver"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: thread %s: first message has no receiver", errs.ErrMalformedMessage, id)
	}
	return domain.DeserializeThread(r.registry, id, []string{sender, receiver}, data)
}
