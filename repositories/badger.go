package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"msg-kernel/domain"
	"msg-kernel/domain/component"
	errs "msg-kernel/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerRepository is a key-value backend on BadgerDB. The thread
// record lives under "thread:{id}" and each message under
// "msg:{thread_id}:{seq_padded}:{message_id}". The 19-digit zero-padded
// insertion sequence keeps messages in order under a plain prefix scan.
type BadgerRepository struct {
	db       *badger.DB
	registry *component.Registry
	log      *slog.Logger
}

func NewBadgerRepository(db *badger.DB, registry *component.Registry, log *slog.Logger) BadgerRepository {
	return BadgerRepository{db: db, registry: registry, log: log}
}

func threadKey(id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("thread:%s", id))
}

func messageKey(threadID uuid.UUID, seq int, messageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", threadID, seq, messageID))
}

// SaveThread writes the participants record and one entry per message.
// A message keeps its key across re-saves as long as its position does
// not change, so saving again after appending only adds entries.
func (r BadgerRepository) SaveThread(thread *domain.Thread) error {
	participants, err := json.Marshal(thread.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}
	entries := make(map[string][]byte, len(thread.Messages)+1)
	entries[string(threadKey(thread.ID))] = participants
	for seq, m := range thread.Messages {
		raw, err := m.Encode()
		if err != nil {
			return err
		}
		payload, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("marshal message %s: %w", m.ID, err)
		}
		entries[string(messageKey(thread.ID, seq, m.ID))] = payload
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		for key, value := range entries {
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save thread %s: %w", thread.ID, err)
	}
	r.log.Debug("thread saved", "backend", "badger", "thread_id", thread.ID, "messages", len(thread.Messages))
	return nil
}

func (r BadgerRepository) LoadThread(id uuid.UUID) (*domain.Thread, error) {
	var participantsRaw []byte
	var payloads [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(threadKey(id))
		if err != nil {
			return err
		}
		participantsRaw, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		prefix := []byte(fmt.Sprintf("msg:%s:", id))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			payloads = append(payloads, value)
		}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", errs.ErrThreadNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", id, err)
	}

	var participants []string
	if err := json.Unmarshal(participantsRaw, &participants); err != nil {
		return nil, fmt.Errorf("%w: thread %s: bad participants record: %v", errs.ErrMalformedMessage, id, err)
	}
	data := make([]map[string]any, 0, len(payloads))
	for _, payload := range payloads {
		var raw map[string]any
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, fmt.Errorf("%w: thread %s: bad message record: %v", errs.ErrMalformedMessage, id, err)
		}
		data = append(data, raw)
	}
	return domain.DeserializeThread(r.registry, id, participants, data)
}
