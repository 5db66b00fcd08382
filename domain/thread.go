package domain

import (
	"fmt"

	"msg-kernel/domain/component"
	errs "msg-kernel/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Thread is an ordered, append-only conversation between exactly two
// fixed participants. It exclusively owns its message sequence.
type Thread struct {
	ID           uuid.UUID
	Participants []string
	Messages     []*Message
}

func NewThread(a, b string) *Thread {
	return &Thread{
		ID:           uuid.New(),
		Participants: []string{a, b},
	}
}

// Append validates that the message's {sender, receiver} set equals the
// thread's participants set, then assigns the thread id and appends.
// On mismatch the thread is left untouched.
func (t *Thread) Append(m *Message) error {
	got := lo.Uniq([]string{m.Sender, m.Receiver})
	want := lo.Uniq(t.Participants)
	if !lo.Every(want, got) || !lo.Every(got, want) {
		return fmt.Errorf("%w: got %s -> %s, thread is between %v",
			errs.ErrParticipantMismatch, m.Sender, m.Receiver, t.Participants)
	}
	m.ThreadID = t.ID
	t.Messages = append(t.Messages, m)
	return nil
}

// Serialize encodes the messages in order. The resulting array is the
// wire form of the thread; there is no thread-level wrapper.
func (t *Thread) Serialize() ([]map[string]any, error) {
	encoded := make([]map[string]any, 0, len(t.Messages))
	for _, m := range t.Messages {
		raw, err := m.Encode()
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, raw)
	}
	return encoded, nil
}

// DeserializeThread rebuilds a thread by replaying Append over the
// decoded messages in array order. One bad message aborts the whole
// reconstruction. The id is taken from the storage key so a loaded
// thread keeps its identity across round trips.
func DeserializeThread(registry *component.Registry, id uuid.UUID, participants []string, data []map[string]any) (*Thread, error) {
	t := &Thread{ID: id, Participants: participants}
	for _, raw := range data {
		m, err := DecodeMessage(registry, raw)
		if err != nil {
			return nil, err
		}
		if err := t.Append(m); err != nil {
			return nil, err
		}
	}
	return t, nil
}
