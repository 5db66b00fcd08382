// Package domain contains the core entities of the structured messaging
// kernel: the Message envelope and the Thread that owns an ordered
// conversation between two participants. Entities are plain values;
// persistence is delegated to the repositories.
package domain

import (
	"fmt"
	"time"

	"msg-kernel/domain/component"
	errs "msg-kernel/errors"

	"github.com/google/uuid"
)

// Message is one structured unit of communication: free text plus an
// ordered list of typed components and an open extension payload.
// Its identity is fixed at construction; ThreadID is assigned exactly
// once, when the message is appended to a Thread.
type Message struct {
	ID         uuid.UUID
	ThreadID   uuid.UUID
	Timestamp  time.Time
	Sender     string
	Receiver   string
	Text       string
	Components []component.Component
	Extensions map[string]any
}

func NewMessage(sender, receiver, text string) *Message {
	return &Message{
		ID:         uuid.New(),
		Timestamp:  time.Now().UTC(),
		Sender:     sender,
		Receiver:   receiver,
		Text:       text,
		Extensions: map[string]any{},
	}
}

// Attach appends a component to the message, preserving order.
func (m *Message) Attach(c component.Component) *Message {
	m.Components = append(m.Components, c)
	return m
}

// Encode flattens the message into a mapping. Every key is present even
// when empty, so any conforming peer can parse the envelope.
func (m *Message) Encode() (map[string]any, error) {
	comps := make([]map[string]any, 0, len(m.Components))
	for _, c := range m.Components {
		encoded, err := component.Encode(c)
		if err != nil {
			return nil, err
		}
		comps = append(comps, encoded)
	}
	ext := m.Extensions
	if ext == nil {
		ext = map[string]any{}
	}
	return map[string]any{
		"id":         m.ID.String(),
		"thread_id":  m.ThreadID.String(),
		"timestamp":  m.Timestamp.UTC().Format(time.RFC3339Nano),
		"sender":     m.Sender,
		"receiver":   m.Receiver,
		"text":       m.Text,
		"components": comps,
		"extensions": ext,
	}, nil
}

// DecodeMessage rebuilds a message from its encoded mapping, resolving
// components through the given registry. Decoding is all-or-nothing: a
// single bad component fails the whole message.
func DecodeMessage(registry *component.Registry, raw map[string]any) (*Message, error) {
	for _, field := range []string{"sender", "receiver", "id", "thread_id"} {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("%w: missing required field %q", errs.ErrMalformedMessage, field)
		}
	}

	id, err := parseUUIDField(raw, "id")
	if err != nil {
		return nil, err
	}
	threadID, err := parseUUIDField(raw, "thread_id")
	if err != nil {
		return nil, err
	}
	sender, err := stringField(raw, "sender")
	if err != nil {
		return nil, err
	}
	receiver, err := stringField(raw, "receiver")
	if err != nil {
		return nil, err
	}

	m := &Message{
		ID:         id,
		ThreadID:   threadID,
		Timestamp:  time.Now().UTC(),
		Sender:     sender,
		Receiver:   receiver,
		Extensions: map[string]any{},
	}

	if v, ok := raw["timestamp"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not a string", errs.ErrMalformedMessage, "timestamp")
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", errs.ErrMalformedMessage, "timestamp", err)
		}
		m.Timestamp = ts
	}
	if v, ok := raw["text"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not a string", errs.ErrMalformedMessage, "text")
		}
		m.Text = s
	}
	if v, ok := raw["extensions"]; ok && v != nil {
		ext, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not an object", errs.ErrMalformedMessage, "extensions")
		}
		m.Extensions = ext
	}
	if v, ok := raw["components"]; ok && v != nil {
		items, err := componentMappings(v)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			c, err := registry.Decode(item)
			if err != nil {
				return nil, err
			}
			m.Components = append(m.Components, c)
		}
	}
	return m, nil
}

func parseUUIDField(raw map[string]any, field string) (uuid.UUID, error) {
	s, err := stringField(raw, field)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: field %q: %v", errs.ErrMalformedMessage, field, err)
	}
	return id, nil
}

func stringField(raw map[string]any, field string) (string, error) {
	s, ok := raw[field].(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", errs.ErrMalformedMessage, field)
	}
	return s, nil
}

// componentMappings accepts both the generic []any produced by a JSON
// decoder and the []map[string]any produced by Encode.
func componentMappings(v any) ([]map[string]any, error) {
	switch items := v.(type) {
	case []map[string]any:
		return items, nil
	case []any:
		mappings := make([]map[string]any, 0, len(items))
		for _, item := range items {
			mapping, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: component entry is not an object", errs.ErrMalformedComponent)
			}
			mappings = append(mappings, mapping)
		}
		return mappings, nil
	default:
		return nil, fmt.Errorf("%w: field %q is not an array", errs.ErrMalformedMessage, "components")
	}
}
