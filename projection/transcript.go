// Package projection builds read-side views over loaded threads.
// It never mutates a thread and emits nothing.
package projection

import (
	"fmt"
	"time"

	"msg-kernel/domain"
	"msg-kernel/domain/component"

	"github.com/samber/lo"
)

// Entry is one message of a thread rendered relative to an owner.
type Entry struct {
	Outgoing   bool
	Author     string
	At         time.Time
	Text       string
	Components []string
}

// Transcript flattens a thread into render-ready entries, in message
// order, with direction computed relative to owner.
func Transcript(owner string, t *domain.Thread) []Entry {
	return lo.Map(t.Messages, func(m *domain.Message, _ int) Entry {
		return Entry{
			Outgoing:   m.Sender == owner,
			Author:     m.Sender,
			At:         m.Timestamp,
			Text:       m.Text,
			Components: lo.Map(m.Components, func(c component.Component, _ int) string { return Summarize(c) }),
		}
	})
}

// Summarize renders a one-line description of a component, for
// transcripts and CLI inspection.
func Summarize(c component.Component) string {
	switch comp := c.(type) {
	case *component.Checkbox:
		box := "[ ]"
		if comp.Checked {
			box = "[x]"
		}
		return fmt.Sprintf("%s %s", box, comp.Label)
	case *component.BinaryQuestion:
		answer := "unanswered"
		if comp.Answer != nil {
			answer = fmt.Sprintf("%t", *comp.Answer)
		}
		return fmt.Sprintf("%s (%s)", comp.Question, answer)
	case *component.MultiChoice:
		selected := "none"
		if comp.Selected != nil {
			selected = *comp.Selected
		}
		return fmt.Sprintf("%s %v (selected: %s)", comp.Question, comp.Choices, selected)
	case *component.TimeSlot:
		return fmt.Sprintf("%s -> %s", comp.Start.Format(time.RFC3339), comp.End.Format(time.RFC3339))
	case *component.Color:
		return fmt.Sprintf("color %s", comp.Hex)
	default:
		return c.Kind()
	}
}
