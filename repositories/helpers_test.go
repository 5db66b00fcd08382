package repositories

import (
	"testing"
	"time"

	"msg-kernel/domain"
	"msg-kernel/domain/component"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice@localhost"
	bob   = "bob@localhost"
)

// gameNightThread reproduces the canonical two-message conversation:
// alice asks a binary question, bob answers in plain text.
func gameNightThread(t *testing.T) *domain.Thread {
	t.Helper()
	thread := domain.NewThread(alice, bob)
	first := domain.NewMessage(alice, bob, "Hey, game tonight?").
		Attach(&component.BinaryQuestion{Question: "Do you have tickets?"})
	require.NoError(t, thread.Append(first))
	require.NoError(t, thread.Append(domain.NewMessage(bob, alice, "Nope, still looking.")))
	return thread
}

// richThread carries every built-in component kind plus an extension
// payload, to exercise the full wire surface of each backend.
func richThread(t *testing.T) *domain.Thread {
	t.Helper()
	thread := domain.NewThread(alice, bob)

	first := domain.NewMessage(alice, bob, "Planning the evening").
		Attach(&component.Checkbox{Label: "Bring snacks", Checked: true}).
		Attach(&component.MultiChoice{
			Question: "Which day?",
			Choices:  []string{"friday", "saturday"},
			Selected: lo.ToPtr("friday"),
		}).
		Attach(&component.TimeSlot{
			Start: time.Date(2025, 3, 28, 18, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 28, 20, 0, 0, 0, time.UTC),
		})
	first.Extensions["reservation"] = map[string]any{"event": "game", "guests": float64(2)}
	require.NoError(t, thread.Append(first))

	second := domain.NewMessage(bob, alice, "Works for me").
		Attach(&component.BinaryQuestion{Question: "Shall I book?", Answer: lo.ToPtr(true)}).
		Attach(&component.Color{Hex: "#ff0066"})
	require.NoError(t, thread.Append(second))
	return thread
}
