package component

import (
	"testing"
	"time"

	errs "msg-kernel/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Builtins_Resolve_And_Round_Trip(t *testing.T) {
	req := require.New(t)
	registry := Builtins()

	components := []Component{
		&Checkbox{Label: "Bring snacks", Checked: true},
		&BinaryQuestion{Question: "Do you have tickets?"},
		&MultiChoice{Question: "Which day?", Choices: []string{"friday", "saturday"}, Selected: lo.ToPtr("friday")},
		&TimeSlot{
			Start: time.Date(2025, 3, 28, 18, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 28, 20, 0, 0, 0, time.UTC),
		},
		&Color{Hex: "#ff0066"},
	}
	for _, c := range components {
		_, ok := registry.Resolve(c.Kind())
		req.True(ok, "kind %s must be registered", c.Kind())

		encoded, err := Encode(c)
		req.NoError(err)
		req.Equal(c.Kind(), encoded["kind"])

		decoded, err := registry.Decode(encoded)
		req.NoError(err)
		req.Equal(c, decoded)
	}
}

func Test_Decode_Unregistered_Kind_Fails(t *testing.T) {
	req := require.New(t)
	registry := Builtins()

	_, err := registry.Decode(map[string]any{"kind": "palette"})
	req.ErrorIs(err, errs.ErrUnsupportedComponent)
	req.Contains(err.Error(), "palette")
}

func Test_Decode_Missing_Kind_Fails(t *testing.T) {
	req := require.New(t)
	registry := Builtins()

	_, err := registry.Decode(map[string]any{"label": "orphan"})
	req.ErrorIs(err, errs.ErrUnsupportedComponent)
}

func Test_Decode_Missing_Required_Field_Fails(t *testing.T) {
	req := require.New(t)
	registry := Builtins()

	_, err := registry.Decode(map[string]any{"kind": KindBinaryQuestion})
	req.ErrorIs(err, errs.ErrMalformedComponent)
	req.Contains(err.Error(), "question")

	_, err = registry.Decode(map[string]any{"kind": KindMultiChoice, "question": "Which day?", "choices": []any{}})
	req.ErrorIs(err, errs.ErrMalformedComponent)
}

func Test_Decode_Wrong_Field_Type_Fails(t *testing.T) {
	req := require.New(t)
	registry := Builtins()

	_, err := registry.Decode(map[string]any{"kind": KindCheckbox, "label": "ok", "checked": "yes"})
	req.ErrorIs(err, errs.ErrMalformedComponent)
}

type rating struct {
	Stars int `json:"stars" validate:"min=1,max=5"`
}

func (rating) Kind() string { return "rating" }

func Test_Register_Plugin_Kind(t *testing.T) {
	req := require.New(t)
	registry := Builtins()
	registry.Register("rating", func() Component { return &rating{} })

	encoded, err := Encode(&rating{Stars: 4})
	req.NoError(err)
	decoded, err := registry.Decode(encoded)
	req.NoError(err)
	req.Equal(&rating{Stars: 4}, decoded)

	// An isolated registry without the plugin still rejects it.
	_, err = Builtins().Decode(encoded)
	req.ErrorIs(err, errs.ErrUnsupportedComponent)
}

func Test_Register_Last_Writer_Wins(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Register("rating", func() Component { return &Checkbox{} })
	registry.Register("rating", func() Component { return &rating{} })

	factory, ok := registry.Resolve("rating")
	req.True(ok)
	req.IsType(&rating{}, factory())
}
