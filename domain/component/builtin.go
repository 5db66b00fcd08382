package component

import "time"

// Discriminators of the built-in component kinds.
const (
	KindCheckbox       = "checkbox"
	KindBinaryQuestion = "binaryQuestion"
	KindMultiChoice    = "multiChoice"
	KindTimeSlot       = "timeSlot"
	KindColor          = "color"
)

// Checkbox is a labelled box that is either ticked or not.
type Checkbox struct {
	Label   string `json:"label" validate:"required"`
	Checked bool   `json:"checked"`
}

func (Checkbox) Kind() string { return KindCheckbox }

// BinaryQuestion is a yes/no question. Answer stays nil until the
// receiving party answers.
type BinaryQuestion struct {
	Question string `json:"question" validate:"required"`
	Answer   *bool  `json:"answer"`
}

func (BinaryQuestion) Kind() string { return KindBinaryQuestion }

// MultiChoice is a question with an ordered list of possible answers.
// Selected stays nil until a choice is picked. Whether Selected is one
// of Choices is left to extension schemas, as is the case in the core
// grammar.
type MultiChoice struct {
	Question string   `json:"question" validate:"required"`
	Choices  []string `json:"choices" validate:"min=1"`
	Selected *string  `json:"selected"`
}

func (MultiChoice) Kind() string { return KindMultiChoice }

// TimeSlot proposes a time window. Start <= End is not enforced here;
// the core grammar keeps it permissive.
type TimeSlot struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

func (TimeSlot) Kind() string { return KindTimeSlot }

// Color carries a 6-digit hex color, with or without a leading '#'.
type Color struct {
	Hex string `json:"hex" validate:"required"`
}

func (Color) Kind() string { return KindColor }

// Builtins returns a fresh registry pre-loaded with the five built-in
// kinds. Callers register plugin kinds on top of it at startup.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(KindCheckbox, func() Component { return &Checkbox{} })
	r.Register(KindBinaryQuestion, func() Component { return &BinaryQuestion{} })
	r.Register(KindMultiChoice, func() Component { return &MultiChoice{} })
	r.Register(KindTimeSlot, func() Component { return &TimeSlot{} })
	r.Register(KindColor, func() Component { return &Color{} })
	return r
}
