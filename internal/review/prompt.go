package review

// Prompter is the blocking yes/no and text-input boundary used for delete
// confirmation and for naming clips and notes.
type Prompter interface {
	Confirm(message string) bool
	// Input returns the entered text, or ok=false when the user cancels.
	Input(message, defaultValue string) (text string, ok bool)
}

// StaticPrompter answers every prompt the same way. It serves tests and UIs
// that collect the answer before invoking the operation.
type StaticPrompter struct {
	Confirmed bool
	Text      string
	Cancelled bool
}

func (p StaticPrompter) Confirm(string) bool {
	return p.Confirmed
}

func (p StaticPrompter) Input(string, string) (string, bool) {
	if p.Cancelled {
		return "", false
	}
	return p.Text, true
}

// Confirmed is a prompter that approves every confirmation.
var Confirmed Prompter = StaticPrompter{Confirmed: true}
