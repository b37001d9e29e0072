package domain

// Transcript is the ordered sequence of Turns of the active conversation.
// Insertion order is display order.
type Transcript struct {
	Turns []Turn `json:"turns"`

	// Sealed holds the encrypted form of a transcript at rest. Turns is empty when it is set.
	Sealed string `json:"sealed,omitempty"`
}

// NewTranscript creates a transcript holding a single assistant greeting.
func NewTranscript(greeting string) *Transcript {
	return &Transcript{
		Turns: []Turn{NewTurn(RoleAssistant, greeting)},
	}
}

// Append adds turns at the end of the transcript.
func (t *Transcript) Append(turns ...Turn) {
	t.Turns = append(t.Turns, turns...)
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.Turns)
}

// Last returns the most recent turn, if any.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.Turns) == 0 {
		return Turn{}, false
	}
	return t.Turns[len(t.Turns)-1], true
}

// Snapshot returns a copy that shares no backing array with t.
func (t *Transcript) Snapshot() *Transcript {
	turns := make([]Turn, len(t.Turns))
	copy(turns, t.Turns)
	return &Transcript{Turns: turns, Sealed: t.Sealed}
}
