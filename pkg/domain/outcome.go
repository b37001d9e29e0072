package domain

// ReplySource tells where the reply text of a turn came from.
type ReplySource string

const (
	SourceRemote   ReplySource = "remote"
	SourceLocal    ReplySource = "local"
	SourceDegraded ReplySource = "degraded"
)

// TurnOutcome is the finalized result of dispatching one user turn.
type TurnOutcome struct {
	ReplyText string      `json:"reply_text"`
	IsError   bool        `json:"is_error"`
	Source    ReplySource `json:"source"`
}
