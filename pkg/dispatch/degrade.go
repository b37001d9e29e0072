package dispatch

import (
	"fmt"
	"strings"
)

// Fixed texts of degraded replies.
const (
	EmptyReplyApology = "Bir şeyler ters gitti, boş cevap aldım. Tekrar dener misin? 🤔"
	RemoteApology     = "Şu an bağlantıda ufak bir sorun var sanırım dostum. Birazdan tekrar dene! 😅"
	FailureApology    = "Bağlantıda bir sorun oldu dostum. 😔"
)

// DegradeMode selects the reply used when the remote assistant fails.
type DegradeMode string

const (
	// DegradeApology replies with a fixed apology text.
	DegradeApology DegradeMode = "apology"
	// DegradeLocal replies with the local responder's text.
	DegradeLocal DegradeMode = "local"
)

// ParseDegradeMode parses a mode name. An empty string selects DegradeApology.
func ParseDegradeMode(s string) (DegradeMode, error) {
	switch DegradeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DegradeApology:
		return DegradeApology, nil
	case DegradeLocal:
		return DegradeLocal, nil
	default:
		return "", fmt.Errorf("unknown degrade mode %q (want %q or %q)", s, DegradeApology, DegradeLocal)
	}
}
