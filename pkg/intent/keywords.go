package intent

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywords []byte

// Keywords holds one phrase list per keyword-driven intent.
type Keywords struct {
	Greeting        []string `yaml:"greeting"`
	Identity        []string `yaml:"identity"`
	TimeQuery       []string `yaml:"time_query"`
	CapabilityProbe []string `yaml:"capability_probe"`
}

// DefaultKeywords returns the embedded keyword tables.
func DefaultKeywords() Keywords {
	kw, err := ParseKeywords(strings.NewReader(string(defaultKeywords)))
	if err != nil {
		panic(fmt.Sprintf("intent: embedded keywords.yaml is invalid: %v", err))
	}
	return kw
}

// ParseKeywords decodes a keyword YAML document.
func ParseKeywords(r io.Reader) (Keywords, error) {
	var kw Keywords
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&kw); err != nil {
		return Keywords{}, fmt.Errorf("failed to decode keywords: %w", err)
	}
	return kw, nil
}

// LoadKeywords reads a keyword YAML file from disk.
func LoadKeywords(path string) (Keywords, error) {
	f, err := os.Open(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("failed to open keywords file %s: %w", path, err)
	}
	defer f.Close()
	return ParseKeywords(f)
}

// phrase is a keyword split into tokens.
type phrase []string

func compile(entries []string) []phrase {
	out := make([]phrase, 0, len(entries))
	for _, e := range entries {
		toks := tokenize(e)
		if len(toks) > 0 {
			out = append(out, toks)
		}
	}
	return out
}

// matchAny reports whether any phrase occurs as a consecutive run of tokens.
func matchAny(tokens []string, phrases []phrase) bool {
	for _, p := range phrases {
		if containsRun(tokens, p) {
			return true
		}
	}
	return false
}

func containsRun(tokens []string, p phrase) bool {
	for i := 0; i+len(p) <= len(tokens); i++ {
		match := true
		for j, w := range p {
			if tokens[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
