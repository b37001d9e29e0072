package domain

// Kind is the intent category decided for a piece of user text.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindArithmetic
	KindGreeting
	KindIdentity
	KindTimeQuery
	KindCapabilityProbe
)

var kindNames = map[Kind]string{
	KindUnrecognized:    "unrecognized",
	KindArithmetic:      "arithmetic",
	KindGreeting:        "greeting",
	KindIdentity:        "identity",
	KindTimeQuery:       "time_query",
	KindCapabilityProbe: "capability_probe",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classification is the tagged outcome of classifying user text.
// Expression is only set for KindArithmetic and holds the normalized expression.
type Classification struct {
	Kind       Kind
	Expression string
}

// Unrecognized is the fallthrough classification.
var Unrecognized = Classification{Kind: KindUnrecognized}
