// Package animation holds the per-kind frame rules and the in-memory phase
// variables that drive them.
package animation

import "strings"

// Kind identifies an animation. The numeric value is persisted.
type Kind uint8

const (
	None Kind = iota
	Rainbow
	Pulse
	Chase
	Strobe
	Raindrop
	Fireplace
)

var kindNames = map[Kind]string{
	None:      "none",
	Rainbow:   "rainbow",
	Pulse:     "pulse",
	Chase:     "chase",
	Strobe:    "strobe",
	Raindrop:  "raindrop",
	Fireplace: "fireplace",
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Animated reports whether k is a known kind other than None.
func (k Kind) Animated() bool {
	return k != None && k <= Fireplace
}

// ParseKind resolves a kind by name (case-insensitive) or by its numeric id.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		k := Kind(s[0] - '0')
		if _, ok := kindNames[k]; ok {
			return k, true
		}
	}
	return None, false
}
