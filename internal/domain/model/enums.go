package model

import "fmt"

// Tone selects the writing register used when drafting evaluation text.
type Tone string

const (
	ToneDescriptive Tone = "descriptive"
	ToneFormal      Tone = "formal"
)

// DefaultTone is used when no tone preference has been stored yet.
const DefaultTone = ToneDescriptive

// ParseTone validates a raw tone string from the API or storage.
func ParseTone(s string) (Tone, error) {
	switch Tone(s) {
	case ToneDescriptive, ToneFormal:
		return Tone(s), nil
	}
	return "", fmt.Errorf("unknown tone %q", s)
}
