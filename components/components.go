// Package components defines the data carried by trees, cells and blobs.
// Behaviour lives in the systems package; nothing here draws random numbers.
package components

// Outcome is the result of resolving one blob's year.
type Outcome uint8

const (
	Alive   Outcome = iota
	Starved         // energy reached zero or below
	AgedOut         // an aging gene fired
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case Alive:
		return "alive"
	case Starved:
		return "starvation"
	case AgedOut:
		return "old_age"
	default:
		return "unknown"
	}
}
