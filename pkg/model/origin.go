package model

import "fmt"

// Origin tells how a component landed in the workspace
type Origin string

const (
	// Authored components were created in this workspace
	Authored Origin = "AUTHORED"

	// Imported components were fetched from a scope and are materialized as sources
	Imported Origin = "IMPORTED"

	// Nested components are transitive dependencies materialized as files
	Nested Origin = "NESTED"
)

// IsValid tells if the origin is known
func (o Origin) IsValid() bool {
	switch o {
	case Authored, Imported, Nested:
		return true
	default:
		return false
	}
}

func (o Origin) String() string {
	return string(o)
}

// UnmarshalText rejects unknown origins
func (o *Origin) UnmarshalText(text []byte) error {
	v := Origin(text)
	if !v.IsValid() {
		return fmt.Errorf("invalid component origin: %q", string(text))
	}
	*o = v
	return nil
}
