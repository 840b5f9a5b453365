package grove

import (
	"errors"
	"fmt"
)

// Domain errors for grid construction and replacement rules.
var (
	// ErrNoSpecies indicates an empty species set.
	ErrNoSpecies = errors.New("grove: species set is empty")

	// ErrGridSize indicates a non-positive side length or a label slice of the wrong length.
	ErrGridSize = errors.New("grove: invalid grid size")

	// ErrSpeciesCount indicates a rule that needs a specific number of species.
	ErrSpeciesCount = errors.New("grove: wrong number of species for rule")

	// ErrParameterBounds indicates a rule parameter outside its valid range.
	ErrParameterBounds = errors.New("grove: parameter out of valid bounds")

	// ErrPressureOutOfRange indicates a resource setting that can push a
	// pressure factor above one.
	ErrPressureOutOfRange = errors.New("grove: pressure factor can exceed 1")

	// ErrRejectionExhausted indicates the competition rule hit its retry cap.
	ErrRejectionExhausted = errors.New("grove: rejection sampling exhausted")

	// ErrDuplicateSpecies indicates two species sharing a name.
	ErrDuplicateSpecies = errors.New("grove: duplicate species name")

	// ErrUnknownSpecies indicates a label that is not in the species set.
	ErrUnknownSpecies = errors.New("grove: label not in species set")
)

// ConfigError ties a validation failure to the offending setting.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%v: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func configErr(field string, value any, err error) error {
	return &ConfigError{Field: field, Value: value, Wrapped: err}
}
