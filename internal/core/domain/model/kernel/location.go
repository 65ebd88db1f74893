package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"warehouse/internal/pkg/errs"
	"warehouse/internal/pkg/guard"
)

const (
	// LocationMinRow is the first valid storage row letter.
	LocationMinRow byte = 'A'
	// LocationMaxRow is the last valid storage row letter.
	LocationMaxRow byte = 'Z'
	// LocationMinLevel is the lowest valid shelf level.
	LocationMinLevel = 1
	// LocationMaxLevel is the highest valid shelf level.
	LocationMaxLevel = 4
	// LocationMinPosition is the first valid position within a level.
	LocationMinPosition = 1
	// LocationMaxPosition is the last valid position within a level.
	LocationMaxPosition = 99
)

// ErrLocationIsNotConstructed is returned when attempting to use an improperly
// initialized Location. Locations must be created through NewLocation or
// ParseLocation to guarantee bounds are respected.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or ParseLocation constructors")

// Location is an immutable value object identifying a physical storage slot.
// A slot is addressed by its row letter (A-Z), shelf level (1-4), and position
// within the level (1-99). The canonical string form is "ROW/LEVEL/POSITION",
// for example "B/2/17".
//
// The zero value of Location is invalid and fails validation - use the
// constructors to create instances.
//
// Example:
//
//	loc, err := kernel.NewLocation('B', 2, 17)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(loc.Code()) // Output: B/2/17
type Location struct { //nolint:recvcheck //using for validation
	row      byte
	level    int
	position int
	guard    guard.ConstructorGuard
}

// NewLocation creates a Location from its row letter, level, and position.
//
// Parameters:
//   - row: Row letter (must be between 'A' and 'Z' inclusive)
//   - level: Shelf level (must be between LocationMinLevel and LocationMaxLevel)
//   - position: Position within the level (must be between LocationMinPosition and LocationMaxPosition)
//
// Returns:
//   - Location: A valid location instance
//   - error: Validation error if any component is out of bounds
func NewLocation(row byte, level int, position int) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setRow(row), loc.setLevel(level), loc.setPosition(position)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// ParseLocation parses a normalized slot code of the form "ROW/LEVEL/POSITION"
// (for example "A/1/23") into a Location. Malformed codes and codes with
// out-of-bounds components return a validation error.
func ParseLocation(code string) (Location, error) {
	parts := strings.Split(code, "/")
	if len(parts) != 3 {
		return Location{}, errs.NewValueIsInvalidErrorWithCause(
			"location code",
			fmt.Errorf("%q is not of the form ROW/LEVEL/POSITION", code),
		)
	}

	if len(parts[0]) != 1 {
		return Location{}, errs.NewValueIsInvalidErrorWithCause(
			"location code",
			fmt.Errorf("%q is not a single row letter", parts[0]),
		)
	}

	level, err := strconv.Atoi(parts[1])
	if err != nil {
		return Location{}, errs.NewValueIsInvalidErrorWithCause("location code", err)
	}

	position, err := strconv.Atoi(parts[2])
	if err != nil {
		return Location{}, errs.NewValueIsInvalidErrorWithCause("location code", err)
	}

	return NewLocation(parts[0][0], level, position)
}

// Validate checks if the Location was properly constructed using a constructor.
// The zero value of Location is invalid and will fail this validation.
//
// Returns:
//   - error: ErrLocationIsNotConstructed if the location was not properly initialized, nil otherwise
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Row returns the row letter of the slot.
func (l Location) Row() byte {
	return l.row
}

// Level returns the shelf level of the slot.
func (l Location) Level() int {
	return l.level
}

// Position returns the position of the slot within its level.
func (l Location) Position() int {
	return l.position
}

// Code returns the canonical slot code in the form "ROW/LEVEL/POSITION".
//
// Example:
//
//	loc, _ := kernel.NewLocation('C', 3, 5)
//	fmt.Println(loc.Code()) // Output: C/3/5
func (l Location) Code() string {
	return fmt.Sprintf("%c/%d/%d", l.row, l.level, l.position)
}

// String returns the canonical slot code. It implements fmt.Stringer so
// locations format naturally in logs and error messages.
func (l Location) String() string {
	return l.Code()
}

// IsEqual compares two locations for equality.
// Two locations are equal if they address the same slot.
// Both locations must be properly constructed for the comparison to succeed.
//
// Returns:
//   - bool: true if locations address the same slot
//   - error: Validation error if either location is improperly constructed
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

// setRow sets the row letter with validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, so that construction-time validation stays self-encapsulated.
func (l *Location) setRow(row byte) error {
	if row < LocationMinRow || row > LocationMaxRow {
		return errs.NewValueIsOutOfRangeError("row", string(row), string(LocationMinRow), string(LocationMaxRow))
	}

	l.row = row
	return nil
}

// setLevel sets the shelf level with validation.
func (l *Location) setLevel(level int) error {
	if level < LocationMinLevel || level > LocationMaxLevel {
		return errs.NewValueIsOutOfRangeError("level", level, LocationMinLevel, LocationMaxLevel)
	}

	l.level = level
	return nil
}

// setPosition sets the position with validation.
func (l *Location) setPosition(position int) error {
	if position < LocationMinPosition || position > LocationMaxPosition {
		return errs.NewValueIsOutOfRangeError("position", position, LocationMinPosition, LocationMaxPosition)
	}

	l.position = position
	return nil
}
