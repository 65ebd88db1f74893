// Package guard provides a defensive construction pattern for domain objects.
// Embedding a ConstructorGuard in a value object or entity makes zero-value
// instances detectable: only objects built through their designated constructor
// pass validation.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is provided and the object was not properly constructed.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as created through its constructor.
// The zero value fails validation; NewConstructorGuard produces a passing guard.
//
// Example:
//
//	type Quantity struct {
//	    value int64
//	    guard guard.ConstructorGuard
//	}
//
//	func NewQuantity(v int64) (Quantity, error) {
//	    if v < 0 {
//	        return Quantity{}, errors.New("quantity cannot be negative")
//	    }
//	    return Quantity{value: v, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (q Quantity) Validate() error {
//	    return q.guard.Validate(ErrQuantityIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the embedding object as
// properly constructed. Call it inside the object's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the embedding object was built through its
// constructor. Otherwise it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
