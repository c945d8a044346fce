package service

import "strconv"

// Minimum-quantity policies for stepper controls. Cart lines may be stepped
// down to zero, which removes the line; standalone steppers outside the cart
// never drop below one.
const (
	CartLineMin = 0
	StepperMin  = 1
)

// ValidateQuantity normalizes loosely-typed quantity input into a safe
// non-negative integer. Non-digit characters are stripped; anything that
// still fails to parse defaults to 1. Zero passes through unchanged, since
// callers treat it as removal intent. Never fails.
func ValidateQuantity(raw string) int {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	qty, err := strconv.Atoi(string(digits))
	if err != nil {
		// Not a number. Default to 1.
		return 1
	}
	return qty
}

// StepQuantity applies a stepper delta to the current quantity, clamping the
// result at the given minimum.
func StepQuantity(current, delta, min int) int {
	qty := current + delta
	if qty < min {
		return min
	}
	return qty
}
