package fitplan

import (
	"errors"
	"fmt"
)

// Sentinel kinds callers branch on with errors.Is. Generation and delivery
// failures stay distinct so a caller can retry delivery without regenerating
// content.
var (
	ErrEntitlement        = errors.New("entitlement required")
	ErrInvalidModelOutput = errors.New("invalid model output")
	ErrDelivery           = errors.New("delivery failed")
)

// Error is the structured failure surfaced to callers: a machine-readable
// kind plus a human message. Raw carries the offending model text for
// diagnostics and is never serialized.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Raw     string `json:"-"`

	sentinel error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.sentinel
}

// NewEntitlementError reports a missing or insufficient payment reference.
func NewEntitlementError(msg string) *Error {
	return &Error{Kind: "entitlement", Message: msg, sentinel: ErrEntitlement}
}

// NewInvalidOutputError reports model text that failed both the strict and
// rescue parses. The raw text is attached for diagnostics.
func NewInvalidOutputError(msg, raw string) *Error {
	return &Error{Kind: "invalid_output", Message: msg, Raw: raw, sentinel: ErrInvalidModelOutput}
}

// NewDeliveryError reports a mail transport failure after generation
// succeeded.
func NewDeliveryError(msg string) *Error {
	return &Error{Kind: "delivery", Message: msg, sentinel: ErrDelivery}
}
