// Package errcode defines stable, bus-facing error identifiers.
package errcode

// Code is a stable error identifier: a string newtype, comparable,
// allocation-free, and an error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK             Code = "ok"
	Unsupported    Code = "unsupported"
	InvalidParams  Code = "invalid_params"
	InvalidPayload Code = "invalid_payload"
	UnknownDevice  Code = "unknown_device"
	UnknownType    Code = "unknown_type"
	UnknownPin     Code = "unknown_pin"
	PinInUse       Code = "pin_in_use"
	InvalidMode    Code = "invalid_mode"

	Error Code = "error" // generic fallback
)

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
