package carrier

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a carrier failure for the layers above.
type ErrorCode string

const (
	// CodeValidation marks missing or malformed caller input. Never retried.
	CodeValidation ErrorCode = "validation"
	// CodeUnavailable marks a network error or timeout reaching the carrier.
	CodeUnavailable ErrorCode = "unavailable"
	// CodeProtocol marks a carrier response that signaled failure; the
	// carrier's own message is passed through verbatim for debugging.
	CodeProtocol ErrorCode = "protocol"
	// CodeNotImplemented marks operations a carrier does not support.
	CodeNotImplemented ErrorCode = "not_implemented"
)

// CarrierError is the failure value returned across the client and adapter
// boundaries. These layers never panic on expected failure modes; only the
// shipment lifecycle converts failures into a definitive reject.
type CarrierError struct {
	Carrier string
	Code    ErrorCode
	Field   string // set for validation failures
	Message string
	Err     error
}

func (e *CarrierError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Carrier, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Carrier, e.Code, e.Message)
}

func (e *CarrierError) Unwrap() error {
	return e.Err
}

func NewValidationError(carrier, field, message string) *CarrierError {
	return &CarrierError{Carrier: carrier, Code: CodeValidation, Field: field, Message: message}
}

func NewUnavailableError(carrier string, err error) *CarrierError {
	return &CarrierError{Carrier: carrier, Code: CodeUnavailable, Message: "carrier unreachable", Err: err}
}

func NewProtocolError(carrier, message string) *CarrierError {
	return &CarrierError{Carrier: carrier, Code: CodeProtocol, Message: message}
}

func NewNotImplementedError(carrier, operation string) *CarrierError {
	return &CarrierError{Carrier: carrier, Code: CodeNotImplemented, Message: fmt.Sprintf("%s is not implemented", operation)}
}

// CodeOf returns the error code of err, or an empty string for other errors.
func CodeOf(err error) ErrorCode {
	var carrierErr *CarrierError
	if errors.As(err, &carrierErr) {
		return carrierErr.Code
	}
	return ""
}

// Lifecycle guard sentinels. These are terminal rejections raised by the
// shipment lifecycle manager, never by carrier clients.
var (
	ErrAlreadyShipped         = errors.New("order already has a shipment")
	ErrInvalidStateTransition = errors.New("shipment status does not allow this transition")
	ErrIncompleteAddress      = errors.New("recipient address is incomplete")
	ErrCarrierNotRegistered   = errors.New("carrier is not registered")
)
