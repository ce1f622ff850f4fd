package envelope

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Error codes reported at the transport boundary.
const (
	ErrorCodeSchema       = "error-envelope-schema"
	ErrorCodeUnknownType  = "error-envelope-unknown-type"
	ErrorCodeVerification = "error-envelope-verification"
	ErrorCodeUnknown      = "error-unknown"
)

// Stages at which a SchemaError can be raised.
const (
	StageEnvelope = "envelope"
	StageData     = "data"
	StageBody     = "body"
)

// SchemaError is returned when the envelope, its data or a variant body does not
// match the expected structure. The message must be discarded.
type SchemaError struct {
	Stage      string
	Field      string
	Reason     string
	Violations []string
	Err        error
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(stage, field, reason string) *SchemaError {
	return &SchemaError{Stage: stage, Field: field, Reason: reason}
}

// Error implements the error interface for SchemaError.
func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s", e.Stage)
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for SchemaError.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Code returns the stable error code.
func (e *SchemaError) Code() string {
	return ErrorCodeSchema
}

// Details returns the structured error details.
func (e *SchemaError) Details() map[string]interface{} {
	details := map[string]interface{}{"stage": e.Stage}
	if e.Field != "" {
		details["field"] = e.Field
	}
	if len(e.Violations) > 0 {
		details["violations"] = e.Violations
	}
	return details
}

// UnknownTypeError is returned when no variant is registered for a header type.
type UnknownTypeError struct {
	Type string
}

// NewUnknownTypeError creates a new UnknownTypeError.
func NewUnknownTypeError(messageType string) *UnknownTypeError {
	return &UnknownTypeError{Type: messageType}
}

// Error implements the error interface for UnknownTypeError.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type: %q", e.Type)
}

// Code returns the stable error code.
func (e *UnknownTypeError) Code() string {
	return ErrorCodeUnknownType
}

// Details returns the structured error details.
func (e *UnknownTypeError) Details() map[string]interface{} {
	return map[string]interface{}{"type": e.Type}
}

// VerificationError is returned when the signature does not authenticate the data
// or the recovered signer is not the claimed sender. It is a security event.
type VerificationError struct {
	Reason    string
	Claimed   *common.Address
	Recovered *common.Address
	Err       error
}

// NewVerificationError creates a new VerificationError.
func NewVerificationError(reason string, err error) *VerificationError {
	return &VerificationError{Reason: reason, Err: err}
}

// Error implements the error interface for VerificationError.
func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("verification failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("verification failed: %s", e.Reason)
}

// Unwrap returns the underlying error for VerificationError.
func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Code returns the stable error code.
func (e *VerificationError) Code() string {
	return ErrorCodeVerification
}

// Details returns the structured error details.
func (e *VerificationError) Details() map[string]interface{} {
	details := map[string]interface{}{"reason": e.Reason}
	if e.Claimed != nil {
		details["claimed"] = e.Claimed.Hex()
	}
	if e.Recovered != nil {
		details["recovered"] = e.Recovered.Hex()
	}
	return details
}

// CodedError is implemented by every input error raised while disassembling.
type CodedError interface {
	error
	Code() string
	Details() map[string]interface{}
}

// Ensure all custom error types implement the error interfaces.
var (
	_ CodedError = (*SchemaError)(nil)
	_ CodedError = (*UnknownTypeError)(nil)
	_ CodedError = (*VerificationError)(nil)
)

// Ensure error types that wrap other errors implement the unwrap interface.
var (
	_ interface{ Unwrap() error } = (*SchemaError)(nil)
	_ interface{ Unwrap() error } = (*VerificationError)(nil)
)
