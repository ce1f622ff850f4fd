package envelope

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/raiden-network/raiden-services/pkg/lib/validate"
)

// Message is a concrete message variant. Type returns the variant's tag; it is a
// property of the Go type, so it is fixed for every value and cannot be reassigned.
// The value itself is marshalled with encoding/json to form the envelope body.
type Message interface {
	Type() string
}

// DecodeFunc reconstructs a concrete Message from a raw body.
type DecodeFunc func(body json.RawMessage) (Message, error)

// Descriptor declares a message variant to the Registry. The type tag is taken from
// Prototype, and Prototype is also used to reflect the body schema.
type Descriptor struct {
	Prototype Message
	Decode    DecodeFunc
}

// JSONDescriptor describes a variant whose body is the JSON form of T.
// Usage:
//
//	envelope.JSONDescriptor(messages.PathsRequest{})
func JSONDescriptor[T Message](prototype T) Descriptor {
	return Descriptor{
		Prototype: prototype,
		Decode:    JSONDecoder[T](),
	}
}

// JSONDecoder returns a DecodeFunc that unmarshals the body into a fresh T.
// T may be a struct or a pointer to a struct.
func JSONDecoder[T Message]() DecodeFunc {
	return func(body json.RawMessage) (Message, error) {
		var m T
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %T", m)
		}
		if err := validate.NotNil(m, "decoded %T is nil", m); err != nil {
			return nil, err
		}
		return m, nil
	}
}
