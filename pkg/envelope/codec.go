package envelope

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/raiden-network/raiden-services/pkg/lib/validate"
	"github.com/raiden-network/raiden-services/pkg/signature"
)

/* Message Flow:

1. Creation: an application creates a concrete Message variant and fills its fields.

2. Assembly (Codec.Seal / Codec.Assemble):
   a. The variant is marshalled to JSON to form the body.
   b. A Header is built with the variant's tag, the current time and the signer's address.
   c. {header, body} is marshalled once; these exact bytes become data.
   d. data is signed and the envelope {signature, data} is marshalled for the wire.

3. Transmission is left to the transport.

4. Disassembly (Codec.Disassemble):
   a. The outer envelope is checked against the envelope schema.
   b. data is checked against the message schema and parsed into {header, body}.
   c. header.type is resolved in the Registry, the body is checked against the
      variant's body schema and decoded into a fresh Message.
   d. Unless disabled, the signature over data is recovered and compared to header.sender.

5. Processing: the application receives the Message together with its original Header.
*/

// DefaultMaxSize is the largest envelope accepted by default.
const DefaultMaxSize = 1 << 20

// Envelope is the outer wire object. Data holds the exact signed bytes.
type Envelope struct {
	Signature string `json:"signature"`
	Data      string `json:"data"`
}

// Received is a disassembled message with the header it travelled with.
type Received struct {
	Header    Header
	Message   Message
	// Signature is nil when verification is disabled and the signature is not valid hex.
	Signature []byte
	Data      string
}

// signedData is the JSON layout of Envelope.Data.
type signedData struct {
	Header Header          `json:"header"`
	Body   json.RawMessage `json:"body"`
}

// Option configures a Codec.
type Option func(*Codec)

// WithVerification enables or disables signature verification on disassembly.
// Verification is enabled by default.
func WithVerification(enabled bool) Option {
	return func(c *Codec) {
		c.verify = enabled
	}
}

// WithMaxSize limits the size in bytes of accepted envelopes.
func WithMaxSize(size int) Option {
	return func(c *Codec) {
		c.maxSize = size
	}
}

// WithClock replaces the clock used to timestamp assembled messages.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// Codec assembles and disassembles signed envelopes.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	registry *Registry
	verify   bool
	maxSize  int
	now      func() time.Time
}

// NewCodec creates a Codec that decodes the variants of registry.
func NewCodec(registry *Registry, opts ...Option) *Codec {
	c := &Codec{
		registry: registry,
		verify:   true,
		maxSize:  DefaultMaxSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the codec decodes with.
func (c *Codec) Registry() *Registry {
	return c.registry
}

// Seal builds and signs the envelope of msg with key.
func (c *Codec) Seal(msg Message, key *ecdsa.PrivateKey) (*Envelope, error) {
	if err := validate.NotNil(msg, "message cannot be nil"); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, signature.ErrNilKey
	}
	tag := msg.Type()
	if err := validate.NotBlank(tag, "type tag of %T cannot be blank", msg); err != nil {
		return nil, err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize body of %q", tag)
	}
	if len(body) == 0 || body[0] != '{' {
		return nil, errors.Errorf("body of %q must serialize to a JSON object", tag)
	}

	sender := signature.IdentityOf(key)
	data, err := json.Marshal(signedData{
		Header: Header{
			Type:      tag,
			Timestamp: timestampOf(c.now()),
			Sender:    &sender,
		},
		Body: body,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize %q", tag)
	}

	sig, err := signature.Sign(key, data)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Signature: signature.EncodeSignature(sig),
		Data:      string(data),
	}, nil
}

// Assemble returns the wire form of the signed envelope of msg.
func (c *Codec) Assemble(msg Message, key *ecdsa.PrivateKey) ([]byte, error) {
	env, err := c.Seal(msg, key)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Disassemble parses raw wire bytes into the concrete Message named by its header.
// Input errors are *SchemaError, *UnknownTypeError or *VerificationError.
func (c *Codec) Disassemble(raw []byte) (*Received, error) {
	if c.maxSize > 0 && len(raw) > c.maxSize {
		return nil, c.reject(NewSchemaError(StageEnvelope, "",
			fmt.Sprintf("envelope is %d bytes, limit is %d", len(raw), c.maxSize)))
	}
	if err := Validate(raw); err != nil {
		return nil, c.reject(err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, c.reject(&SchemaError{Stage: StageEnvelope, Err: err})
	}
	return c.Open(&env)
}

// DisassembleValue is Disassemble for an envelope that was already decoded,
// e.g. as part of a larger request document.
func (c *Codec) DisassembleValue(v any) (*Received, error) {
	switch raw := v.(type) {
	case []byte:
		return c.Disassemble(raw)
	case json.RawMessage:
		return c.Disassemble(raw)
	case string:
		return c.Disassemble([]byte(raw))
	case Envelope:
		return c.DisassembleValue(&raw)
	case *Envelope:
		if raw == nil {
			return nil, c.reject(NewSchemaError(StageEnvelope, "", "envelope is nil"))
		}
		if err := Validate(raw); err != nil {
			return nil, c.reject(err)
		}
		return c.Open(raw)
	}

	if err := Validate(v); err != nil {
		return nil, c.reject(err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, c.reject(&SchemaError{Stage: StageEnvelope, Err: err})
	}
	return c.Disassemble(raw)
}

// Open disassembles a parsed Envelope. The envelope itself is assumed to be well formed.
func (c *Codec) Open(env *Envelope) (*Received, error) {
	data := []byte(env.Data)
	if err := validateData(data); err != nil {
		return nil, c.reject(err)
	}

	var content signedData
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, c.reject(&SchemaError{Stage: StageData, Field: "header", Err: err})
	}
	msg, err := c.registry.Decode(content.Header.Type, content.Body)
	if err != nil {
		return nil, c.reject(err)
	}

	received := &Received{
		Header:  content.Header,
		Message: msg,
		Data:    env.Data,
	}
	if !c.verify {
		if received.Signature, err = signature.DecodeSignature(env.Signature); err != nil {
			log.Debug().Err(err).Str("type", content.Header.Type).Msg("unverified envelope carries an undecodable signature")
		}
		return received, nil
	}

	sig, err := verifySender(env.Signature, data, content.Header.Sender)
	if err != nil {
		return nil, c.reject(err)
	}
	received.Signature = sig
	return received, nil
}

func (c *Codec) reject(err error) error {
	log.Debug().Err(err).Msg("rejected envelope")
	return err
}

// VerifyEnvelope recovers the identity that signed env.Data.
func VerifyEnvelope(env *Envelope) (common.Address, error) {
	sig, err := signature.DecodeSignature(env.Signature)
	if err != nil {
		return common.Address{}, NewVerificationError("malformed signature", err)
	}
	recovered, err := signature.Recover(sig, []byte(env.Data))
	if err != nil {
		return common.Address{}, NewVerificationError("signature cannot be recovered", err)
	}
	return recovered, nil
}

func verifySender(sigHex string, data []byte, sender *common.Address) ([]byte, error) {
	sig, err := signature.DecodeSignature(sigHex)
	if err != nil {
		return nil, NewVerificationError("malformed signature", err)
	}
	if sender == nil {
		return nil, NewVerificationError("header has no sender", nil)
	}
	recovered, err := signature.Recover(sig, data)
	if err != nil {
		return nil, &VerificationError{Reason: "signature cannot be recovered", Claimed: sender, Err: err}
	}
	if recovered != *sender {
		return nil, &VerificationError{
			Reason:    "signer is not the sender",
			Claimed:   sender,
			Recovered: &recovered,
			Err:       signature.ErrSignatureMismatch,
		}
	}
	return sig, nil
}
