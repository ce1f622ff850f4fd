package envelope

import (
	"encoding/json"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/hashicorp/go-multierror"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/raiden-network/raiden-services/pkg/lib/schemaloader"
	"github.com/raiden-network/raiden-services/pkg/lib/validate"
)

// Registry maps type tags to the variants that decode them.
//
// A Registry is built once by NewRegistry from the complete list of variants and
// is never mutated afterwards, so it can be shared between goroutines without locking.
type Registry struct {
	entries map[string]registryEntry
}

type registryEntry struct {
	decode     DecodeFunc
	bodySchema schemaloader.Schema
	schemaJSON []byte
}

// NewRegistry registers every descriptor. All problems are reported together:
// blank tags, missing decoders, duplicate tags and bodies whose schema cannot be built.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{entries: make(map[string]registryEntry, len(descriptors))}

	var result *multierror.Error
	for i, d := range descriptors {
		if err := r.register(d); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "descriptor %d", i))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(err, "failed to build message registry")
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for process start up. A misconfigured registry is a
// programming error, so it panics instead of returning.
func MustNewRegistry(descriptors ...Descriptor) *Registry {
	r, err := NewRegistry(descriptors...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) register(d Descriptor) error {
	if err := validate.NotNil(d.Prototype, "prototype cannot be nil"); err != nil {
		return err
	}
	tag := d.Prototype.Type()

	var result *multierror.Error
	result = multierror.Append(result,
		validate.NotBlank(tag, "type tag of %T cannot be blank", d.Prototype),
		validate.NotNil(d.Decode, "decoder for %q cannot be nil", tag),
		validate.KeyNotInMap(tag, r.entries, "type %q already registered", tag),
	)
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	schemaJSON, err := reflectBodySchema(d.Prototype)
	if err != nil {
		return errors.Wrapf(err, "failed to reflect body schema of %q", tag)
	}
	bodySchema, err := schemaloader.NewBytesSchema(schemaJSON)
	if err != nil {
		return errors.Wrapf(err, "failed to compile body schema of %q", tag)
	}

	r.entries[tag] = registryEntry{
		decode:     d.Decode,
		bodySchema: bodySchema,
		schemaJSON: schemaJSON,
	}
	return nil
}

// Resolve returns the decoder registered for tag.
func (r *Registry) Resolve(tag string) (DecodeFunc, error) {
	e, ok := r.entries[tag]
	if !ok {
		return nil, NewUnknownTypeError(tag)
	}
	return e.decode, nil
}

// Types returns the registered tags in lexical order.
func (r *Registry) Types() []string {
	tags := maps.Keys(r.entries)
	slices.Sort(tags)
	return tags
}

// BodySchema returns the JSON schema of the body registered for tag.
func (r *Registry) BodySchema(tag string) ([]byte, error) {
	e, ok := r.entries[tag]
	if !ok {
		return nil, NewUnknownTypeError(tag)
	}
	return e.schemaJSON, nil
}

// Decode checks body against the schema registered for tag and decodes it into a
// fresh Message.
func (r *Registry) Decode(tag string, body json.RawMessage) (Message, error) {
	decode, err := r.Resolve(tag)
	if err != nil {
		return nil, err
	}
	if err = r.validateBody(tag, body); err != nil {
		return nil, err
	}
	msg, err := decode(body)
	if err != nil {
		return nil, &SchemaError{Stage: StageBody, Err: err}
	}
	if msg.Type() != tag {
		return nil, errors.Errorf("decoder registered for %q produced %q", tag, msg.Type())
	}
	return msg, nil
}

func (r *Registry) validateBody(tag string, body json.RawMessage) error {
	e, ok := r.entries[tag]
	if !ok {
		return NewUnknownTypeError(tag)
	}
	result, err := e.bodySchema.ValidateBytes(body)
	return checkResult(StageBody, result, err)
}

var (
	addressType = reflect.TypeOf(common.Address{})
	hashType    = reflect.TypeOf(common.Hash{})
	bigIntType  = reflect.TypeOf(big.Int{})
	bytesType   = reflect.TypeOf(hexutil.Bytes{})
)

// mapWireType describes the types whose JSON form differs from their Go layout.
func mapWireType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case addressType:
		return &jsonschema.Schema{Type: "string", Pattern: "^0x[0-9a-fA-F]{40}$"}
	case hashType:
		return &jsonschema.Schema{Type: "string", Pattern: "^0x[0-9a-fA-F]{64}$"}
	case bigIntType:
		return &jsonschema.Schema{Type: "integer"}
	case bytesType:
		return &jsonschema.Schema{Type: "string", Pattern: "^0x([0-9a-fA-F]{2})*$"}
	}
	return nil
}

func reflectBodySchema(prototype Message) ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		Mapper:         mapWireType,
	}
	s := reflector.Reflect(prototype)
	// gojsonschema only understands drafts up to 7, the body schema needs no version or id.
	s.Version = ""
	s.ID = ""
	return json.Marshal(s)
}
