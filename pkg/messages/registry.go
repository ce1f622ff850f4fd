package messages

import (
	"github.com/raiden-network/raiden-services/pkg/envelope"
)

// Descriptors lists every variant known to the services.
func Descriptors() []envelope.Descriptor {
	return []envelope.Descriptor{
		envelope.JSONDescriptor(PathsRequest{}),
		envelope.JSONDescriptor(PathsReply{}),
		envelope.JSONDescriptor(FeeInfo{}),
		envelope.JSONDescriptor(BalanceProof{}),
		envelope.JSONDescriptor(MonitorRequest{}),
	}
}

// NewRegistry builds the registry of every known variant.
// It panics if the variant list is inconsistent, which can only happen at start up.
func NewRegistry() *envelope.Registry {
	return envelope.MustNewRegistry(Descriptors()...)
}
