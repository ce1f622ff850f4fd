// Package messages defines the message variants exchanged between Raiden clients
// and the pathfinding and monitoring services.
package messages

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Type tags of the known variants.
const (
	TypePathsRequest   = "PathsRequest"
	TypePathsReply     = "PathsReply"
	TypeFeeInfo        = "FeeInfo"
	TypeBalanceProof   = "BalanceProof"
	TypeMonitorRequest = "MonitorRequest"
)

// PathsRequest asks a pathfinding service for routes from Source to Target.
type PathsRequest struct {
	Source   common.Address `json:"source"`
	Target   common.Address `json:"target"`
	Value    *big.Int       `json:"value,omitempty"`
	NumPaths int            `json:"num_paths,omitempty"`
}

func (PathsRequest) Type() string { return TypePathsRequest }

// Path is a single route and the fee the service expects it to cost.
type Path struct {
	Path         []common.Address `json:"path"`
	EstimatedFee *big.Int         `json:"estimated_fee"`
}

// PathsReply answers a PathsRequest.
type PathsReply struct {
	Paths []Path `json:"paths"`
}

func (PathsReply) Type() string { return TypePathsReply }

// FeeInfo announces the fee a participant charges for mediating on a channel.
type FeeInfo struct {
	ChainID             uint64         `json:"chain_id"`
	TokenNetworkAddress common.Address `json:"token_network_address"`
	ChannelIdentifier   *big.Int       `json:"channel_identifier"`
	Nonce               uint64         `json:"nonce"`
	RelativeFee         int64          `json:"relative_fee"`
}

func (FeeInfo) Type() string { return TypeFeeInfo }

// BalanceProof is the off-chain state of one side of a channel.
type BalanceProof struct {
	ChainID             uint64         `json:"chain_id"`
	TokenNetworkAddress common.Address `json:"token_network_address"`
	ChannelIdentifier   *big.Int       `json:"channel_identifier"`
	Nonce               uint64         `json:"nonce"`
	TransferredAmount   *big.Int       `json:"transferred_amount"`
	LockedAmount        *big.Int       `json:"locked_amount"`
	Locksroot           common.Hash    `json:"locksroot"`
	AdditionalHash      common.Hash    `json:"additional_hash"`
	Signature           hexutil.Bytes  `json:"signature"`
}

func (BalanceProof) Type() string { return TypeBalanceProof }

// MonitorRequest asks a monitoring service to watch a channel on behalf of a client.
type MonitorRequest struct {
	BalanceProof        BalanceProof  `json:"balance_proof"`
	RewardAmount        *big.Int      `json:"reward_amount"`
	NonClosingSignature hexutil.Bytes `json:"non_closing_signature"`
}

func (MonitorRequest) Type() string { return TypeMonitorRequest }
