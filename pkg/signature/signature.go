// Package signature binds detached secp256k1 signatures to payload bytes and
// recovers the Ethereum-style address of the signer.
package signature

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const (
	// Length is the size of a [R || S || V] signature.
	Length = crypto.SignatureLength

	recoveryIDOffset = 27
	vIndex           = crypto.RecoveryIDOffset
)

var (
	// ErrMalformedSignature is returned when a signature cannot be decoded or has an invalid shape.
	ErrMalformedSignature = errors.New("malformed signature")
	// ErrSignatureMismatch is returned when the recovered signer differs from the claimed one.
	ErrSignatureMismatch = errors.New("signature does not match claimed identity")
	// ErrNilKey is returned when signing without a key.
	ErrNilKey = errors.New("signing key is nil")
)

// GenerateKey creates a fresh secp256k1 key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// IdentityOf derives the address that identifies the holder of key.
func IdentityOf(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// Sign signs the EIP-191 text hash of payload. The returned signature has V in {27, 28}.
func Sign(key *ecdsa.PrivateKey, payload []byte) ([]byte, error) {
	if key == nil {
		return nil, ErrNilKey
	}
	sig, err := crypto.Sign(accounts.TextHash(payload), key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign payload")
	}
	sig[vIndex] += recoveryIDOffset
	return sig, nil
}

// Recover returns the address that produced sig over payload. Only the encoding
// Sign emits is accepted: V in {27, 28} and S in the lower half of the curve order.
func Recover(sig, payload []byte) (common.Address, error) {
	if len(sig) != Length {
		return common.Address{}, errors.Wrapf(ErrMalformedSignature, "expected %d bytes, got %d", Length, len(sig))
	}
	v := sig[vIndex]
	if v != recoveryIDOffset && v != recoveryIDOffset+1 {
		return common.Address{}, errors.Wrapf(ErrMalformedSignature, "invalid recovery id %d", v)
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v-recoveryIDOffset, r, s, true) {
		return common.Address{}, errors.Wrap(ErrMalformedSignature, "signature values out of range")
	}

	normalized := make([]byte, Length)
	copy(normalized, sig)
	normalized[vIndex] -= recoveryIDOffset

	pub, err := crypto.SigToPub(accounts.TextHash(payload), normalized)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrMalformedSignature, err.Error())
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify checks that sig over payload was produced by the holder of claimed.
func Verify(sig, payload []byte, claimed common.Address) error {
	recovered, err := Recover(sig, payload)
	if err != nil {
		return err
	}
	if recovered != claimed {
		return errors.Wrapf(ErrSignatureMismatch, "recovered %s, claimed %s", recovered.Hex(), claimed.Hex())
	}
	return nil
}

// EncodeSignature renders sig as 0x-prefixed hex.
func EncodeSignature(sig []byte) string {
	return hexutil.Encode(sig)
}

// DecodeSignature parses a 0x-prefixed hex signature.
func DecodeSignature(s string) ([]byte, error) {
	sig, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedSignature, err.Error())
	}
	return sig, nil
}

// ParseAddress parses a hex address. All-lower and all-upper hex is accepted as is;
// mixed case must carry a valid EIP-55 checksum.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Errorf("%q is not a hex address", s)
	}
	addr := common.HexToAddress(s)
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return addr, nil
	}
	if addr.Hex()[2:] != body {
		return common.Address{}, errors.Errorf("%q is not an EIP-55 checksummed address", s)
	}
	return addr, nil
}

// IsChecksumAddress reports whether s is the EIP-55 form of an address.
func IsChecksumAddress(s string) bool {
	return common.IsHexAddress(s) && common.HexToAddress(s).Hex() == s
}
