// Package keystore loads and creates the secp256k1 keys messages are signed with.
//
// Two formats are read: an Ethereum V3 JSON keystore, decrypted with a password,
// and a plain file holding the hex encoded private key.
package keystore

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/raiden-network/raiden-services/pkg/lib/validate"
	"github.com/raiden-network/raiden-services/pkg/signature"
)

// Scrypt parameters for new key files.
const (
	StandardScryptN = keystore.StandardScryptN
	StandardScryptP = keystore.StandardScryptP
	LightScryptN    = keystore.LightScryptN
	LightScryptP    = keystore.LightScryptP
)

const (
	maxKeyFileSize      = 64 * 1024
	maxPasswordFileSize = 4 * 1024
	keyFileMode         = 0o600
)

// ErrWrongPassword is returned when a keystore cannot be decrypted.
var ErrWrongPassword = errors.New("could not decode keyfile with given password")

// LoadKey reads the private key stored at path.
func LoadKey(path, password string) (*ecdsa.PrivateKey, error) {
	content, err := readSmallFile(path, maxKeyFileSize)
	if err != nil {
		return nil, err
	}
	content = bytes.TrimSpace(content)

	if len(content) > 0 && content[0] == '{' {
		key, err := keystore.DecryptKey(content, password)
		if err != nil {
			if errors.Is(err, keystore.ErrDecrypt) {
				return nil, ErrWrongPassword
			}
			return nil, errors.Wrapf(err, "failed to decrypt keystore %s", path)
		}
		log.Debug().Str("path", path).Stringer("address", key.Address).Msg("loaded keystore")
		return key.PrivateKey, nil
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(string(content), "0x"))
	if err != nil {
		return nil, errors.Wrapf(err, "%s holds neither a keystore nor a hex private key", path)
	}
	return key, nil
}

// LoadPassword reads a password file. A single trailing newline is not part of the password.
func LoadPassword(path string) (string, error) {
	content, err := readSmallFile(path, maxPasswordFileSize)
	if err != nil {
		return "", err
	}
	password := strings.TrimSuffix(string(content), "\n")
	return strings.TrimSuffix(password, "\r"), nil
}

// NewKeyFile generates a key and stores it in dir as an encrypted V3 keystore.
// It returns the path of the new file and the address of the key.
func NewKeyFile(dir, password string, scryptN, scryptP int) (string, common.Address, error) {
	if err := validate.IsDirectory(dir, "keystore directory %s does not exist", dir); err != nil {
		return "", common.Address{}, err
	}

	privateKey, err := signature.GenerateKey()
	if err != nil {
		return "", common.Address{}, err
	}
	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    signature.IdentityOf(privateKey),
		PrivateKey: privateKey,
	}

	content, err := keystore.EncryptKey(key, password, scryptN, scryptP)
	if err != nil {
		return "", common.Address{}, errors.Wrap(err, "failed to encrypt key")
	}

	path := filepath.Join(dir, keyFileName(key.Address, time.Now()))
	if err = os.WriteFile(path, content, keyFileMode); err != nil {
		return "", common.Address{}, errors.Wrap(err, "failed to write key file")
	}
	log.Info().Str("path", path).Stringer("address", key.Address).Msg("created key file")
	return path, key.Address, nil
}

// keyFileName follows the UTC--<created at>--<address> naming of Ethereum clients.
func keyFileName(address common.Address, now time.Time) string {
	ts := now.UTC().Format("2006-01-02T15-04-05.000000000Z")
	return fmt.Sprintf("UTC--%s--%x", ts, address[:])
}

func readSmallFile(path string, maxSize int64) ([]byte, error) {
	if err := validate.IsFile(path, "%s is not a file", path); err != nil {
		return nil, err
	}
	if err := validate.MaxFileSize(path, maxSize, "%s is larger than %d bytes", path, maxSize); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return content, nil
}
