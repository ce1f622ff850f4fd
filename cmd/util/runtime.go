package util

import (
	"context"
	"crypto/ecdsa"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/raiden-network/raiden-services/pkg/config"
	"github.com/raiden-network/raiden-services/pkg/keystore"
)

type contextKey struct {
	name string
}

var configKey = contextKey{name: "context key for the resolved config"}

// WithConfig stores cfg in the context of cmd.
func WithConfig(cmd *cobra.Command, cfg config.Config) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, configKey, cfg))
}

// GetConfig returns the config resolved by the root command, or the defaults.
func GetConfig(cmd *cobra.Command) config.Config {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey).(config.Config); ok {
			return cfg
		}
	}
	return config.Default()
}

// LoadSigningKey loads the key named by keystore-file, unlocked with the contents
// of password-file when one is set.
func LoadSigningKey(cfg config.Config) (*ecdsa.PrivateKey, error) {
	if cfg.KeystoreFile == "" {
		return nil, errors.Errorf("no key configured, set --%s or RSVC_KEYSTORE_FILE", config.KeystoreFile)
	}
	var password string
	if cfg.PasswordFile != "" {
		var err error
		if password, err = keystore.LoadPassword(cfg.PasswordFile); err != nil {
			return nil, err
		}
	}
	return keystore.LoadKey(cfg.KeystoreFile, password)
}

// ReadInput reads the file at path, or standard input when path is empty or "-".
// At most limit+1 bytes are read, so callers can tell oversized input apart.
func ReadInput(cmd *cobra.Command, path string, limit int) ([]byte, error) {
	if path == "" || path == "-" {
		return readLimited(cmd.InOrStdin(), limit)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	defer f.Close()
	b, err := readLimited(f, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return b, nil
}

func readLimited(r io.Reader, limit int) ([]byte, error) {
	n := int64(limit)
	if n < math.MaxInt64 {
		n++
	}
	return io.ReadAll(io.LimitReader(r, n))
}
