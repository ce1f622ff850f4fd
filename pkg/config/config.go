// Package config resolves the settings of the envelope tooling from, in order of
// precedence, command line flags, RSVC_ environment variables, an optional YAML
// file and built in defaults.
package config

import (
	"math"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/raiden-network/raiden-services/pkg/envelope"
	"github.com/raiden-network/raiden-services/pkg/lib/validate"
	"github.com/raiden-network/raiden-services/pkg/logger"
)

const (
	environmentVariablePrefix = "RSVC"
	configType                = "yaml"
)

// Keys of the settings.
const (
	KeystoreFile     = "keystore-file"
	PasswordFile     = "password-file"
	VerifySignatures = "verify-signatures"
	MaxEnvelopeSize  = "max-envelope-size"
	LogLevel         = "log-level"
	LogMode          = "log-mode"
)

var (
	environmentVariableReplace = strings.NewReplacer("-", "_", ".", "_")
	configDecoderHook          = viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())
)

// Config holds the resolved settings.
type Config struct {
	KeystoreFile     string            `mapstructure:"keystore-file" yaml:"keystore-file"`
	PasswordFile     string            `mapstructure:"password-file" yaml:"password-file"`
	VerifySignatures bool              `mapstructure:"verify-signatures" yaml:"verify-signatures"`
	MaxEnvelopeSize  datasize.ByteSize `mapstructure:"max-envelope-size" yaml:"max-envelope-size"`
	LogLevel         string            `mapstructure:"log-level" yaml:"log-level"`
	LogMode          string            `mapstructure:"log-mode" yaml:"log-mode"`
}

// Default returns the built in settings.
func Default() Config {
	return Config{
		VerifySignatures: true,
		MaxEnvelopeSize:  datasize.ByteSize(envelope.DefaultMaxSize),
		LogLevel:         zerolog.InfoLevel.String(),
		LogMode:          string(logger.LogModeDefault),
	}
}

// New returns a viper instance that knows every setting and reads RSVC_ variables.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType(configType)
	v.SetEnvPrefix(environmentVariablePrefix)
	v.SetEnvKeyReplacer(environmentVariableReplace)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(KeystoreFile, d.KeystoreFile)
	v.SetDefault(PasswordFile, d.PasswordFile)
	v.SetDefault(VerifySignatures, d.VerifySignatures)
	v.SetDefault(MaxEnvelopeSize, d.MaxEnvelopeSize.String())
	v.SetDefault(LogLevel, d.LogLevel)
	v.SetDefault(LogMode, d.LogMode)
	return v
}

// Load reads configFile, if not empty, into v and returns the validated settings.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, configDecoderHook); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var result *multierror.Error
	result = multierror.Append(result,
		validate.IsGreaterThanZero(c.MaxEnvelopeSize, "%s must be greater than zero", MaxEnvelopeSize),
		validate.IsAtMost(c.MaxEnvelopeSize.Bytes(), uint64(math.MaxInt),
			"%s must be at most %d bytes, got %s", MaxEnvelopeSize, math.MaxInt, c.MaxEnvelopeSize.HR()),
	)
	if _, err := logger.ParseLogLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := logger.ParseLogMode(c.LogMode); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// CodecOptions returns the envelope codec options the settings select.
func (c Config) CodecOptions() []envelope.Option {
	return []envelope.Option{
		envelope.WithVerification(c.VerifySignatures),
		envelope.WithMaxSize(c.MaxEnvelopeBytes()),
	}
}

// MaxEnvelopeBytes returns the envelope size limit in bytes, capped at math.MaxInt.
func (c Config) MaxEnvelopeBytes() int {
	if c.MaxEnvelopeSize.Bytes() > uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(c.MaxEnvelopeSize.Bytes())
}

// ConfigureLogging applies the logging settings to the global logger.
func (c Config) ConfigureLogging() error {
	level, err := logger.ParseLogLevel(c.LogLevel)
	if err != nil {
		return err
	}
	mode, err := logger.ParseLogMode(c.LogMode)
	if err != nil {
		return err
	}
	logger.ConfigureLogging(mode, level)
	return nil
}
