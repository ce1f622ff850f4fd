package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/raiden-network/raiden-services/cmd/cli/id"
	"github.com/raiden-network/raiden-services/cmd/cli/key"
	"github.com/raiden-network/raiden-services/cmd/cli/open"
	"github.com/raiden-network/raiden-services/cmd/cli/schema"
	"github.com/raiden-network/raiden-services/cmd/cli/seal"
	"github.com/raiden-network/raiden-services/cmd/cli/version"
	"github.com/raiden-network/raiden-services/cmd/util"
	"github.com/raiden-network/raiden-services/pkg/config"
)

func NewRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	RootCmd := &cobra.Command{
		Use:           "raiden-services",
		Short:         "Seal and open signed Raiden service messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			if err = cfg.ConfigureLogging(); err != nil {
				return err
			}
			util.WithConfig(cmd, cfg)
			return nil
		},
	}

	RootCmd.AddCommand(seal.NewCmd())
	RootCmd.AddCommand(open.NewCmd())
	RootCmd.AddCommand(id.NewCmd())
	RootCmd.AddCommand(key.NewCmd())
	RootCmd.AddCommand(schema.NewCmd())
	RootCmd.AddCommand(version.NewCmd())

	defaults := config.Default()
	fs := RootCmd.PersistentFlags()
	fs.StringVar(&configFile, "config", "", "Path to a YAML config file.")
	fs.String(config.KeystoreFile, defaults.KeystoreFile,
		"Path to the keystore or hex key file messages are signed with.")
	fs.String(config.PasswordFile, defaults.PasswordFile,
		"Path to a file holding the password of the keystore.")
	fs.Bool(config.VerifySignatures, defaults.VerifySignatures,
		"Verify that received messages are signed by their sender.")
	fs.String(config.MaxEnvelopeSize, defaults.MaxEnvelopeSize.String(),
		"Largest envelope accepted, e.g. 512KB or 1MB.")
	fs.String(config.LogLevel, defaults.LogLevel,
		"Log level: 'trace', 'debug', 'info', 'warn', 'error'.")
	fs.String(config.LogMode, defaults.LogMode,
		"Log format: 'default', 'json', 'combined', 'quiet'.")
	bindFlags(v, fs,
		config.KeystoreFile,
		config.PasswordFile,
		config.VerifySignatures,
		config.MaxEnvelopeSize,
		config.LogLevel,
		config.LogMode,
	)

	return RootCmd
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			panic(fmt.Sprintf("DEVELOPER ERROR: binding flag %s: %s", key, err))
		}
	}
}

func Execute() {
	rootCmd := NewRootCmd()

	// Ensure commands are able to stop cleanly if someone presses ctrl+c
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	rootCmd.SetContext(ctx)

	// Use stdout, not stderr for cmd.Print output, so that
	// e.g. ENVELOPE=$(raiden-services seal ...) works
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		util.Fatal(rootCmd, err, 1)
	}
}
