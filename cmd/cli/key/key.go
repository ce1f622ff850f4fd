package key

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/raiden-network/raiden-services/cmd/util"
	"github.com/raiden-network/raiden-services/cmd/util/flags"
	"github.com/raiden-network/raiden-services/cmd/util/output"
	"github.com/raiden-network/raiden-services/pkg/keystore"
)

func NewCmd() *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage signing keys",
	}
	keyCmd.AddCommand(newNewCmd())
	return keyCmd
}

type NewKeyOptions struct {
	Dir        string
	Light      bool
	OutputOpts output.OutputOptions
}

type KeyInfo struct {
	Address string `json:"Address"`
	Path    string `json:"Path"`
}

var keyColumns = []output.TableColumn[KeyInfo]{
	{
		ColumnConfig: table.ColumnConfig{Name: "address"},
		Value:        func(k KeyInfo) string { return k.Address },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "path"},
		Value:        func(k KeyInfo) string { return k.Path },
	},
}

func newNewCmd() *cobra.Command {
	o := &NewKeyOptions{
		Dir:        ".",
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Create an encrypted keystore file",
		Long: `Creates a new key and stores it as an Ethereum V3 keystore file, encrypted
with the password read from --password-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.Run(cmd)
		},
	}

	newCmd.Flags().StringVar(&o.Dir, "dir", o.Dir, "Directory the keystore file is written to.")
	newCmd.Flags().BoolVar(&o.Light, "light", o.Light,
		"Use light scrypt parameters. Faster, but weaker against brute force.")
	newCmd.Flags().AddFlagSet(flags.OutputFormatFlags(&o.OutputOpts))

	return newCmd
}

func (o *NewKeyOptions) Run(cmd *cobra.Command) error {
	cfg := util.GetConfig(cmd)

	var password string
	if cfg.PasswordFile != "" {
		var err error
		if password, err = keystore.LoadPassword(cfg.PasswordFile); err != nil {
			return err
		}
	} else {
		log.Ctx(cmd.Context()).Warn().Msg("no password file set, the keystore is encrypted with an empty password")
	}

	scryptN, scryptP := keystore.StandardScryptN, keystore.StandardScryptP
	if o.Light {
		scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
	}

	path, address, err := keystore.NewKeyFile(o.Dir, password, scryptN, scryptP)
	if err != nil {
		return err
	}
	return output.OutputOne(cmd, keyColumns, o.OutputOpts, KeyInfo{Address: address.Hex(), Path: path})
}
