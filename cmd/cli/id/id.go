package id

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/raiden-network/raiden-services/cmd/util"
	"github.com/raiden-network/raiden-services/cmd/util/flags"
	"github.com/raiden-network/raiden-services/cmd/util/output"
	"github.com/raiden-network/raiden-services/pkg/signature"
)

type IDInfo struct {
	Address string `json:"Address"`
}

func NewCmd() *cobra.Command {
	outputOpts := output.OutputOptions{
		Format: output.JSONFormat,
	}

	idCmd := &cobra.Command{
		Use:   "id",
		Short: "Show the address messages are signed as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return id(cmd, outputOpts)
		},
	}

	idCmd.Flags().AddFlagSet(flags.OutputFormatFlags(&outputOpts))

	return idCmd
}

var idColumns = []output.TableColumn[IDInfo]{
	{
		ColumnConfig: table.ColumnConfig{Name: "address"},
		Value:        func(i IDInfo) string { return i.Address },
	},
}

func id(cmd *cobra.Command, outputOpts output.OutputOptions) error {
	key, err := util.LoadSigningKey(util.GetConfig(cmd))
	if err != nil {
		return err
	}
	info := IDInfo{Address: signature.IdentityOf(key).Hex()}
	return output.OutputOne(cmd, idColumns, outputOpts, info)
}
