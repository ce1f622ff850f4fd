package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raiden-network/raiden-services/cmd/util/flags"
	"github.com/raiden-network/raiden-services/pkg/envelope"
	"github.com/raiden-network/raiden-services/pkg/messages"
)

type SchemaOptions struct {
	Type string
	List bool
}

func NewCmd() *cobra.Command {
	o := &SchemaOptions{}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the envelope or of a message body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.Run(cmd)
		},
	}

	schemaCmd.Flags().Var(flags.MessageTypeFlag(&o.Type), "type",
		"Print the body schema of this message type instead of the envelope schema.")
	schemaCmd.Flags().BoolVar(&o.List, "list", o.List, "List the known message types.")

	return schemaCmd
}

func (o *SchemaOptions) Run(cmd *cobra.Command) error {
	registry := messages.NewRegistry()
	if o.List {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(registry.Types(), "\n"))
		return err
	}

	var (
		raw []byte
		err error
	)
	if o.Type == "" {
		raw, err = envelope.EnvelopeSchema()
	} else {
		raw, err = registry.BodySchema(o.Type)
	}
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err = json.Indent(&pretty, raw, "", "  "); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
	return err
}
