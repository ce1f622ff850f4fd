package seal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/raiden-network/raiden-services/cmd/util"
	"github.com/raiden-network/raiden-services/cmd/util/flags"
	"github.com/raiden-network/raiden-services/pkg/config"
	"github.com/raiden-network/raiden-services/pkg/envelope"
	"github.com/raiden-network/raiden-services/pkg/logger"
	"github.com/raiden-network/raiden-services/pkg/messages"
	"github.com/raiden-network/raiden-services/pkg/signature"
)

type SealOptions struct {
	Type string // Tag of the message variant
	Body string // File holding the body, "-" for stdin
}

func NewSealOptions() *SealOptions {
	return &SealOptions{Body: "-"}
}

func NewCmd() *cobra.Command {
	o := NewSealOptions()

	sealCmd := &cobra.Command{
		Use:   "seal",
		Short: "Sign a message body and print its envelope",
		Long: `Reads a JSON or YAML message body, checks it against the schema of the
message type and prints the signed envelope.`,
		Example: `  echo '{"source": "0xAAAA...", "target": "0xBBBB..."}' | raiden-services seal --type PathsRequest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.Run(cmd)
		},
	}

	sealCmd.Flags().Var(flags.MessageTypeFlag(&o.Type), "type", "Type of the message.")
	sealCmd.Flags().StringVar(&o.Body, "body", o.Body, `File holding the body, "-" reads standard input.`)
	if err := sealCmd.MarkFlagRequired("type"); err != nil {
		panic(fmt.Sprintf("DEVELOPER ERROR: %s", err))
	}

	return sealCmd
}

func (o *SealOptions) Run(cmd *cobra.Command) error {
	cfg := util.GetConfig(cmd)
	key, err := util.LoadSigningKey(cfg)
	if err != nil {
		return err
	}

	limit := cfg.MaxEnvelopeBytes()
	raw, err := util.ReadInput(cmd, o.Body, limit)
	if err != nil {
		return err
	}
	if len(raw) > limit {
		return errors.Errorf("body is larger than %s of %d bytes", config.MaxEnvelopeSize, limit)
	}
	body, err := toJSON(raw)
	if err != nil {
		return err
	}

	codec := envelope.NewCodec(messages.NewRegistry(), cfg.CodecOptions()...)
	msg, err := codec.Registry().Decode(o.Type, body)
	if err != nil {
		return err
	}
	sealed, err := codec.Assemble(msg, key)
	if err != nil {
		return err
	}

	ctx := logger.ContextWithIdentityLogger(cmd.Context(), signature.IdentityOf(key).Hex())
	log.Ctx(ctx).Debug().Str("type", o.Type).Int("size", len(sealed)).Msg("sealed message")

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(sealed))
	return err
}

// toJSON returns JSON input unchanged, so large integers keep their precision,
// and converts anything else from YAML.
func toJSON(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if json.Valid(raw) {
		return raw, nil
	}
	body, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, errors.Wrap(err, "body is neither JSON nor YAML")
	}
	return body, nil
}
