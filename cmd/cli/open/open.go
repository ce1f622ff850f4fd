package open

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/raiden-network/raiden-services/cmd/util"
	"github.com/raiden-network/raiden-services/cmd/util/flags"
	"github.com/raiden-network/raiden-services/cmd/util/output"
	"github.com/raiden-network/raiden-services/pkg/envelope"
	"github.com/raiden-network/raiden-services/pkg/messages"
)

type OpenOptions struct {
	NoVerify   bool
	OutputOpts output.OutputOptions
}

func NewOpenOptions() *OpenOptions {
	return &OpenOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

// OpenedMessage is the printed form of a disassembled envelope.
type OpenedMessage struct {
	Type      string           `json:"type"`
	Sender    string           `json:"sender"`
	Timestamp float64          `json:"timestamp"`
	Body      envelope.Message `json:"body"`
}

func NewCmd() *cobra.Command {
	o := NewOpenOptions()

	openCmd := &cobra.Command{
		Use:   "open [file|-]",
		Short: "Verify an envelope and print the message it carries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			return o.Run(cmd, path)
		},
	}

	openCmd.Flags().BoolVar(&o.NoVerify, "no-verify", o.NoVerify,
		"Do not check that the envelope is signed by its sender.")
	openCmd.Flags().AddFlagSet(flags.OutputFormatFlags(&o.OutputOpts))

	return openCmd
}

var openedColumns = []output.TableColumn[OpenedMessage]{
	{
		ColumnConfig: table.ColumnConfig{Name: "type"},
		Value:        func(m OpenedMessage) string { return m.Type },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "sender"},
		Value:        func(m OpenedMessage) string { return m.Sender },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "time"},
		Value: func(m OpenedMessage) string {
			return envelope.Header{Timestamp: m.Timestamp}.Time().UTC().Format(time.RFC3339Nano)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "body", WidthMax: 80},
		Value: func(m OpenedMessage) string {
			b, err := json.Marshal(m.Body)
			if err != nil {
				return err.Error()
			}
			return string(b)
		},
	},
}

func (o *OpenOptions) Run(cmd *cobra.Command, path string) error {
	cfg := util.GetConfig(cmd)
	opts := cfg.CodecOptions()
	if o.NoVerify {
		opts = append(opts, envelope.WithVerification(false))
	}
	codec := envelope.NewCodec(messages.NewRegistry(), opts...)

	raw, err := util.ReadInput(cmd, path, cfg.MaxEnvelopeBytes())
	if err != nil {
		return err
	}
	received, err := codec.Disassemble(bytes.TrimSpace(raw))
	if err != nil {
		return err
	}

	opened := OpenedMessage{
		Type:      received.Header.Type,
		Timestamp: received.Header.Timestamp,
		Body:      received.Message,
	}
	if received.Header.Sender != nil {
		opened.Sender = received.Header.Sender.Hex()
	}
	return output.OutputOne(cmd, openedColumns, o.OutputOpts, opened)
}
