package util

import (
	"errors"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raiden-network/raiden-services/pkg/envelope"
)

var red = color.New(color.FgRed)

const errorPrefix = "Error: "

var Fatal = fatalError

func fatalError(cmd *cobra.Command, err error, code int) {
	PrintErr(cmd, err)
	os.Exit(code)
}

// PrintErr prints err after a red prefix, wrapped to the width of the terminal.
// Rejected envelopes are printed as their error response on a single line so
// scripts can match on the code.
func PrintErr(cmd *cobra.Command, err error) {
	var coded envelope.CodedError
	if errors.As(err, &coded) {
		red.Fprint(cmd.ErrOrStderr(), errorPrefix)
		cmd.PrintErrln(envelope.ErrorToText(err))
		return
	}

	msg := strings.TrimSuffix(err.Error(), "\n")
	if msg == "" {
		return
	}
	terminalWidth, _, termErr := term.GetSize(int(os.Stderr.Fd()))
	if termErr != nil || terminalWidth <= len(errorPrefix) {
		terminalWidth = math.MaxInt32
	}
	errorWidth := uint(terminalWidth - len(errorPrefix))

	red.Fprint(cmd.ErrOrStderr(), errorPrefix)
	for i, line := range strings.Split(wordwrap.WrapString(msg, errorWidth), "\n") {
		if i > 0 {
			cmd.PrintErr(strings.Repeat(" ", len(errorPrefix)))
		}
		cmd.PrintErrln(line)
	}
}
