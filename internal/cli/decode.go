package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/itemmeta/internal/itemstack"
)

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [payload]",
		Short: "Decode a metadata payload",
		Long: `Decode a serialized metadata payload and print its entries and derived views.

Without an argument one token is read from stdin, the way it appears inside
an item string: a quoted payload ends at its closing quote, a bare one at the
first space.

Exit codes:
  0 - Decoded (reserved keys that fail to parse are listed, not fatal)
  1 - Payload quoting is broken

Examples:
  itemmeta decode '"\u0001count\u00023\u0003"'
  echo '"\u0001count\u00023\u0003" rest' | itemmeta decode --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runDecode(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	m := itemstack.New()
	var err error
	if len(args) == 1 {
		err = m.Deserialize(args[0])
	} else {
		formatter.VerboseLog("Reading payload token from stdin")
		err = m.DeserializeFrom(cmd.InOrStdin())
	}
	if failure := payloadFailure(formatter, err); failure != nil {
		return failure
	}

	view, verr := newMetadataView(m, err)
	if verr != nil {
		return formatter.Fail(ExitFailure, ErrCodeInput, verr)
	}
	return writeView(formatter, view)
}
