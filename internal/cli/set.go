package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/itemmeta/internal/itemstack"
)

// SetResult is the outcome of the set command.
type SetResult struct {
	Changed bool `json:"changed" yaml:"changed"`
	MetadataView `yaml:",inline"`
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <payload> <key> <value>",
		Short: "Set one entry in a metadata payload",
		Long: `Decode a payload, set key to value and print the new payload.

Framing bytes are removed from key and value. An empty value removes the key.
Pass "" as payload to start from empty metadata.

Examples:
  itemmeta set "" description "Sharp pick"
  itemmeta set "$PAYLOAD" wear_color '{"blend":"constant","color_stops":{"0":"#ff0000"}}'`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runSet(opts *RootOptions, payload, key, value string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	m, err := itemstack.Parse(payload)
	if failure := payloadFailure(formatter, err); failure != nil {
		return failure
	}
	if err != nil {
		formatter.VerboseLog("Existing payload has unparseable reserved keys: %v", err)
	}

	changed, setErr := m.SetString(key, value)

	// The write re-derives only the view of the key it touched; failures
	// recorded for other reserved keys still stand.
	written := itemstack.Sanitize(key)
	current := []error{setErr}
	for _, pe := range itemstack.ParseErrors(err) {
		if pe.Key != written {
			current = append(current, pe)
		}
	}

	view, verr := newMetadataView(m, errors.Join(current...))
	if verr != nil {
		return formatter.Fail(ExitFailure, ErrCodeInput, verr)
	}

	result := SetResult{Changed: changed, MetadataView: view}
	if formatter.Structured() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "changed: %t\n", changed)
	view.writeText(formatter.Writer)
	return nil
}
