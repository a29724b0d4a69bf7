package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/itemmeta/internal/itemstack"
	"github.com/roach88/itemmeta/internal/wire"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	Raw bool // print the unquoted body instead of the payload
}

// EncodeResult is the outcome of the encode command.
type EncodeResult struct {
	Body         string `json:"body,omitempty" yaml:"body,omitempty"`
	MetadataView `yaml:",inline"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a key/value mapping as a metadata payload",
		Long: `Read a YAML or JSON mapping of strings and print its metadata payload.

Entries are applied in ascending key order. Framing bytes are removed from
keys and values, and entries with empty values are dropped. Reads stdin when
no file is given.

Examples:
  itemmeta encode item.yaml
  echo '{"description": "Sharp pick", "count": "3"}' | itemmeta encode
  itemmeta encode item.yaml --raw`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "print the unquoted wire body")

	return cmd
}

func runEncode(opts *EncodeOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	data, err := readInput(cmd, args)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInput, err)
	}

	entries, err := decodeMapping(data)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInput, err)
	}
	formatter.VerboseLog("Encoding %d entries", len(entries))

	m := itemstack.New()
	var parseErrs []error
	for _, key := range sortedKeys(entries) {
		if _, err := m.SetString(key, entries[key]); err != nil {
			parseErrs = append(parseErrs, err)
		}
	}

	view, err := newMetadataView(m, errors.Join(parseErrs...))
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInput, err)
	}

	result := EncodeResult{MetadataView: view}
	if opts.Raw {
		body, err := wire.UnquoteIfNeeded(view.Payload)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodePayload, err)
		}
		result.Body = body
	}

	if formatter.Structured() {
		return formatter.Success(result)
	}
	if opts.Raw {
		_, err = io.WriteString(formatter.Writer, result.Body+"\n")
		return err
	}
	_, err = fmt.Fprintln(formatter.Writer, view.Payload)
	return err
}

// readInput returns the contents of args[0], or stdin when args is empty.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// decodeMapping parses a YAML (or JSON) document holding a flat mapping.
// Scalar values of any type are taken as their literal text.
func decodeMapping(data []byte) (map[string]string, error) {
	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
