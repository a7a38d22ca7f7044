package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/vimkeys/internal/input/action"
	"github.com/dshills/vimkeys/internal/input/fuzzy"
	"github.com/dshills/vimkeys/internal/input/mode"
)

func newActionsCommand(opts *Options) *cobra.Command {
	var (
		modeName string
		query    string
	)

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the built-in actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if modeName != "" && !mode.All.Contains(modeName) {
				return fmt.Errorf("unknown mode %q (one of %s)", modeName, mode.All)
			}

			env, err := loadEnvironment(cmd.Context(), opts, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			var descs []action.Descriptor
			for _, d := range env.registry.Descriptors() {
				if listed(d, modeName) {
					descs = append(descs, d)
				}
			}
			if query != "" {
				ranked := fuzzy.Rank(query, descs, func(d action.Descriptor) []string {
					return []string{string(d.Kind), d.Description, d.Keys.String()}
				}, 0)
				descs = descs[:0]
				for _, r := range ranked {
					descs = append(descs, r.Item)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEYS\tKIND\tMODES\tCATEGORY\tDESCRIPTION")
			for _, d := range descs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Keys, d.Kind, d.Modes, d.Category, d.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&modeName, "mode", "m", "", "Only list actions available in this mode")
	cmd.Flags().StringVarP(&query, "search", "s", "", "Fuzzy search kinds, keys and descriptions")
	return cmd
}

// listed reports whether d is shown for the mode filter. Abstract
// actions are never shown.
func listed(d action.Descriptor, modeName string) bool {
	if d.Keys.IsEmpty() {
		return false
	}
	return modeName == "" || d.Modes.Contains(modeName)
}
