package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/vimkeys/internal/input/key"
)

func newResolveCommand(opts *Options) *cobra.Command {
	var initialMode string

	cmd := &cobra.Command{
		Use:   "resolve <keys>...",
		Short: "Show how a key sequence resolves",
		Long: `Feed keys in Vim notation through the remappings and the action
registry and print what happened to every key, replayed keys included.

Example:
  vimkeys resolve -c config.toml 'ihello<Esc>2dd'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := key.ParseSequence(strings.Join(args, ""))

			sim := newSimEditor(opts.Logger())
			env, err := loadEnvironment(cmd.Context(), opts, simCommands{sim})
			if err != nil {
				return err
			}
			defer env.Close()

			h, err := newSimHandler(env, sim, initialMode)
			if err != nil {
				return err
			}

			var runErr error
			for _, k := range keys {
				out, err := h.HandleKey(cmd.Context(), k)
				if err != nil {
					runErr = err
					break
				}
				if out.Consumed {
					sim.rows = append(sim.rows, row{Key: k, Mode: h.CurrentMode(), Status: out.Status, Consumed: true})
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tMODE\tSTATUS\tACTION\tNOTE")
			for _, r := range sim.rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", displayKey(r.Key), r.Mode, r.Status, r.Action, r.note())
			}
			if err := w.Flush(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nmode: %s\n", h.CurrentMode())
			if pending := h.PendingKeys(); pending != "" {
				fmt.Fprintf(out, "pending: %s\n", pending)
			}
			if text := sim.Text(); text != "" {
				fmt.Fprintf(out, "text: %q\n", text)
			}
			for _, c := range sim.commands {
				fmt.Fprintf(out, "command: :%s\n", c)
			}
			for _, m := range sim.messages {
				if !strings.HasPrefix(m, ":") {
					fmt.Fprintf(out, "message: %s\n", m)
				}
			}

			if runErr != nil {
				return fmt.Errorf("resolve: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&initialMode, "mode", "m", "normal", "Mode to start in")
	return cmd
}

// displayKey shows a key in Vim notation.
func displayKey(k key.Token) string {
	if k == " " {
		return "<Space>"
	}
	return string(k)
}
