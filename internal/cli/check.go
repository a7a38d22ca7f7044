package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dshills/vimkeys/internal/config"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

func newCheckCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [config-file]",
		Short: "Validate a remapping configuration",
		Long: `Load a configuration file and the plugins given with --plugin and
report every invalid remapping.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.ConfigPath = args[0]
			}
			out := cmd.OutOrStdout()

			env, err := loadEnvironment(cmd.Context(), opts, nil)
			if err != nil {
				var problems interface{ Unwrap() []error }
				if errors.As(err, &problems) {
					fmt.Fprintln(out, errStyle.Render(fmt.Sprintf("%d problem(s) found:", len(problems.Unwrap()))))
					for _, p := range problems.Unwrap() {
						fmt.Fprintf(out, "  %v\n", p)
					}
					return errors.New("invalid configuration")
				}
				return err
			}
			defer env.Close()

			source := env.path
			if source == "" {
				source = "(defaults)"
			}
			fmt.Fprintln(out, titleStyle.Render("Configuration: "+source))

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "leader\t%s\n", displayKey(env.leader))
			fmt.Fprintf(w, "%s\t%d\n", config.TableInsert, len(env.tables.Insert))
			fmt.Fprintf(w, "%s\t%d\n", config.TableInsertNonRecursive, len(env.tables.InsertNonRecursive))
			fmt.Fprintf(w, "%s\t%d\n", config.TableOther, len(env.tables.Other))
			fmt.Fprintf(w, "%s\t%d\n", config.TableOtherNonRecursive, len(env.tables.OtherNonRecursive))
			fmt.Fprintf(w, "imSwitch\t%v\n", env.config.ImSwitch.Enable)
			for _, c := range env.host.Commands() {
				fmt.Fprintf(w, "plugin command\t%s\n", c)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("OK: %d remapping(s)", env.config.RemappingCount())))
			return nil
		},
	}
}
