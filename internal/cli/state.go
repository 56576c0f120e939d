package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/state"
)

// stateCommand creates the state command.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show or change the persisted UI state",
	}

	cmd.AddCommand(c.stateGetCommand())
	cmd.AddCommand(c.stateSetCommand())
	cmd.AddCommand(c.stateResetCommand())

	return cmd
}

func (c *CLI) stateGetCommand() *cobra.Command {
	var (
		flags  storeFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the stored UI state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.withStore(cmd.Context(), &flags, func(store state.Store) (state.State, error) {
				return state.LoadOrDefault(cmd.Context(), store, flags.key)
			})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			printState(st)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) stateSetCommand() *cobra.Command {
	var (
		flags                     storeFlags
		size, key, mode, selected string
		fader                     float64
		octave, inversion         int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change fields of the stored UI state",
		Example: `  pianoxl state set --size XXL --select inversion
  pianoxl state set --store redis --fader 0.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fl := cmd.Flags()
			st, err := c.withStore(ctx, &flags, func(store state.Store) (state.State, error) {
				st, err := state.LoadOrDefault(ctx, store, flags.key)
				if err != nil {
					return st, err
				}
				if fl.Changed("size") {
					st.Size = size
				}
				if fl.Changed("key") {
					st.Key = key
				}
				if fl.Changed("mode") {
					st.Mode = mode
				}
				if fl.Changed("select") {
					st.Selected = selected
				}
				if fl.Changed("fader") {
					st.Fader = fader
				}
				if fl.Changed("octave") {
					st.Octave = octave
				}
				if fl.Changed("inversion") {
					st.Inversion = inversion
				}
				if err := st.Validate(); err != nil {
					return st, err
				}
				return st, store.Save(ctx, flags.key, st)
			})
			if err != nil {
				return err
			}
			printSuccess("State saved")
			printState(st)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&size, "size", "", "size button label: XL, XXL or XXXL")
	cmd.Flags().StringVar(&key, "key", "", "key name, e.g. C or F#")
	cmd.Flags().StringVar(&mode, "mode", "", "mode label")
	cmd.Flags().StringVar(&selected, "select", "", "selected control: key, mode, octave, inversion or empty")
	cmd.Flags().Float64Var(&fader, "fader", 0, "fader position in [0, 1]")
	cmd.Flags().IntVar(&octave, "octave", 0, "octave offset")
	cmd.Flags().IntVar(&inversion, "inversion", 0, "chord inversion")
	return cmd
}

func (c *CLI) stateResetCommand() *cobra.Command {
	var flags storeFlags
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored UI state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.withStore(cmd.Context(), &flags, func(store state.Store) (state.State, error) {
				return state.Default(), store.Delete(cmd.Context(), flags.key)
			})
			if err != nil {
				return err
			}
			printSuccess("State reset")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// withStore opens the configured store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, flags *storeFlags, fn func(state.Store) (state.State, error)) (state.State, error) {
	store, err := flags.open(ctx, c.Logger)
	if err != nil {
		return state.State{}, err
	}
	defer store.Close()
	return fn(store)
}

func printState(st state.State) {
	selected := st.Selected
	if selected == "" {
		selected = "-"
	}
	printKeyValue("size", st.Size)
	printKeyValue("key", st.Key)
	printKeyValue("mode", st.Mode)
	printKeyValue("octave", strconv.Itoa(st.Octave))
	printKeyValue("inversion", strconv.Itoa(st.Inversion))
	printKeyValue("fader", fmt.Sprintf("%.3f", st.Fader))
	printKeyValue("selected", selected)
	if !st.UpdatedAt.IsZero() {
		printDetail("updated %s", st.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}
