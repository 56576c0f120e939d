package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/design"
)

// designCommand creates the design table command.
func (c *CLI) designCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Inspect design tables",
		Long: `Inspect design tables.

A design table is a TOML file holding every element's design-space
rectangle, the row layouts and the fixed-size settings strip. Start from
the embedded default with 'pianoxl design dump > mine.toml' and pass it to
other commands with --design.`,
	}

	var resolved bool
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print the embedded default design table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resolved {
				return design.Default().Encode(cmd.OutOrStdout())
			}
			_, err := cmd.OutOrStdout().Write(design.DefaultTOML())
			return err
		},
	}
	dump.Flags().BoolVar(&resolved, "resolved", false, "print the decoded table with inherited kinds filled in")
	cmd.AddCommand(dump)

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file.toml>",
		Short: "Check a design table and print its hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := design.Load(args[0])
			if err != nil {
				return err
			}
			printSuccess("Design table is valid")
			printKeyValue("file", args[0])
			printKeyValue("hash", t.Hash()[:12])
			printKeyValue("white keys", strconv.Itoa(len(t.WhiteKeys.Items)))
			printKeyValue("black keys", strconv.Itoa(len(t.BlackKeys.Items)))
			return nil
		},
	})

	return cmd
}
