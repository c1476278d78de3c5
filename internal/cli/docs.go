package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/ideamap/ideamap/pkg/document"
)

// docsCommand creates the stored-document management command.
func (c *CLI) docsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage stored maps",
	}

	cmd.AddCommand(c.docsListCommand())
	cmd.AddCommand(c.docsDeleteCommand())
	cmd.AddCommand(c.docsNewCommand())

	return cmd
}

// docsListCommand creates the "docs list" subcommand.
func (c *CLI) docsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			names, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No stored maps")
				return nil
			}
			sort.Strings(names)
			for _, name := range names {
				printDetail("%s", name)
			}
			return nil
		},
	}
}

// docsDeleteCommand creates the "docs delete" subcommand.
func (c *CLI) docsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete MAP...",
		Short: "Delete stored maps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			for _, name := range args {
				if err := st.Delete(ctx, name); err != nil {
					return err
				}
				printSuccess("Deleted %s", name)
			}
			return nil
		},
	}
}

// docsNewCommand creates the "docs new" subcommand.
func (c *CLI) docsNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new MAP",
		Short: "Create an empty map with a single starter node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if _, err := st.Load(ctx, name); err == nil {
				printWarning("Map %q already exists", name)
				return nil
			}
			if err := st.Save(ctx, name, document.Default(name)); err != nil {
				return err
			}
			printSuccess("Created %s", name)
			return nil
		},
	}
}
