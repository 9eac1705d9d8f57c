package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// The set and list surfaces accept their arguments today so that scripts can
// be written against the final interface, but the server-side tag category
// operations are not implemented yet.

func newSetCommand(cctx *commandContext) *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Apply attribute changes to server resources",
	}

	setCmd.AddCommand(&cobra.Command{
		Use:   "tag_category <list-file> <category>",
		Short: "Set the category of each tag listed in a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkListFile(args[0]); err != nil {
				return err
			}
			return fmt.Errorf("set tag_category %q is not implemented", args[1])
		},
	})

	return setCmd
}

func newListCommand(cctx *commandContext) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List server resources",
	}

	listCmd.AddCommand(&cobra.Command{
		Use:   "tag_category <list-file> <category>",
		Short: "List the tags of a category into a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkListFile(args[0]); err != nil {
				return err
			}
			return fmt.Errorf("list tag_category %q is not implemented", args[1])
		},
	})

	return listCmd
}

func checkListFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("list file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("expected a file for the tag operation, %q is a directory", path)
	}
	return nil
}
