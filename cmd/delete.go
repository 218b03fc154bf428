package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workout and its marker",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every workout",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := app.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := app.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", shortID(id))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	n := app.Store().Len()
	if err := app.ClearAll(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d workout(s).\n", n)
	return nil
}
