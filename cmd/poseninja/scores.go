package main

import (
	"fmt"
	"io"

	"github.com/plus3/poseninja/scores"
	"github.com/spf13/cobra"
)

var scoresFlags struct {
	reset bool
	path  string
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print or reset the high score table",
	Args:  cobra.NoArgs,
	RunE:  runScores,
}

func init() {
	rootCmd.AddCommand(scoresCmd)

	scoresCmd.Flags().BoolVar(&scoresFlags.reset, "reset", false, "empty the table")
	scoresCmd.Flags().StringVar(&scoresFlags.path, "scores", "", "high score file")
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := scoresPath(cfg, scoresFlags.path)
	if err != nil {
		return err
	}
	table, err := scores.Load(path)
	if err != nil {
		return err
	}

	if scoresFlags.reset {
		table.Reset()
		if err := table.Save(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "High scores cleared")
		return nil
	}

	printScores(cmd.OutOrStdout(), table)
	return nil
}

func printScores(w io.Writer, table *scores.Table) {
	if table.Len() == 0 {
		fmt.Fprintln(w, "No high scores yet")
		return
	}
	fmt.Fprintln(w, "High scores:")
	for i, v := range table.Scores() {
		fmt.Fprintf(w, "  %d. %d\n", i+1, v)
	}
}
