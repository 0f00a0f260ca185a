package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examina/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show the journal of a past exam attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath
		if path == "" {
			var err error
			path, err = journal.DefaultDBPath()
			if err != nil {
				return err
			}
		}
		store, err := journal.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		steps, err := store.StepsFor(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(steps) == 0 {
			return fmt.Errorf("no journal entries for session %q", args[0])
		}

		for _, s := range steps {
			fmt.Printf("[%s] %s\n", s.Timestamp.Format("2006-01-02 15:04:05"), s.Step)
			switch {
			case s.Question != "" && s.Answer != "":
				fmt.Printf("  Q: %s\n  A: %s\n", s.Question, s.Answer)
			case s.Question != "":
				fmt.Printf("  Q: %s\n", s.Question)
			case s.Report != "":
				fmt.Printf("%s\n", s.Report)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
