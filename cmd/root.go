// Package cmd wires the examina command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/examina/internal/journal"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "examina",
	Short: "Adaptive oral exams at the command line",
	Long: `Examina runs adaptive oral exams: it generates questions one at a
time, scores free-text answers against a rubric, and finishes with a
diagnostic report. Questions adapt to performance, optionally following a
Bloom-taxonomy plan.

A completion provider is configured through environment variables; set one
of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY,
or pin a provider with EXAMINA_LLM_PROVIDER.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"journal database path (default: $EXAMINA_DB or the XDG data dir)")
}

// openJournal opens the SQLite journal. A journal that cannot be opened
// degrades to a no-op recorder with a warning; the exam itself still runs.
func openJournal() (journal.Recorder, func()) {
	path := dbPath
	if path == "" {
		var err error
		path, err = journal.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: journal disabled: %v\n", err)
			return journal.Nop{}, func() {}
		}
	} else if err := journal.EnsureDir(path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal disabled: %v\n", err)
		return journal.Nop{}, func() {}
	}

	store, err := journal.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal disabled: %v\n", err)
		return journal.Nop{}, func() {}
	}
	return store, func() { store.Close() }
}
