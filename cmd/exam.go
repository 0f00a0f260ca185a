package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examina/internal/diagnostic"
	"github.com/abhisek/examina/internal/exam"
	"github.com/abhisek/examina/internal/llm"
	"github.com/abhisek/examina/internal/session"
)

var examFlags struct {
	student    string
	subject    string
	topic      string
	difficulty string
	questions  int
	guided     bool
	quick      bool
}

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Run an interactive oral exam",
	Long: `Runs an oral exam in the terminal. Each question is printed and the
answer read from standard input; submit an empty line to skip a question.
The exam ends with a scored diagnostic report.`,
	RunE: runExam,
}

func init() {
	examCmd.Flags().StringVar(&examFlags.student, "student", "", "student name (required)")
	examCmd.Flags().StringVar(&examFlags.subject, "subject", "", "exam subject (required)")
	examCmd.Flags().StringVar(&examFlags.topic, "topic", "", "focus area within the subject")
	examCmd.Flags().StringVar(&examFlags.difficulty, "difficulty", "intermediate", "basic, intermediate or advanced")
	examCmd.Flags().IntVarP(&examFlags.questions, "questions", "n", 5, "number of questions")
	examCmd.Flags().BoolVar(&examFlags.guided, "guided", false, "plan questions along Bloom's taxonomy")
	examCmd.Flags().BoolVar(&examFlags.quick, "quick", false, "quick single-score evaluation")
	examCmd.MarkFlagRequired("student")
	examCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(examCmd)
}

func runExam(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	recorder, closeJournal := openJournal()
	defer closeJournal()

	provider, err := llm.NewProviderFromEnv(ctx, recorder)
	if err != nil {
		return err
	}

	cfg := exam.DefaultConfig(session.Config{
		Subject:      examFlags.subject,
		TopicContext: examFlags.topic,
		Difficulty:   examFlags.difficulty,
		MaxQuestions: examFlags.questions,
		Guided:       examFlags.guided,
	})
	cfg.Evaluation.Quick = examFlags.quick

	o, err := exam.New(provider, recorder, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Subject: %s", examFlags.subject)
	if examFlags.topic != "" {
		fmt.Printf(" (%s)", examFlags.topic)
	}
	fmt.Printf("\nQuestions: %d\n\n", examFlags.questions)
	if examFlags.guided {
		fmt.Println("Building exam plan...")
	}

	sum, err := o.Start(ctx, examFlags.student)
	if err != nil {
		return err
	}
	fmt.Printf("Session %s started for %s.\n\n", sum.SessionID, sum.StudentName)

	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		q, err := o.NextQuestion(ctx)
		if errors.Is(err, exam.ErrEndOfExam) {
			break
		}
		if err != nil {
			return err
		}

		fmt.Printf("--- Question %d of %d ---\n%s\n\n> ", q.Number, examFlags.questions, q.Text)
		if !in.Scan() {
			// Input closed: finish with what we have.
			break
		}
		answer := strings.TrimSpace(in.Text())

		ev, err := o.SubmitAnswer(ctx, answer)
		if err != nil {
			return err
		}
		if ev.Failed() {
			fmt.Printf("\nThis answer could not be scored; moving on.\n\n")
			continue
		}
		fmt.Printf("\nScore: %.1f/10\n", ev.TotalScore)
		if ev.Feedback != "" {
			fmt.Printf("%s\n", ev.Feedback)
		}
		if ev.Comment != "" {
			fmt.Printf("%s\n", ev.Comment)
		}
		if w := ev.Reconciliation.Warning; w != "" {
			fmt.Fprintf(os.Stderr, "note: %s\n", w)
		}
		fmt.Println()
	}
	if err := in.Err(); err != nil {
		return fmt.Errorf("reading answers: %w", err)
	}

	fmt.Println("Preparing the final report...")
	res, err := o.Complete(ctx)
	if err != nil {
		return err
	}
	printReport(res)
	return nil
}

func printReport(res *diagnostic.Result) {
	st := res.Statistics
	fmt.Printf("\n=== Exam Result: %s ===\n", res.Subject)
	fmt.Printf("Score: %.1f of %.0f (%.1f%%), grade: %s\n",
		st.TotalScore, st.MaxPossibleScore, st.Percentage, res.Grade.Label)
	fmt.Printf("Trend: %s\n\n", st.Trend)
	fmt.Println(res.FinalReport)

	if len(res.CriticalAreas) > 0 {
		fmt.Println("\nReview these areas first:")
		for _, a := range res.CriticalAreas {
			fmt.Printf("  - %s\n", a)
		}
	}
}
