package diagnostic

import (
	"fmt"
	"strings"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/question"
)

const diagnosticSystemPrompt = "You are an experienced educational diagnostician. " +
	"You analyze exam transcripts to find knowledge gaps and give actionable study " +
	"advice. You respond in plain text using the exact section markers requested."

// buildTranscript renders the question/answer/score record for the analysis
// prompt. Long answers are clipped; the scores carry the signal.
func buildTranscript(questions []question.Question, evals []evaluation.Evaluation) string {
	var b strings.Builder
	for i, q := range questions {
		ev := evals[i]
		fmt.Fprintf(&b, "Question %d", q.Number)
		if q.BloomLevel != "" {
			fmt.Fprintf(&b, " [%s]", q.BloomLevel)
		}
		fmt.Fprintf(&b, " (%s): %s\n", q.TopicLevel, q.Text)
		fmt.Fprintf(&b, "Score: %.1f/10 (correctness %d, completeness %d, understanding %d)\n",
			ev.TotalScore, ev.Criteria.Correctness, ev.Criteria.Completeness, ev.Criteria.Understanding)
		if ev.Kind == evaluation.KindEmpty {
			b.WriteString("Answer: (not answered)\n")
		}
		if ev.Weaknesses != "" {
			fmt.Fprintf(&b, "Weaknesses: %s\n", clip(ev.Weaknesses, 200))
		}
		if ev.Failed() {
			b.WriteString("Note: evaluation failed, score recorded as zero.\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func analysisPrompt(subject, topicContext, transcript string, stats Statistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the transcript of an oral exam in the subject %q.\n", subject)
	if topicContext != "" {
		fmt.Fprintf(&b, "Focus area: %s\n", topicContext)
	}
	fmt.Fprintf(&b, "\nOverall: %.1f of %.0f points (%.1f%%), trend: %s\n\n",
		stats.TotalScore, stats.MaxPossibleScore, stats.Percentage, stats.Trend)
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	b.WriteString(`
Identify recurring patterns in the student's performance: which kinds of
questions scored well, which poorly, and what the per-criterion scores say
about the nature of the gaps. Write three or four paragraphs of analysis.
`)
	return b.String()
}

func reportPrompt(subject, analysis string, stats Statistics, grade Grade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the final report for an oral exam in the subject %q, addressed to the student.\n\n", subject)
	fmt.Fprintf(&b, "Result: %.1f of %.0f points (%.1f%%), grade: %s.\n", stats.TotalScore, stats.MaxPossibleScore, stats.Percentage, grade.Label)
	fmt.Fprintf(&b, "Criterion averages: correctness %.1f, completeness %.1f, understanding %.1f.\n",
		stats.CriterionAverages[evaluation.CriterionCorrectness],
		stats.CriterionAverages[evaluation.CriterionCompleteness],
		stats.CriterionAverages[evaluation.CriterionUnderstanding])
	fmt.Fprintf(&b, "Performance trend: %s.\n\n", stats.Trend)
	b.WriteString("Pattern analysis:\n")
	b.WriteString(analysis)
	b.WriteString(`

Structure the report as: a short overall assessment, the main strengths, the
main gaps, and concrete study advice. End the report with these two sections:

=== RECOMMENDATIONS ===
[numbered list of concrete study recommendations]

=== CRITICAL AREAS ===
[numbered list of topics that need urgent review, or "none"]
`)
	return b.String()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
