package question

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/taxonomy"
)

const generatorSystemPrompt = "You are an experienced oral examiner. You ask one " +
	"clear, answerable question at a time and respond in plain text using the " +
	"exact section labels requested."

func initialPrompt(s *Stage, number, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate the opening question of an oral exam in the subject %q.\n", s.subject)
	if s.topicContext != "" {
		fmt.Fprintf(&b, "Focus area: %s\n", s.topicContext)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", s.difficulty)
	fmt.Fprintf(&b, "This is question %d of %d.\n", number, total)
	b.WriteString("The question should be a basic-level warm-up covering a fundamental concept.\n")
	b.WriteString(answerFormat)
	return b.String()
}

func contextualPrompt(s *Stage, number, total int, asked []string, summaries []evaluation.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate the next question of an oral exam in the subject %q.\n", s.subject)
	if s.topicContext != "" {
		fmt.Fprintf(&b, "Focus area: %s\n", s.topicContext)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", s.difficulty)
	fmt.Fprintf(&b, "This is question %d of %d.\n\n", number, total)

	if len(asked) > 0 {
		b.WriteString("Questions already asked:\n")
		for i, q := range asked {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
		b.WriteString("\n")
	}

	b.WriteString("Performance so far (scores on a 0-10 scale):\n")
	b.WriteString(formatSummaries(summaries))

	b.WriteString(`
Adapt the next question to this performance: probe weaknesses the student
showed, raise difficulty where the student is strong, and avoid repeating
ground already covered. State your adaptation in the ADAPTATION section.
`)
	b.WriteString(answerFormat)
	return b.String()
}

func guidedPrompt(s *Stage, number, total int, g taxonomy.Guidance, summaries []evaluation.Summary) string {
	info := taxonomy.Info(g.Level)
	var b strings.Builder
	fmt.Fprintf(&b, "Generate question %d of %d for an oral exam in the subject %q.\n", number, total, s.subject)
	if s.topicContext != "" {
		fmt.Fprintf(&b, "Focus area: %s\n", s.topicContext)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n\n", s.difficulty)

	fmt.Fprintf(&b, "Target cognitive level: %s (%s)\n", info.Name, info.Description)
	fmt.Fprintf(&b, "Characteristic verbs: %s\n", strings.Join(info.Verbs, ", "))
	writeGuidanceSection(&b, "Formulation principles", g.FormulationPrinciples)
	writeGuidanceSection(&b, "Mandatory elements", g.MandatoryElements)
	writeGuidanceSection(&b, "Thematic directions", g.ThematicDirections)
	writeGuidanceSection(&b, "Expected complexity", g.ComplexityLevel)
	writeGuidanceSection(&b, "Contextual requirements", g.ContextualRequirements)
	writeGuidanceSection(&b, "Avoid", g.Avoid)

	if len(summaries) > 0 {
		b.WriteString("\nPerformance so far (scores on a 0-10 scale):\n")
		b.WriteString(formatSummaries(summaries))
	}
	b.WriteString(answerFormat)
	return b.String()
}

func writeGuidanceSection(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", title, body)
}

// formatSummaries renders the answer-free performance digest used in
// adaptive prompts. Summaries carry no answer text, so none can leak into
// the prompt.
func formatSummaries(summaries []evaluation.Summary) string {
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "- Question %d", s.QuestionNumber)
		if s.BloomLevel != "" {
			fmt.Fprintf(&b, " [%s]", s.BloomLevel)
		}
		fmt.Fprintf(&b, ": %.1f/10 (%s)", s.TotalScore, s.OverallBand)
		if s.Strengths != "" {
			fmt.Fprintf(&b, "; strengths: %s", clip(s.Strengths, 100))
		}
		if s.Weaknesses != "" {
			fmt.Fprintf(&b, "; weaknesses: %s", clip(s.Weaknesses, 100))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// clip truncates s to at most n runes, never splitting a rune.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

const answerFormat = `
Respond using exactly this format:

QUESTION:
[the full question text]

KEY_POINTS:
[the points a complete answer covers, one per line]

TOPIC_LEVEL: [basic|intermediate|advanced]

THEMATIC_DIRECTION:
[the theme of the subject this question draws on]

REASONING:
[one sentence on why this question fits here]

ADAPTATION:
[how this question adapts to the performance so far, or "none"]
`
