package taxonomy

import (
	"fmt"
	"strings"
)

const plannerSystemPrompt = "You are an experienced examiner who designs oral exams " +
	"following Bloom's taxonomy of educational objectives. You answer in plain text " +
	"using the exact section labels requested."

func analysisPrompt(p *Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the structure of the subject %q for an oral exam.\n", p.Subject)
	if p.TopicContext != "" {
		fmt.Fprintf(&b, "Focus area: %s\n", p.TopicContext)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", p.Difficulty)
	fmt.Fprintf(&b, "Total questions: %d\n\n", p.TotalQuestions)

	b.WriteString("Planned question distribution by cognitive level:\n")
	for _, l := range Sequence {
		info := Info(l)
		fmt.Fprintf(&b, "- %s (%s): %d questions. Typical verbs: %s\n",
			info.Name, info.Description, p.Distribution[l], strings.Join(info.Verbs, ", "))
	}

	b.WriteString("\nDescribe the key themes of the subject and how they map onto the ")
	b.WriteString("cognitive levels above. For each level provide one paragraph labeled ")
	b.WriteString("LEVEL_<NAME>: describing what aspects of the subject suit that level.\n")
	return b.String()
}

func guidancePrompt(p *Plan, l Level) string {
	info := Info(l)
	var b strings.Builder
	fmt.Fprintf(&b, "Write question-formulation guidelines for the %q level of Bloom's taxonomy.\n\n", info.Name)
	fmt.Fprintf(&b, "Subject: %s\n", p.Subject)
	if p.TopicContext != "" {
		fmt.Fprintf(&b, "Focus area: %s\n", p.TopicContext)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", p.Difficulty)
	fmt.Fprintf(&b, "Questions at this level: %d\n", p.Distribution[l])
	fmt.Fprintf(&b, "Level description: %s\n", info.Description)
	fmt.Fprintf(&b, "Characteristic verbs: %s\n", strings.Join(info.Verbs, ", "))
	fmt.Fprintf(&b, "Example stems: %s\n", strings.Join(info.QuestionStems, " / "))
	if p.Overview != "" {
		fmt.Fprintf(&b, "\nSubject analysis:\n%s\n", truncate(p.Overview, 1500))
	}

	b.WriteString(`
Respond using exactly these sections:

FORMULATION_PRINCIPLES:
[how to phrase questions at this level]

MANDATORY_ELEMENTS:
[elements every question must contain]

THEMATIC_DIRECTIONS:
[which themes of the subject to draw on]

COMPLEXITY_LEVEL:
[expected depth of reasoning]

CONTEXTUAL_REQUIREMENTS:
[how to tie questions to the focus area]

QUALITY_CRITERIA:
[what distinguishes a good question at this level]

AVOID:
[formulations and topics to avoid]
`)
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
