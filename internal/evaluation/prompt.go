package evaluation

import (
	"fmt"
	"strings"
)

const evaluatorSystemPrompt = "You are a strict but fair oral-exam evaluator. " +
	"You score answers on a 0-10 scale against an explicit rubric and respond " +
	"in plain text using the exact section labels requested. An answer that is " +
	"factually wrong scores low on correctness regardless of its length."

func detailedPrompt(subject, topicContext string, in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate a student's oral answer in the subject %q.\n", subject)
	if topicContext != "" {
		fmt.Fprintf(&b, "Focus area: %s\n", topicContext)
	}
	fmt.Fprintf(&b, "\nQuestion %d", in.QuestionNumber)
	if in.TopicLevel != "" {
		fmt.Fprintf(&b, " (level: %s)", in.TopicLevel)
	}
	if in.BloomLevel != "" {
		fmt.Fprintf(&b, " (cognitive level: %s)", in.BloomLevel)
	}
	fmt.Fprintf(&b, ":\n%s\n", in.Question)
	if in.KeyPoints != "" {
		fmt.Fprintf(&b, "\nKey points a complete answer covers:\n%s\n", in.KeyPoints)
	}
	fmt.Fprintf(&b, "\nStudent's answer:\n%s\n", in.Answer)

	b.WriteString(`
Score each criterion as an integer from 0 to 10 and respond using exactly
this format:

CORRECTNESS: X/10 - [one sentence on factual accuracy]
COMPLETENESS: X/10 - [one sentence on coverage of the key points]
UNDERSTANDING: X/10 - [one sentence on depth of understanding]
TOTAL_SCORE: X.X/10

FEEDBACK:
[two or three sentences of overall feedback addressed to the student]

STRENGTHS:
[what the answer did well]

WEAKNESSES:
[what the answer missed or got wrong]
`)
	return b.String()
}

func quickPrompt(subject string, in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Briefly evaluate a student's oral answer in the subject %q.\n", subject)
	fmt.Fprintf(&b, "\nQuestion %d:\n%s\n", in.QuestionNumber, in.Question)
	fmt.Fprintf(&b, "\nStudent's answer:\n%s\n", in.Answer)

	b.WriteString(`
Respond using exactly this format:

SCORE: X.X/10
COMMENT:
[one or two sentences on the answer]
ADVICE:
[one concrete suggestion for improvement]
`)
	return b.String()
}
