package question

import (
	"regexp"
	"strings"
)

var (
	questionRe   = regexp.MustCompile(`(?s)QUESTION:\s*(.*?)(?:\n(?:KEY_POINTS|TOPIC_LEVEL|THEMATIC_DIRECTION|REASONING|ADAPTATION):|\z)`)
	keyPointsRe  = regexp.MustCompile(`(?s)KEY_POINTS:\s*(.*?)(?:\n(?:QUESTION|TOPIC_LEVEL|THEMATIC_DIRECTION|REASONING|ADAPTATION):|\z)`)
	topicLevelRe = regexp.MustCompile(`(?mi)^TOPIC_LEVEL:\s*(\w+)`)
	thematicRe   = regexp.MustCompile(`(?s)THEMATIC_DIRECTION:\s*(.*?)(?:\n(?:QUESTION|KEY_POINTS|TOPIC_LEVEL|REASONING|ADAPTATION):|\z)`)
	reasoningRe  = regexp.MustCompile(`(?s)REASONING:\s*(.*?)(?:\n(?:QUESTION|KEY_POINTS|TOPIC_LEVEL|THEMATIC_DIRECTION|ADAPTATION):|\z)`)
	adaptationRe = regexp.MustCompile(`(?s)ADAPTATION:\s*(.*?)(?:\n(?:QUESTION|KEY_POINTS|TOPIC_LEVEL|THEMATIC_DIRECTION|REASONING):|\z)`)
)

type parsed struct {
	text              string
	keyPoints         string
	topicLevel        string
	thematicDirection string
	reasoning         string
	adaptation        string
}

// parseQuestion extracts the labeled sections from a generation response.
// Missing sections stay empty; validation decides what is acceptable.
func parseQuestion(text string) parsed {
	section := func(re *regexp.Regexp) string {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		return strings.TrimSpace(m[1])
	}

	p := parsed{
		text:              section(questionRe),
		keyPoints:         section(keyPointsRe),
		thematicDirection: section(thematicRe),
		reasoning:         section(reasoningRe),
		adaptation:        section(adaptationRe),
	}

	if m := topicLevelRe.FindStringSubmatch(text); m != nil {
		switch strings.ToLower(m[1]) {
		case "basic", "intermediate", "advanced":
			p.topicLevel = strings.ToLower(m[1])
		}
	}

	if strings.EqualFold(p.adaptation, "none") {
		p.adaptation = ""
	}
	return p
}
