package diagnostic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/question"
)

var (
	recommendationsRe = regexp.MustCompile(`(?s)===\s*RECOMMENDATIONS\s*===\s*(.*?)(?:===|\z)`)
	criticalAreasRe   = regexp.MustCompile(`(?s)===\s*CRITICAL AREAS\s*===\s*(.*?)(?:===|\z)`)
	listItemRe        = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s*(.+)$`)
)

// fallbackRecommendations is used when the report carries no extractable
// recommendation section.
var fallbackRecommendations = []string{
	"Review the topics where the lowest scores were given.",
	"Practice explaining concepts aloud in your own words.",
	"Work through applied examples rather than rereading definitions.",
	"Retake the exam after reviewing to measure progress.",
}

// extractRecommendations pulls the numbered recommendation list out of the
// report, capped at max. When none can be found it falls back to a generic
// list.
func extractRecommendations(report string, max int) []string {
	items := extractList(recommendationsRe, report, max)
	if len(items) > 0 {
		return items
	}
	if max < len(fallbackRecommendations) {
		return fallbackRecommendations[:max]
	}
	return fallbackRecommendations
}

// extractCriticalAreas pulls the critical-area list out of the report. When
// the report carries none, the lowest-scoring question themes are used
// instead.
func extractCriticalAreas(report string, questions []question.Question, evals []evaluation.Evaluation, max int) []string {
	items := extractList(criticalAreasRe, report, max)
	if len(items) == 1 && strings.EqualFold(items[0], "none") {
		return nil
	}
	if len(items) > 0 {
		return items
	}

	var areas []string
	for i, ev := range evals {
		if len(areas) >= max {
			break
		}
		if ev.TotalScore >= 5 {
			continue
		}
		theme := questions[i].ThematicDirection
		if theme == "" {
			theme = fmt.Sprintf("material covered by question %d", questions[i].Number)
		}
		areas = append(areas, theme)
	}
	return areas
}

func extractList(re *regexp.Regexp, text string, max int) []string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var items []string
	for _, line := range strings.Split(m[1], "\n") {
		im := listItemRe.FindStringSubmatch(line)
		if im == nil {
			continue
		}
		item := strings.TrimSpace(im[1])
		if item == "" {
			continue
		}
		items = append(items, item)
		if len(items) == max {
			break
		}
	}
	return items
}
