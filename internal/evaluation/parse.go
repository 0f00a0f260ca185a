package evaluation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var errNoScores = errors.New("no scores found in evaluation response")

var (
	correctnessRe   = regexp.MustCompile(`(?mi)^CORRECTNESS:\s*(\d+)\s*/\s*10\s*(?:-\s*(.*))?$`)
	completenessRe  = regexp.MustCompile(`(?mi)^COMPLETENESS:\s*(\d+)\s*/\s*10\s*(?:-\s*(.*))?$`)
	understandingRe = regexp.MustCompile(`(?mi)^UNDERSTANDING:\s*(\d+)\s*/\s*10\s*(?:-\s*(.*))?$`)
	totalScoreRe    = regexp.MustCompile(`(?mi)^TOTAL_SCORE:\s*(\d+(?:\.\d+)?)\s*/\s*10`)

	feedbackRe   = regexp.MustCompile(`(?s)FEEDBACK:\s*(.*?)(?:\n(?:STRENGTHS|WEAKNESSES|TOTAL_SCORE):|\z)`)
	strengthsRe  = regexp.MustCompile(`(?s)STRENGTHS:\s*(.*?)(?:\n(?:FEEDBACK|WEAKNESSES|TOTAL_SCORE):|\z)`)
	weaknessesRe = regexp.MustCompile(`(?s)WEAKNESSES:\s*(.*?)(?:\n(?:FEEDBACK|STRENGTHS|TOTAL_SCORE):|\z)`)

	quickScoreRe   = regexp.MustCompile(`(?mi)^SCORE:\s*(\d+(?:\.\d+)?)\s*/\s*10`)
	quickCommentRe = regexp.MustCompile(`(?s)COMMENT:\s*(.*?)(?:\nADVICE:|\z)`)
	quickAdviceRe  = regexp.MustCompile(`(?s)ADVICE:\s*(.*)\z`)
)

type parsedDetailed struct {
	scores   CriteriaScores
	comments CriteriaFeedback

	// reported is the model's self-declared aggregate, nil when absent.
	reported *float64

	feedback   string
	strengths  string
	weaknesses string
}

// parseDetailed extracts the labeled rubric sections from a detailed
// evaluation response. Missing criterion scores default to zero and missing
// text sections to empty strings. It fails only when neither a criterion
// score nor an aggregate could be found, since then no score is derivable.
func parseDetailed(text string) (parsedDetailed, error) {
	var p parsedDetailed
	found := false

	if score, comment, ok := matchCriterion(correctnessRe, text); ok {
		p.scores.Correctness, p.comments.Correctness = score, comment
		found = true
	}
	if score, comment, ok := matchCriterion(completenessRe, text); ok {
		p.scores.Completeness, p.comments.Completeness = score, comment
		found = true
	}
	if score, comment, ok := matchCriterion(understandingRe, text); ok {
		p.scores.Understanding, p.comments.Understanding = score, comment
		found = true
	}

	if m := totalScoreRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.reported = &v
			found = true
		}
	}

	if !found {
		return parsedDetailed{}, errNoScores
	}

	p.feedback = matchSection(feedbackRe, text)
	p.strengths = matchSection(strengthsRe, text)
	p.weaknesses = matchSection(weaknessesRe, text)
	return p, nil
}

type parsedQuick struct {
	score   float64
	comment string
	advice  string
}

func parseQuick(text string) (parsedQuick, error) {
	var p parsedQuick

	m := quickScoreRe.FindStringSubmatch(text)
	if m == nil {
		return parsedQuick{}, errNoScores
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return parsedQuick{}, errNoScores
	}
	p.score = v
	p.comment = matchSection(quickCommentRe, text)
	p.advice = matchSection(quickAdviceRe, text)
	return p, nil
}

func matchCriterion(re *regexp.Regexp, text string) (score int, comment string, ok bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return n, strings.TrimSpace(m[2]), true
}

func matchSection(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
