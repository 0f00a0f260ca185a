package taxonomy

import (
	"regexp"
	"strings"
)

var guidanceLabels = []string{
	"FORMULATION_PRINCIPLES",
	"MANDATORY_ELEMENTS",
	"THEMATIC_DIRECTIONS",
	"COMPLEXITY_LEVEL",
	"CONTEXTUAL_REQUIREMENTS",
	"QUALITY_CRITERIA",
	"AVOID",
}

var guidanceSectionRe = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(guidanceLabels))
	for _, label := range guidanceLabels {
		m[label] = regexp.MustCompile(`(?s)` + label + `:\s*(.*?)(?:\n[A-Z_]+:|\z)`)
	}
	return m
}()

// parseGuidance extracts the labeled sections from a guideline response.
// Absent sections stay empty; the raw text is always preserved.
func parseGuidance(text string) Guidance {
	section := func(label string) string {
		m := guidanceSectionRe[label].FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		return strings.TrimSpace(m[1])
	}

	return Guidance{
		FormulationPrinciples:  section("FORMULATION_PRINCIPLES"),
		MandatoryElements:      section("MANDATORY_ELEMENTS"),
		ThematicDirections:     section("THEMATIC_DIRECTIONS"),
		ComplexityLevel:        section("COMPLEXITY_LEVEL"),
		ContextualRequirements: section("CONTEXTUAL_REQUIREMENTS"),
		QualityCriteria:        section("QUALITY_CRITERIA"),
		Avoid:                  section("AVOID"),
		Raw:                    strings.TrimSpace(text),
	}
}
