package diagnostic

// Grade is the final mark derived from the overall percentage.
type Grade struct {
	Label       string
	Description string
	Percentage  float64
}

// Grade labels, by descending percentage band.
const (
	GradeExcellent    = "excellent"
	GradeGood         = "good"
	GradeSatisfactory = "satisfactory"
	GradePoor         = "poor"
	GradeCritical     = "critical"
)

// DetermineGrade maps a percentage onto the fixed grade bands.
func DetermineGrade(percentage float64) Grade {
	g := Grade{Percentage: percentage}
	switch {
	case percentage >= 90:
		g.Label = GradeExcellent
		g.Description = "Outstanding command of the subject."
	case percentage >= 75:
		g.Label = GradeGood
		g.Description = "Solid command of the subject with minor gaps."
	case percentage >= 60:
		g.Label = GradeSatisfactory
		g.Description = "Adequate command of the subject with notable gaps."
	case percentage >= 40:
		g.Label = GradePoor
		g.Description = "Weak command of the subject; substantial review needed."
	default:
		g.Label = GradeCritical
		g.Description = "Fundamental gaps; the material needs to be relearned."
	}
	return g
}
