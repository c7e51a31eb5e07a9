package compliance

import "policylens/internal/models"

// Band maps an overall score onto its discrete level. Non-decreasing
// in score by construction.
func Band(score float64) models.ComplianceLevel {
	switch {
	case score >= 0.8:
		return models.LevelCompliant
	case score >= 0.5:
		return models.LevelPartial
	case score >= 0.1:
		return models.LevelNonCompliant
	default:
		return models.LevelUnknown
	}
}

func bandWeight(level models.ComplianceLevel) float64 {
	switch level {
	case models.LevelCompliant:
		return 1.0
	case models.LevelPartial:
		return 0.6
	case models.LevelNonCompliant:
		return 0.2
	default:
		return 0.0
	}
}

// bandAt is the per-check variant: thresholds differ between checks
// but the mapping stays monotonic for any compliantAt > partialAt.
func bandAt(score, compliantAt, partialAt float64) models.ComplianceLevel {
	switch {
	case score >= compliantAt:
		return models.LevelCompliant
	case score >= partialAt:
		return models.LevelPartial
	default:
		return models.LevelNonCompliant
	}
}
