package engine

import "github.com/me/studyplan/pkg/model"

// RankSeverity maps a set of conflicts to a single severity tier. The
// function is total: every input, including the empty list, maps to exactly
// one tier. Any time conflict dominates, then workload, then priority.
func RankSeverity(conflicts []model.Conflict) model.Severity {
	severity := model.SeverityNone
	for _, c := range conflicts {
		switch c.Type {
		case model.ConflictTypeTime:
			return model.SeverityHigh
		case model.ConflictTypeWorkload:
			severity = model.SeverityMedium
		case model.ConflictTypePriority:
			if severity == model.SeverityNone {
				severity = model.SeverityLow
			}
		}
	}
	return severity
}
