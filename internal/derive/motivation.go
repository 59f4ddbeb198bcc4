package derive

import (
	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/progress"
)

// MotivationalMessage picks a line for the dashboard based on overall
// completion. Passing the final exam overrides the percentage bands.
func MotivationalMessage(ps *model.ProgressState, cat *catalog.Catalog) string {
	if ps.FinalExam.Passed != nil && *ps.FinalExam.Passed {
		return "You did it. Course complete!"
	}

	switch pct := progress.OverallCompletionPercentage(ps, cat); {
	case pct == 0:
		return "Every expert was once a beginner. Start your first lesson!"
	case pct < 25:
		return "Great start. Keep the momentum going."
	case pct < 50:
		return "You're building real knowledge now."
	case pct < 75:
		return "Past the halfway mark. Stay with it."
	case pct < 100:
		return "The finish line is in sight."
	default:
		return "All lessons done. Time to prove it in the final exam."
	}
}
