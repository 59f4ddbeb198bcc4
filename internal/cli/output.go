package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/derive"
	"github.com/tobyward/pace/internal/gamify"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/progress"
)

// moduleStatus is the per-module slice of the status report.
type moduleStatus struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Unlocked        bool   `json:"unlocked" yaml:"unlocked"`
	Complete        bool   `json:"complete" yaml:"complete"`
	LessonsDone     int    `json:"lessons_done" yaml:"lessons_done"`
	LessonsTotal    int    `json:"lessons_total" yaml:"lessons_total"`
	BestScore       int    `json:"best_score" yaml:"best_score"`
	Attempts        int    `json:"attempts" yaml:"attempts"`
	Assessment      string `json:"assessment" yaml:"assessment"`
	HoursUntilResit int    `json:"hours_until_resit,omitempty" yaml:"hours_until_resit,omitempty"`
}

// statusReport is the full renderable snapshot produced by pace status.
type statusReport struct {
	LearnerID  string          `json:"learner_id,omitempty" yaml:"learner_id,omitempty"`
	Completion int             `json:"completion_pct" yaml:"completion_pct"`
	Next       progress.Action `json:"next" yaml:"next"`
	Modules    []moduleStatus  `json:"modules" yaml:"modules"`

	TotalXP       int `json:"total_xp" yaml:"total_xp"`
	Level         int `json:"level" yaml:"level"`
	DailyXP       int `json:"daily_xp" yaml:"daily_xp"`
	DailyGoal     int `json:"daily_goal" yaml:"daily_goal"`
	Streak        int `json:"streak" yaml:"streak"`
	LongestStreak int `json:"longest_streak" yaml:"longest_streak"`
	Freezes       int `json:"streak_freezes" yaml:"streak_freezes"`

	Badges     []derive.Badge `json:"badges" yaml:"badges"`
	Nudges     []derive.Nudge `json:"nudges" yaml:"nudges"`
	Strength   map[string]int `json:"lesson_strength,omitempty" yaml:"lesson_strength,omitempty"`
	Motivation string         `json:"motivation" yaml:"motivation"`
}

// buildStatusReport derives the report from session snapshots.
func (s *session) buildStatusReport() statusReport {
	ps := s.coord.Progress()
	gs := s.coord.Gamification()
	now := s.coord.Now()
	today := dates.DateOf(now)

	report := statusReport{
		LearnerID:     s.coord.LearnerID(),
		Completion:    progress.OverallCompletionPercentage(ps, s.cat),
		Next:          progress.NextRecommendedAction(ps, s.cat),
		TotalXP:       gs.TotalXP,
		Level:         gs.Level,
		DailyXP:       gamify.DailyXP(gs, today),
		DailyGoal:     gs.DailyGoal,
		Streak:        gs.StreakCount,
		LongestStreak: gs.LongestStreak,
		Freezes:       gs.StreakFreezesAvailable,
		Badges:        derive.Badges(ps, gs, s.cat, today),
		Nudges:        derive.Nudges(ps, gs, s.cat, now),
		Strength:      gamify.CurrentStrengths(gs, today),
		Motivation:    derive.MotivationalMessage(ps, s.cat),
	}

	for _, mod := range s.cat.Modules {
		mp := ps.Lookup(mod.ID)

		assessment := "not taken"
		if mp.GQA.Passed != nil {
			if *mp.GQA.Passed {
				assessment = "passed"
			} else {
				assessment = "failed"
			}
		}

		report.Modules = append(report.Modules, moduleStatus{
			ID:              mod.ID,
			Title:           mod.Title,
			Unlocked:        progress.IsModuleUnlocked(ps, s.cat, mod.ID),
			Complete:        progress.IsModuleComplete(mp),
			LessonsDone:     countCatalogLessons(mp, mod.Lessons),
			LessonsTotal:    len(mod.Lessons),
			BestScore:       mp.Practice.BestScore,
			Attempts:        mp.Practice.Attempts,
			Assessment:      assessment,
			HoursUntilResit: progress.HoursUntilResit(mp, now),
		})
	}

	return report
}

func countCatalogLessons(mp *model.ModuleProgress, lessons []string) int {
	n := 0
	for _, id := range lessons {
		if mp.Lessons[id].Completed {
			n++
		}
	}
	return n
}

// render writes the report in the selected format.
func (r statusReport) render(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		return yaml.NewEncoder(w).Encode(r)
	default:
		r.renderText(w)
		return nil
	}
}

// renderText is the human-readable report. Numbers go through a
// message.Printer so large XP totals get digit grouping.
func (r statusReport) renderText(w io.Writer) {
	p := message.NewPrinter(language.English)

	who := "anonymous"
	if r.LearnerID != "" {
		who = r.LearnerID
	}
	fmt.Fprintf(w, "Learner: %s\n", who)
	fmt.Fprintf(w, "Course:  %d%% complete\n", r.Completion)
	p.Fprintf(w, "XP:      %d total (level %d), %d/%d today\n", r.TotalXP, r.Level, r.DailyXP, r.DailyGoal)
	fmt.Fprintf(w, "Streak:  %d day(s), longest %d, freezes %d\n", r.Streak, r.LongestStreak, r.Freezes)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Modules:")
	for _, m := range r.Modules {
		marker := " "
		switch {
		case m.Complete:
			marker = "x"
		case !m.Unlocked:
			marker = "-"
		}
		fmt.Fprintf(w, "  [%s] %-18s lessons %d/%d  practice %d%% (%d attempts)  assessment %s",
			marker, m.Title, m.LessonsDone, m.LessonsTotal, m.BestScore, m.Attempts, m.Assessment)
		if m.HoursUntilResit > 0 {
			fmt.Fprintf(w, " (resit in %dh)", m.HoursUntilResit)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Next up: %s\n", describeAction(r.Next))

	earned := make([]string, 0, len(r.Badges))
	for _, b := range r.Badges {
		if b.Earned {
			earned = append(earned, b.Title)
		}
	}
	if len(earned) > 0 {
		fmt.Fprintf(w, "Badges:  %s\n", strings.Join(earned, ", "))
	}

	for _, n := range r.Nudges {
		prefix := "note"
		if n.Severity == derive.SeverityWarn {
			prefix = "heads up"
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, n.Message)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Motivation)
}

func describeAction(a progress.Action) string {
	switch a.Kind {
	case progress.ActionLesson:
		return fmt.Sprintf("lesson %s in %s", a.LessonID, a.ModuleID)
	case progress.ActionPractice:
		return fmt.Sprintf("practice quiz for %s", a.ModuleID)
	case progress.ActionAssessment:
		return fmt.Sprintf("assessment for %s", a.ModuleID)
	case progress.ActionFinalExam:
		return "the final exam"
	default:
		return "nothing - course complete"
	}
}

// printAwards surfaces any pending XP popup and milestone after a mutation.
func printAwards(w io.Writer, s *session) {
	if popup, ok := s.coord.ConsumeXpPopup(); ok {
		fmt.Fprintf(w, "+%d XP: %s\n", popup.Amount, popup.Label)
	}
	if id, ok := s.coord.ConsumePendingMilestone(); ok {
		if m, found := gamify.MilestoneByID(id); found {
			fmt.Fprintf(w, "Milestone unlocked - %s: %s\n", m.Title, m.Message)
		} else if id == gamify.DailyGoalMilestoneID {
			fmt.Fprintln(w, "Daily goal reached!")
		}
	}
}
