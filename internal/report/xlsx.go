// Package report renders a learner's snapshot into a spreadsheet for
// sharing outside the app.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/gamify"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/progress"
)

// WriteXLSX writes a two-sheet progress report: per-module detail and a
// gamification summary.
func WriteXLSX(path string, ps *model.ProgressState, gs *model.GamificationState, cat *catalog.Catalog, today dates.Date) error {
	f := excelize.NewFile()
	defer f.Close()

	const moduleSheet = "Modules"
	f.SetSheetName("Sheet1", moduleSheet)

	headers := []string{"Module", "Title", "Lessons Done", "Lessons Total", "Best Practice", "Attempts", "Assessment", "Complete"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("report header cell: %w", err)
		}
		if err := f.SetCellValue(moduleSheet, cell, h); err != nil {
			return fmt.Errorf("report header: %w", err)
		}
	}

	for row, mod := range cat.Modules {
		mp := ps.Lookup(mod.ID)

		assessment := "not taken"
		if mp.GQA.Passed != nil {
			if *mp.GQA.Passed {
				assessment = "passed"
			} else {
				assessment = "failed"
			}
		}

		values := []any{
			mod.ID,
			mod.Title,
			mp.LessonsCompleted(),
			len(mod.Lessons),
			mp.Practice.BestScore,
			mp.Practice.Attempts,
			assessment,
			progress.IsModuleComplete(mp),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("report cell: %w", err)
			}
			if err := f.SetCellValue(moduleSheet, cell, v); err != nil {
				return fmt.Errorf("report cell: %w", err)
			}
		}
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("report summary sheet: %w", err)
	}

	summary := [][2]any{
		{"Overall completion %", progress.OverallCompletionPercentage(ps, cat)},
		{"Total XP", gs.TotalXP},
		{"Level", gs.Level},
		{"Daily XP", gamify.DailyXP(gs, today)},
		{"Daily goal", gs.DailyGoal},
		{"Current streak", gs.StreakCount},
		{"Longest streak", gs.LongestStreak},
		{"Streak freezes", gs.StreakFreezesAvailable},
		{"Milestones achieved", len(gs.MilestonesAchieved)},
	}
	for i, pair := range summary {
		keyCell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("report summary cell: %w", err)
		}
		valCell, err := excelize.CoordinatesToCellName(2, i+1)
		if err != nil {
			return fmt.Errorf("report summary cell: %w", err)
		}
		if err := f.SetCellValue(summarySheet, keyCell, pair[0]); err != nil {
			return fmt.Errorf("report summary: %w", err)
		}
		if err := f.SetCellValue(summarySheet, valCell, pair[1]); err != nil {
			return fmt.Errorf("report summary: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report %s: %w", path, err)
	}
	return nil
}
