package insight

import (
	"context"
	"fmt"

	"github.com/me/studyplan/pkg/model"
)

// LocalGenerator summarizes a schedule without any external service. It is
// the default generator and the fallback when the AI generator fails.
type LocalGenerator struct{}

// NewLocalGenerator returns a LocalGenerator.
func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

// Generate computes aggregate figures from the plan itself.
func (g *LocalGenerator) Generate(_ context.Context, tasks []model.Task, entries []model.ScheduleEntry) (*model.Insights, error) {
	ins := &model.Insights{Source: "local"}

	perDay := make(map[string]int)
	for _, e := range entries {
		ins.TotalMinutes += e.DurationMinutes
		perDay[e.Date] += e.DurationMinutes
	}
	ins.Days = len(perDay)

	busiest := 0
	for date, mins := range perDay {
		if mins > busiest || (mins == busiest && (ins.BusiestDate == "" || date < ins.BusiestDate)) {
			busiest = mins
			ins.BusiestDate = date
		}
	}

	if len(entries) == 0 {
		ins.Summary = "Nothing to schedule."
		return ins, nil
	}

	ins.Summary = fmt.Sprintf("%d sessions covering %d tasks, %d minutes across %d day(s).",
		len(entries), len(tasks), ins.TotalMinutes, ins.Days)

	split := 0
	for _, e := range entries {
		if e.Parts > 1 && e.Part == 1 {
			split++
		}
	}
	if split > 0 {
		ins.Tips = append(ins.Tips, fmt.Sprintf("%d task(s) were split into shorter sessions; keep the parts on consecutive slots for momentum.", split))
	}
	if busiest > 6*60 {
		ins.Tips = append(ins.Tips, fmt.Sprintf("%s carries %d minutes of work; consider moving a session to a lighter day.", ins.BusiestDate, busiest))
	}

	return ins, nil
}
