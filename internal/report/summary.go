package report

import (
	"fmt"
	"sort"

	"portfolio-quiz-service/internal/attempt"
	"portfolio-quiz-service/internal/domain"
)

// attemptLabelLayout formats the composite attempt label:
// "Teja - 2025-11-10 - Main".
const attemptLabelLayout = "2006-01-02"

// BuildSummary converts a terminal attempt into its canonical, serializable
// result. totalQuestions is the assigned count, including on Quit, so a
// partial attempt still reports against the full sampled sequence.
//
// For Main tests the breakdown enumerates every canonical section sorted by
// number, with zero correct/total for sections absent from the attempt;
// sections the attempt saw that are not canonical are appended afterward,
// also sorted by number. Mini tests carry no breakdown.
func BuildSummary(a *attempt.Attempt, canonical []domain.SectionInfo) domain.ResultSummary {
	_, total := a.Progress()
	summary := domain.ResultSummary{
		Name:           attemptLabel(a),
		TestType:       a.TestType(),
		Status:         string(a.Status()),
		TotalQuestions: total,
		TotalCorrect:   a.Score(),
		TotalScore:     a.Score(),
	}

	if a.TestType() == domain.TestTypeMain {
		summary.Sections = buildSections(a, canonical)
	}
	return summary
}

func attemptLabel(a *attempt.Attempt) string {
	return fmt.Sprintf("%s - %s - %s", a.Participant(), a.StartedAt().Format(attemptLabelLayout), a.TestType())
}

func buildSections(a *attempt.Attempt, canonical []domain.SectionInfo) []domain.SectionResult {
	correct := a.PerSectionCorrect()
	assigned := a.PerSectionAssigned()
	titles := a.SectionTitles()

	known := make(map[int]bool, len(canonical))
	results := make([]domain.SectionResult, 0, len(canonical))
	for _, info := range canonical {
		known[info.Number] = true
		title := titles[info.Number]
		if title == "" {
			title = info.Title
		}
		results = append(results, domain.SectionResult{
			Number:  info.Number,
			Title:   title,
			Correct: correct[info.Number],
			Total:   assigned[info.Number],
		})
	}

	var extras []domain.SectionResult
	for number, title := range titles {
		if known[number] {
			continue
		}
		extras = append(extras, domain.SectionResult{
			Number:  number,
			Title:   title,
			Correct: correct[number],
			Total:   assigned[number],
		})
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i].Number < extras[j].Number })

	return append(results, extras...)
}
