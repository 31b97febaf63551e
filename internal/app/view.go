package app

import (
	"portfolio-quiz-service/internal/attempt"
)

// QuestionView is the read-only slice of attempt state the presentation
// adapter renders: current question, progress, score. Option original keys
// ride along so the adapter can echo the participant's selection back, but
// the correct key itself never appears here.
type QuestionView struct {
	Index        int          `json:"index"`
	Total        int          `json:"total"`
	Score        int          `json:"score"`
	SectionTitle string       `json:"sectionTitle"`
	QuestionID   string       `json:"questionId"`
	Prompt       string       `json:"prompt"`
	Options      []OptionView `json:"options"`
}

// OptionView is one displayed choice.
type OptionView struct {
	Label string `json:"label"`
	Key   string `json:"key"`
	Text  string `json:"text"`
}

func currentView(a *attempt.Attempt) (QuestionView, bool) {
	current, ok := a.Current()
	if !ok {
		return QuestionView{}, false
	}
	index, total := a.Progress()

	options := make([]OptionView, 0, len(current.Options))
	for _, opt := range current.Options {
		options = append(options, OptionView{Label: opt.Label, Key: opt.OrigKey, Text: opt.Text})
	}
	return QuestionView{
		Index:        index,
		Total:        total,
		Score:        a.Score(),
		SectionTitle: current.Question.SectionTitle,
		QuestionID:   current.Question.ID,
		Prompt:       current.Question.Prompt,
		Options:      options,
	}, true
}
