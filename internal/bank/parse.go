package bank

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"portfolio-quiz-service/internal/domain"
)

// Source documents come in two shapes: a flat `questions` array, or a
// `levels` mapping whose values each carry a `questions` array. Field names
// inside a question are inconsistent across banks, so normalization applies
// a fixed precedence: question > prompt for the text, answer > Answer >
// correct for the key.

type sectionDocument struct {
	Section string                `json:"section"`
	Title   string                `json:"title"`
	Levels  map[string]levelGroup `json:"levels"`
	Flat    []json.RawMessage     `json:"questions"`
}

type levelGroup struct {
	Questions []json.RawMessage `json:"questions"`
}

// promptKeys and answerKeys are checked in order; the first present wins.
var (
	promptKeys = []string{"question", "prompt"}
	answerKeys = []string{"answer", "Answer", "correct"}
)

// parseDocument extracts the section title and the raw question entries,
// concatenating every nested level group.
func parseDocument(data []byte) (string, []json.RawMessage, error) {
	var doc sectionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("parse section document: %w", err)
	}

	title := doc.Section
	if title == "" {
		title = doc.Title
	}

	if len(doc.Levels) > 0 {
		var raw []json.RawMessage
		for _, level := range doc.Levels {
			raw = append(raw, level.Questions...)
		}
		return title, raw, nil
	}
	return title, doc.Flat, nil
}

// normalizeQuestion converts one raw entry into a domain.Question, enforcing
// the load-time invariants: 2 to 8 options and a correct key that is one of
// them. ordinal is the entry's position, used when the source has no id.
func normalizeQuestion(raw json.RawMessage, sectionNumber int, sectionTitle string, ordinal int) (domain.Question, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Question{}, fmt.Errorf("question entry is not an object: %w", err)
	}

	prompt := firstString(fields, promptKeys)
	if prompt == "" {
		return domain.Question{}, fmt.Errorf("question %d has no prompt", ordinal)
	}

	var options map[string]string
	if rawOpts, ok := fields["options"]; ok {
		if err := json.Unmarshal(rawOpts, &options); err != nil {
			return domain.Question{}, fmt.Errorf("question %d has malformed options: %w", ordinal, err)
		}
	}
	if len(options) < 2 {
		return domain.Question{}, fmt.Errorf("question %d has %d options, need at least 2", ordinal, len(options))
	}
	if len(options) > 8 {
		return domain.Question{}, fmt.Errorf("question %d has %d options, max is 8", ordinal, len(options))
	}

	answer := firstString(fields, answerKeys)
	if answer == "" {
		return domain.Question{}, fmt.Errorf("question %d has no answer key", ordinal)
	}
	if _, ok := options[answer]; !ok {
		return domain.Question{}, fmt.Errorf("question %d answer %q is not an option key", ordinal, answer)
	}

	return domain.Question{
		ID:            questionID(fields, ordinal),
		SectionNumber: sectionNumber,
		SectionTitle:  sectionTitle,
		Prompt:        prompt,
		Options:       options,
		CorrectKey:    answer,
		Explanation:   stringField(fields, "explanation"),
	}, nil
}

// questionID reads the source id (string or number) or falls back to the
// positional ordinal.
func questionID(fields map[string]json.RawMessage, ordinal int) string {
	raw, ok := fields["id"]
	if !ok {
		return strconv.Itoa(ordinal)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil && n.String() != "" {
		return n.String()
	}
	return strconv.Itoa(ordinal)
}

func firstString(fields map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		if v := stringField(fields, key); v != "" {
			return v
		}
	}
	return ""
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
