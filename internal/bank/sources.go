package bank

import (
	"fmt"
	"strings"

	"portfolio-quiz-service/internal/domain"
)

// MainSources builds the default source list for the Main test from the
// canonical section list. File names follow the site's convention:
// Apex_Fundamentals_&_OOP_Concepts_1.json and so on.
func MainSources(baseURL string) []Source {
	base := strings.TrimSuffix(baseURL, "/")
	sections := domain.MainSections()
	sources := make([]Source, 0, len(sections))
	for _, s := range sections {
		file := fmt.Sprintf("%s_%d.json", strings.ReplaceAll(s.Title, " ", "_"), s.Number)
		sources = append(sources, Source{
			Number:   s.Number,
			Title:    s.Title,
			Location: base + "/" + file,
		})
	}
	return sources
}

// MiniSource is the single-bank location for the Mini test.
func MiniSource(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/mini.json"
}
