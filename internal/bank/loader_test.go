package bank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-quiz-service/internal/domain"
)

func TestLoadSectionsSkipsFailingSources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/s1.json":
			fmt.Fprint(w, `{"section":"Apex","questions":[
				{"question":"q1","options":{"A":"1","B":"2"},"answer":"A"},
				{"question":"q2","options":{"A":"1","B":"2"},"answer":"B"}]}`)
		case "/s2.json":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/s3.json":
			fmt.Fprint(w, `not json`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := NewLoader(NewHTTPFetcher(server.Client()))
	loader.logf = func(string, ...any) {}

	bank, err := loader.LoadSections(context.Background(), []Source{
		{Number: 1, Title: "Apex", Location: server.URL + "/s1.json"},
		{Number: 2, Title: "Triggers", Location: server.URL + "/s2.json"},
		{Number: 3, Title: "Async", Location: server.URL + "/s3.json"},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(bank.Sections) != 1 {
		t.Fatalf("expected 1 surviving section, got %d", len(bank.Sections))
	}
	if bank.Sections[0].Number != 1 || len(bank.Sections[0].Questions) != 2 {
		t.Fatalf("unexpected surviving section: %+v", bank.Sections[0])
	}
}

func TestLoadSectionsAllFailedIsEmptyBank(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	loader := NewLoader(NewHTTPFetcher(server.Client()))
	loader.logf = func(string, ...any) {}

	_, err := loader.LoadSections(context.Background(), []Source{
		{Number: 1, Location: server.URL + "/s1.json"},
		{Number: 2, Location: server.URL + "/s2.json"},
	})
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestLoadSectionsDropsMalformedQuestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"section":"Apex","questions":[
			{"question":"good","options":{"A":"1","B":"2"},"answer":"A"},
			{"question":"bad answer","options":{"A":"1","B":"2"},"answer":"Z"},
			{"question":"one option","options":{"A":"1"},"answer":"A"}]}`)
	}))
	defer server.Close()

	loader := NewLoader(NewHTTPFetcher(server.Client()))
	loader.logf = func(string, ...any) {}

	bank, err := loader.LoadSections(context.Background(), []Source{{Number: 1, Location: server.URL + "/s1.json"}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := bank.Sections[0].Questions; len(got) != 1 || got[0].Prompt != "good" {
		t.Fatalf("expected only the valid question to survive, got %+v", got)
	}
}

func TestLoadSectionsOrderedByNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"questions":[{"question":"q","options":{"A":"1","B":"2"},"answer":"A"}]}`)
	}))
	defer server.Close()

	loader := NewLoader(NewHTTPFetcher(server.Client()))

	bank, err := loader.LoadSections(context.Background(), []Source{
		{Number: 3, Location: server.URL + "/a.json"},
		{Number: 1, Location: server.URL + "/b.json"},
		{Number: 2, Location: server.URL + "/c.json"},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i, want := range []int{1, 2, 3} {
		if bank.Sections[i].Number != want {
			t.Fatalf("section %d has number %d, want %d", i, bank.Sections[i].Number, want)
		}
	}
	// untitled sources fall back to the section ordinal
	if bank.Sections[0].Title != "Section 1" {
		t.Fatalf("fallback title = %q", bank.Sections[0].Title)
	}
}

func TestLoadFlatMiniBank(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title":"Mini Quiz","levels":{
			"level1":{"questions":[{"question":"q1","options":{"A":"1","B":"2"},"answer":"A"}]},
			"level2":{"questions":[{"question":"q2","options":{"A":"1","B":"2"},"answer":"B"}]}}}`)
	}))
	defer server.Close()

	loader := NewLoader(NewHTTPFetcher(server.Client()))

	bank, err := loader.LoadFlat(context.Background(), server.URL+"/mini.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bank.TestType != domain.TestTypeMini {
		t.Fatalf("test type = %q", bank.TestType)
	}
	if bank.QuestionCount() != 2 {
		t.Fatalf("expected levels concatenated into 2 questions, got %d", bank.QuestionCount())
	}
	if bank.Sections[0].Title != "Mini Quiz" {
		t.Fatalf("title = %q", bank.Sections[0].Title)
	}
}

func TestMainSourcesUseCanonicalNames(t *testing.T) {
	sources := MainSources("https://example.com/assets/json/")
	if len(sources) != 18 {
		t.Fatalf("expected 18 sources, got %d", len(sources))
	}
	if sources[0].Location != "https://example.com/assets/json/Apex_Fundamentals_&_OOP_Concepts_1.json" {
		t.Fatalf("unexpected first location: %s", sources[0].Location)
	}
	if sources[17].Location != "https://example.com/assets/json/Advanced_Topics_18.json" {
		t.Fatalf("unexpected last location: %s", sources[17].Location)
	}
}
