package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-quiz-service/internal/app"
	"portfolio-quiz-service/internal/domain"
	"portfolio-quiz-service/internal/infra/memory"
	"portfolio-quiz-service/internal/sampler"
	"portfolio-quiz-service/internal/submit"
)

func TestStartSamplesTenWithAnswerableOptions(t *testing.T) {
	// one section, 12 questions, sampling 10
	service := newTestService(t, nil, bankWith(12))

	id, view, err := service.Start(context.Background(), domain.TestTypeMain, "Alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if id == "" {
		t.Fatalf("expected attempt id")
	}
	if view.Total != 10 {
		t.Fatalf("total = %d, want 10", view.Total)
	}

	seen := make(map[string]bool)
	for {
		if seen[view.QuestionID] {
			t.Fatalf("duplicate question %s", view.QuestionID)
		}
		seen[view.QuestionID] = true

		if len(view.Options) == 0 || len(view.Options) > domain.MaxDisplayedOptions {
			t.Fatalf("question %s shows %d options", view.QuestionID, len(view.Options))
		}
		hasCorrect := false
		for _, opt := range view.Options {
			if opt.Key == "B" { // fixture correct key
				hasCorrect = true
			}
		}
		if !hasCorrect {
			t.Fatalf("question %s displayed without its correct key", view.QuestionID)
		}

		if _, err := service.Answer(id, view.Options[0].Key); err != nil {
			t.Fatalf("answer: %v", err)
		}
		next, ok, err := service.Advance(id)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if !ok {
			break
		}
		view = next
	}
	if len(seen) != 10 {
		t.Fatalf("answered %d distinct questions, want 10", len(seen))
	}
}

func TestAllCorrectCompletes(t *testing.T) {
	service := newTestService(t, nil, bankWith(12))

	id, _, err := service.Start(context.Background(), domain.TestTypeMain, "Alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for {
		if _, err := service.Answer(id, "B"); err != nil {
			t.Fatalf("answer: %v", err)
		}
		_, ok, err := service.Advance(id)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if !ok {
			break
		}
	}

	summary, err := service.Summary(id)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Status != string(domain.StatusCompleted) {
		t.Fatalf("status = %q", summary.Status)
	}
	if summary.TotalCorrect != 10 || summary.TotalScore != 10 {
		t.Fatalf("totals = %d/%d, want 10/10", summary.TotalCorrect, summary.TotalScore)
	}
	if got := summary.Sections[0]; got.Correct != 10 || got.Total != 10 {
		t.Fatalf("section 1 = %+v", got)
	}
}

func TestQuitAfterThree(t *testing.T) {
	service := newTestService(t, nil, bankWith(12))

	id, _, err := service.Start(context.Background(), domain.TestTypeMain, "Alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	// 2 correct, 1 incorrect, quit
	for _, key := range []string{"B", "B", "A"} {
		if _, err := service.Answer(id, key); err != nil {
			t.Fatalf("answer: %v", err)
		}
		if _, _, err := service.Advance(id); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if err := service.Quit(id); err != nil {
		t.Fatalf("quit: %v", err)
	}

	summary, err := service.Summary(id)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Status != string(domain.StatusQuit) {
		t.Fatalf("status = %q", summary.Status)
	}
	if summary.TotalCorrect != 2 {
		t.Fatalf("correct = %d, want 2", summary.TotalCorrect)
	}
	if summary.TotalQuestions != 10 {
		t.Fatalf("totalQuestions = %d, want assigned 10", summary.TotalQuestions)
	}
}

func TestSummaryRequiresTerminalAttempt(t *testing.T) {
	service := newTestService(t, nil, bankWith(12))

	id, _, err := service.Start(context.Background(), domain.TestTypeMain, "Alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Summary(id); err == nil {
		t.Fatalf("expected error for in-progress summary")
	}
}

func TestStartEmptyBank(t *testing.T) {
	service := newTestService(t, nil, map[domain.TestType]domain.Bank{})

	_, _, err := service.Start(context.Background(), domain.TestTypeMain, "Alice")
	if !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

func TestSubmitPostsSummaryAndSurvivesFailure(t *testing.T) {
	fails := true
	var posts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		if fails {
			json.NewEncoder(w).Encode(submit.Response{Success: false, Message: "down"})
			return
		}
		json.NewEncoder(w).Encode(submit.Response{Success: true, RecordID: "rec-1"})
	}))
	defer server.Close()

	submitter := submit.NewClient(server.URL, server.Client())
	service := newTestService(t, submitter, bankWith(12))

	id, _, err := service.Start(context.Background(), domain.TestTypeMain, "Alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := service.Quit(id); err != nil {
		t.Fatalf("quit: %v", err)
	}

	if _, err := service.Submit(context.Background(), id); err == nil {
		t.Fatalf("expected submission failure")
	}

	// the attempt is still there; an explicit re-invoke succeeds
	fails = false
	res, err := service.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if res.RecordID != "rec-1" || posts != 2 {
		t.Fatalf("resubmit result %+v after %d posts", res, posts)
	}
}

func TestMiniAttemptSamplesAcrossBank(t *testing.T) {
	banks := map[domain.TestType]domain.Bank{
		domain.TestTypeMini: {
			TestType: domain.TestTypeMini,
			Sections: []domain.SectionGroup{{Number: 1, Title: "Mini Quiz", Questions: makeQuestions(1, "Mini Quiz", 80)}},
		},
	}
	service := newTestService(t, nil, banks)

	_, view, err := service.Start(context.Background(), domain.TestTypeMini, "Alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Total != domain.MiniQuestionCount {
		t.Fatalf("total = %d, want %d", view.Total, domain.MiniQuestionCount)
	}
}

func newTestService(t *testing.T, submitter app.Submitter, banks map[domain.TestType]domain.Bank) *app.QuizService {
	t.Helper()
	repo := memory.NewBankRepository(memory.NewStaticBankLoader(banks), 5*time.Minute)
	smp := sampler.New(rand.New(rand.NewSource(42)))
	return app.NewQuizService(repo, memory.NewAttemptStore(), smp, submitter)
}

func bankWith(n int) map[domain.TestType]domain.Bank {
	return map[domain.TestType]domain.Bank{
		domain.TestTypeMain: {
			TestType: domain.TestTypeMain,
			Sections: []domain.SectionGroup{{Number: 1, Title: "Apex Fundamentals & OOP Concepts", Questions: makeQuestions(1, "Apex Fundamentals & OOP Concepts", n)}},
		},
	}
}

func makeQuestions(section int, title string, n int) []domain.Question {
	out := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Question{
			ID:            fmt.Sprintf("s%d-q%d", section, i+1),
			SectionNumber: section,
			SectionTitle:  title,
			Prompt:        fmt.Sprintf("question %d", i+1),
			Options:       map[string]string{"A": "one", "B": "two", "C": "three", "D": "four"},
			CorrectKey:    "B",
		})
	}
	return out
}
