package app

import (
	"context"
	"log"

	"github.com/google/uuid"

	"portfolio-quiz-service/internal/attempt"
	"portfolio-quiz-service/internal/domain"
	"portfolio-quiz-service/internal/report"
	"portfolio-quiz-service/internal/sampler"
	"portfolio-quiz-service/internal/submit"
)

// BankRepository loads bank content (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, testType domain.TestType) (domain.Bank, error)
}

// AttemptStore abstracts how live attempts are stored (in-memory, Redis, etc).
type AttemptStore interface {
	Put(id string, a *attempt.Attempt)
	Get(id string) (*attempt.Attempt, bool)
	Delete(id string)
}

// Submitter posts a finished summary to the external result collaborator.
type Submitter interface {
	Post(ctx context.Context, summary domain.ResultSummary) (submit.Response, error)
}

// QuizService contains the quiz use cases: start an attempt over a freshly
// sampled question sequence, relay answer/advance/quit events into it, and
// build and submit the final summary.
//
// An attempt is driven by exactly one presentation adapter at a time, so the
// attempt itself is not locked; the store is.
type QuizService struct {
	banks     BankRepository
	attempts  AttemptStore
	sampler   *sampler.Sampler
	submitter Submitter
	canonical []domain.SectionInfo

	perSection int
	miniCount  int
}

func NewQuizService(banks BankRepository, attempts AttemptStore, smp *sampler.Sampler, submitter Submitter) *QuizService {
	if smp == nil {
		smp = sampler.New(nil)
	}
	return &QuizService{
		banks:      banks,
		attempts:   attempts,
		sampler:    smp,
		submitter:  submitter,
		canonical:  domain.MainSections(),
		perSection: domain.QuestionsPerSection,
		miniCount:  domain.MiniQuestionCount,
	}
}

// Start loads the bank for testType, samples the attempt's question sequence,
// and begins a new attempt for the participant. Returns the attempt ID and
// the first question view.
func (s *QuizService) Start(ctx context.Context, testType domain.TestType, participant string) (string, QuestionView, error) {
	bank, err := s.banks.GetBank(ctx, testType)
	if err != nil {
		return "", QuestionView{}, err
	}

	var questions []domain.SampledQuestion
	switch testType {
	case domain.TestTypeMini:
		questions = s.sampler.BuildMini(bank, s.miniCount)
	default:
		questions = s.sampler.BuildMain(bank, s.perSection)
	}
	if len(questions) == 0 {
		return "", QuestionView{}, domain.ErrNoQuestions
	}

	a, err := attempt.New(participant, testType, questions)
	if err != nil {
		return "", QuestionView{}, err
	}
	if err := a.Begin(); err != nil {
		return "", QuestionView{}, err
	}

	id := uuid.NewString()
	s.attempts.Put(id, a)

	view, _ := currentView(a)
	return id, view, nil
}

// Answer submits the selected original option key for the attempt's current
// question and returns the feedback to render.
func (s *QuizService) Answer(attemptID, origKey string) (domain.AnswerFeedback, error) {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.AnswerFeedback{}, domain.ErrAttemptNotFound
	}
	return a.SubmitAnswer(origKey)
}

// Advance moves the attempt to the next question. The second return is false
// once the attempt completed; the caller should then fetch the summary.
func (s *QuizService) Advance(attemptID string) (QuestionView, bool, error) {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return QuestionView{}, false, domain.ErrAttemptNotFound
	}
	if err := a.Advance(); err != nil {
		return QuestionView{}, false, err
	}
	view, ok := currentView(a)
	return view, ok, nil
}

// Quit ends the attempt early with the accumulated score standing.
func (s *QuizService) Quit(attemptID string) error {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return a.Quit()
}

// Summary builds the canonical result for a terminal attempt.
func (s *QuizService) Summary(attemptID string) (domain.ResultSummary, error) {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.ResultSummary{}, domain.ErrAttemptNotFound
	}
	if !a.Status().Terminal() {
		return domain.ResultSummary{}, domain.ErrNotAnswered
	}
	return report.BuildSummary(a, s.canonical), nil
}

// Submit posts the summary to the result collaborator. Failure is non-fatal:
// it is logged and returned, and the attempt stays available so the caller
// can re-invoke.
func (s *QuizService) Submit(ctx context.Context, attemptID string) (submit.Response, error) {
	summary, err := s.Summary(attemptID)
	if err != nil {
		return submit.Response{}, err
	}
	if s.submitter == nil {
		return submit.Response{}, nil
	}
	res, err := s.submitter.Post(ctx, summary)
	if err != nil {
		log.Printf("app: result submission failed for attempt %s: %v", attemptID, err)
		return res, err
	}
	return res, nil
}

// Close discards a finished attempt.
func (s *QuizService) Close(attemptID string) {
	s.attempts.Delete(attemptID)
}
