package attempt

import (
	"strings"
	"time"

	"portfolio-quiz-service/internal/domain"
)

// Attempt is one participant's run through a fixed, sampled question
// sequence. It is the only mutable piece of quiz state; the presentation
// adapter drives it through SubmitAnswer/Advance/Quit and reads everything
// else through accessors.
//
// Lifecycle: NotStarted -> InProgress -> {Completed, Quit}. Terminal states
// reject every mutator; a retake means building a fresh Attempt.
type Attempt struct {
	participant string
	testType    domain.TestType
	questions   []domain.SampledQuestion
	startedAt   time.Time
	now         func() time.Time

	status            domain.Status
	currentIndex      int
	score             int
	perSectionCorrect map[int]int
	answeredCurrent   bool
	records           []AnswerRecord
}

// AnswerRecord is the outcome of one answered question.
type AnswerRecord struct {
	QuestionIndex int
	SelectedKey   string
	Correct       bool
}

// New builds an attempt in NotStarted. The participant name must be
// non-empty and at least one question must be assigned.
func New(participant string, testType domain.TestType, questions []domain.SampledQuestion) (*Attempt, error) {
	return NewWithClock(participant, testType, questions, time.Now)
}

// NewWithClock is test-only for deterministic timestamps.
func NewWithClock(participant string, testType domain.TestType, questions []domain.SampledQuestion, now func() time.Time) (*Attempt, error) {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return nil, domain.ErrParticipantRequired
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return &Attempt{
		participant:       participant,
		testType:          testType,
		questions:         questions,
		now:               now,
		status:            domain.StatusNotStarted,
		perSectionCorrect: make(map[int]int),
	}, nil
}

// Begin transitions NotStarted -> InProgress and stamps the start time.
func (a *Attempt) Begin() error {
	if a.status != domain.StatusNotStarted {
		return a.transitionError()
	}
	a.status = domain.StatusInProgress
	a.startedAt = a.now()
	a.currentIndex = 0
	a.score = 0
	a.perSectionCorrect = make(map[int]int)
	a.records = a.records[:0]
	return nil
}

// SubmitAnswer scores origKey against the current question's correct key.
// Valid only in InProgress and once per question; an empty key means the
// participant never selected an option.
func (a *Attempt) SubmitAnswer(origKey string) (domain.AnswerFeedback, error) {
	if err := a.requireInProgress(); err != nil {
		return domain.AnswerFeedback{}, err
	}
	if origKey == "" {
		return domain.AnswerFeedback{}, domain.ErrSelectionRequired
	}
	if a.answeredCurrent {
		return domain.AnswerFeedback{}, domain.ErrAlreadyAnswered
	}

	current := a.questions[a.currentIndex]
	correct := origKey == current.Question.CorrectKey
	if correct {
		a.score++
		a.perSectionCorrect[current.Question.SectionNumber]++
	}
	a.answeredCurrent = true
	a.records = append(a.records, AnswerRecord{
		QuestionIndex: a.currentIndex,
		SelectedKey:   origKey,
		Correct:       correct,
	})

	feedback := domain.AnswerFeedback{
		Correct:     correct,
		Explanation: current.Question.Explanation,
		Score:       a.score,
	}
	if opt, ok := current.CorrectOption(); ok {
		feedback.CorrectLabel = opt.Label
		feedback.CorrectText = opt.Text
	}
	return feedback, nil
}

// Advance moves to the next question once the current one is answered;
// passing the last question completes the attempt.
func (a *Attempt) Advance() error {
	if err := a.requireInProgress(); err != nil {
		return err
	}
	if !a.answeredCurrent {
		return domain.ErrNotAnswered
	}
	a.currentIndex++
	a.answeredCurrent = false
	if a.currentIndex >= len(a.questions) {
		a.status = domain.StatusCompleted
	}
	return nil
}

// Quit ends the attempt early; the accumulated score stands.
func (a *Attempt) Quit() error {
	if err := a.requireInProgress(); err != nil {
		return err
	}
	a.status = domain.StatusQuit
	return nil
}

func (a *Attempt) requireInProgress() error {
	if a.status == domain.StatusInProgress {
		return nil
	}
	return a.transitionError()
}

func (a *Attempt) transitionError() error {
	if a.status.Terminal() {
		return domain.ErrAttemptFinished
	}
	return domain.ErrNotStarted
}

// Current returns the question under the cursor, or false once the attempt
// is terminal.
func (a *Attempt) Current() (domain.SampledQuestion, bool) {
	if a.status != domain.StatusInProgress || a.currentIndex >= len(a.questions) {
		return domain.SampledQuestion{}, false
	}
	return a.questions[a.currentIndex], true
}

// Progress reports the 0-based cursor and the assigned question count.
func (a *Attempt) Progress() (int, int) {
	return a.currentIndex, len(a.questions)
}

func (a *Attempt) Participant() string { return a.participant }

func (a *Attempt) TestType() domain.TestType { return a.testType }

func (a *Attempt) Status() domain.Status { return a.status }

func (a *Attempt) Score() int { return a.score }

func (a *Attempt) StartedAt() time.Time { return a.startedAt }

// PerSectionCorrect returns a copy of the per-section correct counts.
func (a *Attempt) PerSectionCorrect() map[int]int {
	out := make(map[int]int, len(a.perSectionCorrect))
	for k, v := range a.perSectionCorrect {
		out[k] = v
	}
	return out
}

// PerSectionAssigned counts how many questions each section contributed to
// this attempt.
func (a *Attempt) PerSectionAssigned() map[int]int {
	out := make(map[int]int)
	for _, q := range a.questions {
		out[q.Question.SectionNumber]++
	}
	return out
}

// SectionTitles maps section numbers to the titles seen in this attempt.
func (a *Attempt) SectionTitles() map[int]string {
	out := make(map[int]string)
	for _, q := range a.questions {
		if _, ok := out[q.Question.SectionNumber]; !ok {
			out[q.Question.SectionNumber] = q.Question.SectionTitle
		}
	}
	return out
}

// Records returns a copy of the answer history so far.
func (a *Attempt) Records() []AnswerRecord {
	out := make([]AnswerRecord, len(a.records))
	copy(out, a.records)
	return out
}
