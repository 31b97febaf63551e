package sampler

import (
	"math/rand"
	"time"

	"portfolio-quiz-service/internal/domain"
)

// optionLabels are the sequential display labels assigned after shuffling.
var optionLabels = []string{"A", "B", "C", "D"}

// Sampler draws random question subsets and randomizes displayed option
// order. The rand source is injected so tests can be deterministic.
type Sampler struct {
	rnd *rand.Rand
}

func New(rnd *rand.Rand) *Sampler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rnd: rnd}
}

// Sample returns min(count, len(questions)) questions drawn uniformly at
// random without replacement. The input slice is never mutated.
func (s *Sampler) Sample(questions []domain.Question, count int) []domain.Question {
	shuffled := make([]domain.Question, len(questions))
	copy(shuffled, questions)
	s.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count >= len(shuffled) {
		return shuffled
	}
	return shuffled[:count]
}

// RandomizeOptions shuffles the question's option entries, caps the display
// at MaxDisplayedOptions, and assigns sequential labels in post-shuffle
// order. The correct key is force-included: when the shuffle pushes it past
// the cap, it replaces the last kept slot, so the question always stays
// answerable.
func (s *Sampler) RandomizeOptions(q domain.Question) []domain.DisplayedOption {
	entries := make([]domain.DisplayedOption, 0, len(q.Options))
	for key, text := range q.Options {
		entries = append(entries, domain.DisplayedOption{OrigKey: key, Text: text})
	}
	s.rnd.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})

	limit := domain.MaxDisplayedOptions
	if limit > len(entries) {
		limit = len(entries)
	}

	correctAt := -1
	for i, e := range entries {
		if e.OrigKey == q.CorrectKey {
			correctAt = i
			break
		}
	}
	if correctAt >= limit {
		entries[limit-1] = entries[correctAt]
	}

	displayed := entries[:limit]
	for i := range displayed {
		displayed[i].Label = optionLabels[i]
	}
	return displayed
}

// BuildMain assembles the Main test question sequence: perSection questions
// sampled from every non-empty section, kept grouped in section order, each
// with one fixed displayed-option ordering.
func (s *Sampler) BuildMain(bank domain.Bank, perSection int) []domain.SampledQuestion {
	var out []domain.SampledQuestion
	for _, section := range bank.Sections {
		if len(section.Questions) == 0 {
			continue
		}
		for _, q := range s.Sample(section.Questions, perSection) {
			out = append(out, domain.SampledQuestion{Question: q, Options: s.RandomizeOptions(q)})
		}
	}
	return out
}

// BuildMini assembles the Mini test sequence: count questions sampled across
// the whole bank.
func (s *Sampler) BuildMini(bank domain.Bank, count int) []domain.SampledQuestion {
	var pool []domain.Question
	for _, section := range bank.Sections {
		pool = append(pool, section.Questions...)
	}
	sampled := s.Sample(pool, count)
	out := make([]domain.SampledQuestion, 0, len(sampled))
	for _, q := range sampled {
		out = append(out, domain.SampledQuestion{Question: q, Options: s.RandomizeOptions(q)})
	}
	return out
}
