package bank

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"portfolio-quiz-service/internal/domain"
)

// Fetcher retrieves one raw source document by location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Source names one section's document.
type Source struct {
	Number   int
	Title    string
	Location string
}

// Loader fetches and normalizes question bank sources. A source that fails to
// fetch or parse is skipped with a warning; a question that fails validation
// is dropped. Only a fully empty result is an error.
type Loader struct {
	fetcher Fetcher
	logf    func(format string, args ...any)
}

func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher, logf: log.Printf}
}

// LoadSections fetches every source concurrently and merges the survivors
// into a Main bank, ordered by section number. Completion order does not
// matter; the sampler shuffles anyway.
func (l *Loader) LoadSections(ctx context.Context, sources []Source) (domain.Bank, error) {
	var (
		mu       sync.Mutex
		sections []domain.SectionGroup
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			group, err := l.loadSource(ctx, src)
			if err != nil {
				l.logf("bank: skipping section %d (%s): %v", src.Number, src.Location, err)
				return nil
			}
			mu.Lock()
			sections = append(sections, group)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Bank{}, err
	}

	sort.Slice(sections, func(i, j int) bool { return sections[i].Number < sections[j].Number })

	bank := domain.Bank{TestType: domain.TestTypeMain, Sections: sections}
	if bank.QuestionCount() == 0 {
		return domain.Bank{}, domain.ErrNoQuestions
	}
	return bank, nil
}

// LoadFlat fetches a single bank document for the Mini test.
func (l *Loader) LoadFlat(ctx context.Context, location string) (domain.Bank, error) {
	group, err := l.loadSource(ctx, Source{Number: 1, Location: location})
	if err != nil {
		return domain.Bank{}, err
	}
	if len(group.Questions) == 0 {
		return domain.Bank{}, domain.ErrNoQuestions
	}
	return domain.Bank{TestType: domain.TestTypeMini, Sections: []domain.SectionGroup{group}}, nil
}

func (l *Loader) loadSource(ctx context.Context, src Source) (domain.SectionGroup, error) {
	data, err := l.fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return domain.SectionGroup{}, err
	}

	title, raw, err := parseDocument(data)
	if err != nil {
		return domain.SectionGroup{}, err
	}
	if title == "" {
		title = src.Title
	}
	if title == "" {
		title = fmt.Sprintf("Section %d", src.Number)
	}

	questions := make([]domain.Question, 0, len(raw))
	for i, entry := range raw {
		q, err := normalizeQuestion(entry, src.Number, title, i+1)
		if err != nil {
			l.logf("bank: dropping question in section %d: %v", src.Number, err)
			continue
		}
		questions = append(questions, q)
	}

	return domain.SectionGroup{Number: src.Number, Title: title, Questions: questions}, nil
}

// HTTPFetcher retrieves source documents over HTTP, bypassing intermediary
// caches the way the site does with cache: no-store.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", location, res.StatusCode)
	}
	return io.ReadAll(res.Body)
}
