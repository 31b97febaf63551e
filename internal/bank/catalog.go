package bank

import (
	"context"

	"portfolio-quiz-service/internal/domain"
)

// Catalog adapts the Loader to the per-test-type BankLoader interface the
// caching repositories wrap: Main resolves to the multi-section source list,
// Mini to the single bank document.
type Catalog struct {
	loader       *Loader
	mainSources  []Source
	miniLocation string
}

func NewCatalog(loader *Loader, mainSources []Source, miniLocation string) *Catalog {
	return &Catalog{loader: loader, mainSources: mainSources, miniLocation: miniLocation}
}

func (c *Catalog) LoadBank(ctx context.Context, testType domain.TestType) (domain.Bank, error) {
	switch testType {
	case domain.TestTypeMain:
		return c.loader.LoadSections(ctx, c.mainSources)
	case domain.TestTypeMini:
		return c.loader.LoadFlat(ctx, c.miniLocation)
	default:
		return domain.Bank{}, domain.ErrBankNotFound
	}
}
