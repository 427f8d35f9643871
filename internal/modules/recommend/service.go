// README: Recommendation pipeline: semantic search, database fallbacks, narration.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"packwise/internal/ai"
	"packwise/internal/modules/catalog"
	"packwise/internal/modules/trip"
	"packwise/internal/rag"
	"packwise/pkg/logger"
)

// Searcher is the semantic index surface the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, query string, k int, filters rag.Filters) ([]rag.Match, error)
	Len() int
}

// Catalog is the database search surface used when the index misses.
type Catalog interface {
	FilterSearch(ctx context.Context, q catalog.FilterQuery) ([]catalog.Product, error)
	BrandSearch(ctx context.Context, brand string, limit int) ([]catalog.Product, error)
	CategorySearch(ctx context.Context, interests []string, budgetMax float64, limit int) ([]catalog.Product, error)
	KeywordSearch(ctx context.Context, keywords []string, budgetMax float64, limit int) ([]catalog.Product, error)
}

// Narrator writes the final recommendation narrative.
type Narrator interface {
	Explain(ctx context.Context, req ai.ExplainRequest) (string, error)
}

type Service struct {
	index   Searcher
	catalog Catalog
	llm     Narrator
}

func NewService(index Searcher, cat Catalog, llm Narrator) *Service {
	return &Service{index: index, catalog: cat, llm: llm}
}

// Recommend runs the full pipeline: semantic search over the vector index,
// database fallbacks when the index misses, the mandatory size filter,
// diversification, and finally the narrated explanation. A run with zero
// surviving products returns the canonical no-match message, never an error.
func (s *Service) Recommend(ctx context.Context, ectx EnrichedContext, numResults int) ([]catalog.Product, string, error) {
	if numResults <= 0 {
		numResults = 5
	}
	// Over-fetch so the size filter and diversification have room to work.
	pool := numResults * 3

	products := s.semanticSearch(ctx, ectx, pool)
	if len(products) == 0 {
		var err error
		products, err = s.dbFallback(ctx, ectx, pool)
		if err != nil {
			return nil, "", fmt.Errorf("failed to search products: %w", err)
		}
	}

	products = sizeFilter(products, ectx.Intent.Size)
	products = diversify(products, numResults)

	if len(products) == 0 {
		return nil, NoMatchMessage, nil
	}

	explanation := s.explain(ctx, ectx, products)
	return products, explanation, nil
}

func (s *Service) semanticSearch(ctx context.Context, ectx EnrichedContext, k int) []catalog.Product {
	if s.index == nil || s.index.Len() == 0 {
		return nil
	}
	matches, err := s.index.Search(ctx, buildSearchQuery(ectx), k, buildFilters(ectx))
	if err != nil {
		logx.Warn().Err(err).Msg("semantic search failed, falling back to database")
		return nil
	}
	products := make([]catalog.Product, 0, len(matches))
	for _, m := range matches {
		products = append(products, matchToProduct(m))
	}
	return products
}

// dbFallback mirrors the semantic query as SQL filters, then progressively
// loosens: explicit brand retry, then the customer's category interests, then
// raw keywords.
func (s *Service) dbFallback(ctx context.Context, ectx EnrichedContext, limit int) ([]catalog.Product, error) {
	products, err := s.catalog.FilterSearch(ctx, catalog.FilterQuery{
		Brand:           ectx.Intent.Brand,
		Category:        ectx.Intent.Category,
		Subcategory:     ectx.Intent.Subcategory,
		BudgetMin:       ectx.Intent.BudgetMin,
		BudgetMax:       ectx.Intent.BudgetMax,
		Gender:          ectx.Intent.Gender,
		PreferredBrands: ectx.Customer.Preferences.PreferredBrands,
		Limit:           limit,
	})
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return products, nil
	}

	if ectx.Intent.Brand != "" {
		return s.catalog.BrandSearch(ctx, ectx.Intent.Brand, limit)
	}

	if interests := ectx.Customer.Preferences.CategoriesInterested; len(interests) > 0 {
		products, err = s.catalog.CategorySearch(ctx, interests, ectx.Intent.BudgetMax, limit)
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			return products, nil
		}
	}

	if len(ectx.Intent.Keywords) > 0 {
		return s.catalog.KeywordSearch(ctx, ectx.Intent.Keywords, ectx.Intent.BudgetMax, limit)
	}
	return nil, nil
}

func matchToProduct(m rag.Match) catalog.Product {
	return catalog.Product{
		ID:          m.Meta.ID,
		Name:        m.Meta.Name,
		Description: m.Content,
		Category:    m.Meta.Category,
		Subcategory: m.Meta.Subcategory,
		Price:       m.Meta.Price,
		Brand:       m.Meta.Brand,
		Gender:      m.Meta.Gender,
		ImageURL:    m.Meta.ImageURL,
		InStock:     m.Meta.InStock,
		Rating:      m.Meta.Rating,
	}
}

func (s *Service) explain(ctx context.Context, ectx EnrichedContext, products []catalog.Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%s by %s - $%.2f (%s)", p.Name, p.Brand, p.Price, p.Category))
	}

	req := ai.ExplainRequest{
		Query:          ectx.Intent.RawQuery,
		Destination:    ectx.Intent.Location,
		TravelDate:     ectx.Intent.Occasion,
		TripDays:       tripDuration(ectx),
		WeatherSummary: weatherSummary(ectx.Environment),
		EventsSummary:  eventsSummary(ectx.Environment),
		CustomerStyle:  strings.Join(ectx.Customer.StyleProfile.PreferredStyles, ", "),
		ProductLines:   lines,
	}

	explanation, err := s.llm.Explain(ctx, req)
	if err != nil {
		logx.Warn().Err(err).Msg("narrative generation failed, using fallback explanation")
		return fallbackExplanation(ectx, products)
	}
	return explanation
}

// tripDuration counts inclusive trip days. Multi-segment trips sum each leg;
// anything unparseable counts as a single day.
func tripDuration(ectx EnrichedContext) int {
	if segs := ectx.Intent.TripSegments; len(segs) > 1 {
		total := 0
		for _, seg := range segs {
			total += inclusiveDays(seg.StartDate, seg.EndDate)
		}
		return total
	}
	occasion := strings.TrimPrefix(ectx.Intent.Occasion, "travel on ")
	return inclusiveDays(trip.SplitDateRange(occasion))
}

func inclusiveDays(startDate, endDate string) int {
	start, err1 := time.Parse("2006-01-02", startDate)
	end, err2 := time.Parse("2006-01-02", endDate)
	if err1 != nil || err2 != nil {
		return 1
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// weatherSummary covers the primary destination, plus each leg of a
// multi-destination trip.
func weatherSummary(env trip.Environment) string {
	var parts []string
	if w := env.Weather; w.Description != "" {
		parts = append(parts, fmt.Sprintf("%.0f°C, %s", w.Temperature, w.Description))
	}
	for _, seg := range env.Segments {
		if seg.Weather.Description == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %.0f°C, %s", seg.Destination, seg.Weather.Temperature, seg.Weather.Description))
	}
	return strings.Join(parts, "; ")
}

func eventsSummary(env trip.Environment) string {
	var titles []string
	for _, e := range env.LocalEvents {
		titles = append(titles, e.Title)
		if len(titles) == 5 {
			break
		}
	}
	for _, seg := range env.Segments {
		for _, e := range seg.LocalEvents {
			titles = append(titles, fmt.Sprintf("%s (%s)", e.Title, seg.Destination))
		}
	}
	return strings.Join(titles, "; ")
}

func fallbackExplanation(ectx EnrichedContext, products []catalog.Product) string {
	destination := ectx.Intent.Location
	if destination == "" {
		destination = "your destination"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Travel Recommendations for %s\n\n", destination)

	if w := ectx.Environment.Weather; w.Description != "" {
		b.WriteString("### Weather Overview\n")
		fmt.Fprintf(&b, "Expected temperature: %.0f°C with %s.\n\n", w.Temperature, strings.ToLower(w.Description))
	}

	b.WriteString("### Recommended Products\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- **%s** by %s - $%.2f\n", p.Name, p.Brand, p.Price)
	}
	b.WriteString("\nThese items have been selected to match your trip requirements. Each product is in stock and ready to ship.")
	return b.String()
}
