// README: Search query and filter construction from the enriched context.
package recommend

import (
	"strings"

	"packwise/internal/rag"
)

// buildSearchQuery folds intent, weather, and customer taste into one
// semantic search string. Cold destinations pull warm-weather terms into the
// query and hot ones pull light clothing terms, so the vector search leans
// toward climate-appropriate products without any hard filter.
func buildSearchQuery(ectx EnrichedContext) string {
	var parts []string

	if ectx.Intent.Brand != "" {
		parts = append(parts, "brand "+ectx.Intent.Brand)
	}
	if ectx.Intent.RawQuery != "" {
		parts = append(parts, ectx.Intent.RawQuery)
	}
	if ectx.Intent.Category != "" {
		parts = append(parts, ectx.Intent.Category)
	}
	if ectx.Intent.Subcategory != "" {
		parts = append(parts, ectx.Intent.Subcategory)
	}
	if ectx.Intent.Occasion != "" {
		parts = append(parts, "for "+ectx.Intent.Occasion)
	}
	if ectx.Intent.Style != "" {
		parts = append(parts, ectx.Intent.Style)
	}
	if len(ectx.Intent.ColorPreferences) > 0 {
		parts = append(parts, strings.Join(ectx.Intent.ColorPreferences, " "))
	}

	if temp := ectx.Environment.Weather.Temperature; ectx.Environment.Weather.Description != "" {
		switch {
		case temp < 10:
			parts = append(parts, "warm winter cold weather")
		case temp > 25:
			parts = append(parts, "light summer breathable")
		}
	}

	parts = append(parts, ectx.Customer.StyleProfile.PreferredStyles...)
	parts = append(parts, firstN(ectx.Customer.Preferences.PreferredBrands, 3)...)
	parts = append(parts, firstN(ectx.Customer.Preferences.CategoriesInterested, 3)...)

	return strings.Join(parts, " ")
}

func buildFilters(ectx EnrichedContext) rag.Filters {
	return rag.Filters{
		BudgetMin: ectx.Intent.BudgetMin,
		BudgetMax: ectx.Intent.BudgetMax,
		Category:  ectx.Intent.Category,
		Gender:    ectx.Intent.Gender,
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
