// README: Category diversification and the mandatory size filter.
package recommend

import (
	"strings"

	"packwise/internal/modules/catalog"
)

// Per-subcategory cap during the first diversification pass. Two of a kind is
// acceptable; a page of five near-identical boots is not.
const subcategoryCap = 2

// diversify reorders the ranked candidates so the final list spans product
// families. First pass: dedupe by base name and cap each subcategory; second
// pass: top up with remaining unseen families when the cap left gaps.
func diversify(products []catalog.Product, k int) []catalog.Product {
	if len(products) == 0 {
		return nil
	}

	seenNames := make(map[string]bool)
	subCounts := make(map[string]int)
	var out []catalog.Product

	for _, p := range products {
		base := baseName(p.Name)
		sub := strings.ToLower(p.Subcategory)
		if seenNames[base] {
			continue
		}
		if sub != "" && subCounts[sub] >= subcategoryCap {
			continue
		}
		out = append(out, p)
		seenNames[base] = true
		if sub != "" {
			subCounts[sub]++
		}
		if len(out) >= k {
			return out
		}
	}

	for _, p := range products {
		base := baseName(p.Name)
		if seenNames[base] {
			continue
		}
		out = append(out, p)
		seenNames[base] = true
		if len(out) >= k {
			break
		}
	}
	return out
}

// baseName strips the variant suffix: "Montclair Dress — Black / M",
// "Montclair Dress - Size M", and "Montclair Dress (Size M)" are all the same
// family. A bare hyphen or parenthetical qualifier ("All-Weather Parka - Navy")
// is part of the name, not a variant marker.
func baseName(name string) string {
	base := name
	for _, sep := range []string{" — ", " - Size", " (Size"} {
		if i := strings.Index(base, sep); i >= 0 {
			base = base[:i]
		}
	}
	return strings.ToLower(strings.TrimSpace(base))
}

// sizeFilter keeps only products whose name variant matches the user's size
// exactly. Names without a " / SIZE" suffix pass through untouched; the size
// constraint is mandatory, not advisory.
func sizeFilter(products []catalog.Product, userSize string) []catalog.Product {
	size := strings.ToUpper(strings.TrimSpace(userSize))
	if size == "" {
		return products
	}
	var out []catalog.Product
	for _, p := range products {
		if !strings.Contains(p.Name, " / ") {
			out = append(out, p)
			continue
		}
		parts := strings.Split(p.Name, " / ")
		variant := strings.ToUpper(strings.TrimSpace(parts[len(parts)-1]))
		if variant == size {
			out = append(out, p)
		}
	}
	return out
}
