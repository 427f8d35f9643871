// README: Keyword fallbacks for shopping, product, activity, and yes/no detection.
package clarifier

import "strings"

// Vocabulary is the keyword configuration backing the fallback detectors. It
// is immutable after construction; callers that need different lists build
// their own and pass it to NewServiceWithVocabulary.
//
// The keyword sets back up the model-based detection. They run on every turn
// and catch what the model misses or when the model call fails.
type Vocabulary struct {
	Activities            []string
	NonShoppingActivities []string
	ShoppingKeywords      []string
	ProductKeywords       []string
	Brands                []string
	Affirmatives          []string
	Negatives             []string
	GenericTravelWords    map[string]bool
}

// DefaultVocabulary returns the production keyword sets.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Activities: []string{
			"hiking", "cycling", "swimming", "surfing", "skiing", "snowboarding",
			"shopping", "sightseeing", "dining", "beach", "museum", "concert",
			"wedding", "conference", "meeting", "business", "festival", "party",
			"spa", "wellness", "yoga", "golf", "tennis", "running", "jogging",
			"camping", "fishing", "climbing", "diving", "snorkeling", "kayaking",
			"sailing", "boating", "photography", "wine tasting", "cooking class",
			"tour", "adventure", "nightlife", "clubbing", "theater", "opera",
			"trekking", "cooking", "gym", "gaming", "travel",
		},
		NonShoppingActivities: []string{
			"hiking", "trekking", "running", "dining", "cooking", "camping", "gym",
			"gaming", "photography", "swimming", "cycling", "surfing", "skiing",
			"snowboarding", "yoga", "golf", "tennis", "jogging", "fishing",
			"climbing", "diving", "snorkeling", "kayaking", "sailing", "boating",
			"wine tasting", "cooking class", "tour", "adventure", "nightlife",
			"clubbing", "theater", "opera", "sightseeing", "beach", "museum",
			"concert", "wedding", "conference", "meeting", "business", "festival",
			"party", "spa", "wellness",
		},
		ShoppingKeywords: []string{
			"shopping", "buy", "purchase", "order", "get a product",
			"looking to buy", "need to purchase", "want to buy",
			"buying", "purchasing", "shop", "need some",
			"looking for", "want some", "get some",
		},
		ProductKeywords: []string{
			// Footwear
			"shoes", "shoe", "sneakers", "boots", "sandals", "loafers", "heels", "flats",
			// Outerwear
			"jacket", "jackets", "coat", "coats", "blazer", "blazers", "parka", "windbreaker",
			// Bags
			"backpack", "backpacks", "bag", "bags", "luggage", "suitcase", "duffel", "tote",
			// Tops
			"shirt", "shirts", "t-shirt", "t-shirts", "blouse", "top", "tops",
			// Bottoms
			"pants", "trousers", "jeans", "shorts", "leggings", "chinos",
			// Dresses
			"dress", "dresses", "skirt", "skirts", "gown",
			// Knitwear
			"sweater", "sweaters", "hoodie", "hoodies", "cardigan", "pullover",
			// Accessories
			"hat", "hats", "cap", "caps", "beanie", "sunglasses", "glasses",
			"watch", "watches", "jewelry", "accessories", "scarf", "scarves", "gloves",
			// Weather gear
			"umbrella", "raincoat", "poncho", "waterproof",
			// Swimwear
			"swimsuit", "swimwear", "bikini", "trunks",
			// Formal
			"suit", "suits", "tuxedo", "formal wear",
			// Activewear
			"activewear", "sportswear", "athleisure", "workout clothes",
			// Outdoor
			"hiking gear", "camping gear", "travel gear", "outdoor gear",
			// Cold weather
			"thermal", "thermals", "base layer", "fleece", "down jacket", "puffer", "insulated",
		},
		Brands: []string{
			"riviera atelier", "montclair house", "maison signature",
			"aurelle couture", "golden atelier", "veloce luxe", "luxe & co.",
			"evangeline", "opal essence", "bellezza studio", "seaside atelier",
			"sable & stone",
		},
		Affirmatives: []string{
			"yes", "yeah", "sure", "okay", "ok", "go ahead", "proceed", "yep",
			"yup", "absolutely", "definitely", "please", "of course",
			"sounds good", "let's do it", "yes please", "sure thing",
		},
		Negatives: []string{
			"no", "nope", "nah", "not really", "no thanks", "no thank you",
			"i'm good", "skip", "not interested", "don't need",
		},
		// Words that sit in the activities list but describe the trip itself,
		// not an activity worth asking follow-ups about.
		GenericTravelWords: map[string]bool{
			"travel": true, "travelling": true, "traveling": true, "trip": true,
			"vacation": true, "holiday": true, "visit": true, "visiting": true,
			"going": true,
		},
	}
}

func (v Vocabulary) detectShoppingIntent(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range v.ShoppingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (v Vocabulary) detectProductMention(query string) string {
	lower := strings.ToLower(query)
	for _, p := range v.ProductKeywords {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return ""
}

func (v Vocabulary) detectNonShoppingActivity(query string) string {
	lower := strings.ToLower(query)
	for _, a := range v.NonShoppingActivities {
		if strings.Contains(lower, a) {
			return a
		}
	}
	return ""
}

func (v Vocabulary) extractActivities(query string) []string {
	lower := strings.ToLower(query)
	var found []string
	for _, a := range v.Activities {
		if strings.Contains(lower, a) {
			found = append(found, a)
		}
	}
	return found
}

func (v Vocabulary) extractBrand(query string) string {
	lower := strings.ToLower(strings.TrimSpace(query))
	for _, b := range v.Brands {
		if strings.Contains(lower, b) {
			return titleCase(b)
		}
	}
	return ""
}

func (v Vocabulary) isAffirmativeResponse(query string) bool {
	lower := strings.ToLower(strings.TrimSpace(query))
	for _, aff := range v.Affirmatives {
		if strings.Contains(lower, aff) {
			return true
		}
	}
	return false
}

func (v Vocabulary) isNegativeResponse(query string) bool {
	lower := strings.ToLower(strings.TrimSpace(query))
	for _, neg := range v.Negatives {
		if strings.Contains(lower, neg) {
			return true
		}
	}
	return false
}

func (v Vocabulary) isGenericTravelWord(word string) bool {
	return v.GenericTravelWords[strings.ToLower(word)]
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
