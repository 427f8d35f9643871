// README: Fashion trends feed (static until a live source exists).
package trip

func FashionTrends() []string {
	return []string{
		"Sustainable fashion",
		"Oversized blazers",
		"Chunky sneakers",
		"Minimalist accessories",
		"Earth tones",
		"Athleisure wear",
	}
}
