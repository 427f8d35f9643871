// README: Builds the product vector index from the in-stock catalog.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	"packwise/internal/ai"
	"packwise/internal/config"
	"packwise/internal/infra"
	"packwise/internal/modules/catalog"
	"packwise/internal/rag"
	"packwise/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logx.Init()

	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("config load failed")
	}

	ctx := context.Background()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logx.Fatal().Err(err).Msg("database init failed")
	}
	defer dbPool.Close()

	embedder, err := ai.NewGeminiEmbedder(ctx, cfg.AI.GeminiKey)
	if err != nil {
		logx.Fatal().Err(err).Msg("embedder init failed")
	}
	defer embedder.Close()

	products, err := catalog.NewStore(dbPool).ListInStock(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("catalog load failed")
	}
	if len(products) == 0 {
		logx.Fatal().Msg("no in-stock products to index")
	}

	docs := make([]rag.Document, 0, len(products))
	for _, p := range products {
		docs = append(docs, rag.Document{
			Content: productText(p),
			Meta: rag.DocMeta{
				ID:          p.ID,
				Name:        p.Name,
				Category:    p.Category,
				Subcategory: p.Subcategory,
				Price:       p.Price,
				Brand:       p.Brand,
				Gender:      p.Gender,
				ImageURL:    p.ImageURL,
				InStock:     p.InStock,
				Rating:      p.Rating,
			},
		})
	}

	store := rag.NewStore(cfg.Index.Path, embedder)
	logx.Info().Int("products", len(docs)).Msg("embedding catalog")
	if err := store.Build(ctx, docs); err != nil {
		logx.Fatal().Err(err).Msg("index build failed")
	}
	if err := store.Save(); err != nil {
		logx.Fatal().Err(err).Msg("index save failed")
	}
	logx.Info().Str("path", cfg.Index.Path).Int("documents", store.Len()).Msg("index written")
}

// productText is the text that gets embedded for a product. Keep it in sync
// with what the search query builder produces: plain descriptive terms.
func productText(p catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", p.Name)
	fmt.Fprintf(&b, "Category: %s - %s\n", p.Category, p.Subcategory)
	fmt.Fprintf(&b, "Description: %s\n", p.Description)
	fmt.Fprintf(&b, "Brand: %s\n", p.Brand)
	fmt.Fprintf(&b, "Price: $%.2f\n", p.Price)
	if len(p.Colors) > 0 {
		fmt.Fprintf(&b, "Colors: %s\n", strings.Join(p.Colors, ", "))
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	return b.String()
}
