// README: JSON-file vector index with cosine search and metadata filters.
package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Embedder turns text into a fixed-dimension vector. Satisfied by the Gemini
// embedding wrapper in production and by deterministic stubs in tests.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DocMeta is the filterable metadata stored alongside each document.
type DocMeta struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Price       float64 `json:"price"`
	Brand       string  `json:"brand"`
	Gender      string  `json:"gender"`
	ImageURL    string  `json:"image_url"`
	InStock     bool    `json:"in_stock"`
	Rating      float64 `json:"rating"`
}

// Document is one indexed entry: the embedded text plus its metadata.
type Document struct {
	Content string  `json:"content"`
	Meta    DocMeta `json:"meta"`
}

// Match is a search hit with its cosine similarity score.
type Match struct {
	Document
	Score float64 `json:"relevance_score"`
}

// Filters narrow a search by price, category, and gender. Zero values are
// inactive. Gender matches the target gender or "unisex".
type Filters struct {
	BudgetMin float64
	BudgetMax float64
	Category  string
	Gender    string
}

// Store holds the index in memory and persists it as a single JSON file with
// "documents" and "vectors" arrays. Vectors are unit-normalized at build time
// so cosine similarity reduces to a dot product.
type Store struct {
	path     string
	embedder Embedder
	docs     []Document
	vectors  [][]float32
}

var ErrNoIndex = errors.New("vector index not found")

func NewStore(path string, embedder Embedder) *Store {
	return &Store{path: path, embedder: embedder}
}

// Len returns the number of indexed documents.
func (s *Store) Len() int { return len(s.docs) }

type indexFile struct {
	Documents []Document  `json:"documents"`
	Vectors   [][]float32 `json:"vectors"`
}

// Load reads the index file from disk. ErrNoIndex when the file is absent.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoIndex
		}
		return fmt.Errorf("read index: %w", err)
	}
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse index: %w", err)
	}
	if len(f.Documents) != len(f.Vectors) {
		return fmt.Errorf("corrupt index: %d documents vs %d vectors", len(f.Documents), len(f.Vectors))
	}
	s.docs = f.Documents
	s.vectors = f.Vectors
	return nil
}

// Save writes the index atomically: temp file in the same directory, then
// rename over the target.
func (s *Store) Save() error {
	data, err := json.Marshal(indexFile{Documents: s.docs, Vectors: s.vectors})
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "index-*.json")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp index: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

// Build embeds every document and replaces the in-memory index. Call Save to
// persist the result.
func (s *Store) Build(ctx context.Context, docs []Document) error {
	vectors := make([][]float32, 0, len(docs))
	for _, d := range docs {
		vec, err := s.embedder.Embed(ctx, d.Content)
		if err != nil {
			return fmt.Errorf("embed %q: %w", d.Meta.Name, err)
		}
		vectors = append(vectors, normalize(vec))
	}
	s.docs = docs
	s.vectors = vectors
	return nil
}

// Search embeds the query and returns up to k filtered matches, best first.
// Candidates are scanned in score order with a 10*k scan cap so a restrictive
// filter cannot force a full-index pass on every request.
func (s *Store) Search(ctx context.Context, query string, k int, filters Filters) ([]Match, error) {
	if len(s.docs) == 0 {
		return nil, ErrNoIndex
	}
	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	qvec = normalize(qvec)

	order := make([]int, len(s.vectors))
	scores := make([]float64, len(s.vectors))
	for i, v := range s.vectors {
		order[i] = i
		scores[i] = dot(qvec, v)
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	scanCap := 10 * k
	if scanCap > len(order) {
		scanCap = len(order)
	}

	var matches []Match
	for _, idx := range order[:scanCap] {
		doc := s.docs[idx]
		if !filters.allow(doc.Meta) {
			continue
		}
		matches = append(matches, Match{Document: doc, Score: scores[idx]})
		if len(matches) >= k {
			break
		}
	}
	return matches, nil
}

func (f Filters) allow(m DocMeta) bool {
	if f.BudgetMax > 0 && m.Price > 0 && m.Price > f.BudgetMax {
		return false
	}
	if f.BudgetMin > 0 && m.Price > 0 && m.Price < f.BudgetMin {
		return false
	}
	if f.Category != "" && m.Category != "" &&
		!strings.Contains(strings.ToLower(m.Category), strings.ToLower(f.Category)) {
		return false
	}
	if f.Gender != "" && m.Gender != "" {
		g := strings.ToLower(m.Gender)
		if g != strings.ToLower(f.Gender) && g != "unisex" {
			return false
		}
	}
	return true
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
