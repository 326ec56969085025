// Package catalog holds the static bank of hint templates. The bank is loaded
// and validated once at startup; a catalog that fails validation or leaves a
// (category, level) bucket empty is a configuration error and aborts boot.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/hint-engine-api/internal/models"
)

//go:embed catalog.json
var defaultCatalog []byte

//go:embed schema.json
var catalogSchema []byte

// Variant is one concrete hint template for a (category, level) bucket.
type Variant struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Level    int    `json:"level"`
	Text     string `json:"text"`
}

type bucketKey struct {
	category string
	level    int
}

// Bank is the read-only mapping from (category, level) to an ordered,
// non-empty list of variants.
type Bank struct {
	buckets map[bucketKey][]Variant
	byID    map[string]Variant
}

// Load builds the bank from the embedded catalog, or from the file at path
// when it is non-empty. The raw document is checked against the catalog JSON
// Schema and then coverage-checked before any variant becomes visible.
func Load(path string) (*Bank, error) {
	raw := defaultCatalog
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read hint catalog: %w", err)
		}
		raw = data
	}

	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("hint catalog rejected by schema: %w", err)
	}

	var doc map[string]map[string][]struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode hint catalog: %w", err)
	}

	bank := &Bank{
		buckets: make(map[bucketKey][]Variant),
		byID:    make(map[string]Variant),
	}
	for category, levels := range doc {
		for levelKey, entries := range levels {
			level := int(levelKey[0] - '0')
			key := bucketKey{category: category, level: level}
			for _, entry := range entries {
				if _, dup := bank.byID[entry.ID]; dup {
					return nil, fmt.Errorf("hint catalog: duplicate variant id %q", entry.ID)
				}
				variant := Variant{ID: entry.ID, Category: category, Level: level, Text: entry.Text}
				bank.buckets[key] = append(bank.buckets[key], variant)
				bank.byID[entry.ID] = variant
			}
			// Map iteration order is random; the bank promises a stable order.
			sort.Slice(bank.buckets[key], func(i, j int) bool {
				return bank.buckets[key][i].ID < bank.buckets[key][j].ID
			})
		}
	}

	if err := bank.checkCoverage(); err != nil {
		return nil, err
	}
	return bank, nil
}

func validateSchema(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog-schema.json", bytes.NewReader(catalogSchema)); err != nil {
		return err
	}
	schema, err := compiler.Compile("catalog-schema.json")
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

func (b *Bank) checkCoverage() error {
	for _, category := range models.Categories {
		for level := models.MinLevel; level <= models.MaxLevel; level++ {
			if len(b.buckets[bucketKey{category: category, level: level}]) == 0 {
				return fmt.Errorf("hint catalog: no variants for category %q level %d", category, level)
			}
		}
	}
	return nil
}

// Variants returns the ordered variant list for a (category, level) bucket.
// The returned slice must not be mutated.
func (b *Bank) Variants(category string, level int) []Variant {
	return b.buckets[bucketKey{category: category, level: level}]
}

// Lookup resolves a variant by id.
func (b *Bank) Lookup(id string) (Variant, bool) {
	variant, ok := b.byID[id]
	return variant, ok
}
