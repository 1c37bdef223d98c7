// Package catalog holds the per-style table of trade candidates.
//
// The table is read from YAML: a mapping from style name to an ordered list of
// setups. The embedded candidates.yaml is used unless a file is loaded instead,
// which is the seam for swapping static setups for analysed ones.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed candidates.yaml
var embedded []byte

type rawCandidate struct {
	Symbol     string   `yaml:"symbol"`
	Direction  string   `yaml:"direction"`
	Entry      string   `yaml:"entry"`
	StopLoss   string   `yaml:"stop_loss"`
	TakeProfit string   `yaml:"take_profit"`
	Score      int      `yaml:"score"`
	Signals    []string `yaml:"signals"`
}

// Catalog is an immutable, ordered candidate table.
type Catalog struct {
	byStyle map[models.Style][]models.Candidate
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the embedded table.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads a catalog table from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML and validates every candidate.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]rawCandidate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byStyle: make(map[models.Style][]models.Candidate, len(raw))}
	for key, entries := range raw {
		style, err := models.ParseStyle(key)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byStyle[style]; dup {
			return nil, fmt.Errorf("style %s is listed more than once", strings.ToLower(string(style)))
		}
		list := make([]models.Candidate, 0, len(entries))
		for i, r := range entries {
			cand, err := r.candidate(style)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", strings.ToLower(string(style)), i, err)
			}
			list = append(list, cand)
		}
		c.byStyle[style] = list
	}
	return c, nil
}

func (r rawCandidate) candidate(style models.Style) (models.Candidate, error) {
	entry, err := decimal.NewFromString(r.Entry)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("entry %q: %w", r.Entry, err)
	}
	stop, err := decimal.NewFromString(r.StopLoss)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("stop_loss %q: %w", r.StopLoss, err)
	}
	target, err := decimal.NewFromString(r.TakeProfit)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("take_profit %q: %w", r.TakeProfit, err)
	}

	c := models.Candidate{
		Symbol:       strings.ToUpper(strings.TrimSpace(r.Symbol)),
		Style:        style,
		Direction:    models.Direction(strings.ToUpper(strings.TrimSpace(r.Direction))),
		Entry:        entry,
		StopLoss:     stop,
		TakeProfit:   target,
		Signals:      append([]string(nil), r.Signals...),
		QualityScore: r.Score,
	}
	if err := c.Validate(); err != nil {
		return models.Candidate{}, err
	}
	return c, nil
}

// CandidatesFor returns the first min(count, available) candidates of style in declaration order.
func (c *Catalog) CandidatesFor(style models.Style, count int) []models.Candidate {
	list := c.byStyle[style]
	if count < 0 {
		count = 0
	}
	if count > len(list) {
		count = len(list)
	}
	out := make([]models.Candidate, count)
	copy(out, list[:count])
	return out
}

// Size is the number of candidates available for style.
func (c *Catalog) Size(style models.Style) int {
	return len(c.byStyle[style])
}
