// Package menu loads the restaurant's menu catalog.
package menu

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Item struct {
	ID          int
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
}

type Catalog struct {
	items []Item
	byID  map[int]int
}

type catalogFile struct {
	Items []struct {
		ID          int    `yaml:"id"`
		Name        string `yaml:"name"`
		Category    string `yaml:"category"`
		Description string `yaml:"description"`
		Price       string `yaml:"price"`
	} `yaml:"items"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}

	c := &Catalog{
		items: make([]Item, 0, len(f.Items)),
		byID:  make(map[int]int, len(f.Items)),
	}
	for i, raw := range f.Items {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return nil, fmt.Errorf("menu item %d: name is required", i)
		}
		if _, dup := c.byID[raw.ID]; dup {
			return nil, fmt.Errorf("menu item %q: duplicate id %d", name, raw.ID)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(raw.Price))
		if err != nil {
			return nil, fmt.Errorf("menu item %q: price %q: %w", name, raw.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("menu item %q: price must not be negative", name)
		}

		c.byID[raw.ID] = len(c.items)
		c.items = append(c.items, Item{
			ID:          raw.ID,
			Name:        name,
			Category:    raw.Category,
			Description: raw.Description,
			Price:       price,
		})
	}
	return c, nil
}

// Items returns the menu in file order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Lookup(id int) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

func (c *Catalog) Candidate(id int) (cart.Candidate, bool) {
	it, ok := c.Lookup(id)
	if !ok {
		return cart.Candidate{}, false
	}
	return it.Candidate(), true
}

func (it Item) Candidate() cart.Candidate {
	return cart.Candidate{ID: it.ID, Name: it.Name, UnitPrice: it.Price}
}
