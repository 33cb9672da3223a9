package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CatalogDocument is the import/export transfer format.
type CatalogDocument struct {
	Categories []CategoryRecord `json:"categories" yaml:"categories"`
	Products   []ProductRecord  `json:"products" yaml:"products"`
}

type CategoryRecord struct {
	Name       string `json:"name" yaml:"name"`
	Slug       string `json:"slug,omitempty" yaml:"slug,omitempty"`
	ParentName string `json:"parent,omitempty" yaml:"parent,omitempty"`
	GroupName  string `json:"group_name,omitempty" yaml:"group_name,omitempty"`
	Image      string `json:"image,omitempty" yaml:"image,omitempty"`
}

type ProductRecord struct {
	Name             string            `json:"name" yaml:"name"`
	Slug             string            `json:"slug,omitempty" yaml:"slug,omitempty"`
	ShortDescription string            `json:"short_description,omitempty" yaml:"short_description,omitempty"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty"`
	ProductType      string            `json:"product_type,omitempty" yaml:"product_type,omitempty"`
	CategoryNames    []string          `json:"category_names,omitempty" yaml:"category_names,omitempty"`
	VendorUsername   string            `json:"vendor_username,omitempty" yaml:"vendor_username,omitempty"`
	RegularPrice     Price             `json:"regular_price" yaml:"regular_price"`
	SalePrice        Price             `json:"sale_price" yaml:"sale_price"`
	StockQuantity    int               `json:"stock_quantity" yaml:"stock_quantity"`
	IsActive         *bool             `json:"is_active,omitempty" yaml:"is_active,omitempty"`
	IsFeatured       bool              `json:"is_featured,omitempty" yaml:"is_featured,omitempty"`
	MetaTitle        string            `json:"meta_title,omitempty" yaml:"meta_title,omitempty"`
	MetaDescription  string            `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	MetaKeywords     string            `json:"meta_keywords,omitempty" yaml:"meta_keywords,omitempty"`
	Images           []ImageRecord     `json:"images,omitempty" yaml:"images,omitempty"`
	Variations       []VariationRecord `json:"variations,omitempty" yaml:"variations,omitempty"`
}

type ImageRecord struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Path       string `json:"path" yaml:"path"`
	AltText    string `json:"alt_text,omitempty" yaml:"alt_text,omitempty"`
	IsFeatured bool   `json:"is_featured,omitempty" yaml:"is_featured,omitempty"`
	Order      int    `json:"order" yaml:"order"`
}

type VariationRecord struct {
	Size   string `json:"size,omitempty" yaml:"size,omitempty"`
	Weight string `json:"weight,omitempty" yaml:"weight,omitempty"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty"`
	Price  Price  `json:"price" yaml:"price"`
	Stock  int    `json:"stock" yaml:"stock"`
}

// Price is an optional decimal amount that reads from JSON numbers or
// strings and YAML scalars, and writes null when unset.
type Price struct {
	decimal.NullDecimal
}

func NewPrice(d decimal.Decimal) Price { return Price{decimal.NewNullDecimal(d)} }

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(p.Decimal.StringFixed(2)), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		*p = Price{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("price %q: %w", s, err)
	}
	*p = NewPrice(d)
	return nil
}

func (p Price) MarshalYAML() (any, error) {
	if !p.Valid {
		return nil, nil
	}
	return p.Decimal.StringFixed(2), nil
}

func (p *Price) UnmarshalYAML(n *yaml.Node) error {
	if n.Tag == "!!null" || strings.TrimSpace(n.Value) == "" {
		*p = Price{}
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(n.Value))
	if err != nil {
		return fmt.Errorf("price %q: %w", n.Value, err)
	}
	*p = NewPrice(d)
	return nil
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// DecodeDocument parses data as YAML when name ends in .yaml or .yml and
// as JSON otherwise.
func DecodeDocument(data []byte, name string) (*CatalogDocument, error) {
	var doc CatalogDocument
	if isYAML(name) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", name, err)
		}
		return &doc, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json %s: %w", name, err)
	}
	return &doc, nil
}

// EncodeDocument renders doc in the format implied by name.
func EncodeDocument(doc *CatalogDocument, name string) ([]byte, error) {
	if isYAML(name) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return json.MarshalIndent(doc, "", "  ")
}
