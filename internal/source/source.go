// Package source holds the normalized shape of legacy products and orders and the
// Adapter interface the Velocity and WooCommerce readers implement.
package source

import (
	"StoreImport/internal/store"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	Velocity    Kind = "velocity"
	WooCommerce Kind = "woocommerce"
)

// ParseKind maps "woocommerce" to WooCommerce and anything else to Velocity.
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), string(WooCommerce)) {
		return WooCommerce
	}
	return Velocity
}

func (k Kind) String() string {
	return string(k)
}

// ProductProvenanceKey is the target product field holding the source product id.
func (k Kind) ProductProvenanceKey() string {
	if k == WooCommerce {
		return "_woocommerce_original_id"
	}
	return "_velocity_original_id"
}

// OrderProvenanceKey is the target order field holding the source business key.
func (k Kind) OrderProvenanceKey() string {
	if k == WooCommerce {
		return "_woocommerce_original_order_id"
	}
	return "_velocity_original_invoice"
}

func (k Kind) CategoryTaxonomy() string {
	if k == WooCommerce {
		return store.TaxonomyWooCategory
	}
	return store.TaxonomyVelocityCategory
}

type Adapter interface {
	Kind() Kind
	Products() ([]*Product, error)
	HasOrders() (bool, error)
	Orders(limit, offset int) ([]*Order, error)
	// OrderPageSize of 0 means Orders returns everything in one call.
	OrderPageSize() int
}

type Product struct {
	ID            int64
	Title         string
	Content       string
	Excerpt       string
	Status        string
	Author        int64
	Date          string
	Meta          map[string][]string
	Rows          map[string][]store.MetaValue
	Terms         []*store.Term
	FeaturedImage int64
}

// Get returns the first value of key, "" when absent.
func (p *Product) Get(key string) string {
	if values := p.Meta[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func (p *Product) Values(key string) []string {
	return p.Meta[key]
}

// Unwrapped reads key with store.Unwrap when the stored rows are known.
func (p *Product) Unwrapped(key string) []string {
	if rows, ok := p.Rows[key]; ok {
		return store.Unwrap(rows)
	}
	return p.Meta[key]
}

type Customer struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
}

type Order struct {
	ID             int64
	Invoice        string
	Status         string
	Date           string
	BuyerID        int64
	Total          decimal.Decimal
	TrackingNumber string
	PaymentMethod  string
	Customer       Customer

	// Velocity only
	SubdistrictID  int64
	HasSubdistrict bool
	Shipping       string

	// WooCommerce only
	ShippingMethod string
	ShippingTotal  decimal.Decimal

	Items []*Item
}

// Item is a line of an order. Price is nil when the source carries no unit price.
type Item struct {
	ProductID   int64
	VariationID int64
	Quantity    int
	Price       *decimal.Decimal
	LineTotal   decimal.Decimal
	Note        *string
}

type Location struct {
	Subdistrict string
	City        string
	Province    string
	PostalCode  string
}
