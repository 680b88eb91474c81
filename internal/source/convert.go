package source

import (
	"StoreImport/internal/store"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToInt reads the leading integer of s the way a loose cast does: "2" and "2.9"
// give 2, garbage gives 0.
func ToInt(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, _ := strconv.ParseInt(s[:end], 10, 64)
	return n
}

// ToDecimal parses s as a number, 0 when it is not one.
func ToDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SnapshotProduct builds a Product from a stored record, its fields and its terms.
func SnapshotProduct(b store.Backend, r *store.Record, taxonomy string) (*Product, error) {
	fields, err := b.Fields(r.ID)
	if err != nil {
		return nil, err
	}
	terms, err := b.GetTerms(r.ID, taxonomy)
	if err != nil {
		return nil, err
	}
	thumb, err := b.FeaturedImage(r.ID)
	if err != nil {
		return nil, err
	}

	meta := make(map[string][]string, len(fields))
	for key, values := range fields {
		meta[key] = store.Flatten(values)
	}
	return &Product{
		ID:            r.ID,
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		Status:        r.Status,
		Author:        r.Author,
		Date:          r.Date,
		Meta:          meta,
		Rows:          fields,
		Terms:         terms,
		FeaturedImage: thumb,
	}, nil
}
