package model

// Tables resolves table names under the site's table prefix.
type Tables struct {
	Prefix string
}

func (t Tables) Posts() string             { return t.Prefix + "posts" }
func (t Tables) PostMeta() string          { return t.Prefix + "postmeta" }
func (t Tables) Terms() string             { return t.Prefix + "terms" }
func (t Tables) TermTaxonomy() string      { return t.Prefix + "term_taxonomy" }
func (t Tables) TermRelationships() string { return t.Prefix + "term_relationships" }
func (t Tables) Order() string             { return t.Prefix + "order" }
func (t Tables) Subdistricts() string      { return t.Prefix + "vd_subdistricts" }
func (t Tables) City() string              { return t.Prefix + "vd_city" }
func (t Tables) WooOrderItems() string     { return t.Prefix + "woocommerce_order_items" }
func (t Tables) WooOrderItemMeta() string  { return t.Prefix + "woocommerce_order_itemmeta" }
