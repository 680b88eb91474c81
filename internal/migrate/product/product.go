// Package product turns legacy products into store products.
package product

import (
	"StoreImport/internal/migrate/category"
	"StoreImport/internal/migrate/outcome"
	"StoreImport/internal/source"
	"StoreImport/internal/store"
	"StoreImport/pkg/logging"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

const (
	FieldSKU            = "_store_sku"
	FieldPrice          = "_store_price"
	FieldSalePrice      = "_store_sale_price"
	FieldMinOrder       = "_store_min_order"
	FieldWeight         = "_store_weight_kg"
	FieldStock          = "_store_stock"
	FieldLabel          = "_store_label"
	FieldFlashsaleUntil = "_store_flashsale_until"
	FieldProductType    = "_store_product_type"
	FieldOptionName     = "_store_option_name"
	FieldOptions        = "_store_options"
	FieldOption2Name    = "_store_option2_name"
	FieldAdvanced       = "_store_advanced_options"
	FieldGallery        = "_store_gallery_ids"

	ProductTypePhysical = "physical"

	flashsaleLayout = "2006-01-02T15:04"
)

type fieldMapping struct {
	from, to string
}

var velocityFields = []fieldMapping{
	{"sku", FieldSKU},
	{"harga", FieldPrice},
	{"harga_promo", FieldSalePrice},
	{"minorder", FieldMinOrder},
	{"berat", FieldWeight},
	{"stok", FieldStock},
	{"label", FieldLabel},
}

var wooFields = []fieldMapping{
	{"_sku", FieldSKU},
	{"_price", FieldPrice},
	{"_sale_price", FieldSalePrice},
	{"_weight", FieldWeight},
}

type Transformer struct {
	backend store.Backend
	kind    source.Kind
	terms   *category.Reconciler
	gallery *GalleryResolver
}

func New(backend store.Backend, kind source.Kind) *Transformer {
	return &Transformer{
		backend: backend,
		kind:    kind,
		terms:   category.NewReconciler(backend, kind.CategoryTaxonomy(), store.TaxonomyStoreCategory),
		gallery: NewGalleryResolver(backend),
	}
}

// Lookup returns the store product migrated from the source product oldID, 0 if none.
func (t *Transformer) Lookup(oldID int64) (int64, error) {
	r, err := t.backend.FindOne(store.TypeStoreProduct, store.WithMeta(t.kind.ProductProvenanceKey(), oldID))
	if err != nil {
		return 0, errors.Wrapf(err, "failed lookup product %d", oldID)
	}
	if r == nil {
		return 0, nil
	}
	return r.ID, nil
}

// MigrateOne creates the store product for p unless one already exists.
func (t *Transformer) MigrateOne(p *source.Product) (int64, outcome.Outcome, error) {
	logger := logging.GetLogger().WithField("product", p.ID)
	logger.Debug("Start MigrateOne")
	defer logger.Debug("End MigrateOne")

	existing, err := t.Lookup(p.ID)
	if err != nil {
		return 0, outcome.Failed, err
	}
	if existing > 0 {
		logger.Debugf("Already migrated as %d", existing)
		return existing, outcome.Skipped, nil
	}

	id, err := t.backend.CreateRecord(store.TypeStoreProduct, store.RecordFields{
		Title:   p.Title,
		Content: p.Content,
		Excerpt: p.Excerpt,
		Status:  p.Status,
		Author:  p.Author,
		Date:    p.Date,
	})
	if err != nil {
		if errors.Cause(err) == store.ErrCreateFailed {
			logger.Warnf("Product not created: %v", err)
			return 0, outcome.Failed, nil
		}
		return 0, outcome.Failed, errors.Wrapf(err, "failed create product for %d", p.ID)
	}

	steps := []func(int64, *source.Product) error{
		t.copyFields,
		t.copyTerms,
		t.copyImages,
	}
	for _, step := range steps {
		if err := step(id, p); err != nil {
			return id, outcome.Migrated, errors.Wrapf(err, "failed migrate product %d", p.ID)
		}
	}
	logger.Debugf("Migrated as %d", id)
	return id, outcome.Migrated, nil
}

func (t *Transformer) copyFields(id int64, p *source.Product) error {
	mappings := velocityFields
	if t.kind == source.WooCommerce {
		mappings = wooFields
	}
	for _, m := range mappings {
		if v := p.Get(m.from); v != "" {
			if err := t.backend.SetField(id, m.to, v); err != nil {
				return err
			}
		}
	}

	if t.kind == source.WooCommerce {
		if p.Get("_manage_stock") == "yes" {
			if stock := p.Get("_stock"); stock != "" {
				if err := t.backend.SetField(id, FieldStock, stock); err != nil {
					return err
				}
			}
		}
	} else {
		if err := t.copyVelocityExtras(id, p); err != nil {
			return err
		}
	}

	if err := t.backend.SetField(id, FieldProductType, ProductTypePhysical); err != nil {
		return err
	}
	return t.backend.SetField(id, t.kind.ProductProvenanceKey(), p.ID)
}

func (t *Transformer) copyVelocityExtras(id int64, p *source.Product) error {
	if v := p.Get("flashsale"); truthy(v) {
		if until, ok := formatFlashsale(v); ok {
			if err := t.backend.SetField(id, FieldFlashsaleUntil, until); err != nil {
				return err
			}
		} else {
			logging.GetLogger().Debugf("Product %d: flashsale %q is not a date, skipped", p.ID, v)
		}
	}

	if v := p.Get("namaopsi"); truthy(v) {
		if err := t.backend.SetField(id, FieldOptionName, v); err != nil {
			return err
		}
	}
	if options := p.Values("opsistandart"); len(options) > 0 {
		if err := t.backend.SetField(id, FieldOptions, options); err != nil {
			return err
		}
	}

	if v := p.Get("namaopsi2"); truthy(v) {
		if err := t.backend.SetField(id, FieldOption2Name, v); err != nil {
			return err
		}
	}
	if advanced := ParseAdvancedOptions(p.Values("opsiharga")); len(advanced) > 0 {
		if err := t.backend.SetField(id, FieldAdvanced, advanced); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) copyTerms(id int64, p *source.Product) error {
	ids := t.terms.ReconcileAll(p.Terms)
	if len(ids) == 0 {
		return nil
	}
	return t.backend.AttachTerms(id, ids, store.TaxonomyStoreCategory)
}

func (t *Transformer) copyImages(id int64, p *source.Product) error {
	if p.FeaturedImage > 0 {
		if err := t.backend.SetFeaturedImage(id, p.FeaturedImage); err != nil {
			return err
		}
	}

	var ids []int64
	if t.kind == source.WooCommerce {
		ids = ParseGalleryList(p.Get("_product_image_gallery"))
	} else {
		ids = ParseGalleryIDs(p.Unwrapped("gallery"))
	}
	gallery, err := t.gallery.Resolve(ids)
	if err != nil {
		return err
	}
	if len(gallery) == 0 {
		return nil
	}
	return t.backend.SetField(id, FieldGallery, gallery)
}

// formatFlashsale reformats a date to YYYY-MM-DDTHH:mm.
func formatFlashsale(s string) (string, bool) {
	ts, err := dateparse.ParseAny(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return ts.Format(flashsaleLayout), true
}

func truthy(s string) bool {
	return s != "" && s != "0"
}
