package product

import (
	"StoreImport/internal/database/dbtest"
	"StoreImport/internal/migrate/outcome"
	"StoreImport/internal/phpserial"
	"StoreImport/internal/source"
	"StoreImport/internal/store"
	"StoreImport/internal/store/wpdb"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *wpdb.Backend {
	return wpdb.New(dbtest.Open(t, false), dbtest.Prefix, "https://shop.example/uploads")
}

func attachment(t *testing.T, b *wpdb.Backend, file string) int64 {
	id, err := b.CreateRecord(store.TypeAttachment, store.RecordFields{Status: "inherit"})
	require.NoError(t, err)
	require.NoError(t, b.SetField(id, "_wp_attached_file", file))
	return id
}

func velocityProduct(meta map[string][]string) *source.Product {
	return &source.Product{
		ID:      12,
		Title:   "Kemeja Batik",
		Content: "Kain katun",
		Excerpt: "Batik",
		Status:  "publish",
		Author:  3,
		Date:    "2023-03-01 09:00:00",
		Meta:    meta,
	}
}

func TestParseAdvancedOptions(t *testing.T) {
	got := ParseAdvancedOptions([]string{"Small=10000", "Big=20000", "malformed"})
	assert.Equal(t, []AdvancedOption{{"Small", "10000"}, {"Big", "20000"}}, got)

	got = ParseAdvancedOptions([]string{" Extra Large = 25000 ", "a=b=c", "=", "no"})
	assert.Equal(t, []AdvancedOption{{"Extra Large", "25000"}, {"a", "b=c"}, {"", ""}}, got)

	assert.Nil(t, ParseAdvancedOptions(nil))
}

func TestParseGallery(t *testing.T) {
	assert.Equal(t, []int64{21, 22}, ParseGalleryList("21, abc, ,22"))
	assert.Nil(t, ParseGalleryList(" "))
	assert.Equal(t, []int64{5, 6}, ParseGalleryIDs([]string{"5", "0", "x", "6"}))
}

func TestFormatFlashsale(t *testing.T) {
	v, ok := formatFlashsale("2024-08-17 10:30:00")
	assert.True(t, ok)
	assert.Equal(t, "2024-08-17T10:30", v)

	_, ok = formatFlashsale("besok")
	assert.False(t, ok)
}

func TestVelocityMigrateOne(t *testing.T) {
	Assert := assert.New(t)
	b := newBackend(t)
	tr := New(b, source.Velocity)

	p := velocityProduct(map[string][]string{
		"sku":          {"BTK-01"},
		"harga":        {"150000"},
		"harga_promo":  {""},
		"berat":        {"0.3"},
		"label":        {"Best seller"},
		"flashsale":    {"2024-08-17 10:30"},
		"namaopsi":     {"Ukuran"},
		"opsistandart": {"S", "M", "L"},
		"namaopsi2":    {"Bahan"},
		"opsiharga":    {"Small=10000", "Big=20000", "malformed"},
	})

	id, res, err := tr.MigrateOne(p)
	require.NoError(t, err)
	Assert.Equal(outcome.Migrated, res)
	require.NotZero(t, id)

	r, err := b.FindOne(store.TypeStoreProduct, store.WithMeta("_velocity_original_id", 12))
	require.NoError(t, err)
	require.NotNil(t, r)
	Assert.Equal(id, r.ID)
	Assert.Equal("Kemeja Batik", r.Title)
	Assert.Equal("Kain katun", r.Content)
	Assert.Equal("Batik", r.Excerpt)
	Assert.Equal("publish", r.Status)
	Assert.Equal(int64(3), r.Author)
	Assert.Equal("2023-03-01 09:00:00", r.Date)

	fields, err := b.Fields(id)
	require.NoError(t, err)
	get := func(key string) []string { return store.Flatten(fields[key]) }

	Assert.Equal([]string{"BTK-01"}, get(FieldSKU))
	Assert.Equal([]string{"150000"}, get(FieldPrice))
	Assert.Equal([]string{"0.3"}, get(FieldWeight))
	Assert.Equal([]string{"Best seller"}, get(FieldLabel))
	Assert.Equal([]string{"physical"}, get(FieldProductType))
	Assert.Equal([]string{"2024-08-17T10:30"}, get(FieldFlashsaleUntil))
	Assert.Equal([]string{"Ukuran"}, get(FieldOptionName))
	Assert.Equal([]string{"S", "M", "L"}, get(FieldOptions))
	Assert.Equal([]string{"Bahan"}, get(FieldOption2Name))

	// empty or absent source keys leave the field unset
	for _, key := range []string{FieldSalePrice, FieldMinOrder, FieldStock, FieldGallery, "_thumbnail_id"} {
		_, ok := fields[key]
		Assert.False(ok, key)
	}

	raw, err := b.GetField(id, FieldAdvanced)
	require.NoError(t, err)
	Assert.Equal(`a:2:{i:0;a:2:{s:5:"label";s:5:"Small";s:5:"price";s:5:"10000";}i:1;a:2:{s:5:"label";s:3:"Big";s:5:"price";s:5:"20000";}}`, raw)
}

func TestVelocityOptionalFieldsSkipped(t *testing.T) {
	Assert := assert.New(t)
	b := newBackend(t)
	tr := New(b, source.Velocity)

	id, _, err := tr.MigrateOne(velocityProduct(map[string][]string{
		"flashsale": {"not a date"},
		"namaopsi":  {"0"},
		"opsiharga": {"nothing", "useful"},
	}))
	require.NoError(t, err)

	fields, err := b.Fields(id)
	require.NoError(t, err)
	Assert.NotContains(fields, FieldFlashsaleUntil)
	Assert.NotContains(fields, FieldOptionName)
	Assert.NotContains(fields, FieldAdvanced)
	Assert.NotContains(fields, FieldOptions)
	Assert.Contains(fields, "_velocity_original_id")
}

func TestMigrateOneIsIdempotent(t *testing.T) {
	Assert := assert.New(t)
	b := newBackend(t)
	tr := New(b, source.Velocity)
	p := velocityProduct(map[string][]string{"harga": {"5000"}})

	first, res, err := tr.MigrateOne(p)
	require.NoError(t, err)
	Assert.Equal(outcome.Migrated, res)

	p.Meta["harga"] = []string{"9000"}
	second, res, err := tr.MigrateOne(p)
	require.NoError(t, err)
	Assert.Equal(outcome.Skipped, res)
	Assert.Equal(first, second)

	all, err := b.FindAll(store.TypeStoreProduct)
	require.NoError(t, err)
	Assert.Len(all, 1)

	// never updated
	price, err := b.GetField(first, FieldPrice)
	require.NoError(t, err)
	Assert.Equal("5000", price)

	found, err := tr.Lookup(12)
	require.NoError(t, err)
	Assert.Equal(first, found)
	found, err = tr.Lookup(99)
	require.NoError(t, err)
	Assert.Zero(found)
}

func TestMigrateOneTerms(t *testing.T) {
	Assert := assert.New(t)
	b := newBackend(t)
	tr := New(b, source.Velocity)

	electronics, err := b.CreateTerm("Electronics", store.TaxonomyVelocityCategory, "electronics", 0)
	require.NoError(t, err)
	phones, err := b.CreateTerm("Phones", store.TaxonomyVelocityCategory, "phones", electronics)
	require.NoError(t, err)
	src, err := b.GetTerm(phones, store.TaxonomyVelocityCategory)
	require.NoError(t, err)

	p := velocityProduct(nil)
	p.Terms = []*store.Term{src}
	id, _, err := tr.MigrateOne(p)
	require.NoError(t, err)

	terms, err := b.GetTerms(id, store.TaxonomyStoreCategory)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	Assert.Equal("Phones", terms[0].Name)
	parent, err := b.GetTerm(terms[0].Parent, store.TaxonomyStoreCategory)
	require.NoError(t, err)
	require.NotNil(t, parent)
	Assert.Equal("Electronics", parent.Name)
}

func TestMigrateOneImages(t *testing.T) {
	Assert := assert.New(t)
	b := newBackend(t)
	tr := New(b, source.Velocity)

	a := attachment(t, b, "2023/01/a.jpg")
	c := attachment(t, b, "2023/01/c.jpg")

	p := velocityProduct(map[string][]string{"gallery": {itoa(c), "9999", itoa(a)}})
	p.FeaturedImage = a
	id, _, err := tr.MigrateOne(p)
	require.NoError(t, err)

	thumb, err := b.FeaturedImage(id)
	require.NoError(t, err)
	Assert.Equal(a, thumb)

	raw, err := b.GetField(id, FieldGallery)
	require.NoError(t, err)
	Assert.Equal(
		`a:2:{i:`+itoa(c)+`;s:42:"https://shop.example/uploads/2023/01/c.jpg";i:`+itoa(a)+`;s:42:"https://shop.example/uploads/2023/01/a.jpg";}`,
		raw)
}

func galleryOf(t *testing.T, b *wpdb.Backend, rows ...interface{}) phpserial.Array {
	src, err := b.CreateRecord(store.TypeProduct, store.RecordFields{Title: "Kemeja", Status: "publish"})
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, b.AddField(src, "gallery", row))
	}
	r, err := b.FindOne(store.TypeProduct, store.WithStatus(store.StatusPublish))
	require.NoError(t, err)
	p, err := source.SnapshotProduct(b, r, store.TaxonomyVelocityCategory)
	require.NoError(t, err)

	id, _, err := New(b, source.Velocity).MigrateOne(p)
	require.NoError(t, err)
	raw, err := b.GetField(id, FieldGallery)
	require.NoError(t, err)
	if raw == "" {
		return nil
	}
	v, err := phpserial.Unmarshal([]byte(raw))
	require.NoError(t, err)
	return v.(phpserial.Array)
}

func TestVelocityGalleryListRow(t *testing.T) {
	b := newBackend(t)
	a := attachment(t, b, "2023/01/a.jpg")
	c := attachment(t, b, "2023/01/c.jpg")

	gallery := galleryOf(t, b, phpserial.List(itoa(c), itoa(a)))
	require.Len(t, gallery, 2)
	assert.Equal(t, c, gallery[0].Key)
	assert.Equal(t, a, gallery[1].Key)
}

func TestVelocityGalleryListRowAmongOthers(t *testing.T) {
	b := newBackend(t)
	a := attachment(t, b, "2023/01/a.jpg")
	c := attachment(t, b, "2023/01/c.jpg")

	// a list row next to scalar rows does not resolve to an attachment
	gallery := galleryOf(t, b, itoa(a), phpserial.List(itoa(c)))
	require.Len(t, gallery, 1)
	assert.Equal(t, a, gallery[0].Key)
}

func TestWooCommerceMigrateOne(t *testing.T) {
	Assert := assert.New(t)
	b := newBackend(t)
	tr := New(b, source.WooCommerce)

	a := attachment(t, b, "2023/02/w.jpg")
	cat, err := b.CreateTerm("Clothing", store.TaxonomyWooCategory, "clothing", 0)
	require.NoError(t, err)
	src, err := b.GetTerm(cat, store.TaxonomyWooCategory)
	require.NoError(t, err)

	p := &source.Product{
		ID:     70,
		Title:  "Shirt",
		Status: "draft",
		Meta: map[string][]string{
			"_sku":                   {"SH-1"},
			"_price":                 {"99000"},
			"_sale_price":            {""},
			"_weight":                {"0.2"},
			"_manage_stock":          {"yes"},
			"_stock":                 {"15"},
			"_product_image_gallery": {itoa(a) + ", abc, 12345"},
			"harga":                  {"ignored"},
		},
		Terms: []*store.Term{src},
	}
	id, res, err := tr.MigrateOne(p)
	require.NoError(t, err)
	Assert.Equal(outcome.Migrated, res)

	fields, err := b.Fields(id)
	require.NoError(t, err)
	get := func(key string) []string { return store.Flatten(fields[key]) }
	Assert.Equal([]string{"SH-1"}, get(FieldSKU))
	Assert.Equal([]string{"99000"}, get(FieldPrice))
	Assert.Equal([]string{"0.2"}, get(FieldWeight))
	Assert.Equal([]string{"15"}, get(FieldStock))
	Assert.Equal([]string{"70"}, get("_woocommerce_original_id"))
	Assert.Equal([]string{"https://shop.example/uploads/2023/02/w.jpg"}, get(FieldGallery))
	Assert.NotContains(fields, FieldSalePrice)
	Assert.NotContains(fields, "_velocity_original_id")

	terms, err := b.GetTerms(id, store.TaxonomyStoreCategory)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	Assert.Equal("Clothing", terms[0].Name)
}

func TestWooCommerceStockNeedsManageStock(t *testing.T) {
	b := newBackend(t)
	tr := New(b, source.WooCommerce)

	id, _, err := tr.MigrateOne(&source.Product{ID: 71, Title: "Hat", Meta: map[string][]string{
		"_manage_stock": {"no"},
		"_stock":        {"4"},
	}})
	require.NoError(t, err)
	stock, err := b.GetField(id, FieldStock)
	require.NoError(t, err)
	assert.Equal(t, "", stock)
}

type rejectingBackend struct {
	store.Backend
	setFieldCalls int
}

func (r *rejectingBackend) CreateRecord(store.RecordType, store.RecordFields) (int64, error) {
	return 0, errors.Wrap(store.ErrCreateFailed, "rejected")
}

func (r *rejectingBackend) SetField(int64, string, interface{}) error {
	r.setFieldCalls++
	return nil
}

func TestMigrateOneCreateFailure(t *testing.T) {
	b := &rejectingBackend{Backend: newBackend(t)}
	tr := New(b, source.Velocity)

	id, res, err := tr.MigrateOne(velocityProduct(map[string][]string{"harga": {"5000"}}))
	require.NoError(t, err)
	assert.Equal(t, outcome.Failed, res)
	assert.Zero(t, id)
	assert.Zero(t, b.setFieldCalls)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
