package order

import (
	"StoreImport/internal/database/dbtest"
	"StoreImport/internal/migrate/outcome"
	"StoreImport/internal/migrate/product"
	"StoreImport/internal/phpserial"
	"StoreImport/internal/source"
	"StoreImport/internal/store"
	"StoreImport/internal/store/wpdb"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShipping(t *testing.T) {
	Assert := assert.New(t)

	s := ParseShipping("JNE - REG - 15.000")
	Assert.Equal("JNE", s.Courier)
	Assert.Equal("REG", s.Service)
	Assert.True(decimal.NewFromInt(15000).Equal(s.Cost), s.Cost.String())

	s = ParseShipping("JNE")
	Assert.Equal("JNE", s.Courier)
	Assert.Equal("", s.Service)
	Assert.True(s.Cost.IsZero())

	s = ParseShipping("")
	Assert.Equal("", s.Courier)
	Assert.True(s.Cost.IsZero())

	s = ParseShipping("POS - Kilat - 1,250,000")
	Assert.True(decimal.NewFromInt(1250000).Equal(s.Cost))

	s = ParseShipping("TIKI - ONS - 9000 IDR")
	Assert.True(decimal.NewFromInt(9000).Equal(s.Cost))
}

func TestMapStatus(t *testing.T) {
	Assert := assert.New(t)
	Assert.Equal(StatusPending, MapStatus(source.Velocity, "Foo"))
	Assert.Equal(StatusPending, MapStatus(source.Velocity, ""))
	Assert.Equal(StatusPending, MapStatus(source.Velocity, "Menunggu Pembayaran"))
	Assert.Equal(StatusProcessing, MapStatus(source.Velocity, "Lunas"))
	Assert.Equal(StatusShipped, MapStatus(source.Velocity, "Dikirim"))
	Assert.Equal(StatusCompleted, MapStatus(source.Velocity, "Selesai"))
	Assert.Equal(StatusCancelled, MapStatus(source.Velocity, "Batal"))
	Assert.Equal(StatusPending, MapStatus(source.Velocity, "wc-completed"))

	Assert.Equal(StatusAwaitingPayment, MapStatus(source.WooCommerce, "wc-on-hold"))
	Assert.Equal(StatusCancelled, MapStatus(source.WooCommerce, "wc-refunded"))
	Assert.Equal(StatusPending, MapStatus(source.WooCommerce, "Foo"))
}

type locations map[int64]*source.Location

func (l locations) Location(id int64) (*source.Location, error) {
	return l[id], nil
}

type fixture struct {
	backend  *wpdb.Backend
	products *product.Transformer
}

func newFixture(t *testing.T, kind source.Kind) *fixture {
	b := wpdb.New(dbtest.Open(t, false), dbtest.Prefix, "")
	return &fixture{backend: b, products: product.New(b, kind)}
}

func (f *fixture) migrateProduct(t *testing.T, oldID int64, meta map[string][]string) int64 {
	id, res, err := f.products.MigrateOne(&source.Product{ID: oldID, Title: "p", Status: "publish", Meta: meta})
	require.NoError(t, err)
	require.Equal(t, outcome.Migrated, res)
	return id
}

func (f *fixture) fields(t *testing.T, id int64) map[string]string {
	all, err := f.backend.Fields(id)
	require.NoError(t, err)
	out := make(map[string]string, len(all))
	for k := range all {
		v, err := f.backend.GetField(id, k)
		require.NoError(t, err)
		out[k] = v
	}
	return out
}

func (f *fixture) items(t *testing.T, id int64) phpserial.Array {
	raw, err := f.backend.GetField(id, FieldItems)
	require.NoError(t, err)
	v, err := phpserial.Unmarshal([]byte(raw))
	require.NoError(t, err)
	a, ok := v.(phpserial.Array)
	require.True(t, ok)
	return a
}

func itemValue(t *testing.T, item interface{}, key string) interface{} {
	a, ok := item.(phpserial.Array)
	require.True(t, ok)
	v, ok := a.Get(key)
	require.True(t, ok, key)
	return v
}

func price(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func note(s string) *string {
	return &s
}

func TestVelocityMigrateOne(t *testing.T) {
	Assert := assert.New(t)
	f := newFixture(t, source.Velocity)
	newPID := f.migrateProduct(t, 12, map[string][]string{"harga": {"5000"}})

	tr := New(f.backend, source.Velocity, f.products, locations{
		10: {Subdistrict: "Coblong", City: "Bandung", Province: "Jawa Barat", PostalCode: "40111"},
	})
	o := &source.Order{
		ID:             7,
		Invoice:        "INV-7",
		Status:         "Foo",
		Date:           "2023-01-05 14:30:00",
		BuyerID:        4,
		Total:          decimal.NewFromInt(30000),
		TrackingNumber: "JNE123",
		PaymentMethod:  "Transfer BCA",
		Customer:       source.Customer{Name: "Budi", Email: "b@x.id", Phone: "0812", Address: "Jl. Merdeka 1"},
		SubdistrictID:  10,
		HasSubdistrict: true,
		Shipping:       "JNE - REG - 15.000",
		Items: []*source.Item{
			{ProductID: 12, Quantity: 3},
			{ProductID: 99, Quantity: 2, Price: price(7500), Note: note("XL")},
			{ProductID: 98, Quantity: 1},
		},
	}

	id, res, err := tr.MigrateOne(o)
	require.NoError(t, err)
	Assert.Equal(outcome.Migrated, res)

	r, err := f.backend.FindOne(store.TypeStoreOrder, store.WithMeta("_velocity_original_invoice", "INV-7"))
	require.NoError(t, err)
	require.NotNil(t, r)
	Assert.Equal(id, r.ID)
	Assert.Equal("Order INV-7", r.Title)
	Assert.Equal(store.StatusPublish, r.Status)
	Assert.Equal(int64(4), r.Author)
	Assert.Equal("2023-01-05 14:30:00", r.Date)

	fields := f.fields(t, id)
	Assert.Equal("7", fields[FieldVelocityOrderID])
	Assert.Equal(StatusPending, fields[FieldStatus])
	Assert.Equal("Budi", fields[FieldCustomerName])
	Assert.Equal("b@x.id", fields[FieldEmail])
	Assert.Equal("0812", fields[FieldPhone])
	Assert.Equal("Jl. Merdeka 1", fields[FieldAddress])
	Assert.Equal("Coblong", fields[FieldSubdistrict])
	Assert.Equal("Bandung", fields[FieldCity])
	Assert.Equal("Jawa Barat", fields[FieldProvince])
	Assert.Equal("40111", fields[FieldPostalCode])
	Assert.Equal("JNE", fields[FieldShippingCourier])
	Assert.Equal("REG", fields[FieldShippingService])
	Assert.Equal("15000", fields[FieldShippingCost])
	Assert.Equal("JNE123", fields[FieldTrackingNumber])
	Assert.Equal("Transfer BCA", fields[FieldPaymentMethod])
	Assert.Equal("30000", fields[FieldTotal])

	items := f.items(t, id)
	require.Len(t, items, 3)

	// no price in the order: the migrated product's price is used
	first := items[0].Value
	Assert.Equal(newPID, itemValue(t, first, "product_id"))
	Assert.Equal(int64(3), itemValue(t, first, "qty"))
	Assert.Equal(5000.0, itemValue(t, first, "price"))
	Assert.Equal(15000.0, itemValue(t, first, "subtotal"))
	Assert.Equal(phpserial.Array{}, itemValue(t, first, "options"))

	second := items[1].Value
	Assert.Equal(int64(0), itemValue(t, second, "product_id"))
	Assert.Equal(7500.0, itemValue(t, second, "price"))
	Assert.Equal(15000.0, itemValue(t, second, "subtotal"))
	Assert.Equal(phpserial.Array{{Key: "Info", Value: "XL"}}, itemValue(t, second, "options"))

	third := items[2].Value
	Assert.Equal(0.0, itemValue(t, third, "price"))
	Assert.Equal(0.0, itemValue(t, third, "subtotal"))
}

func TestVelocityUnresolvedLocationOmitted(t *testing.T) {
	f := newFixture(t, source.Velocity)
	tr := New(f.backend, source.Velocity, f.products, locations{})

	id, _, err := tr.MigrateOne(&source.Order{ID: 1, Invoice: "INV-1", HasSubdistrict: true, SubdistrictID: 404, Shipping: "JNE"})
	require.NoError(t, err)

	fields := f.fields(t, id)
	for _, key := range []string{FieldSubdistrict, FieldCity, FieldProvince, FieldPostalCode} {
		assert.NotContains(t, fields, key)
	}
	assert.Equal(t, "JNE", fields[FieldShippingCourier])
	assert.Equal(t, "", fields[FieldShippingService])
	assert.Equal(t, "0", fields[FieldShippingCost])
	assert.Equal(t, "", fields[FieldCustomerName])
	assert.Equal(t, "a:0:{}", fields[FieldItems])
}

func TestVelocityDefaultAuthor(t *testing.T) {
	f := newFixture(t, source.Velocity)
	tr := New(f.backend, source.Velocity, f.products, nil)

	id, _, err := tr.MigrateOne(&source.Order{ID: 2, Invoice: "INV-2"})
	require.NoError(t, err)
	r, err := f.backend.FindOne(store.TypeStoreOrder, store.WithMeta("_velocity_original_invoice", "INV-2"))
	require.NoError(t, err)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, int64(1), r.Author)
}

func TestMigrateOneIsIdempotent(t *testing.T) {
	Assert := assert.New(t)
	f := newFixture(t, source.Velocity)
	tr := New(f.backend, source.Velocity, f.products, nil)
	o := &source.Order{ID: 3, Invoice: "INV-3", Status: "Lunas"}

	first, res, err := tr.MigrateOne(o)
	require.NoError(t, err)
	Assert.Equal(outcome.Migrated, res)

	o.Status = "Selesai"
	second, res, err := tr.MigrateOne(o)
	require.NoError(t, err)
	Assert.Equal(outcome.Skipped, res)
	Assert.Equal(first, second)

	all, err := f.backend.FindAll(store.TypeStoreOrder)
	require.NoError(t, err)
	Assert.Len(all, 1)
	status, err := f.backend.GetField(first, FieldStatus)
	require.NoError(t, err)
	Assert.Equal(StatusProcessing, status)
}

func TestWooCommerceMigrateOne(t *testing.T) {
	Assert := assert.New(t)
	f := newFixture(t, source.WooCommerce)
	newPID := f.migrateProduct(t, 70, map[string][]string{"_price": {"30000"}})

	tr := New(f.backend, source.WooCommerce, f.products, nil)
	o := &source.Order{
		ID:             501,
		Status:         "wc-on-hold",
		Date:           "2024-02-02 11:00:00",
		Customer:       source.Customer{Name: "Siti", Email: "siti@x.id", Phone: "0812", Address: "Jl. Asia Afrika No. 8", City: "Bandung", State: "JB", PostalCode: "40111"},
		ShippingMethod: "flat_rate",
		ShippingTotal:  decimal.NewFromInt(12000),
		PaymentMethod:  "bacs",
		Total:          decimal.NewFromInt(102000),
		Items: []*source.Item{
			{ProductID: 70, Quantity: 3, LineTotal: decimal.NewFromInt(90000)},
			{ProductID: 71, Quantity: 0, LineTotal: decimal.NewFromInt(5000)},
		},
	}

	id, res, err := tr.MigrateOne(o)
	require.NoError(t, err)
	Assert.Equal(outcome.Migrated, res)

	r, err := f.backend.FindOne(store.TypeStoreOrder, store.WithMeta("_woocommerce_original_order_id", 501))
	require.NoError(t, err)
	require.NotNil(t, r)
	Assert.Equal("Order #501", r.Title)
	Assert.Equal(int64(1), r.Author)
	Assert.Equal(store.StatusPublish, r.Status)
	Assert.Equal("2024-02-02 11:00:00", r.Date)

	fields := f.fields(t, id)
	Assert.Equal(StatusAwaitingPayment, fields[FieldStatus])
	Assert.Equal("Siti", fields[FieldCustomerName])
	Assert.Equal("Bandung", fields[FieldCity])
	Assert.Equal("JB", fields[FieldProvince])
	Assert.Equal("40111", fields[FieldPostalCode])
	Assert.Equal("flat_rate", fields[FieldShippingCourier])
	Assert.Equal("", fields[FieldShippingService])
	Assert.Equal("12000", fields[FieldShippingCost])
	Assert.Equal("bacs", fields[FieldPaymentMethod])
	Assert.Equal("102000", fields[FieldTotal])
	Assert.NotContains(fields, FieldSubdistrict)
	Assert.NotContains(fields, FieldVelocityOrderID)

	items := f.items(t, id)
	require.Len(t, items, 2)
	Assert.Equal(newPID, itemValue(t, items[0].Value, "product_id"))
	Assert.Equal(30000.0, itemValue(t, items[0].Value, "price"))
	Assert.Equal(90000.0, itemValue(t, items[0].Value, "subtotal"))
	Assert.Equal(phpserial.Array{}, itemValue(t, items[0].Value, "options"))

	Assert.Equal(int64(0), itemValue(t, items[1].Value, "product_id"))
	Assert.Equal(0.0, itemValue(t, items[1].Value, "price"))
	Assert.Equal(5000.0, itemValue(t, items[1].Value, "subtotal"))
}

type rejectingBackend struct {
	store.Backend
}

func (rejectingBackend) CreateRecord(store.RecordType, store.RecordFields) (int64, error) {
	return 0, errors.Wrap(store.ErrCreateFailed, "rejected")
}

func TestMigrateOneCreateFailure(t *testing.T) {
	f := newFixture(t, source.Velocity)
	tr := New(rejectingBackend{f.backend}, source.Velocity, f.products, nil)

	id, res, err := tr.MigrateOne(&source.Order{ID: 9, Invoice: "INV-9"})
	require.NoError(t, err)
	assert.Equal(t, outcome.Failed, res)
	assert.Zero(t, id)
}
