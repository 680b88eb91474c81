// Package order turns legacy orders into store orders.
package order

import (
	"StoreImport/internal/migrate/outcome"
	"StoreImport/internal/phpserial"
	"StoreImport/internal/source"
	"StoreImport/internal/store"
	"StoreImport/pkg/logging"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	FieldStatus          = "_store_order_status"
	FieldCustomerName    = "_store_order_customer_name"
	FieldEmail           = "_store_order_email"
	FieldPhone           = "_store_order_phone"
	FieldAddress         = "_store_order_address"
	FieldSubdistrict     = "_store_order_subdistrict_name"
	FieldCity            = "_store_order_city_name"
	FieldProvince        = "_store_order_province_name"
	FieldPostalCode      = "_store_order_postal_code"
	FieldShippingCourier = "_store_order_shipping_courier"
	FieldShippingService = "_store_order_shipping_service"
	FieldShippingCost    = "_store_order_shipping_cost"
	FieldTrackingNumber  = "_store_order_tracking_number"
	FieldPaymentMethod   = "_store_order_payment_method"
	FieldItems           = "_store_order_items"
	FieldTotal           = "_store_order_total"

	FieldVelocityOrderID = "_velocity_original_order_id"

	productPriceField = "_store_price"
	defaultAuthor     = 1
)

// ProductIndex maps a source product id to its migrated store product, 0 if none.
type ProductIndex interface {
	Lookup(oldID int64) (int64, error)
}

type LocationLookup interface {
	Location(subdistrictID int64) (*source.Location, error)
}

type Item struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
	Subtotal  decimal.Decimal
	Options   phpserial.Array
}

func (i Item) PHPArray() phpserial.Array {
	options := i.Options
	if options == nil {
		options = phpserial.Array{}
	}
	return phpserial.Array{
		{Key: "product_id", Value: i.ProductID},
		{Key: "qty", Value: i.Quantity},
		{Key: "price", Value: i.Price},
		{Key: "subtotal", Value: i.Subtotal},
		{Key: "options", Value: options},
	}
}

type Transformer struct {
	backend   store.Backend
	kind      source.Kind
	products  ProductIndex
	locations LocationLookup
}

// New returns an order transformer. locations may be nil for WooCommerce.
func New(backend store.Backend, kind source.Kind, products ProductIndex, locations LocationLookup) *Transformer {
	return &Transformer{backend: backend, kind: kind, products: products, locations: locations}
}

func (t *Transformer) businessKey(o *source.Order) string {
	if t.kind == source.WooCommerce {
		return strconv.FormatInt(o.ID, 10)
	}
	return o.Invoice
}

// MigrateOne creates the store order for o unless one already exists.
func (t *Transformer) MigrateOne(o *source.Order) (int64, outcome.Outcome, error) {
	key := t.businessKey(o)
	logger := logging.GetLogger().WithField("order", key)
	logger.Debug("Start MigrateOne")
	defer logger.Debug("End MigrateOne")

	existing, err := t.backend.FindOne(store.TypeStoreOrder, store.WithMeta(t.kind.OrderProvenanceKey(), key))
	if err != nil {
		return 0, outcome.Failed, errors.Wrapf(err, "failed lookup order %s", key)
	}
	if existing != nil {
		logger.Debugf("Already migrated as %d", existing.ID)
		return existing.ID, outcome.Skipped, nil
	}

	fields := store.RecordFields{
		Status: store.StatusPublish,
		Date:   o.Date,
		Author: defaultAuthor,
	}
	if t.kind == source.WooCommerce {
		fields.Title = "Order #" + key
	} else {
		fields.Title = "Order " + key
		if o.BuyerID > 0 {
			fields.Author = o.BuyerID
		}
	}

	id, err := t.backend.CreateRecord(store.TypeStoreOrder, fields)
	if err != nil {
		if errors.Cause(err) == store.ErrCreateFailed {
			logger.Warnf("Order not created: %v", err)
			return 0, outcome.Failed, nil
		}
		return 0, outcome.Failed, errors.Wrapf(err, "failed create order %s", key)
	}

	var values []field
	if t.kind == source.WooCommerce {
		values, err = t.wooFields(o)
	} else {
		values, err = t.velocityFields(o)
	}
	if err != nil {
		return id, outcome.Migrated, errors.Wrapf(err, "failed migrate order %s", key)
	}
	for _, f := range values {
		if err := t.backend.SetField(id, f.key, f.value); err != nil {
			return id, outcome.Migrated, errors.Wrapf(err, "failed migrate order %s", key)
		}
	}
	logger.Debugf("Migrated as %d", id)
	return id, outcome.Migrated, nil
}

type field struct {
	key   string
	value interface{}
}

func (t *Transformer) velocityFields(o *source.Order) ([]field, error) {
	values := []field{
		{t.kind.OrderProvenanceKey(), o.Invoice},
		{FieldVelocityOrderID, o.ID},
		{FieldStatus, MapStatus(t.kind, o.Status)},
		{FieldCustomerName, o.Customer.Name},
		{FieldEmail, o.Customer.Email},
		{FieldPhone, o.Customer.Phone},
		{FieldAddress, o.Customer.Address},
	}

	if o.HasSubdistrict && t.locations != nil {
		loc, err := t.locations.Location(o.SubdistrictID)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			values = append(values,
				field{FieldSubdistrict, loc.Subdistrict},
				field{FieldCity, loc.City},
				field{FieldProvince, loc.Province},
				field{FieldPostalCode, loc.PostalCode},
			)
		}
	}

	shipping := ParseShipping(o.Shipping)
	values = append(values,
		field{FieldShippingCourier, shipping.Courier},
		field{FieldShippingService, shipping.Service},
		field{FieldShippingCost, shipping.Cost},
		field{FieldTrackingNumber, o.TrackingNumber},
		field{FieldPaymentMethod, o.PaymentMethod},
	)

	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		item, err := t.velocityItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return append(values, field{FieldItems, items}, field{FieldTotal, o.Total}), nil
}

// velocityItem prices a line with the order's own price, else the migrated
// product's current price, else 0.
func (t *Transformer) velocityItem(it *source.Item) (Item, error) {
	newID, err := t.lookup(it.ProductID)
	if err != nil {
		return Item{}, err
	}

	price := decimal.Zero
	switch {
	case it.Price != nil:
		price = *it.Price
	case newID > 0:
		raw, err := t.backend.GetField(newID, productPriceField)
		if err != nil {
			return Item{}, err
		}
		price = parseAmount(raw)
	}

	item := Item{
		ProductID: newID,
		Quantity:  it.Quantity,
		Price:     price,
		Subtotal:  price.Mul(decimal.NewFromInt(int64(it.Quantity))),
	}
	if it.Note != nil {
		item.Options = phpserial.Array{{Key: "Info", Value: *it.Note}}
	}
	return item, nil
}

func (t *Transformer) wooFields(o *source.Order) ([]field, error) {
	values := []field{
		{t.kind.OrderProvenanceKey(), o.ID},
		{FieldStatus, MapStatus(t.kind, o.Status)},
		{FieldCustomerName, o.Customer.Name},
		{FieldEmail, o.Customer.Email},
		{FieldPhone, o.Customer.Phone},
		{FieldAddress, o.Customer.Address},
		{FieldCity, o.Customer.City},
		{FieldProvince, o.Customer.State},
		{FieldPostalCode, o.Customer.PostalCode},
		{FieldShippingCourier, o.ShippingMethod},
		{FieldShippingService, ""},
		{FieldShippingCost, o.ShippingTotal},
		{FieldPaymentMethod, o.PaymentMethod},
	}

	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		newID, err := t.lookup(it.ProductID)
		if err != nil {
			return nil, err
		}
		price := decimal.Zero
		if it.Quantity > 0 {
			price = it.LineTotal.Div(decimal.NewFromInt(int64(it.Quantity)))
		}
		items = append(items, Item{
			ProductID: newID,
			Quantity:  it.Quantity,
			Price:     price,
			Subtotal:  it.LineTotal,
		})
	}
	return append(values, field{FieldItems, items}, field{FieldTotal, o.Total}), nil
}

func (t *Transformer) lookup(oldID int64) (int64, error) {
	if oldID <= 0 || t.products == nil {
		return 0, nil
	}
	return t.products.Lookup(oldID)
}
