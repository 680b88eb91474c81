// Package woocommerce reads products and orders stored by WooCommerce.
package woocommerce

import (
	"StoreImport/internal/database/model"
	"StoreImport/internal/source"
	"StoreImport/internal/store"
	"StoreImport/pkg/logging"
	"strings"

	"github.com/pkg/errors"
)

var itemMetaKeys = []string{"_product_id", "_variation_id", "_qty", "_line_total", "_line_subtotal"}

// Tables is the order item access the adapter needs.
type Tables interface {
	WooLineItems(orderID int64) ([]*model.WooOrderItem, error)
	WooItemMeta(itemID int64, keys []string) (map[string]string, error)
}

type Adapter struct {
	backend store.Backend
	legacy  Tables
}

var _ source.Adapter = (*Adapter)(nil)

func New(backend store.Backend, legacy Tables) *Adapter {
	return &Adapter{backend: backend, legacy: legacy}
}

func (a *Adapter) Kind() source.Kind {
	return source.WooCommerce
}

// OrderPageSize is 0: orders are read in one pass.
func (a *Adapter) OrderPageSize() int {
	return 0
}

func (a *Adapter) HasOrders() (bool, error) {
	return true, nil
}

func (a *Adapter) Products() ([]*source.Product, error) {
	logger := logging.GetLogger()
	logger.Debug("Start woocommerce.Products")
	defer logger.Debug("End woocommerce.Products")

	records, err := a.backend.FindAll(store.TypeProduct)
	if err != nil {
		return nil, errors.Wrap(err, "failed read woocommerce products")
	}
	products := make([]*source.Product, 0, len(records))
	for _, r := range records {
		p, err := source.SnapshotProduct(a.backend, r, store.TaxonomyWooCategory)
		if err != nil {
			return nil, errors.Wrapf(err, "failed snapshot product %d", r.ID)
		}
		products = append(products, p)
	}
	return products, nil
}

func (a *Adapter) Orders(limit, offset int) ([]*source.Order, error) {
	logger := logging.GetLogger()
	logger.Debugf("Start woocommerce.Orders(%d, %d)", limit, offset)
	defer logger.Debugf("End woocommerce.Orders(%d, %d)", limit, offset)

	records, err := a.backend.FindAll(store.TypeShopOrder, store.Limit(limit), store.Offset(offset))
	if err != nil {
		return nil, errors.Wrap(err, "failed read woocommerce orders")
	}
	orders := make([]*source.Order, 0, len(records))
	for _, r := range records {
		o, err := a.toOrder(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed read order %d", r.ID)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (a *Adapter) toOrder(r *store.Record) (*source.Order, error) {
	fields, err := a.backend.Fields(r.ID)
	if err != nil {
		return nil, err
	}
	get := func(key string) string {
		if values := store.Flatten(fields[key]); len(values) > 0 {
			return values[0]
		}
		return ""
	}

	o := &source.Order{
		ID:     r.ID,
		Status: r.Status,
		Date:   r.Date,
		Customer: source.Customer{
			Name:       strings.TrimSpace(get("_billing_first_name") + " " + get("_billing_last_name")),
			Email:      get("_billing_email"),
			Phone:      get("_billing_phone"),
			Address:    strings.TrimSpace(get("_billing_address_1") + " " + get("_billing_address_2")),
			City:       get("_billing_city"),
			State:      get("_billing_state"),
			PostalCode: get("_billing_postcode"),
		},
		ShippingMethod: get("_shipping_method"),
		ShippingTotal:  source.ToDecimal(get("_shipping_total")),
		PaymentMethod:  get("_payment_method"),
		Total:          source.ToDecimal(get("_order_total")),
	}

	rows, err := a.legacy.WooLineItems(r.ID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		meta, err := a.legacy.WooItemMeta(row.ID, itemMetaKeys)
		if err != nil {
			return nil, err
		}
		item := &source.Item{
			ProductID:   source.ToInt(meta["_product_id"]),
			VariationID: source.ToInt(meta["_variation_id"]),
			Quantity:    1,
			LineTotal:   source.ToDecimal(meta["_line_total"]),
		}
		if qty, ok := meta["_qty"]; ok {
			item.Quantity = int(source.ToInt(qty))
		}
		o.Items = append(o.Items, item)
	}
	return o, nil
}
