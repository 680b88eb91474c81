// Package velocity reads products and orders stored by the Velocity theme.
package velocity

import (
	"StoreImport/internal/database/model"
	"StoreImport/internal/source"
	"StoreImport/internal/store"
	"StoreImport/pkg/logging"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

const DefaultPageSize = 50

const dateLayout = "2006-01-02 15:04:05"

// Tables is the legacy table access the adapter needs.
type Tables interface {
	Tables() model.Tables
	TableExists(name string) (bool, error)
	VelocityOrders(limit, offset int) ([]*model.VelocityOrder, error)
	Location(subdistrictID int64) (*model.Location, error)
}

type Adapter struct {
	backend  store.Backend
	legacy   Tables
	pageSize int
}

var _ source.Adapter = (*Adapter)(nil)

func New(backend store.Backend, legacy Tables, pageSize int) *Adapter {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Adapter{backend: backend, legacy: legacy, pageSize: pageSize}
}

func (a *Adapter) Kind() source.Kind {
	return source.Velocity
}

func (a *Adapter) OrderPageSize() int {
	return a.pageSize
}

func (a *Adapter) Products() ([]*source.Product, error) {
	logger := logging.GetLogger()
	logger.Debug("Start velocity.Products")
	defer logger.Debug("End velocity.Products")

	records, err := a.backend.FindAll(store.TypeProduct)
	if err != nil {
		return nil, errors.Wrap(err, "failed read velocity products")
	}
	products := make([]*source.Product, 0, len(records))
	for _, r := range records {
		p, err := source.SnapshotProduct(a.backend, r, store.TaxonomyVelocityCategory)
		if err != nil {
			return nil, errors.Wrapf(err, "failed snapshot product %d", r.ID)
		}
		products = append(products, p)
	}
	logger.Debugf("Velocity products: %d", len(products))
	return products, nil
}

// HasOrders reports whether the theme's order table exists.
func (a *Adapter) HasOrders() (bool, error) {
	return a.legacy.TableExists(a.legacy.Tables().Order())
}

func (a *Adapter) Orders(limit, offset int) ([]*source.Order, error) {
	rows, err := a.legacy.VelocityOrders(limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed read velocity orders")
	}
	orders := make([]*source.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, toOrder(row))
	}
	return orders, nil
}

// Location resolves a subdistrict id; nil, nil when it is unknown.
func (a *Adapter) Location(subdistrictID int64) (*source.Location, error) {
	loc, err := a.legacy.Location(subdistrictID)
	if err != nil || loc == nil {
		return nil, err
	}
	return &source.Location{
		Subdistrict: loc.SubdistrictName.String,
		City:        loc.CityName.String,
		Province:    loc.Province.String,
		PostalCode:  loc.PostalCode.String,
	}, nil
}

func toOrder(row *model.VelocityOrder) *source.Order {
	logger := logging.GetLogger()

	o := &source.Order{
		ID:             row.ID,
		Invoice:        row.Invoice.String,
		Status:         row.Status.String,
		Date:           formatDate(row.Date.String),
		BuyerID:        row.BuyerID.Int64,
		Total:          source.ToDecimal(row.Total.String),
		TrackingNumber: row.Resi.String,
		PaymentMethod:  row.Pembayaran.String,
	}

	d, items, err := decodeDetail(row.Detail.String)
	if err != nil {
		logger.Debugf("Order %s: detail is not valid JSON, using empty detail: %v", o.Invoice, err)
	}
	o.Customer = source.Customer{
		Name:    string(d.Nama),
		Email:   string(d.Email),
		Phone:   string(d.HP),
		Address: string(d.Alamat),
	}
	if d.Subdistrict != nil {
		o.HasSubdistrict = true
		o.SubdistrictID = source.ToInt(string(*d.Subdistrict))
	}
	o.Shipping = string(d.Ongkir)

	for _, it := range items {
		item := &source.Item{
			ProductID: source.ToInt(string(it.ID)),
			Quantity:  1,
		}
		if it.Jumlah != nil {
			item.Quantity = int(source.ToInt(string(*it.Jumlah)))
		}
		if it.Harga != nil {
			price := source.ToDecimal(string(*it.Harga))
			item.Price = &price
		}
		if it.Keterangan != nil {
			note := string(*it.Keterangan)
			item.Note = &note
		}
		o.Items = append(o.Items, item)
	}
	return o
}

// formatDate normalizes the order date; "" when it does not parse.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return ""
	}
	return t.Format(dateLayout)
}
