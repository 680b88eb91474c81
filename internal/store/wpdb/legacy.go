package wpdb

import (
	"StoreImport/internal/database/model"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Legacy reads the tables that live outside of posts: the Velocity order and
// location tables and the WooCommerce order item tables.
type Legacy struct {
	db     *sqlx.DB
	tables model.Tables
}

func NewLegacy(db *sqlx.DB, prefix string) *Legacy {
	return &Legacy{db: db, tables: model.Tables{Prefix: prefix}}
}

func (l *Legacy) Tables() model.Tables {
	return l.tables
}

func (l *Legacy) TableExists(name string) (bool, error) {
	return model.TableExists(l.db, name)
}

func (l *Legacy) VelocityOrders(limit, offset int) ([]*model.VelocityOrder, error) {
	orders, err := model.SelectVelocityOrders(l.db, l.tables, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed Legacy.VelocityOrders")
	}
	return orders, nil
}

// Location returns nil, nil when the subdistrict does not resolve.
func (l *Legacy) Location(subdistrictID int64) (*model.Location, error) {
	loc, err := model.SelectLocation(l.db, l.tables, subdistrictID)
	if err != nil {
		return nil, errors.Wrap(err, "failed Legacy.Location")
	}
	return loc, nil
}

func (l *Legacy) WooLineItems(orderID int64) ([]*model.WooOrderItem, error) {
	items, err := model.SelectWooLineItems(l.db, l.tables, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed Legacy.WooLineItems")
	}
	return items, nil
}

// WooItemMeta returns the item's values for keys; keys without a row are absent.
func (l *Legacy) WooItemMeta(itemID int64, keys []string) (map[string]string, error) {
	rows, err := model.SelectWooItemMeta(l.db, l.tables, itemID, keys)
	if err != nil {
		return nil, errors.Wrap(err, "failed Legacy.WooItemMeta")
	}
	meta := make(map[string]string, len(rows))
	for _, r := range rows {
		meta[r.Key] = r.Value.String
	}
	return meta, nil
}
