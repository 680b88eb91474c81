package model

import (
	"StoreImport/pkg/logging"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// VelocityOrder is a row of the Velocity theme's order table.
type VelocityOrder struct {
	ID         int64          `db:"id"`
	Invoice    sql.NullString `db:"invoice"`
	Status     sql.NullString `db:"status"`
	Date       sql.NullString `db:"date"`
	BuyerID    sql.NullInt64  `db:"id_pembeli"`
	Total      sql.NullString `db:"total"`
	Resi       sql.NullString `db:"resi"`
	Pembayaran sql.NullString `db:"pembayaran"`
	Detail     sql.NullString `db:"detail"`
}

type Location struct {
	SubdistrictName sql.NullString `db:"subdistrict_name"`
	CityName        sql.NullString `db:"city_name"`
	Province        sql.NullString `db:"province"`
	PostalCode      sql.NullString `db:"postal_code"`
}

type WooOrderItem struct {
	ID   int64  `db:"order_item_id"`
	Name string `db:"order_item_name"`
}

type WooItemMeta struct {
	Key   string         `db:"meta_key"`
	Value sql.NullString `db:"meta_value"`
}

func TableExists(db *sqlx.DB, name string) (bool, error) {
	var names []string
	var err error
	if db.DriverName() == "sqlite3" {
		err = db.Select(&names, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name)
	} else {
		err = db.Select(&names, "SHOW TABLES LIKE ?", name)
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed lookup table %s", name)
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// SelectVelocityOrders reads one page of orders, newest id first.
func SelectVelocityOrders(db *sqlx.DB, t Tables, limit, offset int) ([]*VelocityOrder, error) {
	logger := logging.GetLogger()
	logger.Debugf("Start SelectVelocityOrders(%d, %d)", limit, offset)
	defer logger.Debugf("End SelectVelocityOrders(%d, %d)", limit, offset)

	var orders []*VelocityOrder
	query := db.Rebind(fmt.Sprintf("SELECT id, invoice, status, date, id_pembeli, total, resi, pembayaran, detail FROM `%s` ORDER BY id DESC LIMIT ? OFFSET ?", t.Order()))
	if err := db.Select(&orders, query, limit, offset); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT orders; query:\n%s(%d, %d)", query, limit, offset)
	}
	logger.Debugf("Rows: %d", len(orders))
	return orders, nil
}

// SelectLocation returns nil, nil when the subdistrict or its city is unknown.
func SelectLocation(db *sqlx.DB, t Tables, subdistrictID int64) (*Location, error) {
	var locations []*Location
	query := db.Rebind(fmt.Sprintf(`SELECT s.subdistrict_name, c.city_name, c.province, c.postal_code
FROM %s s JOIN %s c ON s.city_id = c.city_id
WHERE s.subdistrict_id = ?`, t.Subdistricts(), t.City()))
	if err := db.Select(&locations, query, subdistrictID); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT location; query:\n%s(%d)", query, subdistrictID)
	}
	if len(locations) == 0 {
		return nil, nil
	}
	return locations[0], nil
}

func SelectWooLineItems(db *sqlx.DB, t Tables, orderID int64) ([]*WooOrderItem, error) {
	var items []*WooOrderItem
	query := db.Rebind(fmt.Sprintf("SELECT order_item_id, order_item_name FROM %s WHERE order_id = ? AND order_item_type = 'line_item' ORDER BY order_item_id", t.WooOrderItems()))
	if err := db.Select(&items, query, orderID); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT order items; query:\n%s(%d)", query, orderID)
	}
	return items, nil
}

func SelectWooItemMeta(db *sqlx.DB, t Tables, itemID int64, keys []string) ([]*WooItemMeta, error) {
	var meta []*WooItemMeta
	query, args, err := sqlx.In(fmt.Sprintf("SELECT meta_key, meta_value FROM %s WHERE order_item_id = ? AND meta_key IN (?) ORDER BY meta_id", t.WooOrderItemMeta()), itemID, keys)
	if err != nil {
		return nil, errors.Wrap(err, "failed sqlx.In")
	}
	query = db.Rebind(query)
	if err := db.Select(&meta, query, args...); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT order item meta; query:\n%s%v", query, args)
	}
	return meta, nil
}
