package model

import (
	"StoreImport/pkg/logging"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PostMeta struct {
	ID     int64          `db:"meta_id"`
	PostID int64          `db:"post_id"`
	Key    string         `db:"meta_key"`
	Value  sql.NullString `db:"meta_value"`
}

// SelectMeta returns the rows of one key in insertion order. An empty key returns all rows.
func SelectMeta(db *sqlx.DB, t Tables, postID int64, key string) ([]*PostMeta, error) {
	var rows []*PostMeta
	var err error
	var query string

	if key == "" {
		query = db.Rebind(fmt.Sprintf("SELECT meta_id, post_id, meta_key, meta_value FROM %s WHERE post_id = ? ORDER BY meta_id", t.PostMeta()))
		err = db.Select(&rows, query, postID)
	} else {
		query = db.Rebind(fmt.Sprintf("SELECT meta_id, post_id, meta_key, meta_value FROM %s WHERE post_id = ? AND meta_key = ? ORDER BY meta_id", t.PostMeta()))
		err = db.Select(&rows, query, postID, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT postmeta; query:\n%s(%d, %s)", query, postID, key)
	}
	return rows, nil
}

// AddMeta appends one row, keeping existing rows of the key.
func AddMeta(db *sqlx.DB, t Tables, postID int64, key, value string) error {
	query := db.Rebind(fmt.Sprintf("INSERT INTO %s (post_id, meta_key, meta_value) VALUES (?, ?, ?)", t.PostMeta()))
	if _, err := db.Exec(query, postID, key, value); err != nil {
		return errors.Wrapf(err, "failed INSERT postmeta; query:\n%s(%d, %s)", query, postID, key)
	}
	return nil
}

// ReplaceMeta leaves exactly one row for the key.
func ReplaceMeta(db *sqlx.DB, t Tables, postID int64, key, value string) error {
	logger := logging.GetLogger()
	logger.Debugf("Start ReplaceMeta(%d, %s)", postID, key)
	defer logger.Debugf("End ReplaceMeta(%d, %s)", postID, key)

	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed db.Beginx")
	}
	del := tx.Rebind(fmt.Sprintf("DELETE FROM %s WHERE post_id = ? AND meta_key = ?", t.PostMeta()))
	if _, err := tx.Exec(del, postID, key); err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, "failed DELETE postmeta; query:\n%s(%d, %s)", del, postID, key)
	}
	ins := tx.Rebind(fmt.Sprintf("INSERT INTO %s (post_id, meta_key, meta_value) VALUES (?, ?, ?)", t.PostMeta()))
	if _, err := tx.Exec(ins, postID, key, value); err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, "failed INSERT postmeta; query:\n%s(%d, %s)", ins, postID, key)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed commit postmeta")
	}
	return nil
}
