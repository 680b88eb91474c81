package database

import (
	"StoreImport/pkg/logging"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// wordPressSQLMode is the session sql_mode without the strict modes WordPress
// removes on its own connections.
const wordPressSQLMode = "'NO_ENGINE_SUBSTITUTION'"

// MySQL errors for a row the server refuses: bad null, duplicate key, missing
// default, out of range, bad value, too long, foreign key.
var mysqlRejections = map[uint16]bool{
	1048: true,
	1062: true,
	1264: true,
	1292: true,
	1364: true,
	1366: true,
	1406: true,
	1452: true,
}

func Connect(driver, dsn string) (*sqlx.DB, error) {
	logger := logging.GetLogger()
	logger.Info("Connect:>Start")
	defer logger.Info("Connect:>End")

	if driver == DriverMySQL {
		var err error
		if dsn, err = WordPressDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed sqlx.Connect(%s)", driver)
	}
	if driver == DriverSQLite {
		// one writer, and in-memory databases live per connection
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// CreateDB creates the WordPress tables, and the legacy order tables when withLegacy
// is set. Only meant for SQLite databases.
func CreateDB(db *sqlx.DB, prefix string, withLegacy bool) error {
	logger := logging.GetLogger()
	logger.Info("CreateDB:>Start")
	defer logger.Info("CreateDB:>End")

	if db.DriverName() != DriverSQLite {
		return errors.Errorf("schema creation is not supported for driver %s", db.DriverName())
	}

	if _, err := db.Exec(Schema(prefix)); err != nil {
		return errors.Wrap(err, "failed create store schema")
	}
	if withLegacy {
		if _, err := db.Exec(LegacySchema(prefix)); err != nil {
			return errors.Wrap(err, "failed create legacy schema")
		}
	}
	logger.Infof("CreateDB:>schema with prefix %q created", prefix)
	return nil
}

// WordPressDSN sets sql_mode on a MySQL DSN unless it already has one.
func WordPressDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errors.Wrap(err, "failed mysql.ParseDSN")
	}
	if _, ok := cfg.Params["sql_mode"]; !ok {
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params["sql_mode"] = wordPressSQLMode
	}
	return cfg.FormatDSN(), nil
}

// IsRowRejected reports whether err is the database refusing a row by a
// constraint, as opposed to a connection or driver failure.
func IsRowRejected(err error) bool {
	switch e := errors.Cause(err).(type) {
	case *mysql.MySQLError:
		return mysqlRejections[e.Number]
	case sqlite3.Error:
		return e.Code == sqlite3.ErrConstraint
	}
	return false
}
