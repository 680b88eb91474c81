// Package migrate runs a whole migration: products first, then orders.
package migrate

import (
	"StoreImport/internal/migrate/order"
	"StoreImport/internal/migrate/outcome"
	"StoreImport/internal/migrate/product"
	"StoreImport/internal/source"
	"StoreImport/internal/source/velocity"
	"StoreImport/internal/source/woocommerce"
	"StoreImport/internal/store"
	"StoreImport/internal/store/wpdb"
	"StoreImport/pkg/logging"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Stage string

const (
	StageStart           Stage = "start"
	StageMigrateProducts Stage = "migrate_products"
	StageMigrateOrders   Stage = "migrate_orders"
	StageErrorCaught     Stage = "error_caught"
	StageDone            Stage = "done"
)

const (
	KindProduct = "product"
	KindOrder   = "order"
)

// Observer is told about every record outcome and about the finished run.
type Observer interface {
	Observe(kind string, src source.Kind, o outcome.Outcome)
	Finished(res *Result)
}

type Option func(*Runner)

func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

type Runner struct {
	adapter  source.Adapter
	products *product.Transformer
	orders   *order.Transformer
	observer Observer
	now      func() time.Time
}

// New builds a runner over adapter. If the adapter can resolve locations it is
// used for order addresses.
func New(backend store.Backend, adapter source.Adapter, opts ...Option) *Runner {
	var locations order.LocationLookup
	if l, ok := adapter.(order.LocationLookup); ok {
		locations = l
	}
	products := product.New(backend, adapter.Kind())
	r := &Runner{
		adapter:  adapter,
		products: products,
		orders:   order.New(backend, adapter.Kind(), products, locations),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewAdapter returns the source adapter for kind. pageSize applies to Velocity
// orders, 0 means the default.
func NewAdapter(kind source.Kind, backend store.Backend, legacy *wpdb.Legacy, pageSize int) source.Adapter {
	if kind == source.WooCommerce {
		return woocommerce.New(backend, legacy)
	}
	return velocity.New(backend, legacy, pageSize)
}

// Run migrates everything the adapter yields. It always returns a result: an
// error or panic stops the run and is recorded in Errors.
func (r *Runner) Run() *Result {
	res := &Result{
		RunID:     uuid.New().String(),
		Source:    r.adapter.Kind().String(),
		Errors:    []RunError{},
		StartedAt: r.now(),
	}
	logger := logging.GetLogger().WithField("run", res.RunID)
	logger.Infof("Start Run, source %s", res.Source)
	defer logger.Info("End Run")

	stage := StageStart
	func() {
		defer func() {
			if p := recover(); p != nil {
				res.fail(stage, panicError(p))
			}
		}()

		stage = StageMigrateProducts
		if err := r.migrateProducts(res); err != nil {
			res.fail(stage, errorEntry(err))
			return
		}
		stage = StageMigrateOrders
		if err := r.migrateOrders(res); err != nil {
			res.fail(stage, errorEntry(err))
		}
	}()

	if res.FailedStage != "" {
		logger.Errorf("Stage %s -> %s: %s", res.FailedStage, StageErrorCaught, res.Errors[len(res.Errors)-1].Message)
	}
	res.FinishedAt = r.now()
	logger.Infof("Stage %s: products %d (skipped %d, failed %d), orders %d (skipped %d, failed %d)",
		StageDone, res.Products, res.ProductsSkipped, res.ProductsFailed, res.Orders, res.OrdersSkipped, res.OrdersFailed)
	if r.observer != nil {
		r.observer.Finished(res)
	}
	return res
}

func (r *Runner) migrateProducts(res *Result) error {
	logger := logging.GetLogger()
	logger.Info("Start migrateProducts")
	defer logger.Info("End migrateProducts")

	products, err := r.adapter.Products()
	if err != nil {
		return errors.Wrap(err, "failed read source products")
	}
	logger.Infof("Source products: %d", len(products))

	for _, p := range products {
		if logger.DebugEnabled() {
			logger.Debug(spew.Sdump(p))
		}
		_, o, err := r.products.MigrateOne(p)
		if err == nil || o == outcome.Migrated {
			r.record(res, KindProduct, o)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) migrateOrders(res *Result) error {
	logger := logging.GetLogger()
	logger.Info("Start migrateOrders")
	defer logger.Info("End migrateOrders")

	ok, err := r.adapter.HasOrders()
	if err != nil {
		return errors.Wrap(err, "failed check source orders")
	}
	if !ok {
		logger.Info("No source order table, orders skipped")
		return nil
	}

	size := r.adapter.OrderPageSize()
	for offset := 0; ; offset += size {
		page, err := r.adapter.Orders(size, offset)
		if err != nil {
			return errors.Wrapf(err, "failed read source orders at offset %d", offset)
		}
		if len(page) == 0 {
			break
		}
		logger.Debugf("Orders page at offset %d: %d", offset, len(page))

		for _, o := range page {
			if logger.DebugEnabled() {
				logger.Debug(spew.Sdump(o))
			}
			_, out, err := r.orders.MigrateOne(o)
			if err == nil || out == outcome.Migrated {
				r.record(res, KindOrder, out)
			}
			if err != nil {
				return err
			}
		}
		if size <= 0 {
			break
		}
	}
	return nil
}

func (r *Runner) record(res *Result, kind string, o outcome.Outcome) {
	res.count(kind, o)
	if r.observer != nil {
		r.observer.Observe(kind, r.adapter.Kind(), o)
	}
}
