package metrics

import (
	"StoreImport/internal/migrate"
	"StoreImport/internal/migrate/outcome"
	"StoreImport/internal/source"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	Assert := assert.New(t)
	c := New()

	c.Observe(migrate.KindProduct, source.Velocity, outcome.Migrated)
	c.Observe(migrate.KindProduct, source.Velocity, outcome.Migrated)
	c.Observe(migrate.KindOrder, source.Velocity, outcome.Skipped)

	Assert.Equal(2.0, testutil.ToFloat64(c.records.WithLabelValues("product", "velocity", "migrated")))
	Assert.Equal(1.0, testutil.ToFloat64(c.records.WithLabelValues("order", "velocity", "skipped")))
	Assert.Equal(2, testutil.CollectAndCount(c.records))
}

func TestFinished(t *testing.T) {
	Assert := assert.New(t)
	c := New()
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	c.Finished(&migrate.Result{Source: "woocommerce", Errors: []migrate.RunError{}, StartedAt: start, FinishedAt: start.Add(90 * time.Second)})
	Assert.Equal(90.0, testutil.ToFloat64(c.duration.WithLabelValues("woocommerce")))
	Assert.Equal(float64(start.Add(90*time.Second).Unix()), testutil.ToFloat64(c.lastSuccess.WithLabelValues("woocommerce")))
	Assert.Equal(0.0, testutil.ToFloat64(c.runErrors.WithLabelValues("woocommerce")))

	c.Finished(&migrate.Result{Source: "woocommerce", Errors: []migrate.RunError{{Message: "boom"}}, StartedAt: start, FinishedAt: start.Add(time.Hour)})
	Assert.Equal(1.0, testutil.ToFloat64(c.runErrors.WithLabelValues("woocommerce")))
	Assert.Equal(float64(start.Add(90*time.Second).Unix()), testutil.ToFloat64(c.lastSuccess.WithLabelValues("woocommerce")))
}

func TestPush(t *testing.T) {
	Assert := assert.New(t)
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New()
	c.Observe(migrate.KindOrder, source.WooCommerce, outcome.Failed)
	require.NoError(t, c.Push(srv.URL, "storeimport"))
	Assert.Equal(http.MethodPut, method)
	Assert.Equal("/metrics/job/storeimport", path)
	Assert.NotEmpty(body)
}

func TestPushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New().Push(srv.URL, "storeimport")
	assert.Error(t, err)
}
