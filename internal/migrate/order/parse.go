package order

import (
	"StoreImport/internal/source"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	StatusPending         = "pending"
	StatusAwaitingPayment = "awaiting_payment"
	StatusProcessing      = "processing"
	StatusShipped         = "shipped"
	StatusCompleted       = "completed"
	StatusCancelled       = "cancelled"
)

var velocityStatuses = map[string]string{
	"Transaksi Baru":      StatusPending,
	"Menunggu Pembayaran": StatusPending,
	"Lunas":               StatusProcessing,
	"Proses":              StatusProcessing,
	"Dikirim":             StatusShipped,
	"Selesai":             StatusCompleted,
	"Batal":               StatusCancelled,
}

var wooStatuses = map[string]string{
	"wc-pending":    StatusPending,
	"wc-on-hold":    StatusAwaitingPayment,
	"wc-processing": StatusProcessing,
	"wc-completed":  StatusCompleted,
	"wc-cancelled":  StatusCancelled,
	"wc-failed":     StatusCancelled,
	"wc-refunded":   StatusCancelled,
}

// MapStatus translates a source status label; unknown labels are pending.
func MapStatus(kind source.Kind, status string) string {
	table := velocityStatuses
	if kind == source.WooCommerce {
		table = wooStatuses
	}
	if s, ok := table[status]; ok {
		return s
	}
	return StatusPending
}

type Shipping struct {
	Courier string
	Service string
	Cost    decimal.Decimal
}

// ParseShipping reads a "courier - service - cost" descriptor. Cost is a
// thousand-separated integer such as "15.000"; missing parts are "" and 0.
func ParseShipping(s string) Shipping {
	parts := strings.Split(s, "-")
	part := func(i int, def string) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return def
	}

	cost := strings.NewReplacer(".", "", ",", "").Replace(part(2, "0"))
	return Shipping{
		Courier: part(0, ""),
		Service: part(1, ""),
		Cost:    parseAmount(cost),
	}
}

// parseAmount reads a number, or its leading integer part, 0 when there is none.
func parseAmount(s string) decimal.Decimal {
	if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
		return d
	}
	return decimal.NewFromInt(source.ToInt(s))
}
