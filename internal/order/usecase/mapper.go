package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"
	"github.com/shopspring/decimal"
)

var statusMap = map[string]string{
	"pending":    model.OrderStatusPending,
	"on-hold":    model.OrderStatusPending,
	"processing": model.OrderStatusConfirmed,
	"completed":  model.OrderStatusDelivered,
	"cancelled":  model.OrderStatusCancelled,
	"refunded":   model.OrderStatusCancelled,
	"failed":     model.OrderStatusCancelled,
}

func MapStatus(remote string) string {
	if s, ok := statusMap[strings.ToLower(strings.TrimSpace(remote))]; ok {
		return s
	}
	return model.OrderStatusPending
}

type totals struct {
	Subtotal    float64
	DeliveryFee float64
	Total       float64
}

// computeTotals derives subtotal = total - shipping. Empty amounts read as
// zero; anything else that does not parse is an error.
func computeTotals(total, shipping string) (totals, error) {
	t, err := parseAmount(total)
	if err != nil {
		return totals{}, fmt.Errorf("order total: %w", err)
	}
	s, err := parseAmount(shipping)
	if err != nil {
		return totals{}, fmt.Errorf("shipping total: %w", err)
	}
	return totals{
		Subtotal:    t.Sub(s).Round(2).InexactFloat64(),
		DeliveryFee: s.Round(2).InexactFloat64(),
		Total:       t.Round(2).InexactFloat64(),
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// unitPrice prefers the remote unit price and falls back to line total
// divided by quantity.
func unitPrice(li woocommerce.LineItem) float64 {
	if li.Price > 0 {
		return decimal.NewFromFloat(li.Price).Round(2).InexactFloat64()
	}
	t, err := parseAmount(li.Total)
	if err != nil || li.Quantity <= 0 {
		return 0
	}
	return t.Div(decimal.NewFromInt(int64(li.Quantity))).Round(2).InexactFloat64()
}

func composeAddress(a woocommerce.Address) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Address1, a.Address2, a.City, a.State, a.Postcode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// deliveryAddress uses the shipping address when it has a street line.
func deliveryAddress(ro *woocommerce.RemoteOrder) string {
	if strings.TrimSpace(ro.Shipping.Address1) != "" {
		return composeAddress(ro.Shipping)
	}
	return composeAddress(ro.Billing)
}

var remoteTimeLayouts = []string{"2006-01-02T15:04:05", time.RFC3339}

// parseRemoteTime reads a GMT timestamp; fallback is used when it is missing
// or malformed.
func parseRemoteTime(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range remoteTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return fallback
}
