// Package redis caches shipper earnings summaries in Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"

	radix "github.com/mediocregopher/radix/v3"
	"github.com/shopspring/decimal"
)

const DefaultEarningsTTL = 30 * time.Second

var _ queries.EarningsCache = (*EarningsCache)(nil)

// NewPool opens a connection pool to addr ("host:port").
func NewPool(addr string, size int) (*radix.Pool, error) {
	if size <= 0 {
		size = 10
	}
	pool, err := radix.NewPool("tcp", addr, size)
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return pool, nil
}

// EarningsCache keeps each shipper's summary for a short TTL. Entries are
// never invalidated; a completed delivery shows up once the entry expires.
type EarningsCache struct {
	client radix.Client
	ttl    time.Duration
}

func NewEarningsCache(client radix.Client, ttl time.Duration) *EarningsCache {
	if ttl < time.Second {
		ttl = DefaultEarningsTTL
	}
	return &EarningsCache{client: client, ttl: ttl}
}

func earningsKey(shipperID kernel.UUID) string {
	return "earnings:shipper:" + shipperID.String()
}

type earningsEntry struct {
	Total   decimal.Decimal `json:"total"`
	Today   decimal.Decimal `json:"today"`
	Week    decimal.Decimal `json:"week"`
	Month   decimal.Decimal `json:"month"`
	History []historyEntry  `json:"history"`
}

type historyEntry struct {
	OrderID     kernel.UUID     `json:"orderId"`
	CompletedAt time.Time       `json:"completedAt"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Amount      decimal.Decimal `json:"amount"`
}

func (c *EarningsCache) Get(_ context.Context, shipperID kernel.UUID) (queries.ShipperEarnings, bool, error) {
	if c.client == nil {
		return queries.ShipperEarnings{}, false, nil
	}

	key := earningsKey(shipperID)
	var raw []byte
	mn := radix.MaybeNil{Rcv: &raw}
	if err := c.client.Do(radix.Cmd(&mn, "GET", key)); err != nil {
		return queries.ShipperEarnings{}, false, err
	}
	if mn.Nil || len(raw) == 0 {
		return queries.ShipperEarnings{}, false, nil
	}

	var entry earningsEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// corrupt entry: drop it and read through
		_ = c.client.Do(radix.Cmd(nil, "DEL", key))
		return queries.ShipperEarnings{}, false, nil
	}

	result := queries.ShipperEarnings{
		Total:   entry.Total,
		Today:   entry.Today,
		Week:    entry.Week,
		Month:   entry.Month,
		History: make([]queries.EarningRecord, 0, len(entry.History)),
	}
	for _, h := range entry.History {
		result.History = append(result.History, queries.EarningRecord(h))
	}
	return result, true, nil
}

func (c *EarningsCache) Set(_ context.Context, shipperID kernel.UUID, earnings queries.ShipperEarnings) error {
	if c.client == nil {
		return nil
	}

	entry := earningsEntry{
		Total:   earnings.Total,
		Today:   earnings.Today,
		Week:    earnings.Week,
		Month:   earnings.Month,
		History: make([]historyEntry, 0, len(earnings.History)),
	}
	for _, h := range earnings.History {
		entry.History = append(entry.History, historyEntry(h))
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Do(radix.FlatCmd(nil, "SETEX", earningsKey(shipperID), int64(c.ttl/time.Second), body))
}

// Invalidate removes the shipper's summary so the next read recomputes it.
func (c *EarningsCache) Invalidate(_ context.Context, shipperID kernel.UUID) error {
	if c.client == nil {
		return nil
	}
	return c.client.Do(radix.Cmd(nil, "DEL", earningsKey(shipperID)))
}
