package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// PriceCache stores recent USD asset prices.
type PriceCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewPriceCache creates a new PriceCache whose entries live for ttl.
func NewPriceCache(client redis.UniversalClient, ttl time.Duration) *PriceCache {
	return &PriceCache{
		client: client,
		prefix: "mintledger:price:",
		ttl:    ttl,
	}
}

// Get returns the cached price of asset. ok is false on a miss.
func (c *PriceCache) Get(ctx context.Context, asset string) (price decimal.Decimal, ok bool, err error) {
	raw, err := c.client.Get(ctx, c.key(asset)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}

	price, err = decimal.NewFromString(raw)
	if err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		return decimal.Zero, false, nil
	}

	return price, true, nil
}

// Set caches price for asset.
func (c *PriceCache) Set(ctx context.Context, asset string, price decimal.Decimal) error {
	return c.client.Set(ctx, c.key(asset), price.String(), c.ttl).Err()
}

func (c *PriceCache) key(asset string) string {
	return c.prefix + strings.ToUpper(asset)
}
