package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client used for venue-availability lookups and
// status-update pub/sub. Constructed once in main and injected.
type Cache struct {
	client *redis.Client
}

func NewCache(redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &Cache{client: client}, nil
}

func availabilityKey(venueID uint, date time.Time) string {
	return fmt.Sprintf("venue:availability:%d:%s", venueID, date.Format("2006-01-02"))
}

// SetVenueAvailability caches whether a venue date is open. Advisory
// only; the calendar table is authoritative.
func (c *Cache) SetVenueAvailability(ctx context.Context, venueID uint, date time.Time, available bool) error {
	value := "true"
	if !available {
		value = "false"
	}
	return c.client.Set(ctx, availabilityKey(venueID, date), value, 24*time.Hour).Err()
}

// GetVenueAvailability reads the cached availability flag. A cache
// miss returns redis.Nil.
func (c *Cache) GetVenueAvailability(ctx context.Context, venueID uint, date time.Time) (bool, error) {
	result, err := c.client.Get(ctx, availabilityKey(venueID, date)).Result()
	if err != nil {
		return false, err
	}
	return result == "true", nil
}

// PublishBookingUpdate publishes a booking status change to Redis
// pub/sub for interested services.
func (c *Cache) PublishBookingUpdate(ctx context.Context, bookingID uint, status string, data map[string]interface{}) error {
	updateData := map[string]interface{}{
		"bookingId": bookingID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return c.client.Publish(ctx, "booking:updates", jsonData).Err()
}

// PublishQuoteUpdate publishes a quote status change.
func (c *Cache) PublishQuoteUpdate(ctx context.Context, quoteID uint, status string) error {
	updateData := map[string]interface{}{
		"quoteId":   quoteID,
		"status":    status,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return c.client.Publish(ctx, "quote:updates", jsonData).Err()
}
