package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// BookedSlotsFetcher returns the taken slot times for a date
type BookedSlotsFetcher func(ctx context.Context, date string) ([]string, error)

// SlotsCache caches per-date slot availability. Availability only changes
// when a booking lands, so a short TTL keeps the date picker cheap without
// showing stale slots for long.
type SlotsCache struct {
	cache   *gocache.Cache
	fetcher BookedSlotsFetcher
}

// NewSlotsCache creates a new availability cache
func NewSlotsCache(fetcher BookedSlotsFetcher, ttlSeconds int) *SlotsCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &SlotsCache{
		cache:   gocache.New(ttl, 10*time.Minute),
		fetcher: fetcher,
	}
}

// AvailableSlots returns the open slot times for a date
func (sc *SlotsCache) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	if data, found := sc.cache.Get(date); found {
		metrics.CacheHits.WithLabelValues("slots").Inc()
		slots, ok := data.([]string)
		if !ok {
			logger.Error("Invalid slots cache data type", zap.String("date", date))
			sc.cache.Delete(date)
			return nil, fmt.Errorf("invalid cache data type")
		}
		return slots, nil
	}

	metrics.CacheMisses.WithLabelValues("slots").Inc()

	booked, err := sc.fetcher(ctx, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	available := make([]string, 0, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}

	sc.cache.SetDefault(date, available)
	return available, nil
}

// Invalidate drops the cached availability for a date, called after a
// booking lands so the slot disappears immediately
func (sc *SlotsCache) Invalidate(date string) {
	sc.cache.Delete(date)
}
