package services

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"goaround-bot/internal/constants"
	"goaround-bot/internal/models"
	"goaround-bot/internal/store"
)

// PlaceCache stores provider place records by ID without expiry.
// A bounded LRU sits in front of the store for hot reads.
type PlaceCache struct {
	store  store.Store
	hot    *lru.Cache[string, models.Place]
	logger *logrus.Logger
}

// NewPlaceCache creates a new place cache
func NewPlaceCache(st store.Store, size int, logger *logrus.Logger) (*PlaceCache, error) {
	if size <= 0 {
		size = constants.DefaultPlaceCacheSize
	}
	hot, err := lru.New[string, models.Place](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create place LRU: %w", err)
	}
	return &PlaceCache{store: st, hot: hot, logger: logger}, nil
}

func placeKey(id string) string {
	return constants.PlaceKeyPrefix + id
}

// Put writes a place, overwriting any previous record with the same ID
func (c *PlaceCache) Put(ctx context.Context, place models.Place) error {
	if place.ID == "" {
		return fmt.Errorf("place without ID cannot be cached")
	}
	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("failed to encode place %s: %w", place.ID, err)
	}
	if err := c.store.Set(ctx, placeKey(place.ID), string(data), 0); err != nil {
		return err
	}
	c.hot.Add(place.ID, place)
	return nil
}

// Get returns a cached place; a missing or unreadable record is a miss
func (c *PlaceCache) Get(ctx context.Context, id string) (*models.Place, error) {
	if place, ok := c.hot.Get(id); ok {
		return &place, nil
	}

	data, ok, err := c.store.Get(ctx, placeKey(id))
	if err != nil || !ok {
		return nil, err
	}

	var place models.Place
	if err := json.Unmarshal([]byte(data), &place); err != nil {
		c.logger.Warnf("Ignoring unreadable cached place %s: %v", id, err)
		return nil, nil
	}
	c.hot.Add(id, place)
	return &place, nil
}

// Exists reports whether a place is cached
func (c *PlaceCache) Exists(ctx context.Context, id string) (bool, error) {
	place, err := c.Get(ctx, id)
	return place != nil, err
}
