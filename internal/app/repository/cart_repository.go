package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/fitstore/fitstore-backend/internal/storage"
	"github.com/fitstore/fitstore-backend/pkg/logger"
)

const (
	cartKeyPrefix    = "cart:"
	profileKeyPrefix = "checkout_user:"
)

// cartEnvelope is the serialized form of a persisted cart.
type cartEnvelope struct {
	Items []model.CartItem `json:"items"`
}

// CartRepository persists session-scoped cart state and the remembered
// checkout profile. Versions returned by LoadCart/SaveCart feed the KV
// store's optimistic write check.
type CartRepository interface {
	LoadCart(ctx context.Context, sessionID string) ([]model.CartItem, int64, error)
	SaveCart(ctx context.Context, sessionID string, items []model.CartItem, expectedVersion int64) (int64, error)
	LoadProfile(ctx context.Context, sessionID string) (*model.CheckoutProfile, error)
	SaveProfile(ctx context.Context, sessionID string, profile model.CheckoutProfile) error
}

type kvCartRepository struct {
	kv storage.KV
}

func NewCartRepository(kv storage.KV) CartRepository {
	return &kvCartRepository{kv: kv}
}

// LoadCart hydrates the persisted item list. A missing key is an empty cart;
// an unparseable payload is discarded and the cart resets to empty (fail-soft,
// the stored version is kept so the next save overwrites the bad data).
func (r *kvCartRepository) LoadCart(ctx context.Context, sessionID string) ([]model.CartItem, int64, error) {
	value, version, err := r.kv.Get(ctx, cartKeyPrefix+sessionID)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	var envelope cartEnvelope
	if err := json.Unmarshal([]byte(value), &envelope); err != nil {
		logger.Warn("Discarding corrupt persisted cart", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, version, nil
	}
	return envelope.Items, version, nil
}

func (r *kvCartRepository) SaveCart(ctx context.Context, sessionID string, items []model.CartItem, expectedVersion int64) (int64, error) {
	if items == nil {
		items = []model.CartItem{}
	}
	payload, err := json.Marshal(cartEnvelope{Items: items})
	if err != nil {
		return 0, fmt.Errorf("failed to serialize cart: %w", err)
	}
	return r.kv.Put(ctx, cartKeyPrefix+sessionID, string(payload), expectedVersion)
}

// LoadProfile returns the remembered checkout profile, or nil when none is
// stored or the stored value cannot be parsed.
func (r *kvCartRepository) LoadProfile(ctx context.Context, sessionID string) (*model.CheckoutProfile, error) {
	value, _, err := r.kv.Get(ctx, profileKeyPrefix+sessionID)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var profile model.CheckoutProfile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		logger.Warn("Discarding corrupt checkout profile", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, nil
	}
	return &profile, nil
}

func (r *kvCartRepository) SaveProfile(ctx context.Context, sessionID string, profile model.CheckoutProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to serialize checkout profile: %w", err)
	}

	key := profileKeyPrefix + sessionID
	for attempt := 0; attempt < 2; attempt++ {
		_, version, err := r.kv.Get(ctx, key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			version = 0
		} else if err != nil {
			return err
		}

		_, err = r.kv.Put(ctx, key, string(payload), version)
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		return err
	}
	return storage.ErrVersionConflict
}
