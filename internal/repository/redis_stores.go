package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinemor/booking-api/internal/domain"
)

// Session-scoped state lives in Redis keyed by the scs session token, the
// server-side counterpart of the browser's durable storage. Every mutation
// writes through; reads of a missing key yield the zero state.
const (
	bookingKeyPrefix   = "booking:"
	cartKeyPrefix      = "cart:"
	pendingKeyPrefix   = "pending_action:"
	selectionKeyPrefix = "seat_selection:"

	bookingTTL   = 24 * time.Hour
	cartTTL      = 24 * time.Hour
	pendingTTL   = 30 * time.Minute
	selectionTTL = 30 * time.Minute
)

type sessionStore struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func (s sessionStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s sessionStore) get(ctx context.Context, sessionID string, dest any) (bool, error) {
	data, err := s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s state: %w", s.prefix, err)
	}

	return true, nil
}

func (s sessionStore) save(ctx context.Context, sessionID string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

func (s sessionStore) delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, s.key(sessionID)).Err()
}

// rename carries state across a session token renewal on login. A missing
// source key simply means there was nothing to carry over.
func (s sessionStore) rename(ctx context.Context, oldSessionID, newSessionID string) error {
	exists, err := s.rdb.Exists(ctx, s.key(oldSessionID)).Result()
	if err != nil {
		return err
	}

	if exists == 0 {
		return nil
	}

	return s.rdb.Rename(ctx, s.key(oldSessionID), s.key(newSessionID)).Err()
}

type RedisBookingRepository struct {
	store sessionStore
}

func NewRedisBookingRepository(rdb redis.UniversalClient) *RedisBookingRepository {
	return &RedisBookingRepository{
		store: sessionStore{rdb: rdb, prefix: bookingKeyPrefix, ttl: bookingTTL},
	}
}

func (r *RedisBookingRepository) Get(ctx context.Context, sessionID string) (*domain.BookingDraft, error) {
	var draft domain.BookingDraft

	if _, err := r.store.get(ctx, sessionID, &draft); err != nil {
		return nil, err
	}

	return &draft, nil
}

func (r *RedisBookingRepository) Save(ctx context.Context, sessionID string, draft *domain.BookingDraft) error {
	return r.store.save(ctx, sessionID, draft)
}

func (r *RedisBookingRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, sessionID)
}

func (r *RedisBookingRepository) Rename(ctx context.Context, oldSessionID, newSessionID string) error {
	return r.store.rename(ctx, oldSessionID, newSessionID)
}

type RedisCartRepository struct {
	store sessionStore
}

func NewRedisCartRepository(rdb redis.UniversalClient) *RedisCartRepository {
	return &RedisCartRepository{
		store: sessionStore{rdb: rdb, prefix: cartKeyPrefix, ttl: cartTTL},
	}
}

func (r *RedisCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart

	if _, err := r.store.get(ctx, sessionID, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	return r.store.save(ctx, sessionID, cart)
}

func (r *RedisCartRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, sessionID)
}

func (r *RedisCartRepository) Rename(ctx context.Context, oldSessionID, newSessionID string) error {
	return r.store.rename(ctx, oldSessionID, newSessionID)
}

type RedisPendingActionRepository struct {
	store sessionStore
}

func NewRedisPendingActionRepository(rdb redis.UniversalClient) *RedisPendingActionRepository {
	return &RedisPendingActionRepository{
		store: sessionStore{rdb: rdb, prefix: pendingKeyPrefix, ttl: pendingTTL},
	}
}

func (r *RedisPendingActionRepository) Get(ctx context.Context, sessionID string) (*domain.PendingAction, error) {
	var action domain.PendingAction

	found, err := r.store.get(ctx, sessionID, &action)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	return &action, nil
}

func (r *RedisPendingActionRepository) Save(ctx context.Context, sessionID string, action *domain.PendingAction) error {
	return r.store.save(ctx, sessionID, action)
}

func (r *RedisPendingActionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, sessionID)
}

func (r *RedisPendingActionRepository) Rename(ctx context.Context, oldSessionID, newSessionID string) error {
	return r.store.rename(ctx, oldSessionID, newSessionID)
}

type RedisSeatSelectionRepository struct {
	store sessionStore
}

func NewRedisSeatSelectionRepository(rdb redis.UniversalClient) *RedisSeatSelectionRepository {
	return &RedisSeatSelectionRepository{
		store: sessionStore{rdb: rdb, prefix: selectionKeyPrefix, ttl: selectionTTL},
	}
}

func (r *RedisSeatSelectionRepository) Get(ctx context.Context, sessionID string) (*domain.SeatSelection, error) {
	var selection domain.SeatSelection

	found, err := r.store.get(ctx, sessionID, &selection)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	return &selection, nil
}

func (r *RedisSeatSelectionRepository) Save(ctx context.Context, sessionID string, selection *domain.SeatSelection) error {
	return r.store.save(ctx, sessionID, selection)
}

func (r *RedisSeatSelectionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, sessionID)
}

func (r *RedisSeatSelectionRepository) Rename(ctx context.Context, oldSessionID, newSessionID string) error {
	return r.store.rename(ctx, oldSessionID, newSessionID)
}
