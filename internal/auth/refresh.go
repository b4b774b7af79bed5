package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrRefreshNotFound = errors.New("refresh token not found")

// RefreshStore keeps opaque refresh tokens in Redis, one key per token.
// Rotation deletes the presented token before minting a replacement, so a
// token can be redeemed at most once.
type RefreshStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRefreshStore(rdb *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{rdb: rdb, ttl: ttl}
}

func key(token string) string { return "refresh:" + token }

func (s *RefreshStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, key(token), userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Rotate redeems token and returns the owning user id plus a fresh token.
func (s *RefreshStore) Rotate(ctx context.Context, token string) (string, string, error) {
	userID, err := s.rdb.GetDel(ctx, key(token)).Result()
	if err == redis.Nil {
		return "", "", ErrRefreshNotFound
	}
	if err != nil {
		return "", "", err
	}
	next, err := s.Issue(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return userID, next, nil
}

func (s *RefreshStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, key(token)).Err()
}
