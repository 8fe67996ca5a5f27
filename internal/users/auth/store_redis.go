// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/maktaba/internal/platform/constants"
)

// # Session Store

// RedisSessionStore implements [SessionStore] with one key per user.
type RedisSessionStore struct {
	client redis.UniversalClient
}

// NewSessionStore creates a new Redis-backed [SessionStore].
func NewSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(userID string) string {
	return constants.RedisPrefixSession + userID
}

/*
Save stores token as the only valid token of userID.

Parameters:
  - context: context.Context
  - userID: string
  - token: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisSessionStore) Save(context context.Context, userID, token string, ttl time.Duration) error {
	if err := store.client.Set(context, sessionKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// Get returns the active token of userID, or "" when the session is gone.
func (store *RedisSessionStore) Get(context context.Context, userID string) (string, error) {
	return get(context, store.client, sessionKey(userID), "redis_session_get_failed")
}

// Delete revokes the active token of userID. Deleting a missing key is not an error.
func (store *RedisSessionStore) Delete(context context.Context, userID string) error {
	if err := store.client.Del(context, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

// # OTP Store

// RedisOTPStore implements [OTPStore].
type RedisOTPStore struct {
	client redis.UniversalClient
}

// NewOTPStore creates a new Redis-backed [OTPStore].
func NewOTPStore(client redis.UniversalClient) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(email string) string {
	return constants.RedisPrefixOTP + email
}

func (store *RedisOTPStore) Save(context context.Context, email, code string, ttl time.Duration) error {
	if err := store.client.Set(context, otpKey(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("redis_otp_set_failed: %w", err)
	}
	return nil
}

func (store *RedisOTPStore) Get(context context.Context, email string) (string, error) {
	return get(context, store.client, otpKey(email), "redis_otp_get_failed")
}

func (store *RedisOTPStore) Delete(context context.Context, email string) error {
	if err := store.client.Del(context, otpKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_otp_delete_failed: %w", err)
	}
	return nil
}

// get reads a string key and maps redis.Nil to "".
func get(context context.Context, client redis.UniversalClient, key, failure string) (string, error) {
	value, err := client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", failure, err)
	}
	return value, nil
}
