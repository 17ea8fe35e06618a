package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"absensi-guard/internal/antifraud"
	"absensi-guard/internal/models"
)

const historyKeyPrefix = "location_history:"

// RedisHistoryStore is the durable HistoryStore implementation: a bounded
// list under one key per client, surviving process restarts.
type RedisHistoryStore struct {
	redis    *Redis
	capacity int64
}

// NewRedisHistoryStore creates a store bounded to the standard history
// capacity.
func NewRedisHistoryStore(r *Redis) *RedisHistoryStore {
	return &RedisHistoryStore{redis: r, capacity: antifraud.HistoryCapacity}
}

func (s *RedisHistoryStore) key(clientID string) string {
	return historyKeyPrefix + clientID
}

func (s *RedisHistoryStore) Recent(ctx context.Context, clientID string) ([]models.HistoryEntry, error) {
	values, err := s.redis.Client.LRange(ctx, s.key(clientID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read location history: %w", err)
	}

	entries := make([]models.HistoryEntry, 0, len(values))
	for _, value := range values {
		var entry models.HistoryEntry
		if err := json.Unmarshal([]byte(value), &entry); err != nil {
			// Skip unparsable legacy entries rather than failing the read
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RedisHistoryStore) Append(ctx context.Context, clientID string, entry models.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := s.key(clientID)
	if err := s.redis.Client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to append location history: %w", err)
	}
	// Keep only the newest entries
	return s.redis.Client.LTrim(ctx, key, -s.capacity, -1).Err()
}

func (s *RedisHistoryStore) Clear(ctx context.Context, clientID string) error {
	return s.redis.Client.Del(ctx, s.key(clientID)).Err()
}
