package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/president/internal/game/engine"
)

const (
	// Redis key 前缀
	roomKeyPrefix    = "room:"
	sessionKeyPrefix = "session:"

	// 房间数据过期时间
	roomExpiration = 2 * time.Hour

	// 重连会话过期时间
	sessionExpiration = 24 * time.Hour
)

// SessionData 重连会话数据
type SessionData struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	RoomID   string `json:"room_id,omitempty"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- 房间存储 ---

// SaveRoom 保存房间状态到 Redis
func (rs *RedisStore) SaveRoom(ctx context.Context, roomID string, state *engine.RoomState) error {
	if state == nil {
		return nil
	}

	jsonData, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("序列化房间状态失败: %w", err)
	}

	key := roomKeyPrefix + roomID
	return rs.client.Set(ctx, key, jsonData, roomExpiration).Err()
}

// LoadRoom 从 Redis 加载房间状态，房间不存在时返回 (nil, nil)
func (rs *RedisStore) LoadRoom(ctx context.Context, roomID string) (*engine.RoomState, error) {
	key := roomKeyPrefix + roomID
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var state engine.RoomState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("反序列化房间状态失败: %w", err)
	}
	return &state, nil
}

// DeleteRoom 从 Redis 删除房间
func (rs *RedisStore) DeleteRoom(ctx context.Context, roomID string) error {
	key := roomKeyPrefix + roomID
	return rs.client.Del(ctx, key).Err()
}

// GetAllRoomIDs 获取所有房间号
func (rs *RedisStore) GetAllRoomIDs(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(keys))
	for i, key := range keys {
		ids[i] = key[len(roomKeyPrefix):]
	}
	return ids, nil
}

// --- 重连会话 ---

// SaveSession 保存重连会话
func (rs *RedisStore) SaveSession(ctx context.Context, token string, data *SessionData) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}

	key := sessionKeyPrefix + token
	return rs.client.Set(ctx, key, jsonData, sessionExpiration).Err()
}

// LoadSession 加载重连会话，会话不存在时返回 (nil, nil)
func (rs *RedisStore) LoadSession(ctx context.Context, token string) (*SessionData, error) {
	key := sessionKeyPrefix + token
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("反序列化会话失败: %w", err)
	}
	return &session, nil
}

// DeleteSession 删除重连会话
func (rs *RedisStore) DeleteSession(ctx context.Context, token string) error {
	key := sessionKeyPrefix + token
	return rs.client.Del(ctx, key).Err()
}
