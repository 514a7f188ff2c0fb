package room

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/president/internal/config"
	"github.com/palemoky/president/internal/server/storage"
)

// Manager 管理所有活跃房间
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg   *config.Config
	store *storage.RedisStore
}

// NewManager 创建房间管理器
func NewManager(cfg *config.Config, store *storage.RedisStore) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		cfg:   cfg,
		store: store,
	}
}

// GetOrCreate 按房间号取房间，不存在则创建。房间号为空时生成新号。
func (m *Manager) GetOrCreate(code string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if code == "" {
		code = m.generateRoomCode()
	}
	if r, exists := m.rooms[code]; exists {
		return r
	}

	r := New(code, m.cfg, m.store)
	m.rooms[code] = r
	log.Printf("🏠 房间 %s 已创建", code)
	return r
}

// GetOrRestore 查找房间，内存里没有时尝试从 Redis 恢复。
// 服务器重启后玩家凭房间号即可回到原牌局。
func (m *Manager) GetOrRestore(ctx context.Context, code string) (*Room, bool) {
	if r, exists := m.Get(code); exists {
		return r, true
	}
	if m.store == nil {
		return nil, false
	}

	state, err := m.store.LoadRoom(ctx, code)
	if err != nil {
		log.Printf("⚠️ 从 Redis 恢复房间 %s 失败: %v", code, err)
		return nil, false
	}
	if state == nil {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, exists := m.rooms[code]; exists {
		return r, true
	}
	r := Restore(state, m.cfg, m.store)
	m.rooms[code] = r
	log.Printf("♻️ 房间 %s 已从 Redis 恢复", code)
	return r, true
}

// Get 查找房间
func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, exists := m.rooms[code]
	return r, exists
}

// Count 活跃房间数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Remove 关闭并移除房间
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	r, exists := m.rooms[code]
	if exists {
		delete(m.rooms, code)
	}
	m.mu.Unlock()

	if !exists {
		return
	}
	r.Close()

	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = m.store.DeleteRoom(ctx, code)
	}
	log.Printf("🗑️ 房间 %s 已关闭", code)
}

// RunReaper 周期性清理闲置房间，直到 ctx 结束
func (m *Manager) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reapIdle()
		}
	}
}

func (m *Manager) reapIdle() {
	timeout := m.cfg.Game.RoomTimeoutDuration()
	cutoff := time.Now().Add(-timeout)

	m.mu.RLock()
	var idle []string
	for code, r := range m.rooms {
		if r.LastActivity().Before(cutoff) {
			idle = append(idle, code)
		}
	}
	m.mu.RUnlock()

	for _, code := range idle {
		log.Printf("🧹 房间 %s 闲置超过 %s，回收", code, timeout)
		m.Remove(code)
	}
}

// CloseAll 关闭所有房间（服务器退出时调用）
func (m *Manager) CloseAll() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
}

// generateRoomCode 生成 6 位数字房间号，调用方需持有锁
func (m *Manager) generateRoomCode() string {
	for {
		code := fmt.Sprintf("%06d", rand.IntN(1000000))
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}
