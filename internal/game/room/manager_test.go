package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetOrCreate(t *testing.T) {
	t.Parallel()

	m := NewManager(testConfig(), nil)
	defer m.CloseAll()

	r1 := m.GetOrCreate("")
	require.NotNil(t, r1)
	assert.Len(t, r1.ID, 6)

	// 同一房间号返回同一实例
	r2 := m.GetOrCreate(r1.ID)
	assert.Same(t, r1, r2)
	assert.Equal(t, 1, m.Count())

	r3 := m.GetOrCreate("")
	assert.NotEqual(t, r1.ID, r3.ID)
	assert.Equal(t, 2, m.Count())
}

func TestManager_GetAndRemove(t *testing.T) {
	t.Parallel()

	m := NewManager(testConfig(), nil)
	defer m.CloseAll()

	r := m.GetOrCreate("654321")

	got, exists := m.Get("654321")
	assert.True(t, exists)
	assert.Same(t, r, got)

	m.Remove("654321")
	_, exists = m.Get("654321")
	assert.False(t, exists)
	assert.Equal(t, 0, m.Count())

	// 重复移除不炸
	m.Remove("654321")
}

func TestManager_ReapIdleRooms(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Game.RoomTimeout = -1 // 负超时让所有房间立即过期
	m := NewManager(cfg, nil)
	defer m.CloseAll()

	m.GetOrCreate("111111")
	m.GetOrCreate("222222")
	require.Equal(t, 2, m.Count())

	m.reapIdle()
	assert.Equal(t, 0, m.Count())
}
