package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/president/internal/game/engine"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewRedisStore(client), mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	state := engine.NewRoom("123456", engine.Rules{
		UseJokers: true, MinPlayers: 3, MaxPlayers: 5,
	})
	var err error
	state, err = engine.Join(state, "p0", "测试玩家", false)
	require.NoError(t, err)

	// Save
	err = store.SaveRoom(ctx, state.ID, state)
	assert.NoError(t, err)

	// Load
	loaded, err := store.LoadRoom(ctx, state.ID)
	assert.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state.ID, loaded.ID)
	assert.Equal(t, state.Version, loaded.Version)
	assert.Contains(t, loaded.Players, "p0")

	// Delete
	err = store.DeleteRoom(ctx, state.ID)
	assert.NoError(t, err)

	loaded, err = store.LoadRoom(ctx, state.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_GetAllRoomIDs(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	for _, id := range []string{"111111", "222222"} {
		state := engine.NewRoom(id, engine.Rules{MinPlayers: 3, MaxPlayers: 5})
		require.NoError(t, store.SaveRoom(ctx, id, state))
	}

	ids, err := store.GetAllRoomIDs(ctx)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"111111", "222222"}, ids)
}

func TestRedisStore_Sessions(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	session := &SessionData{PlayerID: "p1", Name: "重连者", RoomID: "123456"}
	err := store.SaveSession(ctx, "token-abc", session)
	assert.NoError(t, err)

	loaded, err := store.LoadSession(ctx, "token-abc")
	assert.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "p1", loaded.PlayerID)
	assert.Equal(t, "123456", loaded.RoomID)

	// 未知令牌返回 nil 而不是错误
	missing, err := store.LoadSession(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	err = store.DeleteSession(ctx, "token-abc")
	assert.NoError(t, err)
	loaded, err = store.LoadSession(ctx, "token-abc")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
