package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_HidesOtherHands(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"KH", "3D", "7C"},
		{"4C", "9D"},
		{"5H"},
	})

	snap := Sanitize(s, "p0")
	require.Len(t, snap.Players, 3)

	// 自己的手牌可见且已按当前排序排好
	assert.Equal(t, []string{"3D", "7C", "KH"}, snap.Players[0].Hand)
	assert.Equal(t, 3, snap.Players[0].HandCount)

	// 其他玩家只剩张数
	assert.Nil(t, snap.Players[1].Hand)
	assert.Equal(t, 2, snap.Players[1].HandCount)
	assert.Nil(t, snap.Players[2].Hand)

	// 旁观视角看不到任何手牌
	spectator := Sanitize(s, "")
	for _, p := range spectator.Players {
		assert.Nil(t, p.Hand)
	}
}

func TestSanitize_InvertedHandOrder(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"KH", "3D", "7C"},
		{"4C"},
		{"5H"},
	})
	s.Inversion = true

	snap := Sanitize(s, "p0")
	assert.Equal(t, []string{"KH", "7C", "3D"}, snap.Players[0].Hand)
	assert.True(t, snap.Inversion)
}

func TestSanitize_IsDetachedFromState(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"3D", "7C"},
		{"4C"},
		{"5H"},
	})
	snap := Sanitize(s, "p0")

	snap.Players[0].Hand[0] = "tampered"
	snap.Pattern.Cards = append(snap.Pattern.Cards, "tampered")
	assert.Contains(t, s.Players["p0"].Hand, "3D")
	assert.Empty(t, s.Pattern.Cards)
}

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"3D", "7C"},
		{"4C"},
		{"5H"},
	})

	ops, err := Diff(Sanitize(s, "p0"), Sanitize(s, "p0"))
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestDiff_AfterPlay(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"3D", "7C"},
		{"4C", "9D"},
		{"5H", "AS"},
	})
	before := Sanitize(s, "p1")

	s, err := Play(s, "p0", []string{"3D"})
	require.NoError(t, err)
	after := Sanitize(s, "p1")

	ops, err := Diff(before, after)
	require.NoError(t, err)
	require.NotEmpty(t, ops)

	paths := make(map[string]bool, len(ops))
	for _, op := range ops {
		paths[op.Path] = true
	}
	assert.True(t, paths["/version"])
	assert.True(t, paths["/turn"])
	// p0 的手牌对 p1 不可见，补丁里只有张数变化
	assert.True(t, paths["/players/0/hand_count"])
	assert.False(t, paths["/players/0/hand"])
}

func TestDiff_ArrayLengthChangeReplacesWhole(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"3D", "7C"},
		{"4C"},
		{"5H"},
	})
	before := Sanitize(s, "p0")

	s, err := Play(s, "p0", []string{"3D"})
	require.NoError(t, err)
	after := Sanitize(s, "p0")

	ops, err := Diff(before, after)
	require.NoError(t, err)

	// 自己的手牌从 2 张变 1 张：整个数组被替换
	var found bool
	for _, op := range ops {
		if op.Path == "/players/0/hand" {
			found = true
			assert.Equal(t, "replace", op.Op)
		}
	}
	assert.True(t, found)
}
