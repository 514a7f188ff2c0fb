package bot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/president/internal/game/card"
	"github.com/palemoky/president/internal/game/engine"
)

func buildState(hands [][]string) *engine.RoomState {
	s := engine.NewRoom("bot-room", engine.Rules{
		UseJokers: true, MinPlayers: 3, MaxPlayers: 5, EnableBots: true,
	})
	for i, hand := range hands {
		id := fmt.Sprintf("p%d", i)
		s.Players[id] = &engine.Player{
			ID: id, Name: id, Seat: i,
			Hand:      append([]string(nil), hand...),
			Connected: true, IsBot: true,
		}
	}
	s.Phase = engine.PhasePlay
	s.Turn = "p0"
	return s
}

func TestDecide_NotMyTurn(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"3D", "7C"},
		{"4C"},
		{"5H"},
	})

	_, ok := Decide(engine.Sanitize(s, "p1"), "p1")
	assert.False(t, ok)
}

func TestDecide_LeadsWithWeakestGroup(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"KH", "4C", "4S", "9D"},
		{"5C"},
		{"6H"},
	})
	s.Discard = []string{"3D"}

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionPlay, action.Type)
	assert.ElementsMatch(t, []string{"4C", "4S"}, action.Cards)
}

func TestDecide_OpeningIncludesThrees(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"KH", "3D", "3S", "9D"},
		{"5C"},
		{"6H"},
	})

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionPlay, action.Type)
	assert.ElementsMatch(t, []string{"3D", "3S"}, action.Cards)

	// 决策必须能通过引擎校验
	_, err := engine.Play(s, "p0", action.Cards)
	assert.NoError(t, err)
}

func TestDecide_FollowsWithWeakestLegal(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"5C", "9D", "KH", "AS"},
		{"4C"},
		{"6H"},
	})
	s.Pattern = engine.Pattern{Rank: card.Rank7, Count: 1, Owner: "p2", Cards: []string{"7H"}}
	s.Discard = []string{"3D"}

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionPlay, action.Type)
	assert.Equal(t, []string{"9D"}, action.Cards)
}

func TestDecide_AvoidsTenWhenPossible(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"10C", "QH", "3S"},
		{"4C"},
		{"6H"},
	})
	s.Pattern = engine.Pattern{Rank: card.Rank9, Count: 1, Owner: "p2", Cards: []string{"9H"}}
	s.Discard = []string{"3D"}

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, []string{"QH"}, action.Cards)

	// 只有 10 压得住时才打 10
	s2 := buildState([][]string{
		{"10C", "3S"},
		{"4C"},
		{"6H"},
	})
	s2.Pattern = engine.Pattern{Rank: card.Rank9, Count: 1, Owner: "p2", Cards: []string{"9H"}}
	s2.Discard = []string{"3D"}

	action2, ok := Decide(engine.Sanitize(s2, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, []string{"10C"}, action2.Cards)
}

func TestDecide_FillsWithJokers(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"KH", "JOKERa", "4C"},
		{"5C", "5D"},
		{"6H"},
	})
	s.Pattern = engine.Pattern{Rank: card.Rank9, Count: 2, Owner: "p1", Cards: []string{"9H", "9S"}}
	s.Discard = []string{"3D"}

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionPlay, action.Type)
	assert.ElementsMatch(t, []string{"KH", "JOKERa"}, action.Cards)

	_, err := engine.Play(s, "p0", action.Cards)
	assert.NoError(t, err)
}

func TestDecide_PassesWhenNothingBeats(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"4C", "5S"},
		{"6C"},
		{"7H"},
	})
	s.Pattern = engine.Pattern{Rank: card.RankA, Count: 1, Owner: "p2", Cards: []string{"AH"}}
	s.Discard = []string{"3D"}

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionPass, action.Type)
}

func TestDecide_RespectsJackGate(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"QH", "5S", "JOKERa"},
		{"6C"},
		{"7H"},
	})
	s.Pattern = engine.Pattern{Rank: card.RankJ, Count: 1, Owner: "p2", Cards: []string{"JH"}}
	s.Inversion = true
	s.JackGate = true
	s.Discard = []string{"3D"}

	// 一次性限制下只有低于 J 的点数可出
	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionPlay, action.Type)
	assert.Equal(t, []string{"5S"}, action.Cards)
}

func TestDecide_GiftSplitsLowest(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"3S", "4C", "KH", "AH"},
		{"6C"},
		{"7H"},
	})
	s.Pending = engine.Pending{Kind: engine.EffectGift, Player: "p0", Count: 2}

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionGift, action.Type)

	var all []string
	for _, a := range action.Assignments {
		assert.NotEqual(t, "p0", a.To)
		all = append(all, a.Cards...)
	}
	assert.ElementsMatch(t, []string{"3S", "4C"}, all)

	_, err := engine.SubmitGift(s, "p0", action.Assignments)
	assert.NoError(t, err)
}

func TestDecide_DiscardTakesLowest(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"3S", "4C", "KH"},
		{"6C"},
		{"7H"},
	})
	s.Pending = engine.Pending{Kind: engine.EffectDiscard, Player: "p0", Count: 2}

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionDiscard, action.Type)
	assert.ElementsMatch(t, []string{"3S", "4C"}, action.Cards)
}

func TestDecide_ExchangeReturn(t *testing.T) {
	t.Parallel()

	s := buildState([][]string{
		{"3S", "4C", "KH", "AH"},
		{"6C"},
		{"7H"},
	})
	s.Phase = engine.PhaseExchange
	s.Turn = ""
	s.Exchanges = []engine.ExchangePair{{From: "p1", To: "p0", Count: 2}}

	action, ok := Decide(engine.Sanitize(s, "p0"), "p0")
	require.True(t, ok)
	assert.Equal(t, ActionExchangeReturn, action.Type)
	assert.ElementsMatch(t, []string{"3S", "4C"}, action.Cards)

	// 已回赠的配对不再触发动作
	s.Exchanges[0].Returned = true
	_, ok = Decide(engine.Sanitize(s, "p0"), "p0")
	assert.False(t, ok)
}
