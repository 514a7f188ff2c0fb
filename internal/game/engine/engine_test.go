package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/president/internal/apperrors"
	"github.com/palemoky/president/internal/game/card"
)

var testRules = Rules{UseJokers: true, MinPlayers: 3, MaxPlayers: 5, EnableBots: true}

// buildPlayState 构造一个处于出牌阶段的房间，p0 先手。
// 手牌是人为指定的，所以只有整副发牌的测试才检查牌数守恒。
func buildPlayState(hands [][]string) *RoomState {
	s := NewRoom("test-room", testRules)
	for i, hand := range hands {
		id := fmt.Sprintf("p%d", i)
		s.Players[id] = &Player{
			ID:        id,
			Name:      id,
			Seat:      i,
			Hand:      append([]string(nil), hand...),
			Connected: true,
		}
	}
	s.Phase = PhasePlay
	s.Turn = "p0"
	return s
}

func joinN(t *testing.T, s *RoomState, n int) *RoomState {
	t.Helper()
	for i := 0; i < n; i++ {
		var err error
		s, err = Join(s, fmt.Sprintf("p%d", i), fmt.Sprintf("玩家%d", i), false)
		require.NoError(t, err)
	}
	return s
}

func seedPtr(v uint64) *uint64 { return &v }

func TestJoin(t *testing.T) {
	t.Parallel()

	s := NewRoom("r1", testRules)
	s = joinN(t, s, 5)
	assert.Len(t, s.Players, 5)
	assert.Equal(t, 2, s.Players["p2"].Seat)

	_, err := Join(s, "p5", "晚到", false)
	assertCode(t, err, apperrors.ErrRoomFull.Code)

	_, err = Join(s, "p0", "重复", false)
	assertCode(t, err, apperrors.ErrActionNotAllowed.Code)
}

func TestStart_DealsEvenly(t *testing.T) {
	t.Parallel()

	s := NewRoom("r1", testRules)
	s = joinN(t, s, 4)

	s, err := Start(s, seedPtr(42))
	require.NoError(t, err)

	assert.Equal(t, PhasePlay, s.Phase)
	for _, p := range s.Players {
		assert.Len(t, p.Hand, 13)
	}
	assert.Len(t, s.Deck, 2)
	assert.Equal(t, testRules.DeckSize(), s.CountCards())

	// 先手是方块 3 的持有者
	holder := s.holderOf(card.OpeningCard)
	require.NotNil(t, holder)
	assert.Equal(t, holder.ID, s.Turn)

	// 同一种子的发牌完全一致
	s2 := NewRoom("r2", testRules)
	s2 = joinN(t, s2, 4)
	s2, err = Start(s2, seedPtr(42))
	require.NoError(t, err)
	assert.Equal(t, s.Players["p1"].Hand, s2.Players["p1"].Hand)
}

func TestStart_RequiresEnoughPlayers(t *testing.T) {
	t.Parallel()

	s := NewRoom("r1", testRules)
	s = joinN(t, s, 2)

	_, err := Start(s, nil)
	assertCode(t, err, apperrors.ErrActionNotAllowed.Code)
}

func TestPlay_RotatesAndKeepsPile(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"3D", "7C", "KH"},
		{"4C", "9D", "QS"},
		{"5H", "10C", "AS"},
	})

	s, err := Play(s, "p0", []string{"3D"})
	require.NoError(t, err)
	assert.Equal(t, card.Rank3, s.Pattern.Rank)
	assert.Equal(t, "p0", s.Pattern.Owner)
	assert.Equal(t, "p1", s.Turn)
	assert.NotContains(t, s.Players["p0"].Hand, "3D")

	s, err = Play(s, "p1", []string{"9D"})
	require.NoError(t, err)
	// 被压掉的牌进入弃牌区
	assert.Contains(t, s.Discard, "3D")
	assert.Equal(t, []string{"9D"}, s.Pattern.Cards)
	assert.Equal(t, "p2", s.Turn)
}

func TestPlay_RejectionLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"3D", "7C"},
		{"4C", "9D"},
		{"5H", "AS"},
	})
	version := s.Version
	handBefore := append([]string(nil), s.Players["p0"].Hand...)

	_, err := Play(s, "p1", []string{"4C"})
	assertCode(t, err, apperrors.ErrNotYourTurn.Code)

	// 失败的操作不触碰状态，客户端可以安全重试
	assert.Equal(t, version, s.Version)
	assert.Equal(t, handBefore, s.Players["p0"].Hand)
	assert.Equal(t, "p0", s.Turn)
}

func TestSevenGift_FullFlow(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"7C", "7D", "KH", "4S"},
		{"5C", "9D", "QS"},
		{"6H", "10C", "AS"},
	})
	s.Discard = []string{"3D"} // 非首手

	s, err := Play(s, "p0", []string{"7C", "7D"})
	require.NoError(t, err)
	assert.Equal(t, Pending{Kind: EffectGift, Player: "p0", Count: 2}, s.Pending)
	// 效果完成前回合停留在出牌者
	assert.Equal(t, "p0", s.Turn)

	// 挂起期间其他出牌被拒绝
	_, err = Play(s, "p1", []string{"QS"})
	assertCode(t, err, apperrors.ErrEffectPending.Code)

	// 张数不足被整体拒绝
	_, err = SubmitGift(s, "p0", []GiftAssignment{{To: "p1", Cards: []string{"4S"}}})
	assertCode(t, err, apperrors.ErrInvalidGift.Code)

	s, err = SubmitGift(s, "p0", []GiftAssignment{
		{To: "p1", Cards: []string{"4S"}},
		{To: "p2", Cards: []string{"KH"}},
	})
	require.NoError(t, err)
	assert.Equal(t, EffectNone, s.Pending.Kind)
	assert.Empty(t, s.Players["p0"].Hand)
	assert.Contains(t, s.Players["p1"].Hand, "4S")
	assert.Contains(t, s.Players["p2"].Hand, "KH")
	assert.Equal(t, "p1", s.Turn)
	// 赠完即空手，立即完赛
	assert.Equal(t, []string{"p0"}, s.FinishedOrder)
}

func TestSevenGift_CappedByHand(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"7C", "7D", "4S"},
		{"5C", "9D"},
		{"6H", "AS"},
	})
	s.Discard = []string{"3D"}

	s, err := Play(s, "p0", []string{"7C", "7D"})
	require.NoError(t, err)
	// 手里只剩 1 张，待赠数被压到 1
	assert.Equal(t, 1, s.Pending.Count)
}

func TestEightReset(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"8C", "4S", "KH"},
		{"5C", "9D", "QS"},
		{"6H", "10C", "AS"},
	})
	s.Pattern = Pattern{Rank: card.Rank9, Count: 1, Owner: "p2", Cards: []string{"9H"}}
	s.Discard = []string{"3D"}
	s.Inversion = true // 倒序中 8 压得住 9

	s, err := Play(s, "p0", []string{"8C"})
	require.NoError(t, err)

	// 牌堆清空、倒序解除，出牌者重新领出
	assert.True(t, s.Pattern.IsEmpty())
	assert.False(t, s.Inversion)
	assert.Equal(t, "p0", s.Turn)
	assert.Contains(t, s.Discard, "8C")
	assert.Contains(t, s.Discard, "9H")
}

func TestTenDiscard_FullFlow(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"10C", "10D", "4S", "KH", "QH"},
		{"5C", "9D", "QS"},
		{"6H", "JC", "AS"},
	})
	s.Discard = []string{"3D"}

	s, err := Play(s, "p0", []string{"10C", "10D"})
	require.NoError(t, err)
	assert.Equal(t, Pending{Kind: EffectDiscard, Player: "p0", Count: 2}, s.Pending)

	_, err = SubmitDiscard(s, "p0", []string{"4S"})
	assertCode(t, err, apperrors.ErrInvalidDiscard.Code)

	s, err = SubmitDiscard(s, "p0", []string{"4S", "QH"})
	require.NoError(t, err)

	// 弃牌与 10 一起入弃牌区，牌堆清空，下家领出
	assert.Equal(t, EffectNone, s.Pending.Kind)
	assert.True(t, s.Pattern.IsEmpty())
	assert.Contains(t, s.Discard, "4S")
	assert.Contains(t, s.Discard, "10C")
	assert.Equal(t, "p1", s.Turn)
	assert.Equal(t, []string{"KH"}, s.Players["p0"].Hand)
}

func TestTenDiscard_KeepsInversion(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"QS", "KH"},
		{"10C", "5C", "9D"},
		{"6H", "AS"},
	})
	s.Discard = []string{"3D"}
	s.Inversion = true

	// 倒序中 10 压得住 Q
	s, err := Play(s, "p0", []string{"QS"})
	require.NoError(t, err)
	s, err = Play(s, "p1", []string{"10C"})
	require.NoError(t, err)
	require.Equal(t, Pending{Kind: EffectDiscard, Player: "p1", Count: 1}, s.Pending)

	s, err = SubmitDiscard(s, "p1", []string{"5C"})
	require.NoError(t, err)

	// 弃牌只清空牌堆，倒序保持到本轮真正结束（过牌到底或 8 的重置）
	assert.True(t, s.Inversion)
	assert.True(t, s.Pattern.IsEmpty())
	assert.Equal(t, "p2", s.Turn)
}

func TestJackInversion_GateIsOneShot(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"JC", "4S", "KH"},
		{"5C", "9D", "QS"},
		{"6H", "10C", "AS"},
	})
	s.Pattern = Pattern{Rank: card.Rank9, Count: 1, Owner: "p2", Cards: []string{"9H"}}
	s.Discard = []string{"3D"}

	s, err := Play(s, "p0", []string{"JC"})
	require.NoError(t, err)
	assert.True(t, s.Inversion)
	assert.True(t, s.JackGate)

	// 紧跟 J 的一手必须在正常排序下低于 J
	_, err = Play(s, "p1", []string{"QS"})
	assertCode(t, err, apperrors.ErrRankTooLow.Code)

	s, err = Play(s, "p1", []string{"9D"})
	require.NoError(t, err)
	assert.False(t, s.JackGate)
	assert.True(t, s.Inversion)

	// 限制解除后按倒序比较：6 压得住 9
	s, err = Play(s, "p2", []string{"6H"})
	require.NoError(t, err)
	assert.Equal(t, card.Rank6, s.Pattern.Rank)
}

func TestPass_CycleEnd(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"3D", "KH"},
		{"5C", "9D"},
		{"6H", "AS"},
	})

	s, err := Play(s, "p0", []string{"3D"})
	require.NoError(t, err)

	s, err = Pass(s, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p2", s.Turn)

	// 领出者不能过牌，这里先让 p2 也过
	s, err = Pass(s, "p2")
	require.NoError(t, err)

	// 本轮结束：牌堆入弃牌区，过牌标记清空，p0 领出
	assert.True(t, s.Pattern.IsEmpty())
	assert.Contains(t, s.Discard, "3D")
	assert.Equal(t, "p0", s.Turn)
	for _, p := range s.Players {
		assert.False(t, p.Passed)
	}

	// 领出时不能过牌
	_, err = Pass(s, "p0")
	assertCode(t, err, apperrors.ErrActionNotAllowed.Code)
}

func TestPass_AcceleratedEndUnderInversion(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"KH", "QH"},
		{"5C", "9D"},
		{"6H", "AS"},
	})
	s.Pattern = Pattern{Rank: card.Rank3, Count: 1, Owner: "p0", Cards: []string{"3D"}}
	s.Inversion = true
	s.Turn = "p1"

	s, err := Pass(s, "p1")
	require.NoError(t, err)
	assert.Equal(t, PhasePlay, s.Phase)

	// 倒序中 3 无人能压：全员过牌后本局立即结束
	s, err = Pass(s, "p2")
	require.NoError(t, err)
	assert.Equal(t, PhaseFinished, s.Phase)
	assert.Equal(t, []string{"p0", "p1", "p2"}, s.FinishedOrder)
	assert.Equal(t, RolePresident, s.Players["p0"].Role)
	assert.Equal(t, RoleAsshole, s.Players["p2"].Role)
	assert.Equal(t, 1, s.RoundCount)
}

func TestRoundCompletion_AssignsRoles(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"4S"},
		{"9D", "KC"},
		{"AS"},
	})
	s.Discard = []string{"3D"}

	s, err := Play(s, "p0", []string{"4S"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p0"}, s.FinishedOrder)
	assert.Equal(t, "p1", s.Turn)

	s, err = Play(s, "p1", []string{"9D"})
	require.NoError(t, err)

	s, err = Play(s, "p2", []string{"AS"})
	require.NoError(t, err)

	// p2 打空手牌，只剩 p1：本局结束
	assert.Equal(t, PhaseFinished, s.Phase)
	assert.Equal(t, []string{"p0", "p2", "p1"}, s.FinishedOrder)
	assert.Equal(t, RolePresident, s.Players["p0"].Role)
	assert.Equal(t, RoleVicePresident, s.Players["p2"].Role)
	assert.Equal(t, RoleAsshole, s.Players["p1"].Role)
}

func TestRoleTable_FourAndFivePlayers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Role{RolePresident, RoleVicePresident, RoleScumbag, RoleAsshole}, roleTable(4))
	assert.Equal(t, []Role{RolePresident, RoleVicePresident, RoleCitizen, RoleScumbag, RoleAsshole}, roleTable(5))
}

func TestNextRound_ExchangeFlow(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"4S"},
		{"9D", "KC"},
		{"AS"},
	})
	s.Discard = []string{"3D"}

	var err error
	s, err = Play(s, "p0", []string{"4S"})
	require.NoError(t, err)
	s, err = Play(s, "p1", []string{"9D"})
	require.NoError(t, err)
	s, err = Play(s, "p2", []string{"AS"})
	require.NoError(t, err)
	require.Equal(t, PhaseFinished, s.Phase)

	s, err = NextRound(s, seedPtr(7))
	require.NoError(t, err)
	assert.Equal(t, PhaseExchange, s.Phase)
	require.Len(t, s.Exchanges, 1)

	pair := s.Exchanges[0]
	assert.Equal(t, "p1", pair.From) // Asshole
	assert.Equal(t, "p0", pair.To)   // President
	assert.Equal(t, 2, pair.Count)

	// 自动交牌后 Asshole 少 2 张，President 多 2 张
	assert.Len(t, s.Players["p1"].Hand, 16)
	assert.Len(t, s.Players["p0"].Hand, 20)
	assert.Equal(t, testRules.DeckSize(), s.CountCards())

	// 回赠张数不符被拒绝
	_, err = ExchangeReturn(s, "p0", []string{s.Players["p0"].Hand[0]})
	assertCode(t, err, apperrors.ErrActionNotAllowed.Code)

	// 非收牌方不能回赠
	_, err = ExchangeReturn(s, "p2", []string{s.Players["p2"].Hand[0]})
	assertCode(t, err, apperrors.ErrActionNotAllowed.Code)

	ret := []string{s.Players["p0"].Hand[0], s.Players["p0"].Hand[1]}
	s, err = ExchangeReturn(s, "p0", ret)
	require.NoError(t, err)

	// 回赠完毕：进入出牌阶段，Asshole 先手
	assert.Equal(t, PhasePlay, s.Phase)
	assert.Equal(t, "p1", s.Turn)
	assert.True(t, s.Exchanges[0].Returned)
	assert.Len(t, s.Players["p1"].Hand, 18)
	assert.Len(t, s.Players["p0"].Hand, 18)
	assert.Equal(t, testRules.DeckSize(), s.CountCards())
}

func TestCardConservation_AfterRealPlays(t *testing.T) {
	t.Parallel()

	s := NewRoom("r1", testRules)
	s = joinN(t, s, 4)
	s, err := Start(s, seedPtr(99))
	require.NoError(t, err)

	// 先手玩家打出手里所有的 3
	leader := s.Players[s.Turn]
	var threes []string
	for _, id := range leader.Hand {
		if card.RankOf(id) == card.Rank3 {
			threes = append(threes, id)
		}
	}
	require.NotEmpty(t, threes)

	s, err = Play(s, leader.ID, threes)
	require.NoError(t, err)
	assert.Equal(t, testRules.DeckSize(), s.CountCards())
}

func TestDisconnectReconnect(t *testing.T) {
	t.Parallel()

	s := buildPlayState([][]string{
		{"3D"},
		{"9D"},
		{"AS"},
	})

	s, err := Disconnect(s, "p1")
	require.NoError(t, err)
	assert.False(t, s.Players["p1"].Connected)

	s, err = Reconnect(s, "p1")
	require.NoError(t, err)
	assert.True(t, s.Players["p1"].Connected)

	_, err = Disconnect(s, "ghost")
	assertCode(t, err, apperrors.ErrActionNotAllowed.Code)
}
