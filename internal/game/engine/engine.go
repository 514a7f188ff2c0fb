package engine

import (
	"fmt"
	"time"

	"github.com/palemoky/president/internal/apperrors"
	"github.com/palemoky/president/internal/game/card"
)

// NewRoom 创建一个新房间
func NewRoom(id string, rules Rules) *RoomState {
	s := &RoomState{
		ID:           id,
		Phase:        PhaseLobby,
		Players:      make(map[string]*Player),
		Rules:        rules,
		LastActivity: time.Now(),
	}
	s.addEffect("room_created", map[string]any{"room_id": id}, "")
	return s
}

// Join 玩家加入房间，只在 lobby 阶段允许
func Join(s *RoomState, playerID, name string, isBot bool) (*RoomState, error) {
	if s.Phase != PhaseLobby {
		return nil, apperrors.ErrActionNotAllowed
	}
	if _, exists := s.Players[playerID]; exists {
		return nil, apperrors.ErrActionNotAllowed
	}
	if len(s.Players) >= s.Rules.MaxPlayers {
		return nil, apperrors.ErrRoomFull
	}
	if isBot && !s.Rules.EnableBots {
		return nil, apperrors.ErrActionNotAllowed
	}

	c := s.Clone()

	// 找最小的空座位
	taken := make(map[int]bool, len(c.Players))
	for _, p := range c.Players {
		taken[p.Seat] = true
	}
	seat := 0
	for taken[seat] {
		seat++
	}

	c.Players[playerID] = &Player{
		ID:        playerID,
		Name:      name,
		Seat:      seat,
		Hand:      []string{},
		Connected: true,
		IsBot:     isBot,
	}

	c.bump()
	c.addEffect("player_joined", map[string]any{
		"player_id": playerID,
		"name":      name,
		"seat":      seat,
		"is_bot":    isBot,
	}, playerID)
	return c, nil
}

// Start 开始首局：发牌后进入 play，由方块 3 的持有者先手
func Start(s *RoomState, seed *uint64) (*RoomState, error) {
	if s.Phase != PhaseLobby {
		return nil, apperrors.ErrActionNotAllowed
	}
	n := len(s.Players)
	if n < s.Rules.MinPlayers || n > s.Rules.MaxPlayers {
		return nil, apperrors.New(apperrors.ErrActionNotAllowed.Code,
			fmt.Sprintf("需要 %d-%d 名玩家才能开局", s.Rules.MinPlayers, s.Rules.MaxPlayers))
	}

	c := s.Clone()
	c.Phase = PhaseDealing
	setupRound(c, seed)

	if c.hasRoles() {
		startExchange(c)
	} else {
		c.Phase = PhasePlay
	}

	c.bump()
	c.addEffect("game_started", map[string]any{"players": n}, "")
	return c, nil
}

// NextRound 上一局结束后开始下一局：保留头衔，重新发牌并进入换牌阶段
func NextRound(s *RoomState, seed *uint64) (*RoomState, error) {
	if s.Phase != PhaseFinished {
		return nil, apperrors.ErrActionNotAllowed
	}

	c := s.Clone()
	resetForNewRound(c)
	c.Phase = PhaseDealing
	setupRound(c, seed)
	startExchange(c)

	c.bump()
	c.addEffect("new_round_started", map[string]any{"round": c.RoundCount + 1}, "")
	return c, nil
}

// setupRound 洗牌、发牌并确定先手。
// 整副牌平均分发，余数留在未发牌堆里；先手为首局的方块 3 持有者，
// 或后续局的 Asshole。
func setupRound(c *RoomState, seed *uint64) {
	deck := card.NewDeck(c.Rules.UseJokers)
	if seed != nil {
		deck.ShuffleSeeded(*seed)
	} else {
		deck.Shuffle()
	}

	players := c.seatOrder()
	n := len(players)
	perPlayer := len(deck) / n

	for _, p := range players {
		p.Hand = p.Hand[:0]
		p.Passed = false
	}
	for i := 0; i < perPlayer*n; i++ {
		players[i%n].Hand = append(players[i%n].Hand, deck[i])
	}
	c.Deck = append([]string(nil), deck[perPlayer*n:]...)

	// 首局的开局牌绝不能落在未发的余牌里
	if !c.hasRoles() {
		for i, id := range c.Deck {
			if id == card.OpeningCard {
				last := len(players[0].Hand) - 1
				c.Deck[i], players[0].Hand[last] = players[0].Hand[last], c.Deck[i]
				break
			}
		}
	}

	c.Discard = c.Discard[:0]
	c.FinishedOrder = c.FinishedOrder[:0]
	c.Pattern = Pattern{}
	c.Pending = Pending{}
	c.Exchanges = nil
	c.Inversion = false
	c.JackGate = false
	c.clearPasses()
	c.Turn = leadFor(c)
}

// leadFor 返回应当先手的玩家：有头衔时是 Asshole，否则是方块 3 的持有者
func leadFor(c *RoomState) string {
	if c.hasRoles() {
		if p := c.playerByRole(RoleAsshole); p != nil {
			return p.ID
		}
	}
	if p := c.holderOf(card.OpeningCard); p != nil {
		return p.ID
	}
	// 不带开局牌的残局（防御），退回座位最小的玩家
	if players := c.seatOrder(); len(players) > 0 {
		return players[0].ID
	}
	return ""
}

// Play 出牌。校验通过后移除手牌、更新牌堆并处理特殊效果。
func Play(s *RoomState, playerID string, ids []string) (*RoomState, error) {
	rank, count, err := validatePlay(s, playerID, ids)
	if err != nil {
		return nil, err
	}

	c := s.Clone()
	p := c.Players[playerID]
	p.Hand = removeCards(p.Hand, ids)

	// 旧牌堆进入弃牌区，新牌型压上
	c.Discard = append(c.Discard, c.Pattern.Cards...)
	c.Pattern = Pattern{
		Rank:  rank,
		Count: count,
		Owner: playerID,
		Cards: append([]string(nil), ids...),
	}
	c.clearPasses()

	// J 的一次性限制被本手消耗
	c.JackGate = false

	c.bump()
	c.addEffect("cards_played", map[string]any{
		"player_id": playerID,
		"rank":      rank.String(),
		"count":     count,
	}, playerID)

	applyPlayEffect(c, p, rank, count)

	if len(p.Hand) == 0 {
		finishPlayer(c, playerID)
	}

	if len(c.activePlayers()) <= 1 {
		completeRound(c)
		return c, nil
	}

	// 待处理效果挂起时回合不前进；8 的重置由出牌者继续领出
	if c.Pending.Kind == EffectNone {
		if rank == card.Rank8 && len(p.Hand) > 0 {
			c.Turn = playerID
		} else {
			c.Turn = c.nextPlayer(playerID)
		}
	}
	return c, nil
}

// Pass 过牌。当除最后出牌者外的所有在场玩家都已过牌时，本轮结束。
func Pass(s *RoomState, playerID string) (*RoomState, error) {
	if err := validatePass(s, playerID); err != nil {
		return nil, err
	}

	c := s.Clone()
	c.Players[playerID].Passed = true

	c.bump()
	c.addEffect("player_passed", map[string]any{"player_id": playerID}, playerID)

	remaining := 0
	for _, p := range c.activePlayers() {
		if !p.Passed {
			remaining++
		}
	}

	if remaining <= 1 {
		// 倒序中对 3 的围攻：全员过牌则本局立即结束
		if c.Inversion && c.Pattern.Rank == card.Rank3 {
			c.addEffect("accelerated_end", map[string]any{
				"winner": c.Pattern.Owner,
			}, c.Pattern.Owner)
			completeRound(c)
			return c, nil
		}
		endCycle(c)
	} else {
		c.Turn = c.nextPlayer(playerID)
	}
	return c, nil
}

// endCycle 结束一轮：清空牌堆、恢复正常排序，最后出牌者领出下一轮
func endCycle(c *RoomState) {
	owner := c.Pattern.Owner

	c.Discard = append(c.Discard, c.Pattern.Cards...)
	c.Pattern = Pattern{}
	c.Inversion = false
	c.JackGate = false
	c.clearPasses()

	leader := owner
	if p, ok := c.Players[owner]; !ok || len(p.Hand) == 0 {
		leader = c.nextPlayer(owner)
	}
	c.Turn = leader

	c.addEffect("cycle_cleared", map[string]any{"next_player": leader}, "")
}

// Disconnect 标记玩家掉线。牌局继续，座位保留以便重连。
func Disconnect(s *RoomState, playerID string) (*RoomState, error) {
	p, ok := s.Players[playerID]
	if !ok {
		return nil, apperrors.ErrActionNotAllowed
	}
	if !p.Connected {
		return s.Clone(), nil
	}

	c := s.Clone()
	c.Players[playerID].Connected = false
	c.bump()
	c.addEffect("player_disconnected", map[string]any{"player_id": playerID}, playerID)
	return c, nil
}

// Reconnect 标记玩家重连
func Reconnect(s *RoomState, playerID string) (*RoomState, error) {
	if _, ok := s.Players[playerID]; !ok {
		return nil, apperrors.ErrActionNotAllowed
	}

	c := s.Clone()
	c.Players[playerID].Connected = true
	c.bump()
	c.addEffect("player_reconnected", map[string]any{"player_id": playerID}, playerID)
	return c, nil
}
