// Package engine 实现 President（大富豪）的权威游戏引擎。
// 所有状态变更都通过纯转换函数完成：(state, action) -> (newState, events)，
// 校验失败时原状态不被触碰、版本号不变，便于客户端安全重试。
package engine

import (
	"sort"
	"time"

	"github.com/palemoky/president/internal/game/card"
)

// Phase 房间阶段
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseDealing  Phase = "dealing"
	PhaseExchange Phase = "exchange"
	PhasePlay     Phase = "play"
	PhaseFinished Phase = "finished"
)

// Role 头衔，由上一局的完赛名次决定
type Role string

const (
	RoleNone          Role = ""
	RolePresident     Role = "President"
	RoleVicePresident Role = "VicePresident"
	RoleCitizen       Role = "Citizen"
	RoleScumbag       Role = "Scumbag"
	RoleAsshole       Role = "Asshole"
)

// EffectKind 待处理效果的类型（同一时刻至多一个）
type EffectKind string

const (
	EffectNone    EffectKind = ""
	EffectGift    EffectKind = "gift"    // 7：必须赠牌
	EffectDiscard EffectKind = "discard" // 10：必须弃牌
)

// 效果事件名，出现在效果日志与广播中
const (
	EffectSevenGift     = "seven_gift"
	EffectEightReset    = "eight_reset"
	EffectTenDiscard    = "ten_discard"
	EffectJackInversion = "jack_inversion"
)

// Player 座位上的玩家
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Seat      int      `json:"seat"`
	Role      Role     `json:"role,omitempty"`
	Hand      []string `json:"hand"`
	Passed    bool     `json:"passed"`
	Connected bool     `json:"connected"`
	IsBot     bool     `json:"is_bot"`
}

// Pattern 当前待压的牌型，Count 为 0 表示牌堆为空
type Pattern struct {
	Rank  card.Rank `json:"rank"`
	Count int       `json:"count"`
	Owner string    `json:"owner"`
	Cards []string  `json:"cards"`
}

// IsEmpty 判断牌堆是否为空
func (p Pattern) IsEmpty() bool {
	return p.Count == 0
}

// Pending 待处理效果（标签变体：None / Gift / Discard）
type Pending struct {
	Kind   EffectKind `json:"kind"`
	Player string     `json:"player"`
	Count  int        `json:"count"`
}

// ExchangePair 换牌阶段的一对交换：From 自动给出 Count 张最大的牌，
// To 必须回赠等量任选的牌
type ExchangePair struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Count    int    `json:"count"`
	Returned bool   `json:"returned"`
}

// EffectEntry 效果日志条目
type EffectEntry struct {
	Effect  string         `json:"effect"`
	Data    map[string]any `json:"data,omitempty"`
	Player  string         `json:"player,omitempty"`
	Version uint64         `json:"version"`
	At      int64          `json:"at"`
}

// Rules 牌局规则
type Rules struct {
	UseJokers  bool `json:"use_jokers"`
	MinPlayers int  `json:"min_players"`
	MaxPlayers int  `json:"max_players"`
	EnableBots bool `json:"enable_bots"`
}

// DeckSize 当前规则下整副牌的张数
func (r Rules) DeckSize() int {
	if r.UseJokers {
		return 54
	}
	return 52
}

// effectLogLimit 效果日志只保留最近这么多条
const effectLogLimit = 10

// RoomState 房间聚合根，唯一的可变共享资源。
// 仅允许房间的串行化路径修改；其余访问都拿只读快照。
type RoomState struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"`
	Phase   Phase  `json:"phase"`

	Players map[string]*Player `json:"players"`
	Turn    string             `json:"turn"`

	Pattern   Pattern `json:"pattern"`
	Inversion bool    `json:"inversion"`
	// JackGate 为 true 时，本轮紧跟 J 的下一手必须在正常排序下严格低于 J（一次性限制）
	JackGate bool `json:"jack_gate"`

	Pending   Pending        `json:"pending"`
	Exchanges []ExchangePair `json:"exchanges,omitempty"`

	Deck          []string `json:"deck"`
	Discard       []string `json:"discard"`
	FinishedOrder []string `json:"finished_order"`

	Effects []EffectEntry `json:"effects"`
	Rules   Rules         `json:"rules"`

	// RoundCount 已完成的局数；0 表示首局（尚无头衔）
	RoundCount int `json:"round_count"`

	LastActivity time.Time `json:"last_activity"`
}

// Clone 深拷贝状态，转换函数在副本上工作
func (s *RoomState) Clone() *RoomState {
	c := *s
	c.Players = make(map[string]*Player, len(s.Players))
	for id, p := range s.Players {
		pc := *p
		pc.Hand = append([]string(nil), p.Hand...)
		c.Players[id] = &pc
	}
	c.Pattern.Cards = append([]string(nil), s.Pattern.Cards...)
	c.Exchanges = append([]ExchangePair(nil), s.Exchanges...)
	c.Deck = append([]string(nil), s.Deck...)
	c.Discard = append([]string(nil), s.Discard...)
	c.FinishedOrder = append([]string(nil), s.FinishedOrder...)
	c.Effects = append([]EffectEntry(nil), s.Effects...)
	return &c
}

// bump 记录一次已接受的变更
func (s *RoomState) bump() {
	s.Version++
	s.LastActivity = time.Now()
}

// addEffect 追加效果日志，超出窗口的旧条目被丢弃
func (s *RoomState) addEffect(effect string, data map[string]any, playerID string) {
	s.Effects = append(s.Effects, EffectEntry{
		Effect:  effect,
		Data:    data,
		Player:  playerID,
		Version: s.Version,
		At:      time.Now().Unix(),
	})
	if len(s.Effects) > effectLogLimit {
		s.Effects = s.Effects[len(s.Effects)-effectLogLimit:]
	}
}

// clearPasses 重置所有玩家的过牌标记
func (s *RoomState) clearPasses() {
	for _, p := range s.Players {
		p.Passed = false
	}
}

// seatOrder 按座位号返回所有玩家
func (s *RoomState) seatOrder() []*Player {
	players := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].Seat < players[j].Seat
	})
	return players
}

// activePlayers 按座位号返回仍有手牌的玩家
func (s *RoomState) activePlayers() []*Player {
	var active []*Player
	for _, p := range s.seatOrder() {
		if len(p.Hand) > 0 {
			active = append(active, p)
		}
	}
	return active
}

// nextPlayer 返回 current 之后第一个有手牌且未过牌的玩家 ID
func (s *RoomState) nextPlayer(current string) string {
	active := s.activePlayers()
	if len(active) == 0 {
		return ""
	}

	start := -1
	for i, p := range active {
		if p.ID == current {
			start = i
			break
		}
	}

	// current 可能刚打空手牌而不在 active 中，此时按座位号找它的下家
	if start == -1 {
		curSeat := -1
		if p, ok := s.Players[current]; ok {
			curSeat = p.Seat
		}
		for i, p := range active {
			if p.Seat > curSeat {
				start = i - 1
				break
			}
		}
		if start == -1 {
			start = len(active) - 1
		}
	}

	for i := 1; i <= len(active); i++ {
		candidate := active[(start+i)%len(active)]
		if !candidate.Passed {
			return candidate.ID
		}
	}
	return ""
}

// playerByRole 按头衔查找玩家
func (s *RoomState) playerByRole(role Role) *Player {
	for _, p := range s.seatOrder() {
		if p.Role == role {
			return p
		}
	}
	return nil
}

// holderOf 查找持有指定牌的玩家
func (s *RoomState) holderOf(cardID string) *Player {
	for _, p := range s.seatOrder() {
		for _, id := range p.Hand {
			if id == cardID {
				return p
			}
		}
	}
	return nil
}

// hasRoles 判断是否已有头衔（首局结束后为 true）
func (s *RoomState) hasRoles() bool {
	for _, p := range s.Players {
		if p.Role != RoleNone {
			return true
		}
	}
	return false
}

// owns 检查玩家是否持有所有指定的牌
func owns(p *Player, ids []string) bool {
	held := make(map[string]int, len(p.Hand))
	for _, id := range p.Hand {
		held[id]++
	}
	for _, id := range ids {
		if held[id] == 0 {
			return false
		}
		held[id]--
	}
	return true
}

// removeCards 从手牌移除指定的牌
func removeCards(hand []string, toRemove []string) []string {
	drop := make(map[string]int, len(toRemove))
	for _, id := range toRemove {
		drop[id]++
	}
	out := hand[:0:0]
	for _, id := range hand {
		if drop[id] > 0 {
			drop[id]--
			continue
		}
		out = append(out, id)
	}
	return out
}

// hasDuplicates 检查标识列表里是否有重复
func hasDuplicates(ids []string) bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

// CountCards 清点房间内所有的牌：手牌 + 弃牌 + 牌堆 + 未发的牌。
// 在一局之内应恒等于整副牌的张数。
func (s *RoomState) CountCards() int {
	total := len(s.Deck) + len(s.Discard) + len(s.Pattern.Cards)
	for _, p := range s.Players {
		total += len(p.Hand)
	}
	return total
}
