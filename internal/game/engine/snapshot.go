package engine

import (
	"github.com/palemoky/president/internal/game/card"
)

// PlayerView 玩家在快照中的形象。只有观察者本人能看到 Hand，
// 其他人只能看到 HandCount。
type PlayerView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Seat      int      `json:"seat"`
	Role      Role     `json:"role,omitempty"`
	Hand      []string `json:"hand,omitempty"`
	HandCount int      `json:"hand_count"`
	Passed    bool     `json:"passed"`
	Connected bool     `json:"connected"`
	IsBot     bool     `json:"is_bot"`
}

// Snapshot 某个观察者视角下的净化快照。快照只含公开信息和观察者自己的
// 手牌，可以直接下发给客户端。
type Snapshot struct {
	RoomID  string `json:"room_id"`
	Version uint64 `json:"version"`
	Phase   Phase  `json:"phase"`
	You     string `json:"you,omitempty"`
	Turn    string `json:"turn"`

	Players []PlayerView `json:"players"`

	Pattern   Pattern `json:"pattern"`
	Inversion bool    `json:"inversion"`
	JackGate  bool    `json:"jack_gate"`

	Pending   Pending        `json:"pending"`
	Exchanges []ExchangePair `json:"exchanges,omitempty"`

	DeckCount     int      `json:"deck_count"`
	DiscardCount  int      `json:"discard_count"`
	FinishedOrder []string `json:"finished_order"`

	Effects []EffectEntry `json:"effects"`

	RoundCount int `json:"round_count"`
}

// Sanitize 生成 viewerID 视角下的快照。观察者自己的手牌按当前排序
// 排好序；其他玩家的手牌被抹去，只留张数。viewerID 为空时生成
// 纯旁观视角（看不到任何手牌）。
func Sanitize(s *RoomState, viewerID string) *Snapshot {
	snap := &Snapshot{
		RoomID:        s.ID,
		Version:       s.Version,
		Phase:         s.Phase,
		You:           viewerID,
		Turn:          s.Turn,
		Pattern:       clonePattern(s.Pattern),
		Inversion:     s.Inversion,
		JackGate:      s.JackGate,
		Pending:       s.Pending,
		Exchanges:     append([]ExchangePair(nil), s.Exchanges...),
		DeckCount:     len(s.Deck),
		DiscardCount:  len(s.Discard),
		FinishedOrder: append([]string{}, s.FinishedOrder...),
		Effects:       append([]EffectEntry{}, s.Effects...),
		RoundCount:    s.RoundCount,
	}

	for _, p := range s.seatOrder() {
		view := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Role:      p.Role,
			HandCount: len(p.Hand),
			Passed:    p.Passed,
			Connected: p.Connected,
			IsBot:     p.IsBot,
		}
		if p.ID == viewerID {
			view.Hand = card.SortIDs(p.Hand, s.Inversion)
		}
		snap.Players = append(snap.Players, view)
	}
	return snap
}

func clonePattern(p Pattern) Pattern {
	p.Cards = append([]string(nil), p.Cards...)
	return p
}
