// Package bot 实现托管玩家的简单策略。
// 机器人只依据净化快照做决策，拿不到任何隐藏信息，
// 与人类玩家走完全相同的校验路径。
package bot

import (
	"sort"

	"github.com/palemoky/president/internal/game/card"
	"github.com/palemoky/president/internal/game/engine"
)

// ActionType 机器人动作类型
type ActionType string

const (
	ActionPlay           ActionType = "play"
	ActionPass           ActionType = "pass"
	ActionGift           ActionType = "gift"
	ActionDiscard        ActionType = "discard"
	ActionExchangeReturn ActionType = "exchange_return"
)

// Action 机器人的一次决策
type Action struct {
	Type        ActionType
	Cards       []string
	Assignments []engine.GiftAssignment
}

// Decide 依据快照为 playerID 决策。没有轮到该玩家行动时返回 false。
func Decide(snap *engine.Snapshot, playerID string) (Action, bool) {
	me := playerView(snap, playerID)
	if me == nil {
		return Action{}, false
	}

	if snap.Pending.Kind != "" {
		if snap.Pending.Player != playerID {
			return Action{}, false
		}
		switch snap.Pending.Kind {
		case engine.EffectGift:
			return decideGift(snap, me), true
		case engine.EffectDiscard:
			return Action{
				Type:  ActionDiscard,
				Cards: card.LowestN(me.Hand, snap.Pending.Count),
			}, true
		}
		return Action{}, false
	}

	if snap.Phase == engine.PhaseExchange {
		for _, pair := range snap.Exchanges {
			if pair.To == playerID && !pair.Returned {
				return Action{
					Type:  ActionExchangeReturn,
					Cards: card.LowestN(me.Hand, pair.Count),
				}, true
			}
		}
		return Action{}, false
	}

	if snap.Phase != engine.PhasePlay || snap.Turn != playerID {
		return Action{}, false
	}

	if snap.Pattern.IsEmpty() {
		return decideLead(snap, me), true
	}
	return decideFollow(snap, me)
}

// decideLead 领出：打出当前排序下最弱点数的全部牌。
// 首局开局时最弱的点数就是 3，开局牌自然包含在内。
func decideLead(snap *engine.Snapshot, me *engine.PlayerView) Action {
	groups, _ := groupByRank(me.Hand)

	ranks := make([]card.Rank, 0, len(groups))
	for r := range groups {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		return card.Index(ranks[i], snap.Inversion) < card.Index(ranks[j], snap.Inversion)
	})

	if len(ranks) == 0 {
		// 只剩王牌
		return Action{Type: ActionPlay, Cards: append([]string(nil), me.Hand...)}
	}
	return Action{Type: ActionPlay, Cards: groups[ranks[0]]}
}

// decideFollow 压牌：在合法的点数里选当前排序下最弱的，
// 点数 10 除非别无选择否则不主动打出。王牌可以补齐张数。
func decideFollow(snap *engine.Snapshot, me *engine.PlayerView) (Action, bool) {
	groups, jokers := groupByRank(me.Hand)
	count := snap.Pattern.Count

	var candidates []card.Rank
	for r, ids := range groups {
		if len(ids)+len(jokers) < count {
			continue
		}
		if !rankBeats(snap, r) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(jokers) >= count && rankBeats(snap, card.RankJoker) {
		candidates = append(candidates, card.RankJoker)
	}
	if len(candidates) == 0 {
		return Action{Type: ActionPass}, true
	}

	sort.Slice(candidates, func(i, j int) bool {
		return card.Index(candidates[i], snap.Inversion) < card.Index(candidates[j], snap.Inversion)
	})

	// 10 会强制弃牌，尽量留到没得选再打
	pick := candidates[0]
	if pick == card.Rank10 && len(candidates) > 1 {
		pick = candidates[1]
	}

	if pick == card.RankJoker {
		return Action{Type: ActionPlay, Cards: jokers[:count]}, true
	}

	ids := groups[pick]
	if len(ids) >= count {
		return Action{Type: ActionPlay, Cards: ids[:count]}, true
	}
	play := append([]string(nil), ids...)
	play = append(play, jokers[:count-len(ids)]...)
	return Action{Type: ActionPlay, Cards: play}, true
}

// decideGift 赠牌：把最弱的牌轮流分给仍有手牌的其他玩家
func decideGift(snap *engine.Snapshot, me *engine.PlayerView) Action {
	give := card.LowestN(me.Hand, snap.Pending.Count)

	var recipients []string
	for _, p := range snap.Players {
		if p.ID != me.ID && p.HandCount > 0 {
			recipients = append(recipients, p.ID)
		}
	}
	if len(recipients) == 0 {
		// 防御：没有可赠对象时给任意其他玩家
		for _, p := range snap.Players {
			if p.ID != me.ID {
				recipients = append(recipients, p.ID)
			}
		}
	}

	byRecipient := make(map[string][]string)
	for i, id := range give {
		to := recipients[i%len(recipients)]
		byRecipient[to] = append(byRecipient[to], id)
	}

	assignments := make([]engine.GiftAssignment, 0, len(byRecipient))
	for _, to := range recipients {
		if cards, ok := byRecipient[to]; ok {
			assignments = append(assignments, engine.GiftAssignment{To: to, Cards: cards})
		}
	}
	return Action{Type: ActionGift, Assignments: assignments}
}

// playerView 在快照里找指定玩家的视图
func playerView(snap *engine.Snapshot, id string) *engine.PlayerView {
	for i := range snap.Players {
		if snap.Players[i].ID == id {
			return &snap.Players[i]
		}
	}
	return nil
}

// groupByRank 把手牌按点数分组，王牌单独返回
func groupByRank(hand []string) (map[card.Rank][]string, []string) {
	groups := make(map[card.Rank][]string)
	var jokers []string
	for _, id := range hand {
		r := card.RankOf(id)
		if r == card.RankJoker {
			jokers = append(jokers, id)
			continue
		}
		if r >= 0 {
			groups[r] = append(groups[r], id)
		}
	}
	return groups, jokers
}

// rankBeats 判断点数能否压住当前牌堆
func rankBeats(snap *engine.Snapshot, r card.Rank) bool {
	if snap.JackGate {
		return card.BelowJackNormal(r)
	}
	return card.Higher(r, snap.Pattern.Rank, snap.Inversion)
}
