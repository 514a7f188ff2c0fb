package engine

import (
	"github.com/palemoky/president/internal/game/card"
)

// GiftAssignment 一次赠牌的去向
type GiftAssignment struct {
	To    string   `json:"to"`
	Cards []string `json:"cards"`
}

// applyPlayEffect 处理刚落地的一手牌触发的特殊效果。
// 7/10 只在出牌者还有手牌可赠/可弃时挂起效果，挂起期间回合停留在出牌者。
func applyPlayEffect(c *RoomState, p *Player, rank card.Rank, count int) {
	switch rank {
	case card.Rank7:
		k := min(count, len(p.Hand))
		if k == 0 {
			return
		}
		c.Pending = Pending{Kind: EffectGift, Player: p.ID, Count: k}
		c.addEffect(EffectSevenGift, map[string]any{
			"player_id": p.ID,
			"count":     k,
		}, p.ID)

	case card.Rank8:
		// 重置：牌堆清空，出牌者重新领出，倒序与 J 限制一并解除
		c.Discard = append(c.Discard, c.Pattern.Cards...)
		c.Pattern = Pattern{}
		c.Inversion = false
		c.JackGate = false
		c.clearPasses()
		c.addEffect(EffectEightReset, map[string]any{"player_id": p.ID}, p.ID)

	case card.Rank10:
		k := min(count, len(p.Hand))
		if k == 0 {
			return
		}
		c.Pending = Pending{Kind: EffectDiscard, Player: p.ID, Count: k}
		c.addEffect(EffectTenDiscard, map[string]any{
			"player_id": p.ID,
			"count":     k,
		}, p.ID)

	case card.RankJ:
		c.Inversion = true
		c.JackGate = true
		c.addEffect(EffectJackInversion, map[string]any{"player_id": p.ID}, p.ID)
	}
}

// SubmitGift 完成 7 触发的赠牌：把牌转移给指定玩家后回合才前进。
// 分配要么整体生效，要么整体拒绝。
func SubmitGift(s *RoomState, playerID string, assignments []GiftAssignment) (*RoomState, error) {
	if err := validateGift(s, playerID, assignments); err != nil {
		return nil, err
	}

	c := s.Clone()
	p := c.Players[playerID]

	for _, a := range assignments {
		if len(a.Cards) == 0 {
			continue
		}
		p.Hand = removeCards(p.Hand, a.Cards)
		recipient := c.Players[a.To]
		recipient.Hand = append(recipient.Hand, a.Cards...)
	}
	c.Pending = Pending{}

	c.bump()
	c.addEffect("gift_completed", map[string]any{
		"player_id": playerID,
		"count":     len(assignments),
	}, playerID)

	if len(p.Hand) == 0 {
		finishPlayer(c, playerID)
	}
	if len(c.activePlayers()) <= 1 {
		completeRound(c)
		return c, nil
	}

	c.Turn = c.nextPlayer(playerID)
	return c, nil
}

// SubmitDiscard 完成 10 触发的弃牌：弃掉的牌连同牌堆一起移入弃牌区，
// 牌堆清空并由下家领出新一轮。倒序不受影响，只有过牌到底或 8 的重置
// 才解除倒序。
func SubmitDiscard(s *RoomState, playerID string, ids []string) (*RoomState, error) {
	if err := validateDiscard(s, playerID, ids); err != nil {
		return nil, err
	}

	c := s.Clone()
	p := c.Players[playerID]
	p.Hand = removeCards(p.Hand, ids)

	c.Discard = append(c.Discard, ids...)
	c.Discard = append(c.Discard, c.Pattern.Cards...)
	c.Pattern = Pattern{}
	c.clearPasses()
	c.Pending = Pending{}

	c.bump()
	c.addEffect("discard_completed", map[string]any{
		"player_id": playerID,
		"count":     len(ids),
	}, playerID)

	if len(p.Hand) == 0 {
		finishPlayer(c, playerID)
	}
	if len(c.activePlayers()) <= 1 {
		completeRound(c)
		return c, nil
	}

	c.Turn = c.nextPlayer(playerID)
	return c, nil
}
