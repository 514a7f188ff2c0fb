package engine

import (
	"fmt"

	"github.com/palemoky/president/internal/apperrors"
	"github.com/palemoky/president/internal/game/card"
)

// startExchange 进入换牌阶段。
// Asshole 自动交出 2 张最大的牌给 President，Scumbag 交出 1 张给
// VicePresident；收牌方必须各自回赠等量任选的牌。自动交牌部分立即完成，
// 回赠通过 ExchangeReturn 提交。没有可换的配对时直接进入出牌阶段。
func startExchange(c *RoomState) {
	type pairing struct {
		from, to Role
		count    int
	}
	pairings := []pairing{
		{RoleAsshole, RolePresident, 2},
		{RoleScumbag, RoleVicePresident, 1},
	}

	c.Exchanges = nil
	for _, pr := range pairings {
		donor := c.playerByRole(pr.from)
		recipient := c.playerByRole(pr.to)
		if donor == nil || recipient == nil {
			continue
		}

		given := card.BestForExchange(donor.Hand, pr.count)
		donor.Hand = removeCards(donor.Hand, given)
		recipient.Hand = append(recipient.Hand, given...)

		c.Exchanges = append(c.Exchanges, ExchangePair{
			From:  donor.ID,
			To:    recipient.ID,
			Count: len(given),
		})
		c.addEffect("exchange_given", map[string]any{
			"from":  donor.ID,
			"to":    recipient.ID,
			"count": len(given),
		}, donor.ID)
	}

	if len(c.Exchanges) == 0 {
		c.Phase = PhasePlay
		c.Turn = leadFor(c)
		return
	}

	c.Phase = PhaseExchange
	c.Turn = ""
}

// ExchangeReturn 收牌方回赠等量的牌给交出方。所有配对都回赠完毕后进入
// 出牌阶段，由 Asshole 先手。
func ExchangeReturn(s *RoomState, playerID string, ids []string) (*RoomState, error) {
	if s.Phase != PhaseExchange {
		return nil, apperrors.ErrActionNotAllowed
	}

	idx := -1
	for i, pair := range s.Exchanges {
		if pair.To == playerID && !pair.Returned {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.ErrActionNotAllowed
	}

	pair := s.Exchanges[idx]
	if len(ids) != pair.Count {
		return nil, apperrors.New(apperrors.ErrActionNotAllowed.Code,
			fmt.Sprintf("必须回赠 %d 张，当前 %d 张", pair.Count, len(ids)))
	}
	if hasDuplicates(ids) {
		return nil, apperrors.ErrActionNotAllowed
	}

	p := s.Players[playerID]
	if !owns(p, ids) {
		return nil, apperrors.ErrOwnership
	}

	c := s.Clone()
	giver := c.Players[playerID]
	giver.Hand = removeCards(giver.Hand, ids)
	donor := c.Players[pair.From]
	donor.Hand = append(donor.Hand, ids...)
	c.Exchanges[idx].Returned = true

	c.bump()
	c.addEffect("exchange_returned", map[string]any{
		"from":  playerID,
		"to":    pair.From,
		"count": len(ids),
	}, playerID)

	if allReturned(c.Exchanges) {
		c.Phase = PhasePlay
		c.Turn = leadFor(c)
		c.addEffect("exchange_completed", map[string]any{
			"first_player": c.Turn,
		}, "")
	}
	return c, nil
}

func allReturned(pairs []ExchangePair) bool {
	for _, pair := range pairs {
		if !pair.Returned {
			return false
		}
	}
	return true
}
