package engine

import (
	"fmt"

	"github.com/palemoky/president/internal/apperrors"
	"github.com/palemoky/president/internal/game/card"
)

// detectPattern 识别一组牌的 (点数, 张数)。
// 所有牌必须同点数；王牌是万能牌，可以顶替其余牌的点数；
// 全是王牌时按王牌点数计。识别失败返回 (-1, 0)。
func detectPattern(ids []string) (card.Rank, int) {
	if len(ids) == 0 {
		return -1, 0
	}

	primary := card.Rank(-1)
	for _, id := range ids {
		r := card.RankOf(id)
		if r < 0 {
			return -1, 0
		}
		if r == card.RankJoker {
			continue
		}
		if primary < 0 {
			primary = r
		} else if r != primary {
			return -1, 0 // 点数混杂
		}
	}

	if primary < 0 {
		// 全是王牌
		return card.RankJoker, len(ids)
	}
	return primary, len(ids)
}

// effectForRank 返回点数触发的特殊效果
func effectForRank(r card.Rank) string {
	switch r {
	case card.Rank7:
		return EffectSevenGift
	case card.Rank8:
		return EffectEightReset
	case card.Rank10:
		return EffectTenDiscard
	case card.RankJ:
		return EffectJackInversion
	}
	return ""
}

// validatePlay 校验一次出牌。通过时返回识别出的 (点数, 张数)，
// 任何失败都不触碰状态。
func validatePlay(s *RoomState, playerID string, ids []string) (card.Rank, int, error) {
	if s.Phase != PhasePlay {
		return -1, 0, apperrors.ErrActionNotAllowed
	}
	if s.Turn != playerID {
		return -1, 0, apperrors.ErrNotYourTurn
	}
	if s.Pending.Kind != EffectNone {
		return -1, 0, apperrors.ErrEffectPending
	}

	p, ok := s.Players[playerID]
	if !ok {
		return -1, 0, apperrors.ErrNotYourTurn
	}
	if p.Passed {
		return -1, 0, apperrors.ErrAlreadyPassed
	}
	if len(ids) == 0 || hasDuplicates(ids) {
		return -1, 0, apperrors.ErrPatternMismatch
	}
	if !owns(p, ids) {
		return -1, 0, apperrors.ErrOwnership
	}

	rank, count := detectPattern(ids)
	if rank < 0 {
		return -1, 0, apperrors.ErrPatternMismatch
	}

	if s.Pattern.IsEmpty() {
		// 领出。首局的第一手必须由方块 3 的持有者用 3 开局
		if !s.hasRoles() && s.isUntouched() {
			if !owns(p, []string{card.OpeningCard}) {
				return -1, 0, apperrors.ErrNotYourTurn
			}
			if rank != card.Rank3 {
				return -1, 0, apperrors.New(
					apperrors.ErrPatternMismatch.Code, "首局必须用 3 开局")
			}
		}
		return rank, count, nil
	}

	// 压牌：张数必须一致
	if count != s.Pattern.Count {
		return -1, 0, apperrors.ErrPatternMismatch
	}

	// J 触发倒序后的第一手是一次性限制：正常排序下必须严格低于 J
	if s.JackGate {
		if !card.BelowJackNormal(rank) {
			return -1, 0, apperrors.ErrRankTooLow
		}
		return rank, count, nil
	}

	// 常规比较：当前排序下必须严格大于堆顶
	if !card.Higher(rank, s.Pattern.Rank, s.Inversion) {
		return -1, 0, apperrors.ErrRankTooLow
	}
	return rank, count, nil
}

// isUntouched 判断本局是否尚未有人出过牌
func (s *RoomState) isUntouched() bool {
	return len(s.Discard) == 0 && s.Pattern.IsEmpty() && len(s.FinishedOrder) == 0
}

// validatePass 校验一次过牌
func validatePass(s *RoomState, playerID string) error {
	if s.Phase != PhasePlay {
		return apperrors.ErrActionNotAllowed
	}
	if s.Turn != playerID {
		return apperrors.ErrNotYourTurn
	}
	if s.Pending.Kind != EffectNone {
		return apperrors.ErrEffectPending
	}

	p, ok := s.Players[playerID]
	if !ok {
		return apperrors.ErrNotYourTurn
	}
	if p.Passed {
		return apperrors.ErrAlreadyPassed
	}
	if s.Pattern.IsEmpty() {
		// 领出时不能过牌
		return apperrors.ErrActionNotAllowed
	}
	return nil
}

// validateGift 校验赠牌分配：总数必须恰好等于待赠张数，
// 牌必须都在手里，不能赠给自己，不能重复。全有或全无。
func validateGift(s *RoomState, playerID string, assignments []GiftAssignment) error {
	if s.Pending.Kind != EffectGift {
		return apperrors.ErrEffectPending
	}
	if s.Pending.Player != playerID {
		return apperrors.ErrNotYourTurn
	}

	p, ok := s.Players[playerID]
	if !ok {
		return apperrors.ErrNotYourTurn
	}

	var all []string
	for _, a := range assignments {
		recipient, ok := s.Players[a.To]
		if !ok {
			return apperrors.New(apperrors.ErrInvalidGift.Code,
				fmt.Sprintf("收牌人不存在: %s", a.To))
		}
		if recipient.ID == playerID {
			return apperrors.New(apperrors.ErrInvalidGift.Code, "不能赠牌给自己")
		}
		all = append(all, a.Cards...)
	}

	if len(all) != s.Pending.Count {
		return apperrors.New(apperrors.ErrInvalidGift.Code,
			fmt.Sprintf("必须恰好赠出 %d 张，当前 %d 张", s.Pending.Count, len(all)))
	}
	if hasDuplicates(all) {
		return apperrors.New(apperrors.ErrInvalidGift.Code, "同一张牌不能赠出两次")
	}
	if !owns(p, all) {
		return apperrors.ErrOwnership
	}
	return nil
}

// validateDiscard 校验弃牌选择。手牌不足待弃张数时必须全弃。
func validateDiscard(s *RoomState, playerID string, ids []string) error {
	if s.Pending.Kind != EffectDiscard {
		return apperrors.ErrEffectPending
	}
	if s.Pending.Player != playerID {
		return apperrors.ErrNotYourTurn
	}

	p, ok := s.Players[playerID]
	if !ok {
		return apperrors.ErrNotYourTurn
	}

	required := min(s.Pending.Count, len(p.Hand))
	if len(ids) != required {
		return apperrors.New(apperrors.ErrInvalidDiscard.Code,
			fmt.Sprintf("必须弃掉 %d 张，当前 %d 张", required, len(ids)))
	}
	if hasDuplicates(ids) {
		return apperrors.New(apperrors.ErrInvalidDiscard.Code, "同一张牌不能弃两次")
	}
	if !owns(p, ids) {
		return apperrors.ErrOwnership
	}
	return nil
}
