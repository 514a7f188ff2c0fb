package card

import "sort"

// 点数全序共 14 级：3 最小，2 之上是王牌。
// 倒序时整条序列反转，王牌随之成为最小。

// Index 返回点数在当前排序下的位置，越大越强
func Index(r Rank, inverted bool) int {
	pos := int(r - Rank3)
	if inverted {
		return int(RankJoker-Rank3) - pos
	}
	return pos
}

// Compare 比较两个点数在当前排序下的强弱
func Compare(a, b Rank, inverted bool) int {
	return Index(a, inverted) - Index(b, inverted)
}

// Higher 判断 a 是否严格强于 b
func Higher(a, b Rank, inverted bool) bool {
	return Compare(a, b, inverted) > 0
}

// BelowJackNormal 判断点数在正常排序下是否严格低于 J。
// J 触发倒序后，紧接着的一手牌必须满足此限制。
func BelowJackNormal(r Rank) bool {
	return Index(r, false) < Index(RankJ, false)
}

// SortIDs 按当前排序对牌标识从小到大排序，返回新切片
func SortIDs(ids []string, inverted bool) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Index(RankOf(sorted[i]), inverted) < Index(RankOf(sorted[j]), inverted)
	})
	return sorted
}

// BestForExchange 返回手牌中按正常排序最大的 n 张牌。
// 换牌阶段永远按正常排序取牌，与当前是否倒序无关。
// 手牌不足 n 张时全部返回。
func BestForExchange(hand []string, n int) []string {
	if len(hand) <= n {
		out := make([]string, len(hand))
		copy(out, hand)
		return out
	}
	sorted := SortIDs(hand, false)
	return sorted[len(sorted)-n:]
}

// LowestN 返回手牌中按正常排序最小的 n 张牌，手牌不足时全部返回
func LowestN(hand []string, n int) []string {
	if len(hand) <= n {
		out := make([]string, len(hand))
		copy(out, hand)
		return out
	}
	sorted := SortIDs(hand, false)
	return sorted[:n]
}
