package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare_NormalOrder(t *testing.T) {
	t.Parallel()

	assert.Negative(t, Compare(Rank3, Rank4, false))
	assert.Positive(t, Compare(Rank2, RankA, false))
	assert.Positive(t, Compare(RankJoker, Rank2, false))
	assert.Zero(t, Compare(RankQ, RankQ, false))
	assert.True(t, Higher(RankJ, Rank10, false))
	assert.False(t, Higher(Rank10, RankJ, false))
}

func TestCompare_InvertedOrder(t *testing.T) {
	t.Parallel()

	// 倒序后 3 最大、王牌最小
	assert.Positive(t, Compare(Rank3, Rank4, true))
	assert.Negative(t, Compare(RankJoker, Rank3, true))
	assert.True(t, Higher(Rank9, Rank10, true))
	assert.False(t, Higher(RankQ, RankJ, true))
}

func TestBelowJackNormal(t *testing.T) {
	t.Parallel()

	assert.True(t, BelowJackNormal(Rank3))
	assert.True(t, BelowJackNormal(Rank10))
	assert.False(t, BelowJackNormal(RankJ))
	assert.False(t, BelowJackNormal(RankQ))
	assert.False(t, BelowJackNormal(RankJoker))
}

func TestSortIDs(t *testing.T) {
	t.Parallel()

	hand := []string{"2S", "3D", "JOKERa", "JH", "7C"}

	normal := SortIDs(hand, false)
	assert.Equal(t, []string{"3D", "7C", "JH", "2S", "JOKERa"}, normal)

	inverted := SortIDs(hand, true)
	assert.Equal(t, []string{"JOKERa", "2S", "JH", "7C", "3D"}, inverted)

	// 原切片不被修改
	assert.Equal(t, []string{"2S", "3D", "JOKERa", "JH", "7C"}, hand)
}

func TestBestForExchange(t *testing.T) {
	t.Parallel()

	hand := []string{"3D", "2S", "7C", "JOKERa", "KH"}

	best := BestForExchange(hand, 2)
	assert.ElementsMatch(t, []string{"2S", "JOKERa"}, best)

	// 手牌不足时全部给出，不报错
	short := []string{"4C"}
	assert.Equal(t, []string{"4C"}, BestForExchange(short, 2))
}

func TestLowestN(t *testing.T) {
	t.Parallel()

	hand := []string{"KH", "3D", "2S", "4C"}
	assert.ElementsMatch(t, []string{"3D", "4C"}, LowestN(hand, 2))
	assert.Len(t, LowestN(hand, 10), 4)
}
