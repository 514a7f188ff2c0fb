package card

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Suit 定义花色
type Suit int

// Rank 定义点数
type Rank int

const (
	Spade   Suit = iota // 黑桃
	Heart               // 红心
	Diamond             // 方块
	Club                // 梅花
	Joker               // 王牌
)

// suitChars 花色的牌面标识
var suitChars = map[Suit]string{
	Spade:   "S",
	Heart:   "H",
	Diamond: "D",
	Club:    "C",
	Joker:   "",
}

func (s Suit) String() string {
	if c, ok := suitChars[s]; ok {
		return c
	}
	return ""
}

const (
	Rank3 Rank = iota + 3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack，倒序触发牌
	RankQ // Queen
	RankK // King
	RankA // Ace
	Rank2
	RankJoker // 王牌，万能牌
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Rank3:     "3",
	Rank4:     "4",
	Rank5:     "5",
	Rank6:     "6",
	Rank7:     "7",
	Rank8:     "8",
	Rank9:     "9",
	Rank10:    "10",
	RankJ:     "J",
	RankQ:     "Q",
	RankK:     "K",
	RankA:     "A",
	Rank2:     "2",
	RankJoker: "JOKER",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// 特殊牌标识
const (
	// OpeningCard 首局必须由持有者先手的牌（方块 3）
	OpeningCard = "3D"

	// 两张王牌的标识，花色无意义但标识必须唯一
	JokerA = "JOKERa"
	JokerB = "JOKERb"
)

// 王牌标识
var jokerIDs = []string{JokerA, JokerB}

// suitOrder 生成整副牌时的花色顺序
var suitOrder = []Suit{Spade, Heart, Diamond, Club}

// ParseID 解析牌标识，返回点数和花色
func ParseID(id string) (Rank, Suit, error) {
	if strings.HasPrefix(id, "JOKER") {
		return RankJoker, Joker, nil
	}
	if len(id) < 2 {
		return 0, 0, fmt.Errorf("无法识别的牌: %q", id)
	}

	suitChar := id[len(id)-1:]
	rankStr := id[:len(id)-1]

	var suit Suit
	switch suitChar {
	case "S":
		suit = Spade
	case "H":
		suit = Heart
	case "D":
		suit = Diamond
	case "C":
		suit = Club
	default:
		return 0, 0, fmt.Errorf("无法识别的花色: %q", id)
	}

	for r, name := range rankNames {
		if r != RankJoker && name == rankStr {
			return r, suit, nil
		}
	}
	return 0, 0, fmt.Errorf("无法识别的点数: %q", id)
}

// RankOf 提取牌标识的点数，标识非法时返回 -1
func RankOf(id string) Rank {
	r, _, err := ParseID(id)
	if err != nil {
		return -1
	}
	return r
}

// Valid 检查牌标识是否合法
func Valid(id string) bool {
	_, _, err := ParseID(id)
	return err == nil
}

// Deck 定义一副牌（按标识）
type Deck []string

// NewDeck 生成一副牌，可选是否带王牌
func NewDeck(useJokers bool) Deck {
	deck := make(Deck, 0, 54)
	for _, s := range suitOrder {
		for r := Rank3; r <= Rank2; r++ {
			deck = append(deck, rankNames[r]+s.String())
		}
	}
	if useJokers {
		deck = append(deck, jokerIDs...)
	}
	return deck
}

// Shuffle 原地洗牌（系统随机源）
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// ShuffleSeeded 原地洗牌（确定性随机源，用于可复现的发牌）
func (d Deck) ShuffleSeeded(seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}
