package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001

	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003

	ErrCodeNotYourTurn      = 3001
	ErrCodeOwnership        = 3002
	ErrCodePatternMismatch  = 3003
	ErrCodeRankTooLow       = 3004
	ErrCodeEffectPending    = 3005
	ErrCodeInvalidGift      = 3006
	ErrCodeInvalidDiscard   = 3007
	ErrCodeAlreadyPassed    = 3008
	ErrCodeActionNotAllowed = 3009

	ErrCodeInternal = 5000
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:          "未知错误",
	ErrCodeInvalidMsg:       "无效的消息格式",
	ErrCodeRoomNotFound:     "房间不存在",
	ErrCodeRoomFull:         "房间已满",
	ErrCodeNotInRoom:        "您不在房间中",
	ErrCodeNotYourTurn:      "还没轮到您",
	ErrCodeOwnership:        "您没有这些牌",
	ErrCodePatternMismatch:  "牌型不符合要求",
	ErrCodeRankTooLow:       "点数不够大",
	ErrCodeEffectPending:    "请先完成当前效果",
	ErrCodeInvalidGift:      "赠牌分配无效",
	ErrCodeInvalidDiscard:   "弃牌选择无效",
	ErrCodeAlreadyPassed:    "您本轮已经过牌",
	ErrCodeActionNotAllowed: "当前阶段不允许此操作",
	ErrCodeInternal:         "服务器内部错误",
}
