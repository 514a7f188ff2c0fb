package apperrors

import (
	"github.com/palemoky/president/internal/protocol"
)

// GameError 游戏错误（房间和引擎共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// New 构造带自定义文本的游戏错误
func New(code int, message string) *GameError {
	return &GameError{Code: code, Message: message}
}

// 预定义错误
var (
	ErrRoomNotFound     = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull         = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom        = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrNotYourTurn      = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrOwnership        = &GameError{Code: protocol.ErrCodeOwnership, Message: "您没有这些牌"}
	ErrPatternMismatch  = &GameError{Code: protocol.ErrCodePatternMismatch, Message: "牌型不符合要求"}
	ErrRankTooLow       = &GameError{Code: protocol.ErrCodeRankTooLow, Message: "点数不够大"}
	ErrEffectPending    = &GameError{Code: protocol.ErrCodeEffectPending, Message: "请先完成当前效果"}
	ErrInvalidGift      = &GameError{Code: protocol.ErrCodeInvalidGift, Message: "赠牌分配无效"}
	ErrInvalidDiscard   = &GameError{Code: protocol.ErrCodeInvalidDiscard, Message: "弃牌选择无效"}
	ErrAlreadyPassed    = &GameError{Code: protocol.ErrCodeAlreadyPassed, Message: "您本轮已经过牌"}
	ErrActionNotAllowed = &GameError{Code: protocol.ErrCodeActionNotAllowed, Message: "当前阶段不允许此操作"}
	ErrInternal         = &GameError{Code: protocol.ErrCodeInternal, Message: "服务器内部错误"}
)
