package codec

import (
	"encoding/json"
	"fmt"

	"github.com/palemoky/president/internal/protocol"
)

// NewMessage 构造一条带 payload 的消息
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := &protocol.Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("序列化 payload 失败: %w", err)
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage 构造消息，payload 序列化失败时 panic（仅用于服务端自有类型）
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// NewErrorMessage 根据错误码构造错误消息
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 构造带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
}

// Encode 编码消息为 JSON 字节
func Encode(msg *protocol.Message) ([]byte, error) {
	return json.Marshal(msg)
}

// MustEncode 编码消息，失败时 panic
func MustEncode(msg *protocol.Message) []byte {
	data, err := Encode(msg)
	if err != nil {
		panic(err)
	}
	return data
}

// Decode 解码 JSON 字节为消息
func Decode(data []byte) (*protocol.Message, error) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("消息缺少 type 字段")
	}
	return &msg, nil
}

// ParsePayload 解析消息 payload 为指定类型
func ParsePayload[T any](msg *protocol.Message) (T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("解析 payload 失败: %w", err)
	}
	return payload, nil
}
