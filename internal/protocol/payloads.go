package protocol

import "encoding/json"

// --- 客户端请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`     // 重连令牌
	PlayerID string `json:"player_id"` // 玩家 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinRoomPayload 加入房间请求，房间号为空时创建新房间
type JoinRoomPayload struct {
	RoomCode string `json:"room_code,omitempty"`
	Name     string `json:"name,omitempty"`
}

// StartPayload 开始牌局请求
type StartPayload struct {
	Seed *uint64 `json:"seed,omitempty"` // 可选随机种子，用于确定性发牌
}

// PlayCardsPayload 出牌请求，牌以 "<点数><花色>" 标识
type PlayCardsPayload struct {
	Cards []string `json:"cards"`
}

// GiftAssignment 一份赠牌：给谁、给哪些牌
type GiftAssignment struct {
	To    string   `json:"to"`
	Cards []string `json:"cards"`
}

// GiftSelectPayload 7 的赠牌分配请求
type GiftSelectPayload struct {
	Assignments []GiftAssignment `json:"assignments"`
}

// DiscardSelectPayload 10 的弃牌选择请求
type DiscardSelectPayload struct {
	Cards []string `json:"cards"`
}

// ExchangeReturnPayload 换牌阶段的回赠请求
type ExchangeReturnPayload struct {
	Cards []string `json:"cards"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"reconnect_token"` // 重连令牌
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	RoomCode   string `json:"room_code,omitempty"` // 如果在房间中
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	Seat     int    `json:"seat"`
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Timeout    int    `json:"timeout"` // 机器人代打前的等待（秒）
}

// PlayerOnlinePayload 玩家上线通知
type PlayerOnlinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// StateFullPayload 完整脱敏快照，内容由引擎的 Snapshot 序列化而来
type StateFullPayload struct {
	State json.RawMessage `json:"state"`
}

// PatchOp 一条 JSON-Patch 风格的补丁操作
type PatchOp struct {
	Op    string `json:"op"` // replace / add / remove
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// StatePatchPayload 增量补丁，Version 为补丁应用后的版本号
type StatePatchPayload struct {
	Version uint64    `json:"version"`
	Ops     []PatchOp `json:"ops"`
}

// EffectPayload 特殊效果事件
type EffectPayload struct {
	Effect string         `json:"effect"`
	Data   map[string]any `json:"data,omitempty"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
