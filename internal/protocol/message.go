package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgReconnect MessageType = "reconnect" // 断线重连
	MsgPing      MessageType = "ping"      // 心跳 ping

	// 房间操作
	MsgJoinRoom MessageType = "join_room" // 加入房间（不存在则创建）
	MsgAddBot   MessageType = "add_bot"   // 添加机器人
	MsgStart    MessageType = "start"     // 开始牌局（可带随机种子）

	// 游戏操作
	MsgPlayCards      MessageType = "play"            // 出牌
	MsgPass           MessageType = "pass"            // 过牌
	MsgGiftSelect     MessageType = "gift_select"     // 7 的赠牌分配
	MsgDiscardSelect  MessageType = "discard_select"  // 10 的弃牌选择
	MsgExchangeReturn MessageType = "exchange_return" // 换牌阶段的回赠
	MsgNewRound       MessageType = "new_round"       // 开始下一局
	MsgResync         MessageType = "resync"          // 请求完整状态快照
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"      // 连接成功
	MsgReconnected   MessageType = "reconnected"    // 重连成功
	MsgPong          MessageType = "pong"           // 心跳 pong
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家上线通知

	// 房间相关
	MsgRoomJoined MessageType = "room_joined" // 加入房间成功

	// 状态同步
	MsgStateFull  MessageType = "state_full"  // 完整的脱敏快照
	MsgStatePatch MessageType = "state_patch" // 增量补丁
	MsgEffect     MessageType = "effect"      // 特殊效果事件

	// 错误
	MsgError MessageType = "error" // 错误消息
)
