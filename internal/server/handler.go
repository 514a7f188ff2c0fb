package server

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/president/internal/protocol"
	"github.com/palemoky/president/internal/protocol/codec"
	"github.com/palemoky/president/internal/server/storage"
)

// route 把客户端消息分发到对应处理逻辑。
// 连接层消息就地处理，游戏消息转交所在房间的串行循环。
func (s *Server) route(c *Client, msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgPing:
		s.handlePing(c, msg)
	case protocol.MsgReconnect:
		s.handleReconnect(c, msg)
	case protocol.MsgJoinRoom:
		s.handleJoinRoom(c, msg)
	default:
		s.forwardToRoom(c, msg)
	}
}

func (s *Server) handlePing(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	c.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect 凭令牌恢复旧身份，如果之前在房间里则重新挂回房间
func (s *Server) handleReconnect(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil || payload.Token == "" {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	session, err := s.store.LoadSession(ctx, payload.Token)
	if err != nil {
		log.Printf("⚠️ 加载会话失败: %v", err)
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInternal))
		return
	}
	if session == nil {
		c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "重连令牌无效或已过期"))
		return
	}

	oldKey := c.GetID()
	c.setIdentity(session.PlayerID, session.Name)
	s.rebindClient(c, oldKey)

	c.SendMessage(codec.MustNewMessage(protocol.MsgReconnected, protocol.ReconnectedPayload{
		PlayerID:   c.GetID(),
		PlayerName: c.GetName(),
		RoomCode:   session.RoomID,
	}))

	if session.RoomID == "" {
		return
	}
	r, exists := s.roomManager.GetOrRestore(ctx, session.RoomID)
	if !exists {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeRoomNotFound))
		return
	}
	c.SetRoom(r.ID)
	r.Attach(c)
}

// handleJoinRoom 加入房间，房间号为空时创建新房间
func (s *Server) handleJoinRoom(c *Client, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if c.GetRoom() != "" {
		c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeActionNotAllowed, "您已在房间中"))
		return
	}
	if payload.Name != "" {
		c.setIdentity(c.GetID(), payload.Name)
	}

	r := s.roomManager.GetOrCreate(payload.RoomCode)
	c.SetRoom(r.ID)
	r.Attach(c)

	// 会话里记下房间号，重连时自动回房
	token := c.ReconnectToken
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.store.SaveSession(ctx, token, &storage.SessionData{
			PlayerID: c.GetID(),
			Name:     c.GetName(),
			RoomID:   r.ID,
		})
	}()
}

// forwardToRoom 游戏消息转交所在房间
func (s *Server) forwardToRoom(c *Client, msg *protocol.Message) {
	roomID := c.GetRoom()
	if roomID == "" {
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}
	r, exists := s.roomManager.Get(roomID)
	if !exists {
		c.SetRoom("")
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeRoomNotFound))
		return
	}
	r.Submit(c.GetID(), msg.Type, msg.Payload)
}
