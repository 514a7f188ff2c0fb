package server

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/president/internal/protocol"
	"github.com/palemoky/president/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096
)

// nicknames 随机昵称的组成部分
var (
	nicknameAdjectives = []string{"快乐的", "沉默的", "好斗的", "佛系的", "神秘的", "倔强的"}
	nicknameNouns      = []string{"出牌手", "老千", "牌痴", "常胜将军", "守塔人", "观望者"}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	return fmt.Sprintf("%s%s", nicknameAdjectives[rand.IntN(len(nicknameAdjectives))],
		nicknameNouns[rand.IntN(len(nicknameNouns))])
}

// Client 代表一个连接的玩家
type Client struct {
	ReconnectToken string

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	id     string
	name   string
	roomID string
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		id:     uuid.New().String(),
		name:   GenerateNickname(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

func (c *Client) GetID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *Client) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// setIdentity 重连成功后恢复旧身份
func (c *Client) setIdentity(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
	if name != "" {
		c.name = name
	}
}

// SendMessage 发送消息给客户端（非阻塞，队列满时丢弃并断开）
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		log.Printf("消息编码失败: %v", err)
		return
	}

	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("⚠️ 客户端 %s 发送队列已满，断开连接", c.GetName())
		c.closeSend()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取错误: %v", err)
			}
			break
		}

		msg, err := codec.Decode(message)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.route(c, msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleDisconnect 连接断开：通知所在房间，座位保留等待重连
func (c *Client) handleDisconnect() {
	if roomID := c.GetRoom(); roomID != "" {
		if r, exists := c.server.roomManager.Get(roomID); exists {
			r.Detach(c.GetID())
		}
	}
	c.closeSend()
	c.server.unregisterClient(c)
}
