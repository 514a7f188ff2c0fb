// Package server 提供 WebSocket 接入层：连接升级、客户端生命周期、
// 消息路由和心跳。游戏逻辑全部在 room 的串行循环里执行。
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/president/internal/config"
	"github.com/palemoky/president/internal/game/room"
	"github.com/palemoky/president/internal/protocol"
	"github.com/palemoky/president/internal/protocol/codec"
	"github.com/palemoky/president/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
}

// reaperInterval 闲置房间回收的检查间隔
const reaperInterval = time.Minute

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redis       *redis.Client
	store       *storage.RedisStore
	roomManager *room.Manager

	clients   map[string]*Client
	clientsMu sync.RWMutex

	httpServer *http.Server
	cancel     context.CancelFunc
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	store := storage.NewRedisStore(rdb)
	return &Server{
		config:      cfg,
		redis:       rdb,
		store:       store,
		roomManager: room.NewManager(cfg, store),
		clients:     make(map[string]*Client),
	}, nil
}

// Start 启动服务器（阻塞直到退出）
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.roomManager.RunReaper(ctx, reaperInterval)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🃏 服务器监听 %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅关闭：停止接收新连接，关闭所有房间
func (s *Server) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
	s.roomManager.CloseAll()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}
	_ = s.redis.Close()
	log.Println("👋 服务器已关闭")
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	s.registerClient(client)

	// 创建重连会话
	token := uuid.New().String()
	client.ReconnectToken = token
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.store.SaveSession(ctx, token, &storage.SessionData{
			PlayerID: client.GetID(),
			Name:     client.GetName(),
		})
	}()

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:       client.GetID(),
		PlayerName:     client.GetName(),
		ReconnectToken: token,
	}))

	log.Printf("✅ 玩家 %s (%s) 已连接", client.GetName(), client.GetID())

	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.GetID()] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if s.clients[client.GetID()] == client {
		delete(s.clients, client.GetID())
		log.Printf("❌ 玩家 %s (%s) 已断开", client.GetName(), client.GetID())
	}
}

// rebindClient 重连后把客户端改挂到旧玩家 ID 上
func (s *Server) rebindClient(client *Client, oldKey string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, oldKey)
	s.clients[client.GetID()] = client
}

// GetOnlineCount 在线人数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
