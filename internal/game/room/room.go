// Package room 承载房间的并发模型：每个房间一个 goroutine，
// 所有动作经由同一条请求通道串行执行，引擎状态没有共享写入。
// 机器人和超时代打走与人类玩家完全相同的请求路径。
package room

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/palemoky/president/internal/apperrors"
	"github.com/palemoky/president/internal/config"
	"github.com/palemoky/president/internal/game/engine"
	"github.com/palemoky/president/internal/protocol"
	"github.com/palemoky/president/internal/protocol/codec"
	"github.com/palemoky/president/internal/server/storage"
)

// Sender 能接收服务端消息的连接
type Sender interface {
	GetID() string
	GetName() string
	SendMessage(msg *protocol.Message)
}

// 内部请求类型，和客户端消息共用一条通道
const (
	reqAttach  protocol.MessageType = "__attach"
	reqDetach  protocol.MessageType = "__detach"
	reqBotTick protocol.MessageType = "__bot_tick"
	reqTimeout protocol.MessageType = "__timeout"
)

// request 一次进入房间循环的动作
type request struct {
	kind     protocol.MessageType
	playerID string
	payload  json.RawMessage
	client   Sender // 仅 join/attach 携带

	// 定时器请求的版本守卫：状态已前进则该请求作废
	version uint64
}

// Room 房间实例。state 只被 loop goroutine 触碰。
type Room struct {
	ID string

	cfg   *config.Config
	store *storage.RedisStore

	requests  chan request
	done      chan struct{}
	closeOnce sync.Once

	state     *engine.RoomState
	clients   map[string]Sender
	lastSnaps map[string]*engine.Snapshot

	lastActivity atomic.Int64
}

// New 创建房间并启动它的事件循环
func New(id string, cfg *config.Config, store *storage.RedisStore) *Room {
	r := &Room{
		ID:        id,
		cfg:       cfg,
		store:     store,
		requests:  make(chan request, 64),
		done:      make(chan struct{}),
		clients:   make(map[string]Sender),
		lastSnaps: make(map[string]*engine.Snapshot),
		state: engine.NewRoom(id, engine.Rules{
			UseJokers:  cfg.Rules.UseJokers,
			MinPlayers: cfg.Rules.MinPlayers,
			MaxPlayers: cfg.Rules.MaxPlayers,
			EnableBots: cfg.Rules.EnableBots,
		}),
	}
	r.lastActivity.Store(time.Now().Unix())

	go r.loop()
	return r
}

// Restore 从持久化状态恢复房间并启动事件循环
func Restore(state *engine.RoomState, cfg *config.Config, store *storage.RedisStore) *Room {
	r := &Room{
		ID:        state.ID,
		cfg:       cfg,
		store:     store,
		requests:  make(chan request, 64),
		done:      make(chan struct{}),
		clients:   make(map[string]Sender),
		lastSnaps: make(map[string]*engine.Snapshot),
		state:     state.Clone(),
	}
	r.lastActivity.Store(time.Now().Unix())

	// 恢复后所有人都视作掉线，等待重连
	for _, p := range r.state.Players {
		if !p.IsBot {
			p.Connected = false
		}
	}

	go r.loop()
	return r
}

// Submit 把一条客户端消息交给房间循环处理
func (r *Room) Submit(playerID string, kind protocol.MessageType, payload json.RawMessage) {
	r.enqueue(request{kind: kind, playerID: playerID, payload: payload})
}

// Attach 玩家连接进入房间：新玩家走 join，老玩家走重连
func (r *Room) Attach(client Sender) {
	r.enqueue(request{kind: reqAttach, playerID: client.GetID(), client: client})
}

// Detach 玩家连接断开
func (r *Room) Detach(playerID string) {
	r.enqueue(request{kind: reqDetach, playerID: playerID})
}

// Close 关闭房间循环
func (r *Room) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// LastActivity 房间最后一次活动时间
func (r *Room) LastActivity() time.Time {
	return time.Unix(r.lastActivity.Load(), 0)
}

func (r *Room) enqueue(req request) {
	select {
	case r.requests <- req:
	case <-r.done:
	}
}

func (r *Room) loop() {
	for {
		select {
		case req := <-r.requests:
			r.handle(req)
		case <-r.done:
			return
		}
	}
}

func (r *Room) handle(req request) {
	switch req.kind {
	case reqAttach:
		r.handleAttach(req.client)
	case reqDetach:
		r.handleDetach(req.playerID)
	case reqBotTick:
		r.actForPuppets(req)
	case reqTimeout:
		r.handleTimeout(req)
	case protocol.MsgAddBot:
		r.handleAddBot()
	case protocol.MsgStart:
		r.handleStart(req)
	case protocol.MsgNewRound:
		r.handleNewRound(req)
	case protocol.MsgPlayCards:
		r.handlePlay(req)
	case protocol.MsgPass:
		r.apply(req.playerID, func() (*engine.RoomState, error) {
			return engine.Pass(r.state, req.playerID)
		})
	case protocol.MsgGiftSelect:
		r.handleGift(req)
	case protocol.MsgDiscardSelect:
		r.handleDiscard(req)
	case protocol.MsgExchangeReturn:
		r.handleExchangeReturn(req)
	case protocol.MsgResync:
		r.sendFull(req.playerID)
	default:
		r.sendError(req.playerID, apperrors.ErrActionNotAllowed)
	}
}

// handleAttach 连接进入房间。已有座位的玩家视作重连，否则加入新座位。
func (r *Room) handleAttach(client Sender) {
	id := client.GetID()
	r.clients[id] = client
	delete(r.lastSnaps, id)

	if _, exists := r.state.Players[id]; exists {
		r.apply(id, func() (*engine.RoomState, error) {
			return engine.Reconnect(r.state, id)
		})
		r.broadcastExcept(id, codec.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
			PlayerID:   id,
			PlayerName: client.GetName(),
		}))
		log.Printf("🔄 玩家 %s 重连到房间 %s", client.GetName(), r.ID)
		return
	}

	if next, err := engine.Join(r.state, id, client.GetName(), false); err != nil {
		r.sendError(id, err)
		delete(r.clients, id)
	} else {
		seat := next.Players[id].Seat
		client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
			RoomCode: r.ID,
			PlayerID: id,
			Seat:     seat,
		}))
		r.commit(next)
		log.Printf("👤 玩家 %s 加入房间 %s（座位 %d）", client.GetName(), r.ID, seat)
	}
}

// handleDetach 连接断开。座位保留，轮到该玩家时由机器人代打。
func (r *Room) handleDetach(playerID string) {
	p, exists := r.state.Players[playerID]
	delete(r.clients, playerID)
	delete(r.lastSnaps, playerID)
	if !exists {
		return
	}

	name := p.Name
	r.apply(playerID, func() (*engine.RoomState, error) {
		return engine.Disconnect(r.state, playerID)
	})
	r.broadcastExcept(playerID, codec.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerID:   playerID,
		PlayerName: name,
		Timeout:    r.cfg.Game.TurnTimeout,
	}))
	log.Printf("📴 玩家 %s 从房间 %s 掉线", name, r.ID)
}

func (r *Room) handleAddBot() {
	r.addBot()
}

func (r *Room) addBot() bool {
	id := "bot-" + generateBotSuffix()
	next, err := engine.Join(r.state, id, generateBotName(), true)
	if err != nil {
		return false
	}
	r.commit(next)
	return true
}

// handleStart 开始首局。配置允许时自动补足机器人到最少人数。
func (r *Room) handleStart(req request) {
	if r.cfg.Rules.AutoFillBots {
		for len(r.state.Players) < r.cfg.Rules.MinPlayers {
			if !r.addBot() {
				break
			}
		}
	}

	payload, err := parsePayload[protocol.StartPayload](req.payload)
	if err != nil {
		r.sendError(req.playerID, apperrors.ErrActionNotAllowed)
		return
	}
	r.apply(req.playerID, func() (*engine.RoomState, error) {
		return engine.Start(r.state, payload.Seed)
	})
}

func (r *Room) handleNewRound(req request) {
	payload, err := parsePayload[protocol.StartPayload](req.payload)
	if err != nil {
		r.sendError(req.playerID, apperrors.ErrActionNotAllowed)
		return
	}
	r.apply(req.playerID, func() (*engine.RoomState, error) {
		return engine.NextRound(r.state, payload.Seed)
	})
}

func (r *Room) handlePlay(req request) {
	payload, err := parsePayload[protocol.PlayCardsPayload](req.payload)
	if err != nil {
		r.sendError(req.playerID, apperrors.ErrPatternMismatch)
		return
	}
	r.apply(req.playerID, func() (*engine.RoomState, error) {
		return engine.Play(r.state, req.playerID, payload.Cards)
	})
}

func (r *Room) handleGift(req request) {
	payload, err := parsePayload[protocol.GiftSelectPayload](req.payload)
	if err != nil {
		r.sendError(req.playerID, apperrors.ErrInvalidGift)
		return
	}

	assignments := make([]engine.GiftAssignment, len(payload.Assignments))
	for i, a := range payload.Assignments {
		assignments[i] = engine.GiftAssignment{To: a.To, Cards: a.Cards}
	}
	r.apply(req.playerID, func() (*engine.RoomState, error) {
		return engine.SubmitGift(r.state, req.playerID, assignments)
	})
}

func (r *Room) handleDiscard(req request) {
	payload, err := parsePayload[protocol.DiscardSelectPayload](req.payload)
	if err != nil {
		r.sendError(req.playerID, apperrors.ErrInvalidDiscard)
		return
	}
	r.apply(req.playerID, func() (*engine.RoomState, error) {
		return engine.SubmitDiscard(r.state, req.playerID, payload.Cards)
	})
}

func (r *Room) handleExchangeReturn(req request) {
	payload, err := parsePayload[protocol.ExchangeReturnPayload](req.payload)
	if err != nil {
		r.sendError(req.playerID, apperrors.ErrActionNotAllowed)
		return
	}
	r.apply(req.playerID, func() (*engine.RoomState, error) {
		return engine.ExchangeReturn(r.state, req.playerID, payload.Cards)
	})
}

// apply 执行一次引擎转换。失败时只给动作发起者回错误，状态保持不变。
func (r *Room) apply(playerID string, op func() (*engine.RoomState, error)) {
	next, err := op()
	if err != nil {
		r.sendError(playerID, err)
		return
	}
	r.commit(next)
}

// sendError 把错误回给动作发起者
func (r *Room) sendError(playerID string, err error) {
	client, ok := r.clients[playerID]
	if !ok {
		return
	}
	if gameErr, isGame := err.(*apperrors.GameError); isGame {
		client.SendMessage(codec.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInternal))
}

// parsePayload 解析请求携带的 payload
func parsePayload[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
