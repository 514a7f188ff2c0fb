package room

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/palemoky/president/internal/game/engine"
	"github.com/palemoky/president/internal/protocol"
	"github.com/palemoky/president/internal/protocol/codec"
)

// commit 接受一次成功的状态转换：广播效果事件和状态更新，
// 异步持久化，并为下一个行动者安排机器人或超时代打。
func (r *Room) commit(next *engine.RoomState) {
	oldVersion := r.state.Version
	r.state = next
	r.lastActivity.Store(time.Now().Unix())

	r.broadcastEffects(oldVersion)
	r.broadcastState()
	r.persist()
	r.scheduleActors()
}

// broadcastEffects 把本次转换新增的效果日志广播给所有客户端
func (r *Room) broadcastEffects(sinceVersion uint64) {
	for _, entry := range r.state.Effects {
		if entry.Version <= sinceVersion {
			continue
		}
		msg := codec.MustNewMessage(protocol.MsgEffect, protocol.EffectPayload{
			Effect: entry.Effect,
			Data:   entry.Data,
		})
		for _, client := range r.clients {
			client.SendMessage(msg)
		}
	}
}

// broadcastState 给每个客户端下发它自己视角的状态更新。
// 有上一份快照且版本连续时发增量补丁，否则发完整快照。
func (r *Room) broadcastState() {
	for id, client := range r.clients {
		snap := engine.Sanitize(r.state, id)

		last, ok := r.lastSnaps[id]
		if !ok {
			r.sendSnapshot(client, snap)
			r.lastSnaps[id] = snap
			continue
		}

		ops, err := engine.Diff(last, snap)
		if err != nil {
			log.Printf("⚠️ 生成补丁失败（房间 %s，玩家 %s）: %v", r.ID, id, err)
			r.sendSnapshot(client, snap)
			r.lastSnaps[id] = snap
			continue
		}

		if len(ops) > 0 {
			client.SendMessage(codec.MustNewMessage(protocol.MsgStatePatch, protocol.StatePatchPayload{
				Version: snap.Version,
				Ops:     ops,
			}))
		}
		r.lastSnaps[id] = snap
	}
}

// sendFull 给单个玩家下发完整快照（resync 或重连后）
func (r *Room) sendFull(playerID string) {
	client, ok := r.clients[playerID]
	if !ok {
		return
	}
	snap := engine.Sanitize(r.state, playerID)
	r.sendSnapshot(client, snap)
	r.lastSnaps[playerID] = snap
}

func (r *Room) sendSnapshot(client Sender, snap *engine.Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		log.Printf("⚠️ 序列化快照失败（房间 %s）: %v", r.ID, err)
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgStateFull, protocol.StateFullPayload{
		State: raw,
	}))
}

// broadcastExcept 广播给除指定玩家外的所有客户端
func (r *Room) broadcastExcept(excludeID string, msg *protocol.Message) {
	for id, client := range r.clients {
		if id != excludeID {
			client.SendMessage(msg)
		}
	}
}

// persist 尽力而为地把状态写入 Redis，失败只记日志
func (r *Room) persist() {
	if r.store == nil {
		return
	}
	state := r.state.Clone()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := r.store.SaveRoom(ctx, state.ID, state); err != nil {
			log.Printf("⚠️ 房间 %s 持久化失败: %v", state.ID, err)
		}
	}()
}
