package room

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/palemoky/president/internal/game/bot"
	"github.com/palemoky/president/internal/game/engine"
)

// botNames 机器人昵称池
var botNames = []string{
	"沉思的河马", "狡黠的狐狸", "淡定的企鹅", "暴躁的仓鼠",
	"优雅的天鹅", "困倦的树懒", "机警的猫头鹰", "莽撞的野猪",
}

func generateBotName() string {
	return botNames[rand.IntN(len(botNames))]
}

func generateBotSuffix() string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = chars[rand.IntN(len(chars))]
	}
	return string(buf)
}

// pendingActors 返回当前等待行动的玩家
func pendingActors(s *engine.RoomState) []string {
	if s.Pending.Kind != engine.EffectNone {
		return []string{s.Pending.Player}
	}

	if s.Phase == engine.PhaseExchange {
		var actors []string
		for _, pair := range s.Exchanges {
			if !pair.Returned {
				actors = append(actors, pair.To)
			}
		}
		return actors
	}

	if s.Phase == engine.PhasePlay && s.Turn != "" {
		return []string{s.Turn}
	}
	return nil
}

// scheduleActors 为下一批行动者安排定时器：机器人和掉线玩家延迟后
// 自动行动，在线的人类玩家超时后由机器人代打。
func (r *Room) scheduleActors() {
	version := r.state.Version
	for _, id := range pendingActors(r.state) {
		p, ok := r.state.Players[id]
		if !ok {
			continue
		}

		if p.IsBot || !p.Connected {
			time.AfterFunc(r.cfg.Game.BotDelayDuration(), func() {
				r.enqueue(request{kind: reqBotTick, version: version})
			})
			continue
		}

		time.AfterFunc(r.cfg.Game.TurnTimeoutDuration(), func() {
			r.enqueue(request{kind: reqTimeout, playerID: id, version: version})
		})
	}
}

// actForPuppets 让一个机器人（或掉线玩家）行动。每次只走一步，
// 下一步由 commit 里的重新调度触发，动作之间保持节奏。
// 旧版本排下的定时器作废，否则跨次提交的重复 tick 会吃掉下一个
// 行动者的延迟。
func (r *Room) actForPuppets(req request) {
	if r.state.Version != req.version {
		return
	}
	for _, id := range pendingActors(r.state) {
		p, ok := r.state.Players[id]
		if !ok || (!p.IsBot && p.Connected) {
			continue
		}
		if r.actAs(id) {
			return
		}
	}
}

// handleTimeout 在线玩家行动超时：状态没前进时由机器人代打
func (r *Room) handleTimeout(req request) {
	if r.state.Version != req.version {
		return
	}
	for _, id := range pendingActors(r.state) {
		if id == req.playerID {
			log.Printf("⏰ 玩家 %s 行动超时，机器人代打（房间 %s）", id, r.ID)
			r.actAs(id)
			return
		}
	}
}

// actAs 用机器人策略替指定玩家做一次决策并提交
func (r *Room) actAs(playerID string) bool {
	snap := engine.Sanitize(r.state, playerID)
	action, ok := bot.Decide(snap, playerID)
	if !ok {
		return false
	}

	var (
		next *engine.RoomState
		err  error
	)
	switch action.Type {
	case bot.ActionPlay:
		next, err = engine.Play(r.state, playerID, action.Cards)
	case bot.ActionPass:
		next, err = engine.Pass(r.state, playerID)
	case bot.ActionGift:
		next, err = engine.SubmitGift(r.state, playerID, action.Assignments)
	case bot.ActionDiscard:
		next, err = engine.SubmitDiscard(r.state, playerID, action.Cards)
	case bot.ActionExchangeReturn:
		next, err = engine.ExchangeReturn(r.state, playerID, action.Cards)
	default:
		return false
	}

	if err != nil {
		// 策略打出非法牌属于缺陷，记日志并过牌兜底
		log.Printf("🤖 机器人 %s 决策被拒绝: %v", playerID, err)
		if fallback, passErr := engine.Pass(r.state, playerID); passErr == nil {
			r.commit(fallback)
			return true
		}
		return false
	}

	r.commit(next)
	return true
}
