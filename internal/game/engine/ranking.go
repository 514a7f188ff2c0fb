package engine

// roleTable 按人数返回头衔序列，下标即完赛名次
func roleTable(n int) []Role {
	switch n {
	case 3:
		return []Role{RolePresident, RoleVicePresident, RoleAsshole}
	case 4:
		return []Role{RolePresident, RoleVicePresident, RoleScumbag, RoleAsshole}
	case 5:
		return []Role{RolePresident, RoleVicePresident, RoleCitizen, RoleScumbag, RoleAsshole}
	}
	// 其他人数：两端有头衔，中间全是平民
	roles := make([]Role, n)
	for i := range roles {
		roles[i] = RoleCitizen
	}
	if n >= 1 {
		roles[0] = RolePresident
		roles[n-1] = RoleAsshole
	}
	if n >= 4 {
		roles[1] = RoleVicePresident
		roles[n-2] = RoleScumbag
	}
	return roles
}

// finishPlayer 记录玩家打空手牌
func finishPlayer(c *RoomState, playerID string) {
	for _, id := range c.FinishedOrder {
		if id == playerID {
			return
		}
	}
	c.FinishedOrder = append(c.FinishedOrder, playerID)
	c.Players[playerID].Passed = false
	c.addEffect("player_finished", map[string]any{
		"player_id": playerID,
		"place":     len(c.FinishedOrder),
	}, playerID)
}

// completeRound 结束一局：剩余玩家按座位号补入名次，
// 然后按完赛顺序授予头衔。
func completeRound(c *RoomState) {
	// 加速终局时牌堆持有者先于其他未完赛玩家
	if c.Pattern.Owner != "" {
		if p, ok := c.Players[c.Pattern.Owner]; ok && len(p.Hand) > 0 {
			finishPlayer(c, c.Pattern.Owner)
		}
	}
	for _, p := range c.activePlayers() {
		finishPlayer(c, p.ID)
	}

	c.Discard = append(c.Discard, c.Pattern.Cards...)
	c.Pattern = Pattern{}
	c.Pending = Pending{}
	c.Inversion = false
	c.JackGate = false
	c.clearPasses()

	assignRoles(c)

	c.Phase = PhaseFinished
	c.Turn = ""
	c.RoundCount++
	c.addEffect("round_finished", map[string]any{
		"order": append([]string(nil), c.FinishedOrder...),
		"round": c.RoundCount,
	}, "")
}

// assignRoles 按完赛顺序授予头衔
func assignRoles(c *RoomState) {
	roles := roleTable(len(c.Players))
	for i, id := range c.FinishedOrder {
		if i >= len(roles) {
			break
		}
		if p, ok := c.Players[id]; ok {
			p.Role = roles[i]
		}
	}
}

// resetForNewRound 清掉上一局的牌面状态，头衔保留用于换牌
func resetForNewRound(c *RoomState) {
	for _, p := range c.Players {
		p.Hand = p.Hand[:0]
		p.Passed = false
	}
	c.Pattern = Pattern{}
	c.Pending = Pending{}
	c.Exchanges = nil
	c.Deck = nil
	c.Discard = nil
	c.FinishedOrder = nil
	c.Inversion = false
	c.JackGate = false
	c.Turn = ""
}
