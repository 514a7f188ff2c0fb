package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Rules  RulesConfig  `yaml:"rules"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	TurnTimeout int `yaml:"turn_timeout"` // 出牌超时（秒），超时后由机器人代打
	BotDelay    int `yaml:"bot_delay"`    // 机器人行动延迟（毫秒）
	RoomTimeout int `yaml:"room_timeout"` // 房间闲置超时（分钟）
}

// RulesConfig 牌局规则配置
type RulesConfig struct {
	UseJokers    bool `yaml:"use_jokers"`     // 是否使用大小王
	MinPlayers   int  `yaml:"min_players"`    // 最少人数（3-5）
	MaxPlayers   int  `yaml:"max_players"`    // 最多人数（3-5）
	EnableBots   bool `yaml:"enable_bots"`    // 是否允许机器人
	AutoFillBots bool `yaml:"auto_fill_bots"` // 开局时是否自动补足机器人
}

// TurnTimeoutDuration 返回出牌超时时长
func (c *GameConfig) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

// BotDelayDuration 返回机器人行动延迟
func (c *GameConfig) BotDelayDuration() time.Duration {
	return time.Duration(c.BotDelay) * time.Millisecond
}

// RoomTimeoutDuration 返回房间闲置超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// Validate 校验规则配置，人数边界必须落在 3-5 之间
func (c *RulesConfig) Validate() error {
	if c.MinPlayers < 3 || c.MinPlayers > 5 {
		return fmt.Errorf("min_players 必须在 3-5 之间，当前为 %d", c.MinPlayers)
	}
	if c.MaxPlayers < 3 || c.MaxPlayers > 5 {
		return fmt.Errorf("max_players 必须在 3-5 之间，当前为 %d", c.MaxPlayers)
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("min_players (%d) 不能大于 max_players (%d)", c.MinPlayers, c.MaxPlayers)
	}
	return nil
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults 设置默认值
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1789
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.TurnTimeout == 0 {
		cfg.Game.TurnTimeout = 30
	}
	if cfg.Game.BotDelay == 0 {
		cfg.Game.BotDelay = 800
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 10
	}
	if cfg.Rules.MinPlayers == 0 {
		cfg.Rules.MinPlayers = 3
	}
	if cfg.Rules.MaxPlayers == 0 {
		cfg.Rules.MaxPlayers = 5
	}
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{
		Rules: RulesConfig{
			UseJokers:    true,
			EnableBots:   true,
			AutoFillBots: false,
		},
	}
	applyDefaults(cfg)
	return cfg
}
