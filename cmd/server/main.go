package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/palemoky/president/internal/config"
	"github.com/palemoky/president/internal/logger"
	"github.com/palemoky/president/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	logPath := flag.String("logfile", "", "日志文件路径（留空输出到标准输出，\"default\" 使用 ~/.president/debug.log）")
	flag.Parse()

	if *logPath != "" {
		path := *logPath
		if path == "default" {
			path = ""
		}
		if err := logger.Init(path); err != nil {
			log.Printf("初始化文件日志失败，继续使用标准输出: %v", err)
		} else {
			defer logger.Close()
		}
	}

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("创建服务器失败: %v", err)
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("正在关闭服务器...")
		srv.Shutdown()
		os.Exit(0)
	}()

	// 启动服务器
	log.Println("🃏 大富豪服务器启动中...")
	if err := srv.Start(); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
