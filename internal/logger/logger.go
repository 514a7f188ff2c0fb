// Package logger 把标准库日志重定向到文件，供守护进程式运行使用。
// 文件超过大小上限时轮转；路径留空则落到 ~/.president/debug.log。
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// maxLogSize 单个日志文件的大小上限，超过后轮转
const maxLogSize = 10 * 1024 * 1024

var logFile *os.File

// DefaultPath 返回默认日志路径 ~/.president/debug.log
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("获取用户主目录失败: %w", err)
	}
	return filepath.Join(home, ".president", "debug.log"), nil
}

// Init 打开日志文件（必要时先轮转）并重定向标准库日志输出
func Init(path string) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}

	rotate(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	logFile = f

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	log.Printf("日志输出重定向到 %s", path)
	return nil
}

// rotate 把超过大小上限的旧日志改名备份
func rotate(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxLogSize {
		return
	}
	backup := fmt.Sprintf("%s.%d", path, time.Now().Unix())
	_ = os.Rename(path, backup)
}

// Close 关闭日志文件
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
