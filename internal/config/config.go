package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	Upload  UploadConfig  `toml:"upload" json:"upload"`
	Session SessionConfig `toml:"session" json:"session"`
	Store   StoreConfig   `toml:"store" json:"store"`
	Display DisplayConfig `toml:"display" json:"display"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port" json:"port" validate:"min=1,max=65535"`
	DevMode     bool `toml:"dev_mode" json:"dev_mode"`
	OpenBrowser bool `toml:"open_browser" json:"open_browser"`
}

// UploadConfig 上传限制
type UploadConfig struct {
	MaxBytes int64 `toml:"max_bytes" json:"max_bytes" validate:"min=1024"`
}

// SessionConfig 会话生命周期
type SessionConfig struct {
	TTL           Duration `toml:"ttl" json:"ttl" validate:"gt=0"`
	SweepInterval Duration `toml:"sweep_interval" json:"sweep_interval" validate:"gt=0"`
}

// StoreConfig 下载文件存储
// dsn 为空或 ":memory:" 时仅保存在内存中，进程退出即丢弃
type StoreConfig struct {
	DSN string `toml:"dsn" json:"dsn"`
}

// DisplayConfig 页面展示配置
type DisplayConfig struct {
	MaxRows int `toml:"max_rows" json:"max_rows" validate:"min=0"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `toml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format     string `toml:"format" json:"format" validate:"oneof=console json"`
	File       string `toml:"file" json:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" validate:"min=0"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" validate:"min=0"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days" validate:"min=0"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			OpenBrowser: true,
		},
		Upload: UploadConfig{
			MaxBytes: 32 << 20,
		},
		Session: SessionConfig{
			TTL:           Duration(2 * time.Hour),
			SweepInterval: Duration(5 * time.Minute),
		},
		Store: StoreConfig{
			DSN: ":memory:",
		},
		Display: DisplayConfig{
			MaxRows: 500,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径：可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从指定路径加载配置并返回元信息
// path 为空时使用 DefaultPath；文件不存在时返回默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, info, nil
		}
		return nil, info, err
	}
	info.FileFound = true
	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}
	if err := Validate(config); err != nil {
		return nil, info, err
	}

	return config, info, nil
}

// SaveConfig 保存配置
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
