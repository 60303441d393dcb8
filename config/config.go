package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Sample   SampleConfig   `mapstructure:"sample"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Schema   SchemaConfig   `mapstructure:"schema"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite 或 mysql
	Path         string `mapstructure:"path"`   // sqlite 文件路径
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type UploadConfig struct {
	MaxSize           int64    `mapstructure:"max_size"`           // 最大文件大小（字节）
	Dir               string   `mapstructure:"dir"`                // 上传文件存储目录
	ExpireHours       int      `mapstructure:"expire_hours"`       // 过期时间（小时）
	AllowedExtensions []string `mapstructure:"allowed_extensions"` // 允许的扩展名
	CleanupMinutes    int      `mapstructure:"cleanup_minutes"`    // 清理周期（分钟）
}

type SampleConfig struct {
	DataDir string `mapstructure:"data_dir"` // 内置示例数据目录
}

type AnalysisConfig struct {
	Mode           string `mapstructure:"mode"`            // mock 或 remote
	ServiceURL     string `mapstructure:"service_url"`     // remote 模式的 OpenOA 服务地址
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // 单次分析超时（秒）
	MaxIterations  int    `mapstructure:"max_iterations"`
	HistoryLimit   int    `mapstructure:"history_limit"`
}

type SchemaConfig struct {
	Aliases map[string]string `mapstructure:"aliases"` // 额外的列名别名
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（本地覆盖，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 环境变量覆盖
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
