package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// 评分后端（表格云函数）的地址
	BackendURL string `mapstructure:"backend_url"`

	// 真随机数服务的地址，留空则只使用本地随机源
	RandomURL string `mapstructure:"random_url"`
	// 每次预取的随机数数量
	RandomPoolSize int `mapstructure:"random_pool_size"`

	// 对局快照的保存目录
	SnapshotDir string `mapstructure:"snapshot_dir"`
}

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	v := viper.New()

	v.SetConfigFile("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetDefault("random_pool_size", 256)
	v.SetDefault("snapshot_dir", "./snapshots")

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	return &config
}
