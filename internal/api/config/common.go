package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，INKWELL_ 前缀的环境变量可覆盖文件中的值
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("jwt.expire_hours", 24*7)
	v.SetDefault("jwt.issuer", "Inkwell")
	v.SetDefault("elastic.post_index", "inkwell-posts")
	v.SetDefault("kafka_interaction.topic", "inkwell-interactions")
	v.SetDefault("kafka_interaction.group_id", "inkwell-notification")
	v.SetDefault("cron.counter_reconcile", "0 */5 * * * *")
	v.SetDefault("cron.media_cleanup", "0 0 * * * *")
	v.SetDefault("upload.max_image_bytes", 10<<20)
	v.SetDefault("upload.folder", "blog-images")
}
