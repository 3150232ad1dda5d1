package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"sync"
	"time"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		// a missing .env is fine, the environment may already be populated
		_ = godotenv.Load()

		viper.AutomaticEnv()

		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("api_base_url", "API_BASE_URL")
		viper.BindEnv("cache_ttl", "CACHE_TTL")
		viper.BindEnv("http_timeout", "HTTP_TIMEOUT")
		viper.BindEnv("command_timeout", "COMMAND_TIMEOUT")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("api_base_url", "https://api.jolpi.ca/ergast/f1")
		viper.SetDefault("cache_ttl", time.Hour)
		viper.SetDefault("http_timeout", 10*time.Second)
		viper.SetDefault("command_timeout", 30*time.Second)
		viper.SetDefault("db_path", "data/bot.db")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}

func GetDuration(key string) time.Duration {
	InitConfig()
	return viper.GetDuration(key)
}

// Set overrides a key, used by command line flags.
func Set(key string, value interface{}) {
	InitConfig()
	viper.Set(key, value)
}
