package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 存储所有配置信息
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// 数据库配置
	DBDriver   string `mapstructure:"DB_DRIVER"` // sqlite, mysql
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	// Redis配置
	RedisHost     string        `mapstructure:"REDIS_HOST"`
	RedisPort     string        `mapstructure:"REDIS_PORT"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	MoodCacheTTL  time.Duration `mapstructure:"MOOD_CACHE_TTL"`

	// LLM配置
	LLMProvider         string        `mapstructure:"LLM_PROVIDER"` // deepseek, gemini
	DeepseekAPIKey      string        `mapstructure:"DEEPSEEK_API_KEY"`
	DeepseekAPIEndpoint string        `mapstructure:"DEEPSEEK_API_ENDPOINT"`
	DeepseekModel       string        `mapstructure:"DEEPSEEK_MODEL"`
	GeminiAPIKey        string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel         string        `mapstructure:"GEMINI_MODEL"`
	AnalysisTimeout     time.Duration `mapstructure:"ANALYSIS_TIMEOUT"`

	// 语音会话
	VoiceIdleTimeout   time.Duration `mapstructure:"VOICE_IDLE_TIMEOUT"`
	VoiceSweepSchedule string        `mapstructure:"VOICE_SWEEP_SCHEDULE"`

	// JWT配置
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	InternalAuthToken string `mapstructure:"INTERNAL_AUTH_TOKEN"`
}

var defaults = map[string]interface{}{
	"ENVIRONMENT":           "development",
	"SERVER_PORT":           "8080",
	"DB_DRIVER":             "sqlite",
	"DB_HOST":               "127.0.0.1",
	"DB_PORT":               "3306",
	"DB_USER":               "root",
	"DB_PASSWORD":           "",
	"DB_NAME":               "feelora",
	"SQLITE_PATH":           "feelora.db",
	"REDIS_HOST":            "",
	"REDIS_PORT":            "6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"MOOD_CACHE_TTL":        "10m",
	"LLM_PROVIDER":          "deepseek",
	"DEEPSEEK_API_KEY":      "",
	"DEEPSEEK_API_ENDPOINT": "https://api.deepseek.com/v1",
	"DEEPSEEK_MODEL":        "deepseek-chat",
	"GEMINI_API_KEY":        "",
	"GEMINI_MODEL":          "gemini-2.5-flash",
	"ANALYSIS_TIMEOUT":      "30s",
	"VOICE_IDLE_TIMEOUT":    "5m",
	"VOICE_SWEEP_SCHEDULE":  "@every 1m",
	"JWT_SECRET":            "",
	"INTERNAL_AUTH_TOKEN":   "",
}

// LoadConfig 从环境变量或配置文件加载配置
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// AutomaticEnv 只对已知的 key 生效，所以每个 key 都要有默认值
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		// 允许配置文件不存在，此时会从环境变量中读取
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// GetDBConnString 返回数据库连接字符串
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString 返回Redis连接字符串
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// RedisEnabled 未配置 REDIS_HOST 时不使用缓存
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}
