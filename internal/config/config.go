package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Discord      DiscordConfig
	GameServer   GameServerConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
	FrontendURL           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret            string
	BcryptCost           int
	DefaultAdminPassword string
}

// DiscordConfig holds OAuth client credentials and the bot used for guild lookups.
type DiscordConfig struct {
	ClientID          string
	ClientSecret      string
	RedirectURL       string
	// APIBaseURL (DISCORD_API_BASE_URL) applies to the OAuth token exchange and
	// the profile fetch only. The bot session always uses discordgo's endpoints.
	APIBaseURL        string
	BotToken          string
	GuildID           string
	AdminRoleIDs      []string
	MessagesChannelID string
	NewsChannelID     string
	TimeoutSeconds    int
	CacheTTLSeconds   int
}

// GameServerConfig points at the FiveM status endpoint.
type GameServerConfig struct {
	StatusURL         string
	TimeoutSeconds    int
	CacheTTLSeconds   int
	DefaultHostname   string
	DefaultGametype   string
	DefaultMaxPlayers int
}

// NotificationConfig controls outbound webhook delivery.
type NotificationConfig struct {
	WebhookTimeoutSeconds int
	FooterText            string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "rp-admin-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 0),
			CORSOrigins:           getEnv("CORS_ALLOW_ORIGINS", "*"),
			FrontendURL:           os.Getenv("FRONTEND_URL"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:            os.Getenv("AUTH_JWT_SECRET"),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
			DefaultAdminPassword: os.Getenv("AUTH_DEFAULT_ADMIN_PASSWORD"),
		},
		Discord: DiscordConfig{
			ClientID:          os.Getenv("DISCORD_CLIENT_ID"),
			ClientSecret:      os.Getenv("DISCORD_CLIENT_SECRET"),
			RedirectURL:       os.Getenv("DISCORD_REDIRECT_URL"),
			APIBaseURL:        getEnv("DISCORD_API_BASE_URL", "https://discord.com/api"),
			BotToken:          os.Getenv("DISCORD_BOT_TOKEN"),
			GuildID:           os.Getenv("DISCORD_GUILD_ID"),
			AdminRoleIDs:      getEnvAsList("DISCORD_ADMIN_ROLE_IDS"),
			MessagesChannelID: os.Getenv("DISCORD_MESSAGES_CHANNEL_ID"),
			NewsChannelID:     os.Getenv("DISCORD_NEWS_CHANNEL_ID"),
			TimeoutSeconds:    getEnvAsInt("DISCORD_TIMEOUT_SECONDS", 10),
			CacheTTLSeconds:   getEnvAsInt("DISCORD_CACHE_TTL_SECONDS", 60),
		},
		GameServer: GameServerConfig{
			StatusURL:         os.Getenv("GAMESERVER_STATUS_URL"),
			TimeoutSeconds:    getEnvAsInt("GAMESERVER_TIMEOUT_SECONDS", 10),
			CacheTTLSeconds:   getEnvAsInt("GAMESERVER_CACHE_TTL_SECONDS", 30),
			DefaultHostname:   getEnv("GAMESERVER_DEFAULT_HOSTNAME", "Revolution Roleplay"),
			DefaultGametype:   getEnv("GAMESERVER_DEFAULT_GAMETYPE", "ESX Legacy"),
			DefaultMaxPlayers: getEnvAsInt("GAMESERVER_DEFAULT_MAX_PLAYERS", 64),
		},
		Notification: NotificationConfig{
			WebhookTimeoutSeconds: getEnvAsInt("NOTIFY_WEBHOOK_TIMEOUT_SECONDS", 10),
			FooterText:            getEnv("NOTIFY_FOOTER_TEXT", "Revolution Roleplay"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot safely start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.Auth.DefaultAdminPassword == "" {
		errs = append(errs, errors.New("AUTH_DEFAULT_ADMIN_PASSWORD is required"))
	}
	if c.Discord.ClientID != "" {
		if c.Discord.ClientSecret == "" {
			errs = append(errs, errors.New("DISCORD_CLIENT_SECRET is required when DISCORD_CLIENT_ID is set"))
		}
		if c.Discord.RedirectURL == "" {
			errs = append(errs, errors.New("DISCORD_REDIRECT_URL is required when DISCORD_CLIENT_ID is set"))
		}
	}
	if c.Discord.BotToken != "" && c.Discord.GuildID == "" {
		errs = append(errs, errors.New("DISCORD_GUILD_ID is required when DISCORD_BOT_TOKEN is set"))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout bounds whole requests, storage calls included. Zero disables it;
// outbound Discord, game server and webhook calls carry their own timeouts.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// OAuthEnabled reports whether Discord login is configured.
func (d DiscordConfig) OAuthEnabled() bool {
	return d.ClientID != ""
}

// BotEnabled reports whether a bot token is available for guild and channel lookups.
func (d DiscordConfig) BotEnabled() bool {
	return d.BotToken != ""
}

// Timeout bounds each outbound Discord call.
func (d DiscordConfig) Timeout() time.Duration {
	return seconds(d.TimeoutSeconds)
}

// CacheTTL is how long channel reads are cached.
func (d DiscordConfig) CacheTTL() time.Duration {
	return seconds(d.CacheTTLSeconds)
}

// Timeout bounds each status request.
func (g GameServerConfig) Timeout() time.Duration {
	return seconds(g.TimeoutSeconds)
}

// CacheTTL is how long a stats snapshot is cached.
func (g GameServerConfig) CacheTTL() time.Duration {
	return seconds(g.CacheTTLSeconds)
}

// WebhookTimeout bounds a single webhook delivery.
func (n NotificationConfig) WebhookTimeout() time.Duration {
	return seconds(n.WebhookTimeoutSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
