package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_HOST=127.0.0.1
//	SERVER_PORT=8080
//	SHOP_FORMAT=EconomyShopGUI
//	TOP_N=5
//	PROFIT_ORDER=ascending
//	PROFIT_ONLY_NEGATIVE=false
//	MOVING_AVERAGE_WINDOW=7
//	MAX_UPLOAD_MB=32
//	RATE_LIMIT_PER_MINUTE=60
//	CORS_ALLOWED_ORIGINS=http://localhost:3000
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Analytics AnalyticsConfig // Aggregation defaults
}

// ServerConfig holds the local HTTP surface settings.
//
// Fields:
//   - Host: interface to bind; loopback by default since the session is single-user.
//   - Port: TCP port to listen on.
//   - MaxUploadMB: upper bound for a multipart log upload.
//   - RateLimitPerMinute: requests allowed per client IP per minute.
//   - AllowedOrigins: browser origins granted CORS and websocket access (comma-separated in env).
type ServerConfig struct {
	Host               string
	Port               string
	MaxUploadMB        int
	RateLimitPerMinute int
	AllowedOrigins     []string
}

// AnalyticsConfig holds defaults applied when a request leaves them unset.
type AnalyticsConfig struct {
	Format              string // Plugin format assumed by the CLI when --format is omitted
	TopN                int    // Length of every ranked view
	ProfitOrder         string // ascending|descending over percent change
	ProfitOnlyNegative  bool   // keep only items with a negative percent change
	MovingAverageWindow int    // Trailing window of the transactions chart
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and read everywhere else.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates the app.
func LoadConfig() {
	viper.SetDefault("SERVER_HOST", "127.0.0.1")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MAX_UPLOAD_MB", 32)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("SHOP_FORMAT", "EconomyShopGUI")
	viper.SetDefault("TOP_N", 5)
	viper.SetDefault("PROFIT_ORDER", "ascending")
	viper.SetDefault("PROFIT_ONLY_NEGATIVE", false)
	viper.SetDefault("MOVING_AVERAGE_WINDOW", 7)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Host:               viper.GetString("SERVER_HOST"),
			Port:               viper.GetString("SERVER_PORT"),
			MaxUploadMB:        viper.GetInt("MAX_UPLOAD_MB"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Analytics: AnalyticsConfig{
			Format:              viper.GetString("SHOP_FORMAT"),
			TopN:                viper.GetInt("TOP_N"),
			ProfitOrder:         viper.GetString("PROFIT_ORDER"),
			ProfitOnlyNegative:  viper.GetBool("PROFIT_ONLY_NEGATIVE"),
			MovingAverageWindow: viper.GetInt("MOVING_AVERAGE_WINDOW"),
		},
	}

	validateConfig()
}

// splitOrigins turns a comma-separated list into trimmed, non-empty origins.
func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// validOrigin accepts "*" or a scheme-qualified origin such as
// http://localhost:3000. The CORS middleware refuses anything else at startup.
func validOrigin(o string) bool {
	if o == "*" {
		return true
	}
	if strings.Contains(o, "*") {
		return false
	}
	for _, scheme := range []string{"http://", "https://"} {
		if host, ok := strings.CutPrefix(o, scheme); ok {
			return host != "" && !strings.ContainsAny(host, "/ ")
		}
	}
	return false
}

// problems lists every missing or out-of-range setting in AppConfig.
func problems() []string {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Server.MaxUploadMB <= 0 {
		missing = append(missing, "MAX_UPLOAD_MB")
	}
	if AppConfig.Server.RateLimitPerMinute <= 0 {
		missing = append(missing, "RATE_LIMIT_PER_MINUTE")
	}
	for _, o := range AppConfig.Server.AllowedOrigins {
		if !validOrigin(o) {
			missing = append(missing, "CORS_ALLOWED_ORIGINS")
			break
		}
	}
	if AppConfig.Analytics.TopN <= 0 {
		missing = append(missing, "TOP_N")
	}
	switch AppConfig.Analytics.ProfitOrder {
	case "ascending", "descending":
	default:
		missing = append(missing, "PROFIT_ORDER")
	}
	if AppConfig.Analytics.MovingAverageWindow <= 0 {
		missing = append(missing, "MOVING_AVERAGE_WINDOW")
	}

	return missing
}

// validateConfig terminates the application when problems() reports anything.
func validateConfig() {
	if missing := problems(); len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}
