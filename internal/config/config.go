// Package config reads the assistant's settings from the environment.
package config

import (
	"fmt"
	log "log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lull/internal/qa"
	"lull/internal/translate"
)

const (
	SecondaryMyMemory = "mymemory"
	SecondaryOpenAI   = "openai"
	SecondaryNone     = "none"
)

const (
	TTSEspeak = "espeak"
	TTSOff    = "off"
)

const (
	DefaultControlSocket = "/tmp/lull.sock"
	DefaultScreenshotCmd = "scrot -o {out}"
	DefaultOCRCmd        = "tesseract {in} stdout"
	DefaultCacheTTL      = 24 * time.Hour
	DefaultDashboardAddr = ":8080"
	DefaultDashboardRate = 20.0
)

type Config struct {
	VoskModelPath    string
	WhisperModelPath string

	Endpoints        []string
	APIKey           string
	TranslateTimeout time.Duration
	Secondary        string
	MyMemoryEndpoint string
	OpenAIKey        string
	SocksProxy       string
	RedisAddress     string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration

	BusURL        string
	ControlSocket string
	RequireWake   bool

	TTS       string
	TTSVoice  string
	ChimeFile string

	ScreenshotCmd string
	OCRCmd        string
	DetectCmd     string

	// ScreenQA sends screen questions to OpenAI when OpenAIKey is set.
	ScreenQA bool
	QAModel  string

	LogLevel string
	LogFile  string

	DashboardAddr string
	DashboardRate float64
}

// LoadEnvFile loads path, or .env when path is empty. A missing file is not an error.
func LoadEnvFile(path string) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		log.Debug("No env file loaded", "path", path, "err", err)
	}
}

// Load builds a Config from the environment. Malformed numbers, durations and
// booleans are reported rather than silently replaced with defaults.
func Load() (Config, error) {
	cfg := Config{
		VoskModelPath:    env("VOSK_MODEL_PATH", ""),
		WhisperModelPath: env("WHISPER_MODEL_PATH", ""),

		Endpoints:        Endpoints(os.Getenv("LIBRETRANSLATE_ENDPOINT"), os.Getenv("LIBRETRANSLATE_ENDPOINTS")),
		APIKey:           env("LIBRETRANSLATE_API_KEY", ""),
		Secondary:        strings.ToLower(env("LULL_SECONDARY_PROVIDER", SecondaryMyMemory)),
		MyMemoryEndpoint: env("MYMEMORY_ENDPOINT", translate.DefaultMyMemoryEndpoint),
		OpenAIKey:        env("OPENAI_API_KEY", ""),
		SocksProxy:       env("LULL_SOCKS_PROXY", ""),
		RedisAddress:     env("REDIS_ADDRESS", ""),
		RedisPassword:    env("REDIS_PASSWORD", ""),

		BusURL:        env("LULL_BUS_URL", ""),
		ControlSocket: env("LULL_CONTROL_SOCKET", DefaultControlSocket),

		TTS:       strings.ToLower(env("LULL_TTS", TTSEspeak)),
		TTSVoice:  env("LULL_TTS_VOICE", "en"),
		ChimeFile: env("LULL_CHIME_FILE", ""),

		ScreenshotCmd: env("LULL_SCREENSHOT_CMD", DefaultScreenshotCmd),
		OCRCmd:        env("LULL_OCR_CMD", DefaultOCRCmd),
		DetectCmd:     env("LULL_DETECT_CMD", ""),

		QAModel: env("LULL_QA_MODEL", qa.DefaultModel),

		LogLevel: strings.ToLower(env("LULL_LOG_LEVEL", "info")),
		LogFile:  env("LULL_LOG_FILE", ""),

		DashboardAddr: env("DASHBOARD_ADDR", DefaultDashboardAddr),
	}

	var err error
	if cfg.TranslateTimeout, err = durationEnv("LULL_TRANSLATE_TIMEOUT", translate.DefaultTimeout); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = durationEnv("LULL_CACHE_TTL", DefaultCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.RequireWake, err = boolEnv("LULL_REQUIRE_WAKE", false); err != nil {
		return Config{}, err
	}
	if cfg.ScreenQA, err = boolEnv("LULL_SCREEN_QA", true); err != nil {
		return Config{}, err
	}
	if cfg.DashboardRate, err = floatEnv("DASHBOARD_RATE", DefaultDashboardRate); err != nil {
		return Config{}, err
	}

	switch cfg.Secondary {
	case SecondaryMyMemory, SecondaryOpenAI, SecondaryNone:
	default:
		return Config{}, fmt.Errorf("LULL_SECONDARY_PROVIDER: unknown provider %q", cfg.Secondary)
	}
	switch cfg.TTS {
	case TTSEspeak, TTSOff:
	default:
		return Config{}, fmt.Errorf("LULL_TTS: unknown engine %q", cfg.TTS)
	}
	if cfg.TranslateTimeout <= 0 {
		return Config{}, fmt.Errorf("LULL_TRANSLATE_TIMEOUT: must be positive, got %s", cfg.TranslateTimeout)
	}

	return cfg, nil
}

// Endpoints resolves the translation endpoint list. A non-empty list wins over
// the single endpoint, which falls back to the public default.
func Endpoints(single, list string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(list, ",") {
		u := strings.TrimSpace(raw)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	if len(out) > 0 {
		return out
	}

	if single = strings.TrimSpace(single); single != "" {
		return []string{single}
	}
	return []string{translate.DefaultEndpoint}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := env(key, "")
	if v == "" {
		return def, nil
	}
	// Bare numbers are seconds.
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(n * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := env(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := env(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := env(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
