package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Providers ProvidersConfig `yaml:"providers"`
	Anki      AnkiConfig      `yaml:"anki"`
	Hanja     HanjaConfig     `yaml:"hanja"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8090"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds the shared lexical cache connection settings.
// An empty DSN disables the shared tier; resolution runs local-only.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// CacheConfig holds local cache tier settings.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"24h"`
}

// ProvidersConfig groups the external lookup providers.
type ProvidersConfig struct {
	Jisho    JishoConfig    `yaml:"jisho"`
	KanjiAPI KanjiAPIConfig `yaml:"kanjiapi"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	DeepL    DeepLConfig    `yaml:"deepl"`
}

// JishoConfig holds the structured dictionary provider settings.
type JishoConfig struct {
	BaseURL string `yaml:"base_url" env:"JISHO_BASE_URL" env-default:"https://jisho.org/api/v1"`
}

// KanjiAPIConfig holds the per-character provider settings.
type KanjiAPIConfig struct {
	BaseURL string `yaml:"base_url" env:"KANJIAPI_BASE_URL" env-default:"https://kanjiapi.dev"`
}

// OpenAIConfig holds the generative fallback provider settings.
type OpenAIConfig struct {
	BaseURL   string `yaml:"base_url"   env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	APIKey    string `yaml:"api_key"    env:"OPENAI_API_KEY"`
	Model     string `yaml:"model"      env:"OPENAI_MODEL"      env-default:"gpt-4o-mini"`
	MaxTokens int    `yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"200"`
}

// DeepLConfig holds the sentence translation provider settings.
type DeepLConfig struct {
	BaseURL    string `yaml:"base_url"    env:"DEEPL_BASE_URL" env-default:"https://api-free.deepl.com/v2"`
	APIKey     string `yaml:"api_key"     env:"DEEPL_API_KEY"`
	TargetLang string `yaml:"target_lang" env:"DEEPL_TARGET_LANG" env-default:"KO"`
}

// AnkiConfig holds the flashcard store settings, including the statically
// configured field mapping used when template field discovery fails.
type AnkiConfig struct {
	URL            string `yaml:"url"             env:"ANKI_CONNECT_URL" env-default:"http://localhost:8765"`
	Deck           string `yaml:"deck"            env:"ANKI_DECK"        env-default:"Japanese"`
	Template       string `yaml:"template"        env:"ANKI_TEMPLATE"    env-default:"Basic"`
	WordField      string `yaml:"word_field"      env:"ANKI_WORD_FIELD"      env-default:"Front"`
	MeaningField   string `yaml:"meaning_field"   env:"ANKI_MEANING_FIELD"   env-default:"Back"`
	ReadingField   string `yaml:"reading_field"   env:"ANKI_READING_FIELD"`
	ComponentField string `yaml:"component_field" env:"ANKI_COMPONENT_FIELD"`
}

// HanjaConfig points at the local hanja datasets.
type HanjaConfig struct {
	GlossPath   string `yaml:"gloss_path"   env:"HANJA_GLOSS_PATH"   env-default:"./data/hanja.json"`
	VariantPath string `yaml:"variant_path" env:"HANJA_VARIANT_PATH" env-default:"./data/jp_simp_to_kr_trad.json"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings. The consumer is a browser extension, so
// the default allows any origin.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// SharedStoreEnabled reports whether a shared cache tier is configured.
func (c DatabaseConfig) SharedStoreEnabled() bool { return c.DSN != "" }
