package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read from config.yaml when present; environment variables
// always override file values.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

type AppConfig struct {
	AppName     string `yaml:"name" env:"APP_NAME"`
	Environment string `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPPort    string `yaml:"http_port" env:"HTTP_PORT" env-default:"8080"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	SeedDemo    bool   `yaml:"seed_demo" env:"SEED_DEMO_DATA" env-default:"false"`
}

type DatabaseConfig struct {
	DBHost     string `yaml:"host" env:"DB_HOST"`
	DBPort     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	DBName     string `yaml:"name" env:"DB_NAME"`
	DBUser     string `yaml:"user" env:"DB_USER"`
	DBPassword string `yaml:"-" env:"DB_PASSWORD"`
	DBSSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`

	ConnectTimeout        time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"5s"`
	PoolMaxConns          int32         `yaml:"pool_max_conns" env:"DB_POOL_MAX_CONNS" env-default:"10"`
	PoolMinConns          int32         `yaml:"pool_min_conns" env:"DB_POOL_MIN_CONNS" env-default:"1"`
	PoolMaxConnLifetime   time.Duration `yaml:"pool_max_conn_lifetime" env:"DB_POOL_MAX_CONN_LIFETIME" env-default:"1h"`
	PoolMaxConnIdleTime   time.Duration `yaml:"pool_max_conn_idle_time" env:"DB_POOL_MAX_CONN_IDLE_TIME" env-default:"30m"`
	PoolHealthCheckPeriod time.Duration `yaml:"pool_health_check_period" env:"DB_POOL_HEALTH_CHECK_PERIOD" env-default:"1m"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"true"`
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"10m"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", strings.TrimSpace(r.Host), strings.TrimSpace(r.Port))
}

type JWTConfig struct {
	AccessSecret    string        `yaml:"-" env:"JWT_ACCESS_SECRET"`
	AccessExpiresIn time.Duration `yaml:"access_expires_in" env:"JWT_ACCESS_EXPIRES_IN" env-default:"15m"`
}

// ScoringConfig holds engine defaults. Per-job values stored in the
// database take precedence over these.
type ScoringConfig struct {
	DefaultRequiredProficiency float64 `yaml:"default_required_proficiency" env:"DEFAULT_REQUIRED_PROFICIENCY" env-default:"75"`
	RoleReadyPct               float64 `yaml:"role_ready_pct" env:"ROLE_READY_PCT" env-default:"85"`
	CloseGapsPct               float64 `yaml:"close_gaps_pct" env:"CLOSE_GAPS_PCT" env-default:"70"`
	VisibilityThresholdPct     float64 `yaml:"visibility_threshold_pct" env:"VISIBILITY_THRESHOLD_PCT" env-default:"85"`
	ProgramTopSkills           int     `yaml:"program_top_skills" env:"PROGRAM_TOP_SKILLS" env-default:"8"`
	FuzzyMinSimilarity         float64 `yaml:"fuzzy_min_similarity" env:"FUZZY_MIN_SIMILARITY" env-default:"0.3"`
	FuzzyMaxMatches            int     `yaml:"fuzzy_max_matches" env:"FUZZY_MAX_MATCHES" env-default:"10"`
	GapMinMatch                float64 `yaml:"gap_min_match" env:"GAP_MIN_MATCH" env-default:"60"`
	GapMaxResults              int     `yaml:"gap_max_results" env:"GAP_MAX_RESULTS" env-default:"10"`
	JobPageSize                int     `yaml:"job_page_size" env:"JOB_PAGE_SIZE" env-default:"500"`
	ExcludeGenericSkills       bool    `yaml:"exclude_generic_skills" env:"EXCLUDE_GENERIC_SKILLS" env-default:"false"`
}

var (
	errMissingRequiredEnv = errors.New("missing required configuration")
	errInvalidConfig      = errors.New("invalid configuration")
)

const defaultConfigFile = "config.yaml"

func Load() (Config, error) {
	return LoadFile(defaultConfigFile)
}

// LoadFile reads path if it exists, then applies environment overrides.
func LoadFile(path string) (Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	}

	var missing []string
	req := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	req("APP_NAME", cfg.App.AppName)
	req("DB_HOST", cfg.Database.DBHost)
	req("DB_NAME", cfg.Database.DBName)
	req("DB_USER", cfg.Database.DBUser)
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	s := c.Scoring
	if s.DefaultRequiredProficiency <= 0 || s.DefaultRequiredProficiency > 100 {
		return fmt.Errorf("%w: DEFAULT_REQUIRED_PROFICIENCY must be within (0, 100]", errInvalidConfig)
	}
	if s.CloseGapsPct < 0 || s.RoleReadyPct > 100 || s.RoleReadyPct <= s.CloseGapsPct {
		return fmt.Errorf("%w: expected 0 <= CLOSE_GAPS_PCT < ROLE_READY_PCT <= 100", errInvalidConfig)
	}
	if s.FuzzyMinSimilarity <= 0 || s.FuzzyMinSimilarity > 1 {
		return fmt.Errorf("%w: FUZZY_MIN_SIMILARITY must be within (0, 1]", errInvalidConfig)
	}
	if s.ProgramTopSkills <= 0 || s.JobPageSize <= 0 {
		return fmt.Errorf("%w: PROGRAM_TOP_SKILLS and JOB_PAGE_SIZE must be positive", errInvalidConfig)
	}
	return nil
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.App.Environment)) {
	case "prod", "production":
		return true
	default:
		return false
	}
}
