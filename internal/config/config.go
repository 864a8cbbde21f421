package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Storage          Storage          `mapstructure:",squash"`
	Database         Database         `mapstructure:",squash"`
	Metrics          Metrics          `mapstructure:",squash"`
	PerformanceSync  PerformanceSync  `mapstructure:",squash"`
	ConsistencySweep ConsistencySweep `mapstructure:",squash"`
	Ranking          Ranking          `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Storage struct {
	// Driver é "postgres" ou "memory"
	Driver string `mapstructure:"storage_driver"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	SSLMode  string `mapstructure:"database_sslmode"`
}

type Metrics struct {
	Addr    string `mapstructure:"metrics_addr"`
	Enabled bool   `mapstructure:"metrics_enabled"`
}

type PerformanceSync struct {
	CronSchedule      string `mapstructure:"performance_sync_cron"`
	MaxConcurrentJobs int    `mapstructure:"performance_sync_max_concurrent_jobs"`
	JobTimeoutSeconds int    `mapstructure:"performance_sync_job_timeout_seconds"`
	DeadlineSeconds   int    `mapstructure:"performance_sync_deadline_seconds"`
	Enabled           bool   `mapstructure:"performance_sync_enabled"`
}

type ConsistencySweep struct {
	CronSchedule              string `mapstructure:"consistency_sweep_cron"`
	Enabled                   bool   `mapstructure:"consistency_sweep_enabled"`
	AutoFix                   bool   `mapstructure:"consistency_sweep_auto_fix"`
	ClampNegativeAchieved     bool   `mapstructure:"consistency_sweep_clamp_negative_achieved"`
	ExcludeInvalidConversions bool   `mapstructure:"consistency_sweep_exclude_invalid_conversions"`
	FillRoleNames             bool   `mapstructure:"consistency_sweep_fill_role_names"`
}

type Ranking struct {
	RecentMonths int `mapstructure:"ranking_recent_months"`
}

func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("STORAGE_DRIVER", "postgres")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_SSLMODE", "disable")

	viper.SetDefault("METRICS_ADDR", ":9102")
	viper.SetDefault("METRICS_ENABLED", true)

	// Ressincronização completa de performance
	viper.SetDefault("PERFORMANCE_SYNC_CRON", "0 2 * * *")       // Todos os dias às 2h da manhã
	viper.SetDefault("PERFORMANCE_SYNC_MAX_CONCURRENT_JOBS", 4)  // 4 metas em paralelo
	viper.SetDefault("PERFORMANCE_SYNC_JOB_TIMEOUT_SECONDS", 30) // limite por meta
	viper.SetDefault("PERFORMANCE_SYNC_DEADLINE_SECONDS", 1800)  // limite do lote inteiro
	viper.SetDefault("PERFORMANCE_SYNC_ENABLED", false)

	// Varredura de consistência
	viper.SetDefault("CONSISTENCY_SWEEP_CRON", "30 3 * * *") // Todos os dias às 3h30
	viper.SetDefault("CONSISTENCY_SWEEP_ENABLED", false)
	viper.SetDefault("CONSISTENCY_SWEEP_AUTO_FIX", true)
	viper.SetDefault("CONSISTENCY_SWEEP_CLAMP_NEGATIVE_ACHIEVED", true)
	viper.SetDefault("CONSISTENCY_SWEEP_EXCLUDE_INVALID_CONVERSIONS", true)
	viper.SetDefault("CONSISTENCY_SWEEP_FILL_ROLE_NAMES", true)

	viper.SetDefault("RANKING_RECENT_MONTHS", 12)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Storage.Driver = strings.ToLower(strings.TrimSpace(config.Storage.Driver))
	config.Database.DSN = BuildDSN(config.Database)

	if config.PerformanceSync.MaxConcurrentJobs <= 0 {
		config.PerformanceSync.MaxConcurrentJobs = 1
	}

	return config, nil
}

// BuildDSN monta a string de conexão do PostgreSQL
func BuildDSN(db Database) string {
	dsn := fmt.Sprintf(
		"%s://%s:%s@%s",
		db.Driver,
		db.User,
		db.Password,
		db.URL,
	)

	if db.SSLMode != "" {
		dsn = fmt.Sprintf("%s?sslmode=%s", dsn, db.SSLMode)
	}

	return dsn
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
}
