package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/vmezhova/SLN-BookingEngine/internal/domain"
	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server           ServerConfig           `toml:"server"`
	Database         DatabaseConfig         `toml:"database"`
	Redis            RedisConfig            `toml:"redis"`
	Logs             LogsConfig             `toml:"logs"`
	Metrics          MetricsConfig          `toml:"metrics"`
	Booking          BookingConfig          `toml:"booking"`
	DirectoryService DirectoryServiceConfig `toml:"directory_service"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig настройки кэша слотов
type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	SlotCacheTTLSec int    `toml:"slot_cache_ttl"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig параметры движка бронирования
// Дефолтное дневное окно применяется, когда у организации вообще не настроено
// недельное расписание - движок сам никаких окон не придумывает
type BookingConfig struct {
	DefaultDayOpen  string `toml:"default_day_open"`
	DefaultDayClose string `toml:"default_day_close"`
}

// DefaultDaySchedule возвращает дефолтное дневное окно как DaySchedule
func (c BookingConfig) DefaultDaySchedule() (domain.DaySchedule, error) {
	open, err := types.NewTimeStringFromString(c.DefaultDayOpen)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("booking.default_day_open: %w", err)
	}
	close, err := types.NewTimeStringFromString(c.DefaultDayClose)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("booking.default_day_close: %w", err)
	}
	day := domain.DaySchedule{IsOpen: true, Open: open, Close: close}
	if err := day.Validate(); err != nil {
		return domain.DaySchedule{}, fmt.Errorf("booking default day: %w", err)
	}
	return day, nil
}

// DirectoryServiceConfig настройки клиента DirectoryService
type DirectoryServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if cfg.Booking.DefaultDayOpen == "" {
		cfg.Booking.DefaultDayOpen = "09:00"
	}
	if cfg.Booking.DefaultDayClose == "" {
		cfg.Booking.DefaultDayClose = "18:00"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Redis.SlotCacheTTLSec <= 0 {
		cfg.Redis.SlotCacheTTLSec = 30
	}

	return &cfg, nil
}
