package config

import (
	"os"

	"github.com/skalibog/lqhunter/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Config представляет полную конфигурацию приложения.
// Пороги анализа в конфигурацию не выносятся: они фиксированы в коде.
type Config struct {
	Binance Binance `yaml:"binance"`
	Trading Trading `yaml:"trading"`
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	UI      UI      `yaml:"ui"`
}

// Binance содержит настройки подключения к Binance
type Binance struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Testnet   bool   `yaml:"testnet"`
}

// Trading содержит список символов и период обновления
type Trading struct {
	Symbols        []string `yaml:"symbols"`
	RefreshSeconds int      `yaml:"refresh_seconds"`
}

// Server содержит настройки HTTP-сервера
type Server struct {
	Addr string `yaml:"addr"`
}

// Storage содержит настройки записи сырых показаний в InfluxDB
type Storage struct {
	Enabled      bool   `yaml:"enabled"`
	URL          string `yaml:"url"`
	Token        string `yaml:"token"`
	Organization string `yaml:"organization"`
	Bucket       string `yaml:"bucket"`
}

// UI настройки терминального интерфейса
type UI struct {
	Enabled     bool `yaml:"enabled"`
	RefreshRate int  `yaml:"refresh_rate_ms"`
}

// Load загружает конфигурацию из файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("Ошибка чтения файла конфигурации", zap.Error(err))
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		logger.Fatal("Ошибка разбора файла конфигурации", zap.Error(err))
	}

	if config.Trading.RefreshSeconds <= 0 {
		config.Trading.RefreshSeconds = 60
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":5000"
	}
	if config.UI.RefreshRate <= 0 {
		config.UI.RefreshRate = 1000
	}

	logger.Info("Загружена конфигурация",
		zap.String("path", path),
		zap.Any("symbols", config.Trading.Symbols))
	return &config, nil
}
