package storage

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/skalibog/lqhunter/internal/config"
	"github.com/skalibog/lqhunter/pkg/models"
)

// Recorder интерфейс записи сырых рыночных показаний
type Recorder interface {
	RecordReading(ctx context.Context, snapshot *models.Snapshot) error
	Close()
}

// InfluxRecorder пишет сырые рыночные показания в InfluxDB.
// Записываются только измеренные величины: цена, соотношения объёмов,
// премия и ставка финансирования. Мнения и причины решений в базу
// не попадают.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	org      string
	bucket   string
}

// NewInfluxRecorder создает новый регистратор показаний
func NewInfluxRecorder(cfg config.Storage) (*InfluxRecorder, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	// Проверка соединения
	health, err := client.Health(context.Background())
	if err != nil {
		return nil, fmt.Errorf("ошибка соединения с InfluxDB: %w", err)
	}
	if health == nil || health.Status != "pass" {
		return nil, fmt.Errorf("InfluxDB не в состоянии 'pass': %+v", health)
	}

	writeAPI := client.WriteAPI(cfg.Organization, cfg.Bucket)

	return &InfluxRecorder{
		client:   client,
		writeAPI: writeAPI,
		org:      cfg.Organization,
		bucket:   cfg.Bucket,
	}, nil
}

// Close закрывает соединение с базой данных
func (r *InfluxRecorder) Close() {
	r.writeAPI.Flush()
	r.client.Close()
}

// RecordReading сохраняет сырые показания одного снимка
func (r *InfluxRecorder) RecordReading(ctx context.Context, snapshot *models.Snapshot) error {
	if snapshot == nil {
		return nil
	}

	point := influxdb2.NewPoint(
		"market_readings",
		map[string]string{
			"symbol": snapshot.Symbol,
		},
		map[string]interface{}{
			"price":          snapshot.Price,
			"change_24h":     snapshot.Change24h,
			"ob_ratio":       snapshot.OrderbookRatio,
			"buy_sell_ratio": snapshot.BuySellRatio,
			"premium":        snapshot.Premium,
			"funding_rate":   snapshot.FundingRate,
		},
		snapshot.Timestamp,
	)

	r.writeAPI.WritePoint(point)
	r.writeAPI.Flush()

	return nil
}
