package aggregator

import (
	"context"
	"testing"

	"github.com/skalibog/lqhunter/pkg/models"
)

// stubSource возвращает заранее заданные данные по символам
type stubSource struct {
	data map[string]*models.MarketData
}

func (s *stubSource) FetchAll(ctx context.Context, symbol string) *models.MarketData {
	return s.data[symbol]
}

func ptr(v float64) *float64 { return &v }

func marketData() *models.MarketData {
	candles := make([]models.Candle, 20)
	for i := range candles {
		candles[i] = models.Candle{Open: 100, High: 110, Low: 90, Close: 100}
	}

	return &models.MarketData{
		Symbol:    "BTCUSDT",
		Price:     ptr(100.123456),
		Change24h: ptr(2.345678),
		Bids:      []models.PriceLevel{{Price: 100, Quantity: 10}},
		Asks:      []models.PriceLevel{{Price: 101, Quantity: 10}},
		Trades: []models.Trade{
			{IsBuyerMaker: false},
			{IsBuyerMaker: true},
		},
		Premium: &models.PremiumIndex{MarkPrice: 100.05, IndexPrice: 100, FundingRate: 0.0001},
		Candles: candles,
	}
}

func TestAnalyzeSymbol(t *testing.T) {
	source := &stubSource{data: map[string]*models.MarketData{
		"BTCUSDT": marketData(),
	}}
	a := NewAnalyzer(source, []string{"BTCUSDT"})

	snapshot, err := a.AnalyzeSymbol(context.Background(), "btcusdt")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if snapshot.Symbol != "BTCUSDT" {
		t.Errorf("Symbol = %q, ожидался BTCUSDT в верхнем регистре", snapshot.Symbol)
	}
	if snapshot.Price != 100.12 {
		t.Errorf("Price = %v, ожидалось округление до 100.12", snapshot.Price)
	}
	if snapshot.Change24h != 2.35 {
		t.Errorf("Change24h = %v, ожидалось округление до 2.35", snapshot.Change24h)
	}
	if snapshot.OrderbookRatio != 1.0 {
		t.Errorf("OrderbookRatio = %v, ожидалось 1.0", snapshot.OrderbookRatio)
	}
	if snapshot.Buys != 1 || snapshot.Sells != 1 {
		t.Errorf("Buys/Sells = %d/%d, ожидалось 1/1", snapshot.Buys, snapshot.Sells)
	}
	if snapshot.Premium != 0.05 {
		t.Errorf("Premium = %v, ожидалось 0.05", snapshot.Premium)
	}
	if snapshot.FundingRate != 0.01 {
		t.Errorf("FundingRate = %v, ожидалось 0.01", snapshot.FundingRate)
	}
	if snapshot.Timestamp.IsZero() {
		t.Error("Timestamp не должен быть нулевым")
	}
	if snapshot.Opinion == "" || snapshot.Reason == "" || snapshot.Confidence == "" {
		t.Error("решение должно быть заполнено")
	}
}

func TestAnalyzeSymbolDeterministic(t *testing.T) {
	source := &stubSource{data: map[string]*models.MarketData{
		"BTCUSDT": marketData(),
	}}
	a := NewAnalyzer(source, nil)

	first, err := a.AnalyzeSymbol(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	second, err := a.AnalyzeSymbol(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// Одинаковые входы дают одинаковые снимки, различается только метка времени
	first.Timestamp = second.Timestamp
	if *first != *second {
		t.Error("повторный анализ одних данных должен давать одинаковый снимок")
	}
}

func TestAnalyzeSymbolNoPrice(t *testing.T) {
	source := &stubSource{data: map[string]*models.MarketData{
		"BTCUSDT": {Symbol: "BTCUSDT"},
	}}
	a := NewAnalyzer(source, nil)

	if _, err := a.AnalyzeSymbol(context.Background(), "BTCUSDT"); err == nil {
		t.Error("ожидалась ошибка при отсутствии цены")
	}
	if _, err := a.AnalyzeSymbol(context.Background(), "UNKNOWN"); err == nil {
		t.Error("ожидалась ошибка для неизвестного символа")
	}
}

func TestAnalyzeSymbolPriceOnly(t *testing.T) {
	source := &stubSource{data: map[string]*models.MarketData{
		"BTCUSDT": {Symbol: "BTCUSDT", Price: ptr(100)},
	}}
	a := NewAnalyzer(source, nil)

	snapshot, err := a.AnalyzeSymbol(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if snapshot.OrderbookRatio != 1.0 {
		t.Errorf("OrderbookRatio = %v, ожидалось нейтральное 1.0", snapshot.OrderbookRatio)
	}
	if snapshot.BuySellRatio != 1.0 {
		t.Errorf("BuySellRatio = %v, ожидалось нейтральное 1.0", snapshot.BuySellRatio)
	}
	if snapshot.Premium != 0 {
		t.Errorf("Premium = %v, ожидался 0", snapshot.Premium)
	}
	if snapshot.Opinion != models.OpinionNeutral {
		t.Errorf("Opinion = %q, ожидался NEUTRAL", snapshot.Opinion)
	}
}

func TestAnalyzeAll(t *testing.T) {
	btc := marketData()
	eth := marketData()
	eth.Symbol = "ETHUSDT"

	source := &stubSource{data: map[string]*models.MarketData{
		"BTCUSDT": btc,
		"ETHUSDT": eth,
	}}
	a := NewAnalyzer(source, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"})

	results := a.AnalyzeAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, ожидалось 2", len(results))
	}
	if _, ok := results["BTCUSDT"]; !ok {
		t.Error("ожидался снимок BTCUSDT")
	}
	if _, ok := results["SOLUSDT"]; ok {
		t.Error("SOLUSDT без данных не должен попадать в результат")
	}
}

func TestSymbolsDefaults(t *testing.T) {
	a := NewAnalyzer(&stubSource{}, nil)

	symbols := a.Symbols()
	if len(symbols) != len(models.DefaultSymbols) {
		t.Fatalf("len(symbols) = %d, ожидалось %d", len(symbols), len(models.DefaultSymbols))
	}

	// Возвращается копия, изменение не задевает анализатор
	symbols[0] = "XXXUSDT"
	if a.Symbols()[0] == "XXXUSDT" {
		t.Error("Symbols должен возвращать копию списка")
	}
}
