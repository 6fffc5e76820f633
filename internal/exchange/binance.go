package exchange

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/skalibog/lqhunter/internal/config"
	"github.com/skalibog/lqhunter/pkg/logger"
	"github.com/skalibog/lqhunter/pkg/models"
	"go.uber.org/zap"
)

// Фиксированные параметры запросов. Один медленный запрос не должен
// задерживать снимок дольше таймаута.
const (
	requestTimeout = 3 * time.Second
	depthLimit     = 10
	tradesLimit    = 20
	klinesLimit    = 20
	klinesInterval = "1m"
)

// BinanceClient клиент публичного API фьючерсов Binance.
// Каждый запрос независим: при любой ошибке транспорта или разбора
// возвращается отсутствие значения, остальные поля не затрагиваются.
// Повторных попыток на этом уровне нет.
type BinanceClient struct {
	futures *futures.Client
}

// NewBinanceClient создает новый клиент Binance
func NewBinanceClient(cfg config.Binance) *BinanceClient {
	if cfg.Testnet {
		futures.UseTestnet = true
	}
	return &BinanceClient{
		futures: futures.NewClient(cfg.APIKey, cfg.APISecret),
	}
}

// FetchAll получает все рыночные данные символа. Запросы выполняются
// параллельно: они только читают и не разделяют состояние.
func (c *BinanceClient) FetchAll(ctx context.Context, symbol string) *models.MarketData {
	md := &models.MarketData{Symbol: symbol}

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		md.Price = c.fetchPrice(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		md.Change24h = c.fetchChange24h(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		md.Bids, md.Asks = c.fetchOrderBook(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		md.Trades = c.fetchTrades(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		md.Premium = c.fetchPremium(ctx, symbol)
	}()

	// Свечи получаем в текущей горутине
	md.Candles = c.fetchKlines(ctx, symbol)

	wg.Wait()
	return md
}

// fetchPrice получает последнюю цену
func (c *BinanceClient) fetchPrice(ctx context.Context, symbol string) *float64 {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prices, err := c.futures.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil || len(prices) == 0 {
		logger.Warn("Не удалось получить цену", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		logger.Warn("Не удалось разобрать цену", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}
	return &price
}

// fetchChange24h получает суточное изменение цены в процентах
func (c *BinanceClient) fetchChange24h(ctx context.Context, symbol string) *float64 {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	stats, err := c.futures.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil || len(stats) == 0 {
		logger.Warn("Не удалось получить суточную статистику", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}

	change, err := strconv.ParseFloat(stats[0].PriceChangePercent, 64)
	if err != nil {
		logger.Warn("Не удалось разобрать суточное изменение", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}
	return &change
}

// fetchOrderBook получает верхние уровни стакана
func (c *BinanceClient) fetchOrderBook(ctx context.Context, symbol string) ([]models.PriceLevel, []models.PriceLevel) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	ob, err := c.futures.NewDepthService().Symbol(symbol).Limit(depthLimit).Do(ctx)
	if err != nil {
		logger.Warn("Не удалось получить стакан", zap.String("symbol", symbol), zap.Error(err))
		return nil, nil
	}

	bids := make([]models.PriceLevel, 0, len(ob.Bids))
	for _, bid := range ob.Bids {
		level, err := parseLevel(bid.Price, bid.Quantity)
		if err != nil {
			logger.Warn("Не удалось разобрать уровень бида", zap.String("symbol", symbol), zap.Error(err))
			return nil, nil
		}
		bids = append(bids, level)
	}

	asks := make([]models.PriceLevel, 0, len(ob.Asks))
	for _, ask := range ob.Asks {
		level, err := parseLevel(ask.Price, ask.Quantity)
		if err != nil {
			logger.Warn("Не удалось разобрать уровень аска", zap.String("symbol", symbol), zap.Error(err))
			return nil, nil
		}
		asks = append(asks, level)
	}

	return bids, asks
}

// fetchTrades получает последние сделки
func (c *BinanceClient) fetchTrades(ctx context.Context, symbol string) []models.Trade {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	raw, err := c.futures.NewRecentTradesService().Symbol(symbol).Limit(tradesLimit).Do(ctx)
	if err != nil {
		logger.Warn("Не удалось получить сделки", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}

	trades := make([]models.Trade, 0, len(raw))
	for _, t := range raw {
		price, err1 := strconv.ParseFloat(t.Price, 64)
		qty, err2 := strconv.ParseFloat(t.Quantity, 64)
		if err1 != nil || err2 != nil {
			logger.Warn("Не удалось разобрать сделку", zap.String("symbol", symbol))
			return nil
		}
		trades = append(trades, models.Trade{
			Price:        price,
			Quantity:     qty,
			Time:         time.Unix(t.Time/1000, 0),
			IsBuyerMaker: t.IsBuyerMaker,
		})
	}

	return trades
}

// fetchPremium получает премиальный индекс
func (c *BinanceClient) fetchPremium(ctx context.Context, symbol string) *models.PremiumIndex {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	indexes, err := c.futures.NewPremiumIndexService().Symbol(symbol).Do(ctx)
	if err != nil || len(indexes) == 0 {
		logger.Warn("Не удалось получить премиальный индекс", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}

	mark, err1 := strconv.ParseFloat(indexes[0].MarkPrice, 64)
	index, err2 := strconv.ParseFloat(indexes[0].IndexPrice, 64)
	funding, err3 := strconv.ParseFloat(indexes[0].LastFundingRate, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		logger.Warn("Не удалось разобрать премиальный индекс", zap.String("symbol", symbol))
		return nil
	}

	return &models.PremiumIndex{
		MarkPrice:   mark,
		IndexPrice:  index,
		FundingRate: funding,
	}
}

// fetchKlines получает последние минутные свечи
func (c *BinanceClient) fetchKlines(ctx context.Context, symbol string) []models.Candle {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	klines, err := c.futures.NewKlinesService().
		Symbol(symbol).
		Interval(klinesInterval).
		Limit(klinesLimit).
		Do(ctx)
	if err != nil {
		logger.Warn("Не удалось получить свечи", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		open, err1 := strconv.ParseFloat(k.Open, 64)
		high, err2 := strconv.ParseFloat(k.High, 64)
		low, err3 := strconv.ParseFloat(k.Low, 64)
		closePrice, err4 := strconv.ParseFloat(k.Close, 64)
		volume, err5 := strconv.ParseFloat(k.Volume, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			logger.Warn("Не удалось разобрать свечу", zap.String("symbol", symbol))
			return nil
		}
		candles = append(candles, models.Candle{
			OpenTime: time.Unix(k.OpenTime/1000, 0),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
			Volume:   volume,
		})
	}

	return candles
}

// parseLevel конвертирует строковые цену и объем уровня в числа
func parseLevel(price, quantity string) (models.PriceLevel, error) {
	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return models.PriceLevel{}, err
	}
	q, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return models.PriceLevel{}, err
	}
	return models.PriceLevel{Price: p, Quantity: q}, nil
}
