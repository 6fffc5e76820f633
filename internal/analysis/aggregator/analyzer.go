package aggregator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/skalibog/lqhunter/internal/analysis/decision"
	"github.com/skalibog/lqhunter/internal/analysis/indicators"
	"github.com/skalibog/lqhunter/internal/analysis/patterns"
	"github.com/skalibog/lqhunter/internal/analysis/sentiment"
	"github.com/skalibog/lqhunter/pkg/logger"
	"github.com/skalibog/lqhunter/pkg/models"
	"go.uber.org/zap"
)

// MarketSource источник сырых рыночных данных одного символа
type MarketSource interface {
	FetchAll(ctx context.Context, symbol string) *models.MarketData
}

// Analyzer объединяет все аналитические компоненты в конвейер:
// данные → индикаторы и классификации → паттерны → решение → снимок.
type Analyzer struct {
	source     MarketSource
	indicators *indicators.Analyzer
	sentiment  *sentiment.Analyzer
	patterns   *patterns.Analyzer
	resolver   *decision.Resolver
	symbols    []string
}

// NewAnalyzer создает новый анализатор. Пустой список символов
// заменяется справочным списком по умолчанию.
func NewAnalyzer(source MarketSource, symbols []string) *Analyzer {
	if len(symbols) == 0 {
		symbols = models.DefaultSymbols
	}

	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}

	return &Analyzer{
		source:     source,
		indicators: indicators.NewAnalyzer(),
		sentiment:  sentiment.NewAnalyzer(),
		patterns:   patterns.NewAnalyzer(),
		resolver:   decision.NewResolver(),
		symbols:    upper,
	}
}

// Symbols возвращает справочный список отслеживаемых символов
func (a *Analyzer) Symbols() []string {
	out := make([]string, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// AnalyzeSymbol выполняет полный конвейер для одного символа.
// Без цены снимок не строится; все остальные отсутствующие поля
// заменяются значениями по умолчанию, и решение деградирует до
// нейтрального.
func (a *Analyzer) AnalyzeSymbol(ctx context.Context, symbol string) (*models.Snapshot, error) {
	symbol = strings.ToUpper(symbol)

	md := a.source.FetchAll(ctx, symbol)
	if md == nil || md.Price == nil {
		return nil, fmt.Errorf("нет цены для %s: символ не может быть проанализирован", symbol)
	}

	ind := a.indicators.Compute(md.Candles)
	ob := a.sentiment.Orderbook(md.Bids, md.Asks)
	prem := a.sentiment.Premium(md.Premium)
	flow := a.sentiment.TradeFlow(md.Trades)

	change24h := 0.0
	if md.Change24h != nil {
		change24h = *md.Change24h
	}

	pats := a.patterns.Detect(patterns.Input{
		Candles:    md.Candles,
		Indicators: ind,
		Orderbook:  ob,
		Premium:    prem,
		Flow:       flow,
		Change24h:  change24h,
	})

	dec := a.resolver.Resolve(decision.Input{
		Change24h:    change24h,
		Orderbook:    ob,
		Premium:      prem,
		TrendLabel:   ind.TrendLabel,
		NearLongLiq:  ind.NearLongLiq,
		NearShortLiq: ind.NearShortLiq,
		Patterns:     pats,
	})

	logger.Debug("Анализ символа завершен",
		zap.String("symbol", symbol),
		zap.String("opinion", dec.Opinion),
		zap.String("reason", dec.Reason),
		zap.String("confidence", dec.Confidence))

	return assemble(symbol, md, ind, ob, prem, flow, pats, dec), nil
}

// AnalyzeAll анализирует все отслеживаемые символы параллельно.
// Символы без результата просто отсутствуют в карте.
func (a *Analyzer) AnalyzeAll(ctx context.Context) map[string]*models.Snapshot {
	results := make(map[string]*models.Snapshot)
	var wg sync.WaitGroup
	var mutex sync.Mutex

	for _, symbol := range a.symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()

			snapshot, err := a.AnalyzeSymbol(ctx, sym)
			if err != nil {
				logger.Warn("Символ не проанализирован", zap.String("symbol", sym), zap.Error(err))
				return
			}

			mutex.Lock()
			results[sym] = snapshot
			mutex.Unlock()
		}(symbol)
	}

	wg.Wait()
	return results
}

// assemble собирает неизменяемый снимок из всех промежуточных
// результатов. Здесь нет решающей логики, только копирование и
// округление.
func assemble(
	symbol string,
	md *models.MarketData,
	ind models.Indicators,
	ob models.OrderbookSentiment,
	prem models.PremiumSentiment,
	flow models.TradeFlow,
	pats models.Patterns,
	dec models.Decision,
) *models.Snapshot {
	funding := 0.0
	if md.Premium != nil {
		funding = md.Premium.FundingRate * 100
	}

	change24h := 0.0
	if md.Change24h != nil {
		change24h = *md.Change24h
	}

	return &models.Snapshot{
		Symbol:    symbol,
		Timestamp: time.Now(),
		Price:     round2(*md.Price),
		Change24h: round2(change24h),

		OrderbookRatio:     round2(ob.Ratio),
		OrderbookBias:      ob.Bias,
		OrderbookSentiment: ob.Sentiment,
		OrderbookScore:     ob.Score,

		Buys:         flow.Buys,
		Sells:        flow.Sells,
		BuySellRatio: round2(flow.Ratio),

		Premium:      round4(prem.Basis),
		PremiumBias:  prem.Bias,
		PremiumRisk:  prem.Risk,
		PremiumScore: prem.Score,
		FundingRate:  round4(funding),

		TrendSlope: round6(ind.TrendSlope),
		TrendLabel: ind.TrendLabel,
		Change1m:   round2(ind.Change1m),
		Change5m:   round2(ind.Change5m),
		Change15m:  round2(ind.Change15m),

		RecentHigh:       round2(ind.RecentHigh),
		RecentLow:        round2(ind.RecentLow),
		NearLongLiq:      ind.NearLongLiq,
		NearShortLiq:     ind.NearShortLiq,
		LongLiqDistance:  round2(ind.LongLiqDistance),
		ShortLiqDistance: round2(ind.ShortLiqDistance),

		FailedHigh:   pats.FailedHigh,
		RawBreakdown: pats.RawBreakdown,

		IsShortSqueeze:           pats.ShortSqueeze,
		IsLongSqueeze:            pats.LongSqueeze,
		LiquidityBaitBuy:         pats.BaitBuy,
		LiquidityBaitSell:        pats.BaitSell,
		OverboughtReversal:       pats.OverboughtReversal,
		OversoldReversal:         pats.OversoldReversal,
		BidLiquidityTrap:         pats.BidLiquidityTrap,
		AskLiquidityTrap:         pats.AskLiquidityTrap,
		BidVsPremiumConflict:     pats.BidVsPremiumConflict,
		AskVsPremiumConflict:     pats.AskVsPremiumConflict,
		ExtremeOverboughtCascade: pats.ExtremeOverboughtCascade,
		ExtremeOversoldCascade:   pats.ExtremeOversoldCascade,

		Opinion:          dec.Opinion,
		Reason:           dec.Reason,
		Confidence:       dec.Confidence,
		LiquidationAlert: dec.Alert,
		ValidBreakdown:   dec.ValidBreakdown,
		FakeBreakdown:    dec.FakeBreakdown,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round6(v float64) float64 {
	return math.Round(v*1000000) / 1000000
}
