package patterns

import (
	"github.com/skalibog/lqhunter/pkg/models"
)

// Окно предыдущих свечей для структурных признаков
const structureWindow = 10

// Input входные данные детектора паттернов
type Input struct {
	Candles    []models.Candle
	Indicators models.Indicators
	Orderbook  models.OrderbookSentiment
	Premium    models.PremiumSentiment
	Flow       models.TradeFlow
	Change24h  float64
}

// Analyzer вычисляет флаги паттернов. Все флаги - чистые конъюнкции
// без внутреннего состояния; структурные признаки вычисляются один раз
// и разделяются всеми флагами.
type Analyzer struct{}

// NewAnalyzer создает новый детектор паттернов
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Detect вычисляет структурные признаки и все флаги паттернов
func (a *Analyzer) Detect(in Input) models.Patterns {
	p := models.Patterns{}
	p.RawBreakdown, p.FailedHigh = a.structure(in.Candles)

	a.detectSqueezes(in, &p)
	a.detectBaits(in, &p)
	a.detectReversals(in, &p)

	return p
}

// structure вычисляет признаки пробоя: закрытие последней свечи ниже
// минимума или максимума предыдущего окна. Окно - последние десять
// свечей без самой последней, либо все предыдущие свечи при короткой
// истории.
func (a *Analyzer) structure(candles []models.Candle) (rawBreakdown, failedHigh bool) {
	if len(candles) < 2 {
		return false, false
	}

	lastClose := candles[len(candles)-1].Close

	prior := candles[:len(candles)-1]
	if len(candles) > structureWindow {
		prior = candles[len(candles)-structureWindow : len(candles)-1]
	}

	prevHigh := prior[0].High
	prevLow := prior[0].Low
	for _, c := range prior {
		if c.High > prevHigh {
			prevHigh = c.High
		}
		if c.Low < prevLow {
			prevLow = c.Low
		}
	}

	return lastClose < prevLow, lastClose < prevHigh
}

// detectSqueezes определяет назревающие сквизы по потоку сделок и премии
func (a *Analyzer) detectSqueezes(in Input, p *models.Patterns) {
	p.ShortSqueeze = in.Flow.Ratio > 3.0 &&
		in.Premium.Basis > 0.05 &&
		in.Indicators.Change5m > -0.5

	p.LongSqueeze = in.Flow.Sells > in.Flow.Buys*3 &&
		in.Premium.Basis < -0.05 &&
		in.Indicators.Change5m < 0.5
}

// detectBaits определяет приманки ликвидности: видимое давление в
// одну сторону при движении цены в другую
func (a *Analyzer) detectBaits(in Input, p *models.Patterns) {
	p.BaitBuy = in.Orderbook.Sentiment == models.SentimentBullish &&
		in.Flow.Ratio > 2.0 &&
		in.Indicators.Change5m < 0 &&
		!p.RawBreakdown

	p.BaitSell = in.Orderbook.Sentiment == models.SentimentBearish &&
		in.Flow.Sells > in.Flow.Buys*2 &&
		in.Indicators.Change5m > 0 &&
		!p.FailedHigh
}

// detectReversals определяет развороты, ловушки и конфликты
func (a *Analyzer) detectReversals(in Input, p *models.Patterns) {
	p.OverboughtReversal = in.Change24h > 30 &&
		p.RawBreakdown &&
		in.Indicators.NearLongLiq &&
		in.Premium.Basis < -0.2

	p.OversoldReversal = in.Change24h < -20 &&
		!p.RawBreakdown &&
		in.Indicators.NearShortLiq &&
		in.Premium.Basis > 0.2

	p.BidLiquidityTrap = in.Orderbook.Bias == models.BiasStrongBid &&
		premiumShort(in.Premium.Bias) &&
		in.Indicators.Change5m < 0 &&
		(p.RawBreakdown || in.Indicators.NearLongLiq)

	p.AskLiquidityTrap = in.Orderbook.Bias == models.BiasStrongAsk &&
		premiumLong(in.Premium.Bias) &&
		in.Indicators.Change5m > 0 &&
		(!p.RawBreakdown || in.Indicators.NearShortLiq)

	p.BidVsPremiumConflict = (in.Orderbook.Bias == models.BiasStrongBid || in.Orderbook.Bias == models.BiasBid) &&
		premiumShort(in.Premium.Bias)

	p.AskVsPremiumConflict = (in.Orderbook.Bias == models.BiasStrongAsk || in.Orderbook.Bias == models.BiasAsk) &&
		premiumLong(in.Premium.Bias)

	p.ExtremeOverboughtCascade = in.Change24h > 50 &&
		p.RawBreakdown &&
		in.Indicators.NearLongLiq &&
		in.Premium.Basis < -0.5

	p.ExtremeOversoldCascade = in.Change24h < -40 &&
		!p.RawBreakdown &&
		in.Indicators.NearShortLiq &&
		in.Premium.Basis > 0.5
}

func premiumShort(bias string) bool {
	return bias == models.PremiumShortDominant || bias == models.PremiumShortBias
}

func premiumLong(bias string) bool {
	return bias == models.PremiumLongDominant || bias == models.PremiumLongBias
}
