package sentiment

import (
	"math"

	"github.com/samber/lo"
	"github.com/skalibog/lqhunter/pkg/models"
)

// Фиксированные параметры классификации
const (
	// Число верхних уровней стакана в расчете соотношения
	topLevels = 5

	// Ограничители соотношений при нулевом знаменателе
	ratioCapped  = 99.0
	ratioFloored = 0.01
)

// Analyzer классифицирует сырые соотношения в дискретные категории.
// Каждая классификация - чистая функция одного входного соотношения.
type Analyzer struct{}

// NewAnalyzer создает новый классификатор
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Orderbook классифицирует стакан по соотношению объемов верхних
// уровней. Пустой стакан дает нейтральное соотношение 1.0.
func (a *Analyzer) Orderbook(bids, asks []models.PriceLevel) models.OrderbookSentiment {
	ratio := orderbookRatio(bids, asks)

	s := models.OrderbookSentiment{Ratio: ratio}
	switch {
	case ratio > 2.0:
		s.Bias, s.Sentiment, s.Score = models.BiasStrongBid, models.SentimentBullish, 40
	case ratio > 1.2:
		s.Bias, s.Sentiment, s.Score = models.BiasBid, models.SentimentBullishBias, 20
	case ratio < 0.5:
		s.Bias, s.Sentiment, s.Score = models.BiasStrongAsk, models.SentimentBearish, -40
	case ratio < 0.8:
		s.Bias, s.Sentiment, s.Score = models.BiasAsk, models.SentimentBearishBias, -20
	default:
		s.Bias, s.Sentiment, s.Score = models.BiasNeutral, models.SentimentNeutral, 0
	}
	return s
}

// Premium классифицирует премию между mark и index ценами.
// Отсутствие данных или нулевой index дают нулевую премию.
func (a *Analyzer) Premium(p *models.PremiumIndex) models.PremiumSentiment {
	basis := 0.0
	if p != nil && p.IndexPrice != 0 {
		basis = (p.MarkPrice - p.IndexPrice) / p.IndexPrice * 100
	}

	s := models.PremiumSentiment{Basis: basis}
	switch {
	case basis > 0.1:
		s.Bias, s.Risk, s.Score = models.PremiumLongDominant, models.RiskShortSqueeze, 30
	case basis > 0.03:
		s.Bias, s.Risk, s.Score = models.PremiumLongBias, models.RiskPotentialSqueeze, 15
	case basis < -0.1:
		s.Bias, s.Risk, s.Score = models.PremiumShortDominant, models.RiskLongSqueeze, -30
	case basis < -0.03:
		s.Bias, s.Risk, s.Score = models.PremiumShortBias, models.RiskPotentialLiquidation, -15
	default:
		s.Bias, s.Risk, s.Score = models.PremiumNeutral, models.RiskNoSqueeze, 0
	}
	return s
}

// TradeFlow считает покупки и продажи среди последних сделок.
// Покупкой считается сделка, где тейкером выступил покупатель.
// Отсутствие сделок дает нейтральное соотношение 1.0.
func (a *Analyzer) TradeFlow(trades []models.Trade) models.TradeFlow {
	if len(trades) == 0 {
		return models.TradeFlow{Ratio: 1.0}
	}

	buys := lo.CountBy(trades, func(t models.Trade) bool {
		return !t.IsBuyerMaker
	})
	sells := len(trades) - buys

	ratio := ratioCapped
	if sells > 0 {
		ratio = round2(float64(buys) / float64(sells))
	}

	return models.TradeFlow{Buys: buys, Sells: sells, Ratio: ratio}
}

// orderbookRatio соотношение суммарных объемов верхних бидов и асков
func orderbookRatio(bids, asks []models.PriceLevel) float64 {
	if len(bids) == 0 && len(asks) == 0 {
		return 1.0
	}

	bidVol := lo.SumBy(top(bids), func(l models.PriceLevel) float64 { return l.Quantity })
	askVol := lo.SumBy(top(asks), func(l models.PriceLevel) float64 { return l.Quantity })

	if askVol == 0 {
		return ratioCapped
	}
	if bidVol == 0 {
		return ratioFloored
	}
	return round2(bidVol / askVol)
}

// top верхние уровни стакана
func top(levels []models.PriceLevel) []models.PriceLevel {
	if len(levels) > topLevels {
		return levels[:topLevels]
	}
	return levels
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
