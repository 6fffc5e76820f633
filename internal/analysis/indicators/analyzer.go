package indicators

import (
	"github.com/skalibog/lqhunter/pkg/models"
)

// Фиксированные параметры индикаторов
const (
	// Порог наклона отсекает шум около нуля
	trendThreshold = 0.0005
	trendShort     = 5
	trendLong      = 10

	// Окно и близость зон ликвидаций
	liqWindow    = 10
	liqProximity = 0.02
)

// Analyzer вычисляет производные индикаторы из сырых данных.
// Все вычисления чистые, при нехватке данных возвращаются значения
// по умолчанию.
type Analyzer struct{}

// NewAnalyzer создает новый вычислитель индикаторов
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Compute вычисляет все индикаторы по свечам
func (a *Analyzer) Compute(candles []models.Candle) models.Indicators {
	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	ind := models.Indicators{}
	ind.TrendSlope, ind.TrendLabel = a.trend(closes)
	ind.Change1m = a.priceChange(closes, 1)
	ind.Change5m = a.priceChange(closes, 5)
	ind.Change15m = a.priceChange(closes, 15)

	if len(closes) > 0 {
		a.liquidationZones(highs, lows, closes[len(closes)-1], &ind)
	}

	return ind
}

// trend вычисляет наклон тренда как расхождение средних последних 5 и
// 10 закрытий. Требуется минимум 10 закрытий, иначе тренд плоский.
func (a *Analyzer) trend(closes []float64) (float64, string) {
	if len(closes) < trendLong {
		return 0, models.TrendFlat
	}

	short := mean(closes[len(closes)-trendShort:])
	long := mean(closes[len(closes)-trendLong:])
	slope := (short - long) / long

	switch {
	case slope > trendThreshold:
		return slope, models.TrendUp
	case slope < -trendThreshold:
		return slope, models.TrendDown
	default:
		return slope, models.TrendFlat
	}
}

// priceChange вычисляет процентное изменение закрытия за back свечей назад
func (a *Analyzer) priceChange(closes []float64, back int) float64 {
	if len(closes) < back+1 {
		return 0
	}

	last := closes[len(closes)-1]
	base := closes[len(closes)-1-back]
	if base == 0 {
		return 0
	}
	return (last - base) / base * 100
}

// liquidationZones определяет близость цены к скоплениям ликвидаций:
// недавний минимум - зона ликвидаций лонгов, максимум - шортов.
func (a *Analyzer) liquidationZones(highs, lows []float64, price float64, ind *models.Indicators) {
	if len(highs) == 0 || len(lows) == 0 || price == 0 {
		return
	}

	window := liqWindow
	if len(highs) < window {
		window = len(highs)
	}

	recentHigh := highs[len(highs)-window]
	for _, h := range highs[len(highs)-window:] {
		if h > recentHigh {
			recentHigh = h
		}
	}

	window = liqWindow
	if len(lows) < window {
		window = len(lows)
	}

	recentLow := lows[len(lows)-window]
	for _, l := range lows[len(lows)-window:] {
		if l < recentLow {
			recentLow = l
		}
	}

	ind.RecentHigh = recentHigh
	ind.RecentLow = recentLow
	ind.NearLongLiq = price <= recentLow*(1+liqProximity)
	ind.NearShortLiq = price >= recentHigh*(1-liqProximity)
	if recentLow != 0 {
		ind.LongLiqDistance = (price - recentLow) / recentLow * 100
	}
	ind.ShortLiqDistance = (recentHigh - price) / price * 100
}

// mean среднее значение среза
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
