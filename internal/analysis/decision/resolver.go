package decision

import (
	"github.com/skalibog/lqhunter/pkg/models"
)

// Input входные данные резолвера
type Input struct {
	Change24h    float64
	Orderbook    models.OrderbookSentiment
	Premium      models.PremiumSentiment
	TrendLabel   string
	NearLongLiq  bool
	NearShortLiq bool
	Patterns     models.Patterns
}

// rule одно правило цепочки приоритетов
type rule struct {
	when func(Input) bool
	then func(Input) models.Decision
}

// Resolver сводит все одновременно истинные флаги к единственному
// решению. Правила проверяются в строгом порядке приоритета, срабатывает
// первое истинное и полностью перезаписывает решение по умолчанию.
// После выбора применяются два независимых контртрендовых фильтра.
type Resolver struct{}

// NewResolver создает новый резолвер
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve выбирает решение. Резолвер не может завершиться ошибкой:
// отсутствующие входы делают флаги ложными, и решение падает в
// нейтральное значение по умолчанию.
func (r *Resolver) Resolve(in Input) models.Decision {
	d := models.Decision{
		Opinion:    models.OpinionNeutral,
		Reason:     "NO_CLEAR_SIGNAL",
		Confidence: models.ConfidenceLow,
		Alert:      "NO SIGNAL",
	}

	for _, rl := range rules {
		if rl.when(in) {
			d = rl.then(in)
			break
		}
	}

	r.applyFilters(in, &d)
	return d
}

// Цепочка приоритетов. Порядок элементов значим: экстремальные
// развороты и конфликты, затем сквизы, приманки, доминирование стакана,
// подтверждение премией, тренд, зоны ликвидаций, слабое смещение стакана.
var rules = []rule{
	// Приоритет 0: экстремальные развороты и конфликты
	{
		when: func(in Input) bool { return in.Patterns.ExtremeOverboughtCascade },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:        models.OpinionShort,
				Reason:         "EXTREME_OVERBOUGHT_CASCADE_REVERSAL",
				Confidence:     models.ConfidenceVeryHigh,
				Alert:          "EXTREME OVERBOUGHT - MAJOR TOP",
				ValidBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.ExtremeOversoldCascade },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:       models.OpinionLong,
				Reason:        "EXTREME_OVERSOLD_CASCADE_REVERSAL",
				Confidence:    models.ConfidenceVeryHigh,
				Alert:         "EXTREME OVERSOLD - MAJOR BOTTOM",
				FakeBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.OverboughtReversal },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:        models.OpinionShort,
				Reason:         "OVERBOUGHT_TOP_REVERSAL",
				Confidence:     models.ConfidenceVeryHigh,
				Alert:          "TOP FORMATION - REVERSAL",
				ValidBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.OversoldReversal },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:       models.OpinionLong,
				Reason:        "OVERSOLD_BOTTOM_REVERSAL",
				Confidence:    models.ConfidenceVeryHigh,
				Alert:         "BOTTOM FORMATION - REVERSAL",
				FakeBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.BidLiquidityTrap },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:        models.OpinionShort,
				Reason:         "BID_LIQUIDITY_TRAP_DISTRIBUTION",
				Confidence:     models.ConfidenceHigh,
				Alert:          "BID DOMINANT BUT NEGATIVE PREMIUM - DISTRIBUTION",
				ValidBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.AskLiquidityTrap },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:       models.OpinionLong,
				Reason:        "ASK_LIQUIDITY_TRAP_ABSORPTION",
				Confidence:    models.ConfidenceHigh,
				Alert:         "ASK DOMINANT BUT POSITIVE PREMIUM - ABSORPTION",
				FakeBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.BidVsPremiumConflict },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:        models.OpinionShort,
				Reason:         "CONFLICT_BID_VS_PREMIUM_PREMIUM_WINS",
				Confidence:     models.ConfidenceMedium,
				Alert:          "BID DOMINANT BUT SHORT PREMIUM - FOLLOW PREMIUM",
				ValidBreakdown: in.Patterns.RawBreakdown,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.AskVsPremiumConflict },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:       models.OpinionLong,
				Reason:        "CONFLICT_ASK_VS_PREMIUM_PREMIUM_WINS",
				Confidence:    models.ConfidenceMedium,
				Alert:         "ASK DOMINANT BUT LONG PREMIUM - FOLLOW PREMIUM",
				FakeBreakdown: !in.Patterns.RawBreakdown,
			}
		},
	},
	// Приоритет 1: сквизы
	{
		when: func(in Input) bool { return in.Patterns.ShortSqueeze },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:       models.OpinionLong,
				Reason:        "SHORT_SQUEEZE_BUILDUP",
				Confidence:    models.ConfidenceVeryHigh,
				Alert:         "SHORT SQUEEZE IMMINENT",
				FakeBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.LongSqueeze },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:        models.OpinionShort,
				Reason:         "LONG_SQUEEZE_BUILDUP",
				Confidence:     models.ConfidenceVeryHigh,
				Alert:          "LONG SQUEEZE IMMINENT",
				ValidBreakdown: true,
			}
		},
	},
	// Приоритет 2: приманки ликвидности
	{
		when: func(in Input) bool { return in.Patterns.BaitBuy },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:       models.OpinionLong,
				Reason:        "LIQUIDITY_BAIT_ABSORPTION",
				Confidence:    models.ConfidenceHigh,
				Alert:         "BUY LIQUIDITY BAIT DETECTED",
				FakeBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool { return in.Patterns.BaitSell },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:        models.OpinionShort,
				Reason:         "LIQUIDITY_BAIT_DISTRIBUTION",
				Confidence:     models.ConfidenceHigh,
				Alert:          "SELL LIQUIDITY BAIT DETECTED",
				ValidBreakdown: true,
			}
		},
	},
	// Приоритет 3: доминирование стакана
	{
		when: func(in Input) bool { return in.Orderbook.Bias == models.BiasStrongBid },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:    models.OpinionLong,
				Reason:     "STRONG_BUY_PRESSURE",
				Confidence: models.ConfidenceHigh,
				Alert:      "EXTREME BID DOMINANCE",
			}
		},
	},
	{
		when: func(in Input) bool { return in.Orderbook.Bias == models.BiasStrongAsk },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:    models.OpinionShort,
				Reason:     "STRONG_SELL_PRESSURE",
				Confidence: models.ConfidenceHigh,
				Alert:      "EXTREME ASK DOMINANCE",
			}
		},
	},
	// Приоритет 4: премия с подтверждением стакана
	{
		when: func(in Input) bool {
			return in.Premium.Bias == models.PremiumLongDominant &&
				in.Orderbook.Sentiment == models.SentimentBullish
		},
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:    models.OpinionLong,
				Reason:     "PREMIUM_OB_CONFIRMATION",
				Confidence: models.ConfidenceHigh,
				Alert:      "LONG DOMINANT CONFIRMED",
			}
		},
	},
	{
		when: func(in Input) bool {
			return in.Premium.Bias == models.PremiumShortDominant &&
				in.Orderbook.Sentiment == models.SentimentBearish
		},
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:    models.OpinionShort,
				Reason:     "PREMIUM_OB_CONFIRMATION",
				Confidence: models.ConfidenceHigh,
				Alert:      "SHORT DOMINANT CONFIRMED",
			}
		},
	},
	// Приоритет 5: тренд
	{
		when: func(in Input) bool {
			return in.TrendLabel == models.TrendUp &&
				in.Orderbook.Sentiment != models.SentimentBearish
		},
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:    models.OpinionLong,
				Reason:     "EMA_UPTREND_CONFIRMATION",
				Confidence: models.ConfidenceMedium,
				Alert:      "UPTREND STRUCTURE",
			}
		},
	},
	{
		when: func(in Input) bool {
			return in.TrendLabel == models.TrendDown &&
				in.Orderbook.Sentiment != models.SentimentBullish
		},
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:    models.OpinionShort,
				Reason:     "EMA_DOWNTREND_CONFIRMATION",
				Confidence: models.ConfidenceMedium,
				Alert:      "DOWNTREND STRUCTURE",
			}
		},
	},
	// Приоритет 6: зоны ликвидаций
	{
		when: func(in Input) bool {
			return in.NearLongLiq && in.Orderbook.Sentiment == models.SentimentBearish
		},
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:        models.OpinionShort,
				Reason:         "LONG_LIQ_CASCADE",
				Confidence:     models.ConfidenceMedium,
				Alert:          "LONG LIQUIDATION ZONE",
				ValidBreakdown: true,
			}
		},
	},
	{
		when: func(in Input) bool {
			return in.NearShortLiq && in.Orderbook.Sentiment == models.SentimentBullish
		},
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:       models.OpinionLong,
				Reason:        "SHORT_LIQ_CASCADE",
				Confidence:    models.ConfidenceMedium,
				Alert:         "SHORT LIQUIDATION ZONE",
				FakeBreakdown: true,
			}
		},
	},
	// Приоритет 7: слабое смещение стакана
	{
		when: func(in Input) bool { return in.Orderbook.Sentiment == models.SentimentBullishBias },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:    models.OpinionLong,
				Reason:     "OB_BUY_PRESSURE",
				Confidence: models.ConfidenceLow,
				Alert:      "BID DOMINANT",
			}
		},
	},
	{
		when: func(in Input) bool { return in.Orderbook.Sentiment == models.SentimentBearishBias },
		then: func(in Input) models.Decision {
			return models.Decision{
				Opinion:    models.OpinionShort,
				Reason:     "OB_SELL_PRESSURE",
				Confidence: models.ConfidenceLow,
				Alert:      "ASK DOMINANT",
			}
		},
	},
}

// applyFilters применяет контртрендовые фильтры. Проверки намеренно
// независимы, а не else-if: вторая может переписать результат первой.
func (r *Resolver) applyFilters(in Input, d *models.Decision) {
	if d.Opinion == models.OpinionShort &&
		in.Change24h < -10 &&
		in.Orderbook.Sentiment == models.SentimentBullish &&
		!in.Patterns.RawBreakdown {
		d.Opinion = models.OpinionLong
		d.Reason = "ANTI_OVERSOLD_SHORT_" + d.Reason
		d.FakeBreakdown = true
	}

	if d.Opinion == models.OpinionLong &&
		in.Change24h > 10 &&
		in.Orderbook.Sentiment == models.SentimentBearish &&
		in.Patterns.RawBreakdown {
		d.Opinion = models.OpinionShort
		d.Reason = "ANTI_OVERBOUGHT_LONG_" + d.Reason
		d.ValidBreakdown = true
	}
}
