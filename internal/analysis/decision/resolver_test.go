package decision

import (
	"strings"
	"testing"

	"github.com/skalibog/lqhunter/pkg/models"
)

func TestResolveDefault(t *testing.T) {
	r := NewResolver()

	d := r.Resolve(Input{})

	if d.Opinion != models.OpinionNeutral {
		t.Errorf("Opinion = %q, ожидался NEUTRAL", d.Opinion)
	}
	if d.Reason != "NO_CLEAR_SIGNAL" {
		t.Errorf("Reason = %q, ожидался NO_CLEAR_SIGNAL", d.Reason)
	}
	if d.Confidence != models.ConfidenceLow {
		t.Errorf("Confidence = %q, ожидался LOW", d.Confidence)
	}
	if d.Alert != "NO SIGNAL" {
		t.Errorf("Alert = %q, ожидался NO SIGNAL", d.Alert)
	}
	if d.ValidBreakdown || d.FakeBreakdown {
		t.Error("флаги пробоя должны быть ложными по умолчанию")
	}
}

func TestResolveSingleRules(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name       string
		in         Input
		opinion    string
		reason     string
		confidence string
	}{
		{
			name:       "экстремальная перекупленность",
			in:         Input{Patterns: models.Patterns{ExtremeOverboughtCascade: true}},
			opinion:    models.OpinionShort,
			reason:     "EXTREME_OVERBOUGHT_CASCADE_REVERSAL",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "экстремальная перепроданность",
			in:         Input{Patterns: models.Patterns{ExtremeOversoldCascade: true}},
			opinion:    models.OpinionLong,
			reason:     "EXTREME_OVERSOLD_CASCADE_REVERSAL",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "разворот вершины",
			in:         Input{Patterns: models.Patterns{OverboughtReversal: true}},
			opinion:    models.OpinionShort,
			reason:     "OVERBOUGHT_TOP_REVERSAL",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "разворот дна",
			in:         Input{Patterns: models.Patterns{OversoldReversal: true}},
			opinion:    models.OpinionLong,
			reason:     "OVERSOLD_BOTTOM_REVERSAL",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "ловушка бидов",
			in:         Input{Patterns: models.Patterns{BidLiquidityTrap: true}},
			opinion:    models.OpinionShort,
			reason:     "BID_LIQUIDITY_TRAP_DISTRIBUTION",
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "ловушка асков",
			in:         Input{Patterns: models.Patterns{AskLiquidityTrap: true}},
			opinion:    models.OpinionLong,
			reason:     "ASK_LIQUIDITY_TRAP_ABSORPTION",
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "конфликт бидов с премией",
			in:         Input{Patterns: models.Patterns{BidVsPremiumConflict: true}},
			opinion:    models.OpinionShort,
			reason:     "CONFLICT_BID_VS_PREMIUM_PREMIUM_WINS",
			confidence: models.ConfidenceMedium,
		},
		{
			name:       "конфликт асков с премией",
			in:         Input{Patterns: models.Patterns{AskVsPremiumConflict: true}},
			opinion:    models.OpinionLong,
			reason:     "CONFLICT_ASK_VS_PREMIUM_PREMIUM_WINS",
			confidence: models.ConfidenceMedium,
		},
		{
			name:       "шорт-сквиз",
			in:         Input{Patterns: models.Patterns{ShortSqueeze: true}},
			opinion:    models.OpinionLong,
			reason:     "SHORT_SQUEEZE_BUILDUP",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "лонг-сквиз",
			in:         Input{Patterns: models.Patterns{LongSqueeze: true}},
			opinion:    models.OpinionShort,
			reason:     "LONG_SQUEEZE_BUILDUP",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "приманка на покупку",
			in:         Input{Patterns: models.Patterns{BaitBuy: true}},
			opinion:    models.OpinionLong,
			reason:     "LIQUIDITY_BAIT_ABSORPTION",
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "приманка на продажу",
			in:         Input{Patterns: models.Patterns{BaitSell: true}},
			opinion:    models.OpinionShort,
			reason:     "LIQUIDITY_BAIT_DISTRIBUTION",
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "сильные биды",
			in:         Input{Orderbook: models.OrderbookSentiment{Bias: models.BiasStrongBid}},
			opinion:    models.OpinionLong,
			reason:     "STRONG_BUY_PRESSURE",
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "сильные аски",
			in:         Input{Orderbook: models.OrderbookSentiment{Bias: models.BiasStrongAsk}},
			opinion:    models.OpinionShort,
			reason:     "STRONG_SELL_PRESSURE",
			confidence: models.ConfidenceHigh,
		},
		{
			name: "премия подтверждена стаканом в лонг",
			in: Input{
				Premium:   models.PremiumSentiment{Bias: models.PremiumLongDominant},
				Orderbook: models.OrderbookSentiment{Bias: models.BiasStrongBid, Sentiment: models.SentimentBullish},
			},
			// Сильные биды стоят выше в цепочке
			opinion:    models.OpinionLong,
			reason:     "STRONG_BUY_PRESSURE",
			confidence: models.ConfidenceHigh,
		},
		{
			name: "премия подтверждена стаканом в шорт",
			in: Input{
				Premium:   models.PremiumSentiment{Bias: models.PremiumShortDominant},
				Orderbook: models.OrderbookSentiment{Bias: models.BiasAsk, Sentiment: models.SentimentBearish},
			},
			opinion:    models.OpinionShort,
			reason:     "PREMIUM_OB_CONFIRMATION",
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "восходящий тренд",
			in:         Input{TrendLabel: models.TrendUp},
			opinion:    models.OpinionLong,
			reason:     "EMA_UPTREND_CONFIRMATION",
			confidence: models.ConfidenceMedium,
		},
		{
			name: "нисходящий тренд против бычьего стакана не срабатывает",
			in: Input{
				TrendLabel: models.TrendDown,
				Orderbook:  models.OrderbookSentiment{Sentiment: models.SentimentBullish},
			},
			opinion:    models.OpinionNeutral,
			reason:     "NO_CLEAR_SIGNAL",
			confidence: models.ConfidenceLow,
		},
		{
			name: "зона ликвидаций лонгов",
			in: Input{
				NearLongLiq: true,
				Orderbook:   models.OrderbookSentiment{Sentiment: models.SentimentBearish},
			},
			opinion:    models.OpinionShort,
			reason:     "LONG_LIQ_CASCADE",
			confidence: models.ConfidenceMedium,
		},
		{
			name: "зона ликвидаций шортов",
			in: Input{
				NearShortLiq: true,
				Orderbook:    models.OrderbookSentiment{Sentiment: models.SentimentBullish},
			},
			opinion:    models.OpinionLong,
			reason:     "SHORT_LIQ_CASCADE",
			confidence: models.ConfidenceMedium,
		},
		{
			name:       "слабое бычье смещение",
			in:         Input{Orderbook: models.OrderbookSentiment{Sentiment: models.SentimentBullishBias}},
			opinion:    models.OpinionLong,
			reason:     "OB_BUY_PRESSURE",
			confidence: models.ConfidenceLow,
		},
		{
			name:       "слабое медвежье смещение",
			in:         Input{Orderbook: models.OrderbookSentiment{Sentiment: models.SentimentBearishBias}},
			opinion:    models.OpinionShort,
			reason:     "OB_SELL_PRESSURE",
			confidence: models.ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r.Resolve(tt.in)
			if d.Opinion != tt.opinion {
				t.Errorf("Opinion = %q, ожидалось %q", d.Opinion, tt.opinion)
			}
			if d.Reason != tt.reason {
				t.Errorf("Reason = %q, ожидалось %q", d.Reason, tt.reason)
			}
			if d.Confidence != tt.confidence {
				t.Errorf("Confidence = %q, ожидалось %q", d.Confidence, tt.confidence)
			}
		})
	}
}

func TestResolvePriority(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name   string
		in     Input
		reason string
	}{
		{
			name: "каскад сильнее сквиза",
			in: Input{Patterns: models.Patterns{
				ExtremeOverboughtCascade: true,
				ShortSqueeze:             true,
			}},
			reason: "EXTREME_OVERBOUGHT_CASCADE_REVERSAL",
		},
		{
			name: "разворот сильнее ловушки",
			in: Input{Patterns: models.Patterns{
				OversoldReversal: true,
				BidLiquidityTrap: true,
			}},
			reason: "OVERSOLD_BOTTOM_REVERSAL",
		},
		{
			name: "ловушка сильнее конфликта",
			in: Input{Patterns: models.Patterns{
				BidLiquidityTrap:     true,
				BidVsPremiumConflict: true,
			}},
			reason: "BID_LIQUIDITY_TRAP_DISTRIBUTION",
		},
		{
			name: "сквиз сильнее приманки",
			in: Input{Patterns: models.Patterns{
				ShortSqueeze: true,
				BaitBuy:      true,
			}},
			reason: "SHORT_SQUEEZE_BUILDUP",
		},
		{
			name: "приманка сильнее доминирования стакана",
			in: Input{
				Patterns:  models.Patterns{BaitSell: true},
				Orderbook: models.OrderbookSentiment{Bias: models.BiasStrongAsk},
			},
			reason: "LIQUIDITY_BAIT_DISTRIBUTION",
		},
		{
			name: "доминирование стакана сильнее тренда",
			in: Input{
				TrendLabel: models.TrendUp,
				Orderbook:  models.OrderbookSentiment{Bias: models.BiasStrongBid},
			},
			reason: "STRONG_BUY_PRESSURE",
		},
		{
			name: "тренд сильнее зон ликвидаций",
			in: Input{
				TrendLabel:  models.TrendDown,
				NearLongLiq: true,
				Orderbook:   models.OrderbookSentiment{Sentiment: models.SentimentBearish},
			},
			reason: "EMA_DOWNTREND_CONFIRMATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r.Resolve(tt.in)
			if d.Reason != tt.reason {
				t.Errorf("Reason = %q, ожидалось %q", d.Reason, tt.reason)
			}
		})
	}
}

// ruleTriggers минимальные изменения входа, включающие каждое правило
// цепочки. Порядок элементов совпадает с порядком правил.
var ruleTriggers = []func(*Input){
	func(in *Input) { in.Patterns.ExtremeOverboughtCascade = true },
	func(in *Input) { in.Patterns.ExtremeOversoldCascade = true },
	func(in *Input) { in.Patterns.OverboughtReversal = true },
	func(in *Input) { in.Patterns.OversoldReversal = true },
	func(in *Input) { in.Patterns.BidLiquidityTrap = true },
	func(in *Input) { in.Patterns.AskLiquidityTrap = true },
	func(in *Input) { in.Patterns.BidVsPremiumConflict = true },
	func(in *Input) { in.Patterns.AskVsPremiumConflict = true },
	func(in *Input) { in.Patterns.ShortSqueeze = true },
	func(in *Input) { in.Patterns.LongSqueeze = true },
	func(in *Input) { in.Patterns.BaitBuy = true },
	func(in *Input) { in.Patterns.BaitSell = true },
	func(in *Input) { in.Orderbook.Bias = models.BiasStrongBid },
	func(in *Input) { in.Orderbook.Bias = models.BiasStrongAsk },
	func(in *Input) {
		in.Premium.Bias = models.PremiumLongDominant
		in.Orderbook.Sentiment = models.SentimentBullish
	},
	func(in *Input) {
		in.Premium.Bias = models.PremiumShortDominant
		in.Orderbook.Sentiment = models.SentimentBearish
	},
	func(in *Input) { in.TrendLabel = models.TrendUp },
	func(in *Input) { in.TrendLabel = models.TrendDown },
	func(in *Input) {
		in.NearLongLiq = true
		in.Orderbook.Sentiment = models.SentimentBearish
	},
	func(in *Input) {
		in.NearShortLiq = true
		in.Orderbook.Sentiment = models.SentimentBullish
	},
	func(in *Input) { in.Orderbook.Sentiment = models.SentimentBullishBias },
	func(in *Input) { in.Orderbook.Sentiment = models.SentimentBearishBias },
}

// TestResolveTotalOrder перебирает все пары одновременно истинных
// правил и проверяет, что побеждает правило с большим приоритетом.
// Пары, условия которых несовместимы на одном входе, пропускаются.
func TestResolveTotalOrder(t *testing.T) {
	r := NewResolver()

	if len(ruleTriggers) != len(rules) {
		t.Fatalf("триггеров %d, правил %d", len(ruleTriggers), len(rules))
	}

	checked := 0
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			in := Input{}
			ruleTriggers[i](&in)
			ruleTriggers[j](&in)

			if !rules[i].when(in) || !rules[j].when(in) {
				continue
			}
			checked++

			want := rules[i].then(in).Reason
			got := r.Resolve(in)
			if got.Reason != want {
				t.Errorf("пара (%d, %d): Reason = %q, ожидалось %q правила %d",
					i, j, got.Reason, want, i)
			}
		}
	}

	if checked < 100 {
		t.Fatalf("проверено только %d пар, перебор неполон", checked)
	}
}

func TestResolveBreakdownFlags(t *testing.T) {
	r := NewResolver()

	t.Run("конфликт бидов наследует пробой", func(t *testing.T) {
		d := r.Resolve(Input{Patterns: models.Patterns{
			BidVsPremiumConflict: true,
			RawBreakdown:         true,
		}})
		if !d.ValidBreakdown {
			t.Error("ValidBreakdown должен быть истинным при пробое")
		}

		d = r.Resolve(Input{Patterns: models.Patterns{BidVsPremiumConflict: true}})
		if d.ValidBreakdown {
			t.Error("ValidBreakdown должен быть ложным без пробоя")
		}
	})

	t.Run("конфликт асков инвертирует пробой", func(t *testing.T) {
		d := r.Resolve(Input{Patterns: models.Patterns{AskVsPremiumConflict: true}})
		if !d.FakeBreakdown {
			t.Error("FakeBreakdown должен быть истинным без пробоя")
		}

		d = r.Resolve(Input{Patterns: models.Patterns{
			AskVsPremiumConflict: true,
			RawBreakdown:         true,
		}})
		if d.FakeBreakdown {
			t.Error("FakeBreakdown должен быть ложным при пробое")
		}
	})
}

func TestAntiOversoldShortFilter(t *testing.T) {
	r := NewResolver()

	in := Input{
		Change24h: -15,
		Orderbook: models.OrderbookSentiment{
			Bias:      models.BiasStrongAsk,
			Sentiment: models.SentimentBullish,
		},
	}

	d := r.Resolve(in)

	if d.Opinion != models.OpinionLong {
		t.Errorf("Opinion = %q, ожидался LONG после фильтра", d.Opinion)
	}
	if !strings.HasPrefix(d.Reason, "ANTI_OVERSOLD_SHORT_") {
		t.Errorf("Reason = %q, ожидался префикс ANTI_OVERSOLD_SHORT_", d.Reason)
	}
	if !d.FakeBreakdown {
		t.Error("FakeBreakdown должен быть истинным после фильтра")
	}
}

func TestAntiOversoldShortFilterNeedsNoBreakdown(t *testing.T) {
	r := NewResolver()

	in := Input{
		Change24h: -15,
		Orderbook: models.OrderbookSentiment{
			Bias:      models.BiasStrongAsk,
			Sentiment: models.SentimentBullish,
		},
		Patterns: models.Patterns{RawBreakdown: true},
	}

	d := r.Resolve(in)

	if d.Opinion != models.OpinionShort {
		t.Errorf("Opinion = %q, фильтр не должен срабатывать при пробое", d.Opinion)
	}
	if d.Reason != "STRONG_SELL_PRESSURE" {
		t.Errorf("Reason = %q, ожидался STRONG_SELL_PRESSURE", d.Reason)
	}
}

func TestAntiOverboughtLongFilter(t *testing.T) {
	r := NewResolver()

	in := Input{
		Change24h: 15,
		Orderbook: models.OrderbookSentiment{
			Bias:      models.BiasStrongBid,
			Sentiment: models.SentimentBearish,
		},
		Patterns: models.Patterns{RawBreakdown: true},
	}

	d := r.Resolve(in)

	if d.Opinion != models.OpinionShort {
		t.Errorf("Opinion = %q, ожидался SHORT после фильтра", d.Opinion)
	}
	if !strings.HasPrefix(d.Reason, "ANTI_OVERBOUGHT_LONG_") {
		t.Errorf("Reason = %q, ожидался префикс ANTI_OVERBOUGHT_LONG_", d.Reason)
	}
	if !d.ValidBreakdown {
		t.Error("ValidBreakdown должен быть истинным после фильтра")
	}
}

func TestFiltersDoNotTouchNeutral(t *testing.T) {
	r := NewResolver()

	in := Input{
		Change24h: -15,
		Orderbook: models.OrderbookSentiment{Sentiment: models.SentimentBullish},
	}

	d := r.Resolve(in)

	if d.Opinion != models.OpinionNeutral {
		t.Errorf("Opinion = %q, ожидался NEUTRAL", d.Opinion)
	}
	if d.Reason != "NO_CLEAR_SIGNAL" {
		t.Errorf("Reason = %q, ожидался NO_CLEAR_SIGNAL", d.Reason)
	}
}
