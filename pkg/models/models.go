package models

import (
	"time"
)

// Метки направления решения
const (
	OpinionLong    = "LONG"
	OpinionShort   = "SHORT"
	OpinionNeutral = "NEUTRAL"
)

// Метки уверенности решения
const (
	ConfidenceLow      = "LOW"
	ConfidenceMedium   = "MEDIUM"
	ConfidenceHigh     = "HIGH"
	ConfidenceVeryHigh = "VERY_HIGH"
)

// Категории смещения стакана
const (
	BiasStrongBid = "STRONG_BID"
	BiasBid       = "BID"
	BiasNeutral   = "NEUTRAL"
	BiasAsk       = "ASK"
	BiasStrongAsk = "STRONG_ASK"
)

// Категории настроения стакана
const (
	SentimentBullish     = "BULLISH"
	SentimentBullishBias = "BULLISH_BIAS"
	SentimentNeutral     = "NEUTRAL"
	SentimentBearishBias = "BEARISH_BIAS"
	SentimentBearish     = "BEARISH"
)

// Категории смещения премии
const (
	PremiumLongDominant  = "LONG_DOMINANT"
	PremiumLongBias      = "LONG_BIAS"
	PremiumNeutral       = "NEUTRAL"
	PremiumShortBias     = "SHORT_BIAS"
	PremiumShortDominant = "SHORT_DOMINANT"
)

// Категории риска сквиза по премии
const (
	RiskShortSqueeze         = "SHORT_SQUEEZE"
	RiskPotentialSqueeze     = "POTENTIAL_SQUEEZE"
	RiskNoSqueeze            = "NO_SQUEEZE"
	RiskPotentialLiquidation = "POTENTIAL_LIQUIDATION"
	RiskLongSqueeze          = "LONG_SQUEEZE"
)

// Метки тренда
const (
	TrendUp   = "UP"
	TrendDown = "DOWN"
	TrendFlat = "FLAT"
)

// DefaultSymbols список отслеживаемых по умолчанию символов
var DefaultSymbols = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "BTRUSDT", "SOLUSDT", "DOGEUSDT"}

// Candle представляет минутную свечу
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// PriceLevel представляет уровень стакана с численными значениями
type PriceLevel struct {
	Price    float64
	Quantity float64
}

// Trade представляет недавнюю сделку
type Trade struct {
	Price        float64
	Quantity     float64
	Time         time.Time
	IsBuyerMaker bool
}

// PremiumIndex представляет премиальный индекс фьючерса
type PremiumIndex struct {
	MarkPrice   float64
	IndexPrice  float64
	FundingRate float64
}

// MarketData представляет сырые рыночные данные одного символа.
// Каждое поле получено независимым запросом: nil означает, что запрос
// не удался, и потребитель обязан подставить значение по умолчанию.
// Обязательна только цена, без неё снимок не строится.
type MarketData struct {
	Symbol    string
	Price     *float64
	Change24h *float64
	Bids      []PriceLevel
	Asks      []PriceLevel
	Trades    []Trade
	Premium   *PremiumIndex
	Candles   []Candle
}

// Indicators представляет производные индикаторы
type Indicators struct {
	TrendSlope       float64
	TrendLabel       string
	Change1m         float64
	Change5m         float64
	Change15m        float64
	NearLongLiq      bool
	NearShortLiq     bool
	RecentHigh       float64
	RecentLow        float64
	LongLiqDistance  float64
	ShortLiqDistance float64
}

// OrderbookSentiment представляет классификацию стакана по соотношению объёмов
type OrderbookSentiment struct {
	Ratio     float64
	Bias      string
	Sentiment string
	Score     float64
}

// PremiumSentiment представляет классификацию премии mark/index
type PremiumSentiment struct {
	Basis float64
	Bias  string
	Risk  string
	Score float64
}

// TradeFlow представляет поток последних сделок
type TradeFlow struct {
	Buys  int
	Sells int
	Ratio float64
}

// Patterns представляет набор обнаруженных паттернов.
// RawBreakdown и FailedHigh - структурные признаки, общие для всех флагов:
// закрытие ниже минимума/максимума предыдущего окна.
type Patterns struct {
	RawBreakdown bool
	FailedHigh   bool

	ShortSqueeze bool
	LongSqueeze  bool

	BaitBuy  bool
	BaitSell bool

	OverboughtReversal       bool
	OversoldReversal         bool
	BidLiquidityTrap         bool
	AskLiquidityTrap         bool
	BidVsPremiumConflict     bool
	AskVsPremiumConflict     bool
	ExtremeOverboughtCascade bool
	ExtremeOversoldCascade   bool
}

// Decision представляет итоговое решение по символу
type Decision struct {
	Opinion        string
	Reason         string
	Confidence     string
	Alert          string
	ValidBreakdown bool
	FakeBreakdown  bool
}

// Snapshot представляет полный снимок анализа одного символа.
// После сборки снимок неизменяем.
type Snapshot struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change_24h"`

	OrderbookRatio     float64 `json:"ob_ratio"`
	OrderbookBias      string  `json:"ob_bias"`
	OrderbookSentiment string  `json:"ob_sentiment"`
	OrderbookScore     float64 `json:"ob_score"`

	Buys         int     `json:"buys"`
	Sells        int     `json:"sells"`
	BuySellRatio float64 `json:"buy_sell_ratio"`

	Premium      float64 `json:"premium"`
	PremiumBias  string  `json:"premium_bias"`
	PremiumRisk  string  `json:"premium_risk"`
	PremiumScore float64 `json:"premium_score"`
	FundingRate  float64 `json:"funding_rate"`

	TrendSlope float64 `json:"ema_slope"`
	TrendLabel string  `json:"ema_trend"`
	Change1m   float64 `json:"change_1m"`
	Change5m   float64 `json:"change_5m"`
	Change15m  float64 `json:"change_15m"`

	RecentHigh       float64 `json:"recent_high"`
	RecentLow        float64 `json:"recent_low"`
	NearLongLiq      bool    `json:"near_long_liq"`
	NearShortLiq     bool    `json:"near_short_liq"`
	LongLiqDistance  float64 `json:"long_liq_distance"`
	ShortLiqDistance float64 `json:"short_liq_distance"`

	FailedHigh   bool `json:"failed_high"`
	RawBreakdown bool `json:"raw_breakdown"`

	IsShortSqueeze           bool `json:"is_short_squeeze"`
	IsLongSqueeze            bool `json:"is_long_squeeze"`
	LiquidityBaitBuy         bool `json:"liquidity_bait_buy"`
	LiquidityBaitSell        bool `json:"liquidity_bait_sell"`
	OverboughtReversal       bool `json:"overbought_reversal"`
	OversoldReversal         bool `json:"oversold_reversal"`
	BidLiquidityTrap         bool `json:"bid_liquidity_trap"`
	AskLiquidityTrap         bool `json:"ask_liquidity_trap"`
	BidVsPremiumConflict     bool `json:"bid_vs_premium_conflict"`
	AskVsPremiumConflict     bool `json:"ask_vs_premium_conflict"`
	ExtremeOverboughtCascade bool `json:"extreme_overbought_cascade"`
	ExtremeOversoldCascade   bool `json:"extreme_oversold_cascade"`

	Opinion          string `json:"opinion"`
	Reason           string `json:"reason"`
	Confidence       string `json:"confidence"`
	LiquidationAlert string `json:"liquidation_alert"`
	ValidBreakdown   bool   `json:"valid_breakdown"`
	FakeBreakdown    bool   `json:"fake_breakdown"`
}
