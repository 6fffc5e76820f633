package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/skalibog/lqhunter/internal/cache"
	"github.com/skalibog/lqhunter/internal/config"
	"github.com/skalibog/lqhunter/pkg/logger"
	"github.com/skalibog/lqhunter/pkg/models"
	"go.uber.org/zap"
)

// Analyzer интерфейс аналитического конвейера, видимый серверу
type Analyzer interface {
	AnalyzeSymbol(ctx context.Context, symbol string) (*models.Snapshot, error)
	AnalyzeAll(ctx context.Context) map[string]*models.Snapshot
	Symbols() []string
}

// Server отдает результаты анализа по HTTP. Сервер - тонкий
// потребитель конвейера: вся решающая логика находится в анализаторе.
type Server struct {
	analyzer Analyzer
	cache    *cache.Store
	httpSrv  *http.Server
}

// New создает новый HTTP-сервер
func New(cfg config.Server, analyzer Analyzer, store *cache.Store) *Server {
	s := &Server{
		analyzer: analyzer,
		cache:    store,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /symbols", s.handleSymbols)
	mux.HandleFunc("GET /analyze", s.handleAnalyzeAll)
	mux.HandleFunc("GET /analyze/{symbol}", s.handleAnalyzeSymbol)

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Handler возвращает корневой обработчик сервера
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start запускает сервер (блокирующий вызов)
func (s *Server) Start() error {
	logger.Info("HTTP-сервер запущен", zap.String("addr", s.httpSrv.Addr))
	return s.httpSrv.ListenAndServe()
}

// Shutdown останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Liquidation Hunter API",
		"status":  "online",
		"version": "conflict resolution engine",
		"endpoints": map[string]string{
			"/analyze/{symbol}": "анализ одного символа",
			"/analyze":          "анализ всех отслеживаемых символов",
			"/symbols":          "список отслеживаемых символов",
			"/health":           "проверка состояния",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"snapshots": s.cache.Len(),
	})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"symbols": s.analyzer.Symbols(),
	})
}

// handleAnalyzeAll отдает снимки всех отслеживаемых символов.
// Обычно снимки приходят из кеша, который обновляет планировщик;
// холодный кеш наполняется на месте.
func (s *Server) handleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	if s.cache.Len() == 0 {
		s.cache.PutAll(s.analyzer.AnalyzeAll(r.Context()))
	}

	snapshots := s.cache.All()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(snapshots),
		"data":      snapshots,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleAnalyzeSymbol выполняет свежий анализ одного символа
func (s *Server) handleAnalyzeSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	snapshot, err := s.analyzer.AnalyzeSymbol(r.Context(), symbol)
	if err != nil {
		logger.Warn("Анализ символа не удался", zap.String("symbol", symbol), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
			"symbol":  symbol,
		})
		return
	}

	s.cache.Put(snapshot)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    snapshot,
		"symbol":  snapshot.Symbol,
	})
}

// writeJSON сериализует ответ через sonic
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		logger.Error("Ошибка сериализации ответа", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
