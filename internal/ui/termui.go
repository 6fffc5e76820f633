package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/skalibog/lqhunter/internal/cache"
	"github.com/skalibog/lqhunter/internal/config"
	"github.com/skalibog/lqhunter/pkg/models"
)

// Стили UI
var (
	primaryColor = lipgloss.Color("#0077cc")
	longColor    = lipgloss.Color("#33cc33")
	shortColor   = lipgloss.Color("#cc3300")
	neutralColor = lipgloss.Color("#999999")

	appStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(primaryColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	longStyle    = lipgloss.NewStyle().Bold(true).Foreground(longColor)
	shortStyle   = lipgloss.NewStyle().Bold(true).Foreground(shortColor)
	neutralStyle = lipgloss.NewStyle().Foreground(neutralColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(neutralColor).
			Padding(0, 1)
)

// TermUI терминальная панель со снимками из кеша
type TermUI struct {
	store   *cache.Store
	cfg     config.UI
	program *tea.Program
}

type tickMsg time.Time

type dashboardModel struct {
	store     *cache.Store
	snapshots []*models.Snapshot
	interval  time.Duration
	width     int
}

// NewTermUI создает новую терминальную панель
func NewTermUI(cfg config.UI, store *cache.Store) *TermUI {
	return &TermUI{
		store: store,
		cfg:   cfg,
	}
}

// Start запускает панель (блокирующий вызов)
func (ui *TermUI) Start() error {
	interval := time.Duration(ui.cfg.RefreshRate) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}

	model := dashboardModel{
		store:    ui.store,
		interval: interval,
		width:    120,
	}

	ui.program = tea.NewProgram(model, tea.WithAltScreen())
	_, err := ui.program.Run()
	return err
}

// Stop останавливает панель
func (ui *TermUI) Stop() {
	if ui.program != nil {
		ui.program.Quit()
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.tick()
}

func (m dashboardModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snapshots = m.store.All()
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("LIQUIDATION HUNTER"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"%-10s %12s %9s %8s %9s %8s %-10s %s",
		"СИМВОЛ", "ЦЕНА", "24Ч%", "СТАКАН", "ПРЕМИЯ", "МНЕНИЕ", "УВЕРЕН.", "ПРИЧИНА")))
	b.WriteString("\n")

	if len(m.snapshots) == 0 {
		b.WriteString(neutralStyle.Render("Ожидание первого цикла анализа..."))
		b.WriteString("\n")
	}

	for _, s := range m.snapshots {
		line := fmt.Sprintf(
			"%-10s %12.2f %8.2f%% %8.2f %8.4f%% %8s %-10s %s",
			s.Symbol, s.Price, s.Change24h, s.OrderbookRatio, s.Premium,
			s.Opinion, s.Confidence, s.Reason)
		b.WriteString(opinionStyle(s.Opinion).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"Обновлено: %s | q для выхода", time.Now().Format("15:04:05"))))

	return appStyle.Width(m.width - 4).Render(b.String())
}

func opinionStyle(opinion string) lipgloss.Style {
	switch opinion {
	case models.OpinionLong:
		return longStyle
	case models.OpinionShort:
		return shortStyle
	default:
		return neutralStyle
	}
}
