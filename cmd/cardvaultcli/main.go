// A terminal review session against the card vault. All scheduling decisions
// live in internal/cardvault; this program only displays cards and forwards
// quality judgments.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/srsbox/cardvault/config"
	"github.com/srsbox/cardvault/internal/cardvault"
	"github.com/srsbox/cardvault/internal/stores/models"
)

type sessionState int

const (
	stateLogin sessionState = iota
	stateReviewing
	stateSummary
)

type userMsg struct{ userID int64 }

type queueMsg struct{ queue *cardvault.Queue }

type recordedMsg struct{ intervalDays int }

type summaryMsg struct{ summary cardvault.SummaryCounts }

type errMsg struct{ err error }

type model struct {
	svc       *cardvault.Service
	textInput textinput.Model

	state    sessionState
	userID   int64
	queue    *cardvault.Queue
	current  *cardvault.DueCard
	showBack bool
	status   string
	summary  cardvault.SummaryCounts
	err      error
}

func initialModel(svc *cardvault.Service) model {
	ti := textinput.New()
	ti.Placeholder = "you@example.com"
	ti.Focus()
	ti.CharLimit = 60
	ti.Width = 40

	return model{svc: svc, textInput: ti, state: stateLogin}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func loginCmd(svc *cardvault.Service, email string) tea.Cmd {
	return func() tea.Msg {
		userID, err := svc.Queries.CreateUser(context.Background(), strings.ToLower(strings.TrimSpace(email)))
		if err != nil {
			return errMsg{err}
		}
		return userMsg{userID}
	}
}

func fetchQueueCmd(svc *cardvault.Service, userID int64) tea.Cmd {
	return func() tea.Msg {
		queue, err := svc.DueQueue(context.Background(), userID, nil, 0)
		if err != nil {
			return errMsg{err}
		}
		return queueMsg{queue}
	}
}

func recordCmd(svc *cardvault.Service, userID, cardID int64, quality int) tea.Cmd {
	return func() tea.Msg {
		_, interval, err := svc.RecordReview(context.Background(), userID, cardID, quality)
		if err != nil {
			return errMsg{err}
		}
		return recordedMsg{interval}
	}
}

func suspendCmd(svc *cardvault.Service, userID, cardID int64) tea.Cmd {
	return func() tea.Msg {
		if err := svc.SetSuspended(context.Background(), userID, cardID, true); err != nil {
			return errMsg{err}
		}
		return recordedMsg{0}
	}
}

func summaryCmd(svc *cardvault.Service, userID int64) tea.Cmd {
	return func() tea.Msg {
		summary, err := svc.SummaryCounts(context.Background(), userID, "")
		if err != nil {
			return errMsg{err}
		}
		return summaryMsg{summary}
	}
}

func (m model) advance() (model, tea.Cmd) {
	card, ok := m.queue.Next()
	if !ok {
		m.current = nil
		m.state = stateSummary
		return m, summaryCmd(m.svc, m.userID)
	}
	m.current = &card
	m.showBack = false
	return m, nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case stateLogin:
			switch msg.Type {
			case tea.KeyCtrlC:
				return m, tea.Quit
			case tea.KeyEnter:
				return m, loginCmd(m.svc, m.textInput.Value())
			}
		case stateReviewing:
			switch key := msg.String(); key {
			case "ctrl+c", "q":
				m.state = stateSummary
				return m, summaryCmd(m.svc, m.userID)
			case "f":
				m.showBack = true
				return m, nil
			case "s":
				if m.current != nil {
					m.queue.Skip(*m.current)
					m.status = "skipped"
					return m.advance()
				}
			case "p":
				if m.current != nil {
					cardID := m.current.CardID
					m.status = "card suspended"
					next, advCmd := m.advance()
					return next, tea.Batch(suspendCmd(m.svc, m.userID, cardID), advCmd)
				}
			case "0", "1", "2", "3", "4", "5":
				if m.current != nil && m.showBack {
					quality := int(key[0] - '0')
					cardID := m.current.CardID
					next, advCmd := m.advance()
					return next, tea.Batch(recordCmd(m.svc, m.userID, cardID, quality), advCmd)
				}
				m.status = "flip the card first (f)"
				return m, nil
			}
		case stateSummary:
			return m, tea.Quit
		}

	case userMsg:
		m.userID = msg.userID
		return m, fetchQueueCmd(m.svc, m.userID)

	case queueMsg:
		m.queue = msg.queue
		m.state = stateReviewing
		m.status = fmt.Sprintf("%d cards in the queue", m.queue.Len())
		return m.advance()

	case recordedMsg:
		if msg.intervalDays > 0 {
			m.status = fmt.Sprintf("next review in %d day(s)", msg.intervalDays)
		}
		return m, nil

	case summaryMsg:
		m.summary = msg.summary
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n"
	}

	switch m.state {
	case stateLogin:
		return "Who is reviewing? Enter your email.\n\n" + m.textInput.View() + "\n"

	case stateReviewing:
		if m.current == nil {
			return "Loading...\n"
		}
		body := strings.Repeat("-", 25) + "\n\n"
		body += "  [" + m.current.DeckName + "]  " + m.current.Front + "\n\n"
		if m.showBack {
			body += "  " + m.current.Back + "\n\n"
		}
		body += strings.Repeat("-", 25) + "\n"
		footer := "(0-5) Score    (F) Flip    (S) Skip    (P) Suspend    (Q) Quit"
		return body + m.status + "\n\n" + footer + "\n"

	case stateSummary:
		return fmt.Sprintf(
			"Session done.\n\nDue now: %d\nLearned: %d\nReviewed today: %d\n"+
				"Success (7d): %.0f%%\nSuccess (30d): %.0f%%\n\nPress any key to exit.\n",
			m.summary.DueNow, m.summary.Learned, m.summary.ReviewedToday,
			m.summary.Success7*100, m.summary.Success30*100)
	}
	return ""
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	if strings.ToLower(cfg.LogLevel) == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.DBConnUri)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to the database")
	}
	defer dbPool.Close()

	svc := cardvault.NewService(cfg, dbPool, models.New(dbPool))

	p := tea.NewProgram(initialModel(svc))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
