package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "board <dao>",
		Short: "Browse a DAO's proposals interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !s.interactive() {
				return fmt.Errorf("board needs a terminal")
			}
			daoID, err := resolveDAOID(cmd.Context(), s.app, args[0])
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newBoardModel(s.app, daoID, s.now), tea.WithAltScreen()).Run()
			return err
		},
	}
}

type boardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// boardLoadedMsg carries a fresh snapshot of the DAO and its proposals.
type boardLoadedMsg struct {
	dao       *domain.DAO
	proposals []*domain.Proposal
	err       error
}

// boardModel lists a DAO's proposals and shows one in a scrollable detail
// pane.
type boardModel struct {
	app   *App
	daoID string
	now   func() time.Time
	keys  boardKeyMap

	dao       *domain.DAO
	proposals []*domain.Proposal
	cursor    int
	loading   bool
	err       error

	detail bool
	vp     viewport.Model
}

func newBoardModel(app *App, daoID string, now func() time.Time) boardModel {
	return boardModel{
		app:     app,
		daoID:   daoID,
		now:     now,
		keys:    defaultBoardKeys(),
		loading: true,
		vp:      viewport.New(80, 20),
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.load()
}

func (m boardModel) load() tea.Cmd {
	app, daoID := m.app, m.daoID
	return func() tea.Msg {
		ctx := context.Background()
		d, err := app.DAOs.GetByID(ctx, daoID)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		proposals, err := app.Proposals.ListByDAO(ctx, daoID)
		return boardLoadedMsg{dao: d, proposals: proposals, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-4, 1)
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.dao, m.proposals = msg.dao, msg.proposals
		m.cursor = min(m.cursor, max(len(m.proposals)-1, 0))
		if m.detail {
			m.showDetail()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.load()
		}
		if m.detail {
			if key.Matches(msg, m.keys.Back) {
				m.detail = false
				return m, nil
			}
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.proposals)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Open):
			if len(m.proposals) > 0 {
				m.detail = true
				m.showDetail()
			}
		}
	}
	return m, nil
}

func (m *boardModel) showDetail() {
	if len(m.proposals) == 0 || m.dao == nil {
		return
	}
	m.vp.SetContent(formatter.FormatProposalDetail(m.proposals[m.cursor], m.dao.Quorum, m.now()))
	m.vp.GotoTop()
}

func (m boardModel) View() string {
	if m.err != nil {
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.loading && m.dao == nil {
		return formatter.Dim("Loading…") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s %s  %s %d\n\n",
		formatter.Bold(m.dao.Name),
		formatter.Dim("treasury"), m.dao.Treasury.Balance,
		formatter.Dim("quorum"), m.dao.Quorum)

	if m.detail {
		b.WriteString(m.vp.View() + "\n")
		b.WriteString(m.help(m.keys.Back, m.keys.Refresh, m.keys.Quit))
		return b.String()
	}

	if len(m.proposals) == 0 {
		b.WriteString(formatter.Dim("No proposals yet.") + "\n")
	}
	now := m.now()
	for i, p := range m.proposals {
		marker := "  "
		name := p.Name
		if i == m.cursor {
			marker = formatter.StyleHeader.Render("▶ ")
			name = formatter.Bold(name)
		}
		phase := ""
		if p.Status == domain.ProposalActive {
			phase = formatter.WindowPhase(p.StartTime, p.EndTime, now)
		}
		fmt.Fprintf(&b, "%s%s  %s  %s  %s\n", marker, name,
			formatter.ProposalStatusPill(p.Status),
			formatter.QuorumProgress(p.Tally.Total(), m.dao.Quorum, 10),
			phase)
	}
	b.WriteString("\n" + m.help(m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Refresh, m.keys.Quit))
	return b.String()
}

func (m boardModel) help(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim(" • "))
}
