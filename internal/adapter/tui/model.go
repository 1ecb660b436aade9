// Package tui is the terminal ticket watcher: a paged ticket list with a
// status filter and a detail pane kept fresh by polling.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/qglide"
	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/internal/service/poller"
	"github.com/Temutjin2k/qglide-admin/internal/service/view"
	"github.com/Temutjin2k/qglide-admin/pkg/clock"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
)

const (
	viewName  = "tickets_tui"
	noticeTTL = 3 * time.Second
	statusKey = "status"
)

// statusFilters is the order the f key walks through: all, then every
// ticket status in workflow order.
var statusFilters = func() []string {
	out := []string{"all"}
	for _, s := range types.TicketStatuses {
		out = append(out, s.String())
	}
	return out
}()

type TicketService interface {
	Tickets(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ticket], error)
	Ticket(ctx context.Context, id string) (models.Ticket, error)
	Reply(ctx context.Context, id, message string) (any, error)
	SetTicketStatus(ctx context.Context, id string, status types.TicketStatus) (any, error)
}

type Options struct {
	Interval   time.Duration
	MaxRetries int
	PageSize   int
	Clock      clock.Clock
}

type focus int

const (
	focusList focus = iota
	focusDetail
	focusReply
)

type (
	listMsg struct{ err error }

	detailMsg struct {
		id     string
		ticket models.Ticket
		err    error
		polled bool
	}

	pollStoppedMsg struct {
		id     string
		reason poller.StopReason
		err    error
	}

	mutationMsg struct {
		id     string
		status types.TicketStatus // empty for replies
		err    error
	}

	noticeFadeMsg struct{ seq int }
)

// Model is the bubbletea model of the watcher. Poll results arrive from
// timer goroutines through the sender installed by Run.
type Model struct {
	ctx   context.Context
	svc   TicketService
	clock clock.Clock
	keys  KeyMap
	log   logger.Logger

	list *view.List[models.Ticket]
	poll *poller.Coordinator[models.Ticket]
	send func(tea.Msg)

	width  int
	height int

	snap      view.Snapshot[models.Ticket]
	loading   bool
	cursor    int
	filterIdx int

	focus       focus
	detail      *models.Ticket
	detailErr   error
	refreshedAt time.Time
	polling     bool
	stopReason  poller.StopReason

	reply    textinput.Model
	viewport viewport.Model

	notice    string
	noticeErr bool
	noticeAt  time.Time
	noticeSeq int
}

func New(ctx context.Context, svc TicketService, opts Options, log logger.Logger) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	ctx = wrap.WithViewID(ctx, viewName)

	reply := textinput.New()
	reply.Placeholder = "type a reply, enter to send"
	reply.Prompt = "reply> "
	reply.CharLimit = 5000

	m := &Model{
		ctx:   ctx,
		svc:   svc,
		clock: opts.Clock,
		keys:  DefaultKeyMap,
		log:   log,
		list:  view.NewList[models.Ticket](viewName, svc.Tickets, opts.PageSize, log),
		reply: reply,
	}

	m.poll = poller.New[models.Ticket](ctx, opts.Clock, log, svc.Ticket,
		func(id string, t models.Ticket) {
			go m.deliver(detailMsg{id: id, ticket: t, polled: true})
		},
		poller.Options[models.Ticket]{
			Interval:   opts.Interval,
			MaxRetries: opts.MaxRetries,
			Terminal:   models.Ticket.Terminal,
			View:       viewName,
			OnStop: func(id string, reason poller.StopReason, err error) {
				go m.deliver(pollStoppedMsg{id: id, reason: reason, err: err})
			},
		},
	)
	return m
}

// deliver hands a message to the running program. Before Run it drops it.
func (m *Model) deliver(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

func (m *Model) Init() tea.Cmd {
	return m.listCmd(m.list.Reload)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case listMsg:
		return m, m.onList(msg)

	case detailMsg:
		return m, m.onDetail(msg)

	case pollStoppedMsg:
		return m, m.onPollStopped(msg)

	case mutationMsg:
		return m, m.onMutation(msg)

	case noticeFadeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	if m.focus == focusReply {
		var cmd tea.Cmd
		m.reply, cmd = m.reply.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.focus == focusReply {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.closeReply()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			return m, m.submitReply()
		}
		var cmd tea.Cmd
		m.reply, cmd = m.reply.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Reload):
		cmds := []tea.Cmd{m.listCmd(m.list.Reload)}
		if id := m.poll.Selected(); id != "" {
			cmds = append(cmds, m.detailCmd(id))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Filter):
		m.filterIdx = (m.filterIdx + 1) % len(statusFilters)
		value := statusFilters[m.filterIdx]
		return m, m.listCmd(func(ctx context.Context) (view.Snapshot[models.Ticket], error) {
			return m.list.SetFilter(ctx, statusKey, value)
		})

	case key.Matches(msg, m.keys.NextPage):
		return m, m.listCmd(m.list.Next)

	case key.Matches(msg, m.keys.PrevPage):
		return m, m.listCmd(m.list.Prev)
	}

	if m.focus == focusDetail {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.closeDetail()
			return m, nil
		case key.Matches(msg, m.keys.Reply):
			if m.detail == nil {
				return m, nil
			}
			m.focus = focusReply
			m.reply.SetValue("")
			return m, m.reply.Focus()
		case key.Matches(msg, m.keys.Status):
			return m, m.cycleStatus()
		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		return m, m.open()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.poll.Stop()
	return m, tea.Quit
}

// listCmd runs a list operation off the update loop. Superseded responses
// come back as ErrStale and are ignored.
func (m *Model) listCmd(op func(context.Context) (view.Snapshot[models.Ticket], error)) tea.Cmd {
	m.loading = true
	ctx := m.ctx
	return func() tea.Msg {
		_, err := op(ctx)
		return listMsg{err: err}
	}
}

func (m *Model) detailCmd(id string) tea.Cmd {
	ctx := wrap.WithEntityID(m.ctx, id)
	return func() tea.Msg {
		t, err := m.svc.Ticket(ctx, id)
		return detailMsg{id: id, ticket: t, err: err}
	}
}

func (m *Model) onList(msg listMsg) tea.Cmd {
	if errors.Is(msg.err, view.ErrStale) {
		return nil
	}
	m.loading = false
	m.snap = m.list.Snapshot()
	m.cursor = min(m.cursor, max(len(m.snap.Items)-1, 0))

	if msg.err != nil {
		m.log.Warn(wrap.ErrorCtx(m.ctx, msg.err), "ticket list load failed", "error", msg.err)
		return m.setNotice(qglide.UserMessage(msg.err), true)
	}
	return nil
}

func (m *Model) open() tea.Cmd {
	if len(m.snap.Items) == 0 {
		return nil
	}
	id := m.snap.Items[m.cursor].ID

	m.poll.Select(id)
	m.focus = focusDetail
	m.detail = nil
	m.detailErr = nil
	m.stopReason = ""
	m.polling = true
	m.resize()
	return m.detailCmd(id)
}

func (m *Model) closeDetail() {
	m.poll.Stop()
	m.focus = focusList
	m.detail = nil
	m.detailErr = nil
	m.polling = false
	m.resize()
}

func (m *Model) onDetail(msg detailMsg) tea.Cmd {
	if m.poll.Selected() != msg.id {
		return nil
	}

	if msg.err != nil {
		m.detailErr = msg.err
		m.log.Warn(wrap.ErrorCtx(wrap.WithEntityID(m.ctx, msg.id), msg.err), "ticket load failed", "error", msg.err)
		if !msg.polled && m.detail == nil {
			// nothing to keep fresh
			m.poll.Stop()
			m.polling = false
		}
		m.renderDetail()
		return m.setNotice(qglide.UserMessage(msg.err), true)
	}

	t := msg.ticket
	m.detail = &t
	m.detailErr = nil
	m.refreshedAt = m.clock.Now()
	m.renderDetail()
	return nil
}

func (m *Model) onPollStopped(msg pollStoppedMsg) tea.Cmd {
	if m.poll.Selected() != msg.id {
		return nil
	}
	m.polling = false
	m.stopReason = msg.reason

	if msg.err != nil {
		return m.setNotice("live updates stopped: "+qglide.UserMessage(msg.err), true)
	}
	return m.setNotice("ticket is "+m.detailStatus()+", live updates stopped", false)
}

// cycleStatus moves the open ticket to the next status in the workflow.
func (m *Model) cycleStatus() tea.Cmd {
	if m.detail == nil {
		return nil
	}
	id := m.detail.ID
	next := nextStatus(types.TicketStatus(m.detail.Status))
	ctx := wrap.WithEntityID(m.ctx, id)

	return func() tea.Msg {
		_, err := m.svc.SetTicketStatus(ctx, id, next)
		return mutationMsg{id: id, status: next, err: err}
	}
}

func nextStatus(current types.TicketStatus) types.TicketStatus {
	for i, s := range types.TicketStatuses {
		if strings.EqualFold(string(current), string(s)) {
			return types.TicketStatuses[(i+1)%len(types.TicketStatuses)]
		}
	}
	return types.TicketStatuses[0]
}

func (m *Model) submitReply() tea.Cmd {
	text := strings.TrimSpace(m.reply.Value())
	if text == "" {
		return m.setNotice(types.ErrEmptyMessage.Error(), true)
	}
	if m.detail == nil {
		m.closeReply()
		return nil
	}

	id := m.detail.ID
	ctx := wrap.WithEntityID(m.ctx, id)
	m.closeReply()

	return func() tea.Msg {
		_, err := m.svc.Reply(ctx, id, text)
		return mutationMsg{id: id, err: err}
	}
}

func (m *Model) closeReply() {
	m.reply.Blur()
	m.reply.SetValue("")
	m.focus = focusDetail
}

// onMutation refreshes after a reply or a status change. Resolving or
// closing a ticket stops live updates at once; moving it back out resumes
// them.
func (m *Model) onMutation(msg mutationMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn(wrap.ErrorCtx(wrap.WithEntityID(m.ctx, msg.id), msg.err), "ticket update failed", "error", msg.err)
		return m.setNotice(qglide.UserMessage(msg.err), true)
	}

	notice := "reply sent"
	if msg.status != "" {
		notice = fmt.Sprintf("status changed to %s", msg.status)
	}
	cmds := []tea.Cmd{m.setNotice(notice, false), m.listCmd(m.list.Reload)}

	if m.poll.Selected() == msg.id {
		cmds = append(cmds, m.detailCmd(msg.id))
		switch {
		case msg.status == "":
		case msg.status.IsTerminal():
			m.poll.Pause(msg.id)
			m.polling = false
			m.stopReason = poller.StoppedTerminal
		default:
			if err := m.poll.Rearm(); err == nil {
				m.polling = m.poll.Active()
				m.stopReason = ""
			}
		}
	}
	return tea.Batch(cmds...)
}

// setNotice shows text in the status bar until noticeTTL passes.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.notice = text
	m.noticeErr = isErr
	m.noticeAt = m.clock.Now()

	fade := m.clock.After(noticeTTL)
	return func() tea.Msg {
		<-fade
		return noticeFadeMsg{seq: seq}
	}
}

func (m *Model) visibleNotice() string {
	if m.notice == "" || m.clock.Now().Sub(m.noticeAt) >= noticeTTL {
		return ""
	}
	return m.notice
}

func (m *Model) detailStatus() string {
	if m.detail == nil {
		return "unknown"
	}
	return m.detail.Status
}
