package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/service/poller"
)

const (
	minListWidth = 32
	chromeHeight = 4 // header, footer and pane borders
)

func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	listWidth, detailWidth := m.paneWidths()
	bodyHeight := max(m.height-chromeHeight, 3)

	list := paneStyle.Width(listWidth).Height(bodyHeight).Render(m.renderList(listWidth, bodyHeight))
	body := list
	if m.focus != focusList {
		detail := paneStyle.Width(detailWidth).Height(bodyHeight).Render(m.renderDetailPane())
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *Model) paneWidths() (int, int) {
	if m.focus == focusList {
		return max(m.width-4, minListWidth), 0
	}
	list := max(m.width*2/5, minListWidth)
	return list, max(m.width-list-8, 20)
}

// resize keeps the detail viewport in step with the window.
func (m *Model) resize() {
	_, detailWidth := m.paneWidths()
	m.viewport.Width = max(detailWidth, 20)
	m.viewport.Height = max(m.height-chromeHeight-headerLines, 3)
	m.reply.Width = max(detailWidth-10, 10)
	m.renderDetail()
}

func (m *Model) renderHeader() string {
	page := m.snap.Page
	info := fmt.Sprintf("filter: %s · page %d/%d · %s tickets",
		statusFilters[m.filterIdx], max(page.Page, 1), max(page.TotalPages, 1), humanize.Comma(int64(page.TotalCount)))
	if m.loading {
		info += " · loading…"
	}
	return titleStyle.Render("QGlide support tickets") + "  " + mutedStyle.Render(info)
}

func (m *Model) renderList(width, height int) string {
	if !m.snap.Loaded && m.snap.Err == nil {
		return mutedStyle.Render("loading tickets…")
	}
	if len(m.snap.Items) == 0 {
		if m.snap.Err != nil {
			return errorStyle.Render("could not load tickets, press R to retry")
		}
		return mutedStyle.Render("no tickets")
	}

	var b strings.Builder
	for i, t := range m.snap.Items {
		if i >= height {
			break
		}
		line := fmt.Sprintf("%-10s %s", truncate(t.Status, 10), t.Subject)
		line = truncate(line, max(width-4, 10))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + statusStyle(t.Status).Render(line))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// headerLines is the height of the fixed part of the detail pane.
const headerLines = 5

func (m *Model) renderDetailPane() string {
	var b strings.Builder
	switch {
	case m.detail == nil && m.detailErr != nil:
		b.WriteString(errorStyle.Render("could not load ticket: " + m.detailErr.Error()))
		b.WriteString("\n" + mutedStyle.Render("press enter on the list to retry"))
		return b.String()
	case m.detail == nil:
		return mutedStyle.Render("loading ticket…")
	}

	t := m.detail
	b.WriteString(titleStyle.Render(t.Subject) + "\n")
	b.WriteString(fmt.Sprintf("%s · %s · %s\n",
		statusStyle(t.Status).Render(t.Status), orDash(t.Priority), orDash(t.Category)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("from %s <%s> · opened %s", orDash(t.Requester), orDash(t.RequesterEmail), relTime(t.CreatedAt, m.clock.Now()))) + "\n")
	b.WriteString(m.liveLine() + "\n\n")
	b.WriteString(m.viewport.View())

	if m.focus == focusReply {
		b.WriteString("\n" + m.reply.View())
	}
	return b.String()
}

func (m *Model) liveLine() string {
	refreshed := humanize.RelTime(m.refreshedAt, m.clock.Now(), "ago", "from now")
	switch {
	case m.polling:
		return okStyle.Render("● live") + mutedStyle.Render(" · refreshed "+refreshed)
	case m.stopReason == poller.StoppedFailure:
		return errorStyle.Render("○ paused after an error") + mutedStyle.Render(" · press R to reload")
	default:
		return mutedStyle.Render("○ not polling · refreshed " + refreshed)
	}
}

// renderDetail refreshes the scrollable conversation.
func (m *Model) renderDetail() {
	if m.detail == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(renderConversation(*m.detail, m.viewport.Width, m.clock.Now()))
}

func renderConversation(t models.Ticket, width int, now time.Time) string {
	wrap := lipgloss.NewStyle().Width(max(width, 20))

	var b strings.Builder
	if t.Description != "" {
		b.WriteString(wrap.Render(t.Description) + "\n\n")
	}
	if len(t.Messages) == 0 {
		b.WriteString(mutedStyle.Render("no replies yet"))
		return b.String()
	}
	for _, msg := range t.Messages {
		who := customerStyle.Render(orDash(msg.Sender))
		if msg.FromSupport {
			who = supportStyle.Render("support")
		}
		b.WriteString(who + mutedStyle.Render(" · "+relTime(msg.CreatedAt, now)) + "\n")
		b.WriteString(wrap.Render(msg.Body) + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderFooter() string {
	bindings := m.keys.listHelp()
	switch m.focus {
	case focusDetail:
		bindings = m.keys.detailHelp()
	case focusReply:
		bindings = m.keys.replyHelp()
	}

	help := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	line := mutedStyle.Render(strings.Join(help, " · "))

	if notice := m.visibleNotice(); notice != "" {
		style := okStyle
		if m.noticeErr {
			style = errorStyle
		}
		line = style.Render(notice) + "  " + line
	}
	return line
}

// relTime renders an RFC 3339 timestamp as "3 minutes ago". Anything it
// cannot parse is shown as is.
func relTime(ts string, now time.Time) string {
	if ts == "" {
		return "-"
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return humanize.RelTime(t, now, "ago", "from now")
		}
	}
	return ts
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
