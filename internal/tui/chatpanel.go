package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/muurk/petpal/internal/chat"
	"github.com/muurk/petpal/internal/session"
)

// ChatPanelModel shows one chat.Session and the question input. The
// session is replaced whenever a new breed result arrives or the mode
// changes, so an old conversation never leaks into a new one.
type ChatPanelModel struct {
	Session *chat.Session
	Input   textinput.Model

	resultSeq int
	md        *markdownCache
}

// markdownCache survives model copies so answers are rendered once
type markdownCache struct {
	renderer *glamour.TermRenderer
	width    int
	dark     bool
	rendered map[int]string // assistant message index -> glamour output
}

// NewChatPanel creates an empty panel
func NewChatPanel() ChatPanelModel {
	input := textinput.New()
	input.Prompt = "💬 "
	input.CharLimit = 500
	input.Width = 60

	return ChatPanelModel{Input: input, md: &markdownCache{}}
}

// Sync attaches the session that matches state, creating a fresh one when
// the breed result or the mode changed. It reports whether it did.
func (m *ChatPanelModel) Sync(state session.State, asker chat.Asker) bool {
	switch {
	case state.Mode == session.ModeGeneralChat:
		if m.Session != nil && m.Session.IsGeneral() {
			return false
		}
		m.attach(chat.NewGeneralSession(asker), 0)
		return true

	case state.ChatVisible && state.Result != nil:
		if m.Session != nil && !m.Session.IsGeneral() && m.resultSeq == state.ResultSeq {
			return false
		}
		m.attach(chat.NewSession(asker, state.Result.Breed), state.ResultSeq)
		return true

	default:
		if m.Session == nil {
			return false
		}
		m.attach(nil, 0)
		return true
	}
}

// Reset drops the current session so the next Sync starts a new one
func (m *ChatPanelModel) Reset() {
	m.attach(nil, 0)
}

func (m *ChatPanelModel) attach(s *chat.Session, seq int) {
	m.Session = s
	m.resultSeq = seq
	m.md = &markdownCache{}
	m.Input.Reset()
	if s != nil {
		m.Input.Placeholder = s.Placeholder()
	}
}

// Active reports whether a conversation is attached
func (m ChatPanelModel) Active() bool {
	return m.Session != nil
}

// Waiting reports whether an answer is pending
func (m ChatPanelModel) Waiting() bool {
	return m.Session != nil && m.Session.Waiting()
}

// Update forwards key input to the question field. Enter submits and
// returns the question to send; blank input and submits while waiting
// return nil.
func (m ChatPanelModel) Update(msg tea.Msg) (ChatPanelModel, *chat.Question, tea.Cmd) {
	if m.Session == nil {
		return m, nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		q := m.Session.Submit(m.Input.Value())
		if q != nil {
			m.Input.Reset()
		}
		return m, q, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, nil, cmd
}

// Resolve hands a reply to the attached session. Replies for a session
// that has since been replaced are dropped.
func (m *ChatPanelModel) Resolve(reply chat.Reply) bool {
	if m.Session == nil {
		return false
	}
	return m.Session.Resolve(reply)
}

// View renders the title, history and input
func (m ChatPanelModel) View(s Styles, spinnerView string, focused bool, width int) string {
	if m.Session == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(s.Section.Render("💬 " + m.Session.Title()))
	b.WriteString("\n")

	messages := m.Session.Messages()
	if len(messages) == 0 {
		b.WriteString(s.Muted.Render(m.Session.Placeholder()))
		b.WriteString("\n")
		if !m.Session.IsGeneral() {
			for _, suggestion := range chat.Suggestions {
				b.WriteString(s.Muted.Render("  • " + suggestion))
				b.WriteString("\n")
			}
		}
	}

	for i, msg := range messages {
		b.WriteString("\n")
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(s.UserLabel.Render("You: "))
			b.WriteString(msg.Content)
			b.WriteString("\n")
		case chat.RoleAssistant:
			b.WriteString(s.BotLabel.Render("PetPal:"))
			b.WriteString("\n")
			b.WriteString(m.md.render(i, msg.Content, width, s.Dark))
			b.WriteString("\n")
		}
	}

	if m.Session.Waiting() {
		b.WriteString("\n")
		b.WriteString(spinnerView + " " + s.Status.Render("Thinking..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	m.Input.Width = width - 8
	if focused {
		b.WriteString(m.Input.View())
	} else {
		b.WriteString(s.BlurredInput.Render(m.Input.View()))
	}
	b.WriteString("\n")

	return b.String()
}

// render renders assistant markdown, caching output per message
func (c *markdownCache) render(index int, content string, width int, dark bool) string {
	if c.renderer == nil || c.width != width || c.dark != dark {
		style := "light"
		if dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			return "  " + content
		}
		c.renderer = r
		c.width = width
		c.dark = dark
		c.rendered = nil
	}

	if out, ok := c.rendered[index]; ok {
		return out
	}

	out, err := c.renderer.Render(content)
	if err != nil {
		return "  " + content
	}
	out = strings.Trim(out, "\n")

	if c.rendered == nil {
		c.rendered = make(map[int]string)
	}
	c.rendered[index] = out
	return out
}
