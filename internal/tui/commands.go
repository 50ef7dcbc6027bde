package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/petpal/internal/chat"
	"github.com/muurk/petpal/internal/petpalapi"
	"github.com/muurk/petpal/internal/session"
)

// Message types for async operations
type catalogLoadedMsg struct {
	err error
}

type imageLoadedMsg struct {
	generation uint64
	path       string
	file       petpalapi.ImageFile
	err        error
}

type outcomeMsg struct {
	outcome session.Outcome
}

type chatReplyMsg struct {
	reply chat.Reply
}

// bootstrapCmd fetches the catalog once at startup
func bootstrapCmd(ctx context.Context, c *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{err: c.Bootstrap(ctx)}
	}
}

// runPendingCmd performs a captured transport call off the UI goroutine.
// The controller is not touched until the outcome comes back as a message.
func runPendingCmd(ctx context.Context, p *session.Pending) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: p.Run(ctx)}
	}
}

// askCmd sends one chat question
func askCmd(ctx context.Context, q *chat.Question) tea.Cmd {
	return func() tea.Msg {
		return chatReplyMsg{reply: q.Run(ctx)}
	}
}

// loadImageCmd reads and sniffs an image from disk. The result is tagged
// with the session generation it was requested in.
func loadImageCmd(path string, generation uint64) tea.Cmd {
	return func() tea.Msg {
		expanded := expandPath(path)
		file, err := petpalapi.LoadImageFile(expanded)
		return imageLoadedMsg{generation: generation, path: expanded, file: file, err: err}
	}
}

// expandPath resolves a leading ~ and surrounding quotes as typed or pasted by users
func expandPath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, `"'`)

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
