package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/petpal/internal/session"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet started
	StepRunning                    // Currently executing
	StepComplete                   // Successfully completed
	StepFailed                     // Failed
	StepSkipped                    // Skipped
)

// Step is a single step in a multi-step command
type Step struct {
	Number  int // 1-based
	Name    string
	Status  StepStatus
	Message string // e.g., "image/jpeg, 2.0 kB"
}

// StepCallback reports progress on one step
type StepCallback func(stepNumber int, status StepStatus, message string)

// Operation is the work a Runner wraps
type Operation func(ctx context.Context, onStep StepCallback) error

// RunnerConfig holds configuration for one command execution
type RunnerConfig struct {
	Title   string            // e.g., "Breed Identification"
	Command string            // e.g., "petpal identify"
	Params  map[string]string // Parameters to display in header
	Steps   []string          // Step names, in order
	Output  io.Writer         // default: os.Stdout
}

// Runner orchestrates the header → steps → failure flow for a command.
// Success output is left to the caller, which knows the requested format.
type Runner struct {
	config    RunnerConfig
	header    *Header
	steps     []Step
	output    io.Writer
	startTime time.Time
	elapsed   time.Duration
	width     int
}

// NewRunner creates a new runner for a command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()

	steps := make([]Step, len(config.Steps))
	for i, name := range config.Steps {
		steps[i] = Step{Number: i + 1, Name: name}
	}

	return &Runner{
		config: config,
		header: NewHeader(config.Title, config.Command, config.Params).SetWidth(width),
		steps:  steps,
		output: config.Output,
		width:  width,
	}
}

// SetWidth overrides the detected terminal width
func (r *Runner) SetWidth(width int) *Runner {
	r.width = width
	r.header.SetWidth(width)
	return r
}

// Run prints the header, executes the operation and, on failure, prints a
// failure box. The operation's error is returned unchanged.
func (r *Runner) Run(ctx context.Context, operation Operation) error {
	r.startTime = time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	err := operation(ctx, r.onStep)
	r.elapsed = time.Since(r.startTime)

	if err != nil {
		r.printFailure(err)
	}
	return err
}

// Elapsed returns how long the last Run took
func (r *Runner) Elapsed() time.Duration {
	return r.elapsed.Round(time.Millisecond)
}

// Steps returns a copy of the current step list
func (r *Runner) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

func (r *Runner) onStep(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(r.steps) {
		return
	}
	step := &r.steps[stepNumber-1]
	step.Status = status
	step.Message = message

	switch status {
	case StepRunning:
		// overwritten by the final status line
		_, _ = fmt.Fprint(r.output, r.renderStepLine(*step)+"\r")
	case StepComplete, StepFailed, StepSkipped:
		_, _ = fmt.Fprintln(r.output, r.renderStepLine(*step))
	}
}

// renderStepLine renders "  [1/3] Name      ✓ (note)"
func (r *Runner) renderStepLine(step Step) string {
	var marker string
	var style lipgloss.Style

	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = "⊘", StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  [%d/%d] ", step.Number, len(r.steps)))
	b.WriteString(style.Render(step.Name))

	const nameColumn = 40
	padding := nameColumn - lipgloss.Width(step.Name)
	if padding < 1 {
		padding = 1
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(style.Render(marker))

	if step.Message != "" {
		b.WriteString(" ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}

	return b.String()
}

func (r *Runner) printFailure(err error) {
	_, _ = fmt.Fprintln(r.output)

	var result *Result
	var noticeErr *NoticeError
	if errors.As(err, &noticeErr) {
		result = NewNoticeResult(noticeErr.Notice)
	} else {
		result = NewErrorResult(r.config.Title+" failed", err)
	}

	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}

// NoticeError carries a blocking session notice through an Operation
type NoticeError struct {
	Notice session.Notice
}

func (e *NoticeError) Error() string {
	return e.Notice.Message
}

func (e *NoticeError) Unwrap() error {
	return e.Notice.Err
}

// NoticeErr returns nil for an empty notice and a *NoticeError otherwise
func NoticeErr(n session.Notice) error {
	if n.IsZero() {
		return nil
	}
	return &NoticeError{Notice: n}
}
