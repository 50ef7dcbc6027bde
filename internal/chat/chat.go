package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/petpal/internal/logging"
	"github.com/muurk/petpal/internal/petpalapi"
)

// GeneralTopic is the breed sent for the general-chat tab
const GeneralTopic = "General"

// FallbackAnswer is appended instead of an answer when a call fails
const FallbackAnswer = "Sorry, I encountered an error. Please try again."

// Suggestions are example questions shown in an empty breed chat
var Suggestions = []string{
	"What foods help with joint health?",
	"What portion sizes are recommended?",
}

// Role is who wrote a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a chat history
type Message struct {
	Role    Role
	Content string
}

// Asker is the transport call a chat needs. *petpalapi.Client satisfies it.
type Asker interface {
	AskChatbot(ctx context.Context, breed, question string) (*petpalapi.ChatbotResponse, error)
}

// Session is an append-only conversation about one fixed topic. A new
// Session is created for every new breed result or mode switch; histories
// are never carried over.
type Session struct {
	mu       sync.Mutex
	id       string
	topic    string
	asker    Asker
	messages []Message
	waiting  bool
}

// NewSession starts an empty conversation about topic
func NewSession(asker Asker, topic string) *Session {
	return &Session{
		id:    uuid.NewString(),
		topic: topic,
		asker: asker,
	}
}

// NewGeneralSession starts an empty general-chat conversation
func NewGeneralSession(asker Asker) *Session {
	return NewSession(asker, GeneralTopic)
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Topic returns the breed this session is about
func (s *Session) Topic() string {
	return s.topic
}

// IsGeneral reports whether this is the general-chat session
func (s *Session) IsGeneral() bool {
	return s.topic == GeneralTopic
}

// Title returns the panel heading
func (s *Session) Title() string {
	if s.IsGeneral() {
		return "PetPal Assistant"
	}
	return fmt.Sprintf("Nutrition Assistant for %s", s.topic)
}

// Placeholder returns the text shown before the first message
func (s *Session) Placeholder() string {
	if s.IsGeneral() {
		return "Ask me anything about dog nutrition, health or care!"
	}
	return fmt.Sprintf("Ask me anything about %s nutrition!", s.topic)
}

// Messages returns a copy of the history
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Waiting reports whether a question is awaiting its answer
func (s *Session) Waiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// Question is a submitted question whose answer has not arrived yet
type Question struct {
	SessionID string
	Topic     string
	Text      string

	asker Asker
}

// Reply is the answer (or failure) for one Question
type Reply struct {
	SessionID string
	Answer    string
	Err       error
	Elapsed   time.Duration
}

// Submit appends the user's question and returns the call to run. Blank
// input, or a submit while an answer is pending, returns nil and changes
// nothing.
func (s *Session) Submit(text string) *Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" || s.waiting {
		return nil
	}

	s.messages = append(s.messages, Message{Role: RoleUser, Content: text})
	s.waiting = true

	return &Question{
		SessionID: s.id,
		Topic:     s.topic,
		Text:      text,
		asker:     s.asker,
	}
}

// Run performs one chatbot call. No history is sent. It does not touch the
// session, so it may run in the background.
func (q *Question) Run(ctx context.Context) Reply {
	start := time.Now()
	resp, err := q.asker.AskChatbot(ctx, q.Topic, q.Text)

	reply := Reply{SessionID: q.SessionID, Err: err, Elapsed: time.Since(start)}
	if err == nil && resp != nil {
		reply.Answer = resp.Answer
	} else if err == nil {
		reply.Err = fmt.Errorf("empty chatbot response")
	}
	return reply
}

// Resolve appends the answer, or FallbackAnswer on failure. Replies for a
// different session are ignored and Resolve reports false.
func (s *Session) Resolve(reply Reply) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reply.SessionID != s.id {
		return false
	}

	s.waiting = false

	content := reply.Answer
	if reply.Err != nil {
		logging.Warn("Chatbot call failed",
			zap.String("chat_id", s.id),
			zap.String("topic", s.topic),
			zap.Error(reply.Err),
		)
		content = FallbackAnswer
	}

	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: content})
	return true
}

// Ask submits, runs and resolves one question synchronously. It returns the
// appended assistant message, or false when the question was ignored.
func (s *Session) Ask(ctx context.Context, text string) (Message, bool) {
	q := s.Submit(text)
	if q == nil {
		return Message{}, false
	}
	s.Resolve(q.Run(ctx))

	msgs := s.Messages()
	return msgs[len(msgs)-1], true
}
