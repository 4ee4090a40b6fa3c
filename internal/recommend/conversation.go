package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/theirongolddev/pricecraft/internal/logging"
)

// Conversation is the chat history with the pricing advisor.
type Conversation struct {
	chatter Chatter

	mu       sync.Mutex
	id       string
	messages []Message
}

// NewConversation starts a conversation seeded with the advisor prompt.
func NewConversation(chatter Chatter) *Conversation {
	c := &Conversation{chatter: chatter}
	c.Reset()
	return c
}

// Reset drops every turn but the system prompt and assigns a new ID.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = uuid.NewString()
	c.messages = []Message{{Role: RoleSystem, Content: AdvisorPrompt}}
}

// Send records text as a user turn, asks the chatter for a reply and
// records it. On failure the user turn stays recorded.
func (c *Conversation) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty message")
	}

	c.mu.Lock()
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
	history := append([]Message(nil), c.messages...)
	id := c.id
	c.mu.Unlock()

	ctx = logging.WithConversation(ctx, id)
	log := logging.FromContext(ctx)

	if c.chatter == nil {
		return "", ErrUnavailable
	}

	reply, err := c.chatter.Chat(ctx, history)
	if err != nil {
		log.Warn("chat failed", logging.Error(err))
		return "", fmt.Errorf("chat: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		log.Warn("chat returned no content")
		return "", fmt.Errorf("chat: %w: empty reply", ErrUnavailable)
	}

	c.mu.Lock()
	// A Reset during the call discards the reply.
	if c.id == id {
		c.messages = append(c.messages, Message{Role: RoleAssistant, Content: reply})
	}
	c.mu.Unlock()

	log.Debug("chat reply recorded", logging.Int("turns", c.Turns()))
	return reply, nil
}

// ID identifies the conversation in logs.
func (c *Conversation) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Turns is the number of recorded messages, system prompt included.
func (c *Conversation) Turns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Summary renders the history for a recommendation request.
func (c *Conversation) Summary() string {
	return Summarize(c.Messages())
}
