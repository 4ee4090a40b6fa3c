package tui

import (
	"context"
	"time"

	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/pricing"
	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// chatReplyMsg reports the end of an assistant turn. The reply itself is
// already in the conversation.
type chatReplyMsg struct {
	err error
}

// recommendationMsg carries a recommendation, AI or fallback.
type recommendationMsg struct {
	rec recommend.Recommendation
}

type presetsLoadedMsg struct {
	presets []store.Preset
	err     error
}

type presetSavedMsg struct {
	preset store.Preset
	err    error
}

type presetDeletedMsg struct {
	name string
	err  error
}

// sendChatCmd sends one user message in a background goroutine.
func sendChatCmd(conv *recommend.Conversation, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = logging.WithConversation(ctx, conv.ID())

		_, err := conv.Send(ctx, text)
		if err != nil {
			logging.FromContext(ctx).Warn("chat failed", logging.Error(err))
		}
		return chatReplyMsg{err: err}
	}
}

// recommendCmd asks for a recommendation. It always yields a
// recommendationMsg; failures arrive as marked fallbacks.
func recommendCmd(rec *recommend.Reconciler, conv *recommend.Conversation, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = logging.WithConversation(ctx, conv.ID())
		return recommendationMsg{rec: <-rec.RecommendAsync(ctx, conv)}
	}
}

func loadPresetsCmd(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := s.List()
		return presetsLoadedMsg{presets: list, err: err}
	}
}

func savePresetCmd(s *store.Store, name string, in pricing.Inputs) tea.Cmd {
	return func() tea.Msg {
		p, err := s.Save(name, in, "")
		return presetSavedMsg{preset: p, err: err}
	}
}

func deletePresetCmd(s *store.Store, name string) tea.Cmd {
	return func() tea.Msg {
		return presetDeletedMsg{name: name, err: s.Delete(name)}
	}
}
