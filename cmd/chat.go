package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/pricing"
	"github.com/theirongolddev/pricecraft/internal/recommend"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the pricing assistant in the terminal",
	Long: "Describe your product to the AI pricing assistant, then type /recommend\n" +
		"to turn the conversation into calculator inputs.",
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// chatSession holds the state of one REPL run.
type chatSession struct {
	ctx    context.Context
	conv   *recommend.Conversation
	rec    *recommend.Reconciler
	engine *pricing.Engine
}

func runChat(cmd *cobra.Command, _ []string) error {
	backend := newBackend(cmd.Context())
	s := &chatSession{
		ctx:    cmd.Context(),
		conv:   recommend.NewConversation(backend),
		rec:    recommend.NewReconciler(backend, defaultInputs()),
		engine: newEngine(),
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PRICECRAFT  Pricing Assistant"))
	fmt.Println()
	if !backend.Available() {
		if u, ok := backend.(recommend.Unavailable); ok && u.Why != "" {
			fmt.Printf("  Assistant unavailable: %s\n", u.Why)
		}
		fmt.Println("  /recommend will return default values you can adjust.")
	} else {
		s.say(recommend.OpeningMessage)
	}
	fmt.Println(cli.Muted("  Commands: /recommend /price /defaults /reset /save NAME /quit"))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("  you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if done := s.command(line, backend.Available()); done {
				return nil
			}
			continue
		}
		if !backend.Available() {
			fmt.Println("  The assistant is not configured. Try /recommend or run pricecraft setup.")
			continue
		}
		s.say(line)
	}
}

// say sends one message and prints the reply.
func (s *chatSession) say(text string) {
	ctx, cancel := context.WithTimeout(s.ctx, aiTimeout())
	defer cancel()
	ctx = logging.WithConversation(ctx, s.conv.ID())

	reply, err := s.conv.Send(ctx, text)
	if err != nil {
		logging.FromContext(ctx).Warn("chat failed", logging.Error(err))
		fmt.Printf("  Error: %v\n\n", err)
		return
	}
	fmt.Println()
	for _, l := range strings.Split(reply, "\n") {
		fmt.Printf("  %s\n", l)
	}
	fmt.Println()
}

// command runs a slash command and reports whether the REPL should exit.
func (s *chatSession) command(line string, available bool) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit", "/q":
		return true

	case "/recommend", "/r":
		ctx, cancel := context.WithTimeout(s.ctx, aiTimeout())
		defer cancel()
		ctx = logging.WithConversation(ctx, s.conv.ID())

		if available {
			fmt.Println(cli.Muted("  Working out a recommendation..."))
		}
		rec := <-s.rec.RecommendAsync(ctx, s.conv)
		printRecommendation(rec)
		if _, err := s.rec.Accept(rec); err != nil {
			fmt.Printf("  Could not apply recommendation: %v\n", err)
			return false
		}
		s.printReport()

	case "/price", "/p":
		s.printReport()

	case "/defaults":
		s.rec.ResetToDefaults()
		fmt.Println("  Back to default values.")
		s.printReport()

	case "/reset":
		s.conv.Reset()
		fmt.Println("  Started a new conversation.")

	case "/save":
		if arg == "" {
			fmt.Println("  Usage: /save NAME")
			return false
		}
		st, err := openPresets()
		if err != nil {
			fmt.Printf("  %v\n", err)
			return false
		}
		defer st.Close()
		p, err := st.Save(arg, s.rec.Working(), "")
		if err != nil {
			fmt.Printf("  Could not save: %v\n", err)
			return false
		}
		fmt.Printf("  Saved %q\n", p.Name)

	default:
		fmt.Println("  Commands: /recommend /price /defaults /reset /save NAME /quit")
	}
	return false
}

func (s *chatSession) printReport() {
	in := s.rec.Working()
	fmt.Println()
	fmt.Print(cli.RenderReport(currency(), in, s.engine.Calculate(in)))
	fmt.Println()
}

func printRecommendation(rec recommend.Recommendation) {
	fmt.Println()
	if rec.IsDefault() {
		fmt.Println("  Default values (not an AI recommendation)")
		if rec.Reason != nil {
			fmt.Printf("  %s\n", cli.Muted(rec.Reason.Error()))
		}
	} else {
		fmt.Println("  AI recommendation")
	}
	for _, l := range strings.Split(rec.Explanation, "\n") {
		fmt.Printf("  %s\n", l)
	}
}
