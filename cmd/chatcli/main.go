package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/peterh/liner"

	"github.com/zhouzirui/mingginyu/backend/internal/config"
	modelchat "github.com/zhouzirui/mingginyu/backend/internal/model/chat"
	"github.com/zhouzirui/mingginyu/backend/internal/model/persona"
	"github.com/zhouzirui/mingginyu/backend/internal/service/ai"
	"github.com/zhouzirui/mingginyu/backend/internal/service/chat"
	"github.com/zhouzirui/mingginyu/backend/internal/service/sentiment"
	"github.com/zhouzirui/mingginyu/backend/pkg/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F4A261")).
			Bold(true)
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2A9D8F")).
			Bold(true)
	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E9C46A")).
			Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E76F51")).Bold(true)
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var annotator *sentiment.Annotator
	if cfg.Sentiment.Enabled {
		annotator = sentiment.NewAnnotator(sentiment.NewBuilder(*cfg))
	}

	personas := persona.NewFileStore(cfg.Persona.Dir)
	session := chat.NewSession("cli", chat.Settings{
		PersonaID: cfg.Persona.DefaultID,
		Model:     cfg.AI.ModelName(),
		APIKey:    cfg.AI.APIKey(),
	}, chat.Deps{
		Personas:  personas,
		Backends:  ai.NewBackendFactory(cfg.AI),
		Annotator: annotator,
	})

	ctx := context.Background()
	if err := session.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}

	if err := run(ctx, session, cfg.Display); err != nil {
		log.Fatalf("chat failed: %v", err)
	}
}

func run(ctx context.Context, session *chat.Session, display config.DisplayConfig) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		renderer = nil
	}

	p := session.Persona()
	fmt.Println(titleStyle.Render(p.Name + " " + p.Title))
	if p.OpeningLine != "" {
		fmt.Println(botStyle.Render(p.Name+">"), p.OpeningLine)
	}
	fmt.Println(dimStyle.Render("/reset 새 대화, /history 대화 보기, /quit 종료"))

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case "/quit", "/exit":
			return nil
		case "/reset":
			if err := session.Start(ctx); err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
				continue
			}
			fmt.Println(dimStyle.Render("새 대화를 시작했어."))
			continue
		case "/history":
			printTranscript(session.Transcript(), p.Name, renderer)
			continue
		}

		if err := converse(ctx, session, input, p.Name, display, renderer); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		}
	}
}

// converse submits one turn and types the reply out word by word.
func converse(ctx context.Context, session *chat.Session, input, name string, display config.DisplayConfig, renderer *glamour.TermRenderer) error {
	turnCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	reply, err := session.Submit(turnCtx, input)
	if err != nil {
		return err
	}

	prefix := botStyle.Render(name + ">")
	final, err := utils.TypeOut(turnCtx, reply.Text, display.TypingDelay, func(_, partial string) error {
		fmt.Printf("\r\033[K%s %s%s", prefix, partial, utils.Cursor)
		return nil
	})
	fmt.Print("\r\033[K")
	if err != nil {
		fmt.Println(prefix, reply.Text)
		return nil
	}
	fmt.Println(prefix)
	fmt.Print(renderMarkdown(renderer, final))
	return nil
}

func printTranscript(turns []modelchat.Turn, name string, renderer *glamour.TermRenderer) {
	if len(turns) == 0 {
		fmt.Println(dimStyle.Render("아직 대화가 없어."))
		return
	}
	for _, turn := range turns {
		if turn.Role == modelchat.RoleUser {
			fmt.Println(userStyle.Render("you>"), turn.Display())
			continue
		}
		fmt.Println(botStyle.Render(name + ">"))
		fmt.Print(renderMarkdown(renderer, turn.Display()))
	}
}

func renderMarkdown(renderer *glamour.TermRenderer, content string) string {
	if renderer == nil {
		return content + "\n"
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}
