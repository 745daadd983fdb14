package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/atinylittleshell/typeahead/internal/config"
	"github.com/atinylittleshell/typeahead/internal/sources"
	"github.com/atinylittleshell/typeahead/pkg/debounce"
	"github.com/atinylittleshell/typeahead/pkg/keybus"
	"github.com/atinylittleshell/typeahead/pkg/typeahead"
)

var BUILD_VERSION = "dev"

var configFile = flag.String("config", "", "use a custom config file instead of ~/.config/typeahead/config.yaml")
var rootDir = flag.String("dir", ".", "directory served by the @ file trigger")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Println("Usage of typeahead:")
		flag.PrintDefaults()
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "typeahead: stdin is not a terminal")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := initializeLogger()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flush any buffered log entries
	}()

	logger.Info("-------- new typeahead session --------", zap.Any("args", os.Args))

	store, err := initializeSelectionStore()
	if err != nil {
		logger.Error("failed to open selection store", zap.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	if err := run(cfg, store, logger); err != nil {
		logger.Error("unhandled error", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, store *sources.SelectionStore, logger *zap.Logger) error {
	keybus.Default.Start()
	defer keybus.Default.Stop()

	dismissed := keybus.Default.Subscribe("esc", func() {
		logger.Debug("escape pressed")
	})
	defer dismissed.Cancel()

	input, err := typeahead.New(typeahead.Config{
		Triggers:         buildTriggers(cfg, store, logger),
		LoadingComponent: func() string { return "loading..." },
		MinChar:          cfg.MinChar,
		OnChange:         draftSaver(logger),
		OnSelect: func(trigger rune, c typeahead.Candidate) {
			if err := store.RecordSelection(trigger, c.Value); err != nil {
				logger.Warn("failed to record selection", zap.Error(err))
			}
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	input.Focus()

	p := tea.NewProgram(appModel{input: input}, tea.WithOutput(termenv.DefaultOutput()))
	final, err := p.Run()
	if err != nil {
		return err
	}

	if app, ok := final.(appModel); ok && app.submitted {
		fmt.Println(app.input.Value())
	}
	return nil
}

// buildTriggers wires a data source behind every trigger character the demo
// supports. The # trigger is fed entirely from previously accepted values.
func buildTriggers(cfg config.Config, store *sources.SelectionStore, logger *zap.Logger) map[rune]typeahead.Trigger {
	renderValue := func(c typeahead.Candidate) string { return c.Value }

	emoji := sources.NewStaticSource(emojiCandidates(), 10)
	files := sources.NewFileSource(*rootDir, 10)
	tags := sources.NewHistorySource(store, '#', cfg.SelectionHistoryLimit)

	triggers := map[rune]typeahead.Trigger{
		':': {
			Fetch:  emoji.Fetch,
			Render: renderValue,
		},
		'@': {
			Fetch:  files.Fetch,
			Render: renderValue,
			Format: func(c typeahead.Candidate, trigger rune) string {
				return string(trigger) + c.Value
			},
		},
		'#': {
			Fetch:  tags.Fetch,
			Render: renderValue,
			Format: func(c typeahead.Candidate, trigger rune) string {
				return string(trigger) + c.Value
			},
		},
	}

	if cfg.LLMEnabled {
		client, llmConfig := sources.NewLLMClient(cfg.LLM)
		llm := sources.NewLLMSource(client, llmConfig, "single words that complete the fragment", 5, logger)
		triggers['/'] = typeahead.Trigger{
			Fetch:  llm.Fetch,
			Render: renderValue,
			Format: func(c typeahead.Candidate, trigger rune) string {
				return c.Value
			},
		}
	}

	return triggers
}

// draftSaver persists the buffer to a draft file, debounced so a typing
// burst produces a single write.
func draftSaver(logger *zap.Logger) func(typeahead.ChangeEvent) {
	var mu sync.Mutex
	var latest string

	save := debounce.Debounce(500*time.Millisecond, func() {
		dataDir, err := config.DataDir()
		if err != nil {
			logger.Warn("failed to resolve draft location", zap.Error(err))
			return
		}
		mu.Lock()
		content := latest
		mu.Unlock()
		if err := os.WriteFile(filepath.Join(dataDir, "draft.txt"), []byte(content), 0644); err != nil {
			logger.Warn("failed to save draft", zap.Error(err))
		}
	})

	return func(e typeahead.ChangeEvent) {
		mu.Lock()
		latest = e.Value
		mu.Unlock()
		save()
	}
}

func loadConfig() (config.Config, error) {
	path := *configFile
	if path == "" {
		var err error
		path, err = config.ConfigFile()
		if err != nil {
			return config.Default(), err
		}
	}
	return config.Load(path)
}

func initializeLogger() (*zap.Logger, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}

	loggerConfig := zap.NewProductionConfig()
	if BUILD_VERSION == "dev" {
		loggerConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	loggerConfig.OutputPaths = []string{
		filepath.Join(dataDir, "typeahead.log"),
	}
	return loggerConfig.Build()
}

func initializeSelectionStore() (*sources.SelectionStore, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	return sources.NewSelectionStore(filepath.Join(dataDir, "selections.db"))
}

var helpStyle = lipgloss.NewStyle().Faint(true)

// appModel hosts the typeahead input and its suggestion list in a small
// full-line program.
type appModel struct {
	input     typeahead.Model
	width     int
	height    int
	submitted bool
}

func (m appModel) Init() tea.Cmd {
	return m.input.Cursor.BlinkCmd()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		keybus.Default.Dispatch(msg.String())

		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit
		case "enter":
			// Enter submits once no suggestion session is in flight.
			if !m.input.SessionActive() {
				m.submitted = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	if box := m.input.SuggestionBoxView(6, m.width); box != "" {
		sb.WriteString(box)
		sb.WriteString("\n")
	}

	sb.WriteString(helpStyle.Render("type : @ or # to trigger suggestions, enter to submit, ctrl+c to quit"))
	return sb.String()
}

func emojiCandidates() []typeahead.Candidate {
	names := map[string]string{
		"happy":      "😄",
		"sad":        "😢",
		"heart":      "❤️",
		"fire":       "🔥",
		"rocket":     "🚀",
		"thumbsup":   "👍",
		"thumbsdown": "👎",
		"tada":       "🎉",
		"eyes":       "👀",
		"thinking":   "🤔",
		"wave":       "👋",
		"clap":       "👏",
		"sparkles":   "✨",
		"bug":        "🐛",
		"check":      "✅",
		"warning":    "⚠️",
	}

	candidates := make([]typeahead.Candidate, 0, len(names))
	for name, glyph := range names {
		candidates = append(candidates, typeahead.Candidate{
			Value:       name,
			Display:     glyph + " " + name,
			Description: glyph,
		})
	}
	return candidates
}
