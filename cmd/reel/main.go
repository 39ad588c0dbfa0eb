package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jharlow/reel/internal/api"
	"github.com/jharlow/reel/internal/config"
	"github.com/jharlow/reel/internal/log"
	"github.com/jharlow/reel/internal/player"
	"github.com/jharlow/reel/internal/service"
	"github.com/jharlow/reel/internal/store"
	"github.com/jharlow/reel/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var startView string
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&startView, "view", "", "encoded view state to open at startup")
	flag.Parse()

	if showVersion {
		fmt.Printf("reel %s\n", Version)
		return
	}

	if err := run(startView); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(startView string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("reel needs an interactive terminal")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting reel", "version", Version)

	if !cfg.HasServer() {
		return runServerPrompt(cfg)
	}

	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, logger)

	st, err := store.New(config.GetCachePath(), cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer st.Close()

	librarySvc := service.NewLibraryService(client, st, logger)
	searchSvc := service.NewSearchService(client, logger)
	sessionSvc := service.NewSessionService(client, logger)

	surface := player.NewMPVSurface(cfg.Player.Command, cfg.Player.Args, logger)
	defer surface.Close()

	machine := player.NewMachine(player.NewState(), surface, client.StreamManifestURL, logger)

	model := tui.NewModel(librarySvc, searchSvc, sessionSvc, machine, surface.Events(), startView)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runServerPrompt captures the server URL on first run
func runServerPrompt(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Reel!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your server URL (e.g., http://192.168.1.100:8000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		serverURL := strings.TrimRight(strings.TrimSpace(input), "/")
		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}
		if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
			serverURL = "http://" + serverURL
		}

		cfg.Server.URL = serverURL
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run reel again to start the application.")
	return nil
}
