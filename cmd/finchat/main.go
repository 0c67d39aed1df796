package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"finchat/internal/agent"
	"finchat/internal/analyzer"
	"finchat/internal/config"
	"finchat/internal/domain"
	"finchat/internal/logger"
	"finchat/internal/store"
)

func main() {
	log := logger.New()

	userID := flag.String("user", "demo", "user id to chat as")
	dbPath := flag.String("db", "", "override the SQLite database path")
	flag.Parse()

	cfg := config.Load()
	if *dbPath != "" {
		cfg.SQLiteDBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer st.Close()

	ctx := logger.WithContext(context.Background(), log)

	if err := ensureUser(ctx, st, *userID); err != nil {
		log.Fatal().Err(err).Str("user", *userID).Msg("Failed to prepare user")
	}

	model, err := analyzer.NewGemini(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	session := agent.NewSession(*userID, st, model, log,
		agent.WithHistorySize(cfg.HistorySize),
		agent.WithTimeout(cfg.RequestTimeout),
	)

	runChat(ctx, session, log)
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DataBackend {
	case "memory":
		return store.NewMemory(), nil
	default:
		return store.NewSQLite(cfg.SQLiteDBPath)
	}
}

// ensureUser creates the user on first run so the chat works out of the box.
func ensureUser(ctx context.Context, st store.Store, userID string) error {
	if _, err := st.GetUser(ctx, userID); err == nil {
		return nil
	}
	return st.CreateUser(ctx, &domain.User{
		ID:        userID,
		Name:      userID,
		CreatedAt: time.Now(),
	})
}

func runChat(ctx context.Context, session *agent.Session, log zerolog.Logger) {
	fmt.Println("finchat, seu assistente financeiro. Digite \"sair\" para encerrar.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "sair" || line == "exit" {
			break
		}

		resp, err := session.ProcessCommand(ctx, line)
		if err != nil {
			log.Error().Err(err).Msg("Turn failed")
			fmt.Printf("Erro: %s\n\n", domain.UserMessage(err))
			continue
		}

		fmt.Println(resp.Message)
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("Input error")
		os.Exit(1)
	}
}
