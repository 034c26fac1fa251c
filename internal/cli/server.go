package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dinariox/quiz-conquest-backend/internal/app"
	"github.com/dinariox/quiz-conquest-backend/internal/config"
	"github.com/dinariox/quiz-conquest-backend/internal/domain"
	"github.com/dinariox/quiz-conquest-backend/internal/infra/file"
	"github.com/dinariox/quiz-conquest-backend/internal/infra/memory"
	pgboard "github.com/dinariox/quiz-conquest-backend/internal/infra/postgres"
	redisstore "github.com/dinariox/quiz-conquest-backend/internal/infra/redis"
	transport "github.com/dinariox/quiz-conquest-backend/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	var recoverMode bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, recoverMode)
		},
	}
	cmd.Flags().BoolVar(&recoverMode, "recover", false, "restore board and scores from the last game state snapshot")
	return cmd
}

// SnapshotStore is what the server needs from a persistence backend: best
// effort writes on question completion, reads for recover mode.
type SnapshotStore interface {
	Save(ctx context.Context, state domain.GameState) error
	Load(ctx context.Context) (domain.GameState, error)
}

func runServer(ctx context.Context, configPath, portFlag string, recoverMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "3000"
	}
	dataDir := cfg.Server.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	publicDir := cfg.Server.PublicDir
	if publicDir == "" {
		publicDir = "public"
	}

	boardStore := file.NewBoardStore(filepath.Join(dataDir, "questions.json"))
	var loader memory.BoardLoader = boardStore
	var saver transport.BoardSaver = boardStore

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		boardID := cfg.Postgres.BoardID
		if boardID == "" {
			boardID = "default"
		}
		loader = pgboard.NewBoardLoader(pool, boardID)
		// The boards table is maintained out of band; the editor cannot
		// write through it.
		saver = nil
	}
	boards := memory.NewBoardRepository(loader, config.TTLDuration(cfg.Board.TTL, 5*time.Minute))

	var snapshots SnapshotStore = file.NewSnapshotStore(filepath.Join(dataDir, "gameState.json"))
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		snapshots = redisstore.NewSnapshotStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 0))
	}

	// Board load failure is fatal at startup; the match cannot run without
	// questions. Runtime reload failures keep the prior board.
	var categories []domain.Category
	if recoverMode {
		state, err := snapshots.Load(ctx)
		if err != nil {
			return err
		}
		categories = state.Categories
		for _, p := range state.Players {
			log.Printf("recovered score: %s: %d", p.Name, p.Score)
		}
		log.Printf("recovered game state with %d categories", len(categories))
	} else {
		categories, err = boards.GetBoard(ctx)
		if err != nil {
			return err
		}
	}

	gameCfg := app.Config{
		RotationTick:     config.TTLDuration(cfg.Game.RotationTick, 250*time.Millisecond),
		RotationMinTicks: cfg.Game.RotationMinTicks,
		RotationMaxTicks: cfg.Game.RotationMaxTicks,
	}

	hub := transport.NewHub()
	game := app.New(gameCfg, categories, hub, snapshots)

	gameCtx, stopGame := context.WithCancel(ctx)
	defer stopGame()
	go game.Run(gameCtx)

	wsHandler := transport.NewWSHandler(game, hub)
	boardHandler := transport.NewBoardHandler(game, boards, saver, publicDir)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/load-questions", boardHandler.LoadQuestions)
	mux.HandleFunc("/save-questions", boardHandler.SaveQuestions)
	mux.HandleFunc("/upload-image", boardHandler.UploadImage)
	mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir(publicDir))))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz-conquest server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}
	stopGame()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
