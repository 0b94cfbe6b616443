package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/EmpoweredVote/EV-Todo/internal/auth"
	"github.com/EmpoweredVote/EV-Todo/internal/config"
	"github.com/EmpoweredVote/EV-Todo/internal/logger"
	"github.com/EmpoweredVote/EV-Todo/internal/server"
)

var (
	version = "dev"
	cli     struct {
		Version      kong.VersionFlag
		Serve        ServeCmd        `cmd:"" default:"1" help:"Start the todo API server."`
		HashPassword HashPasswordCmd `cmd:"" help:"Print a bcrypt hash for a password read from stdin."`
	}
)

type ServeCmd struct {
	Config string `help:"Path to a YAML config file." type:"path" env:"CONFIG_FILE"`
}

func (c *ServeCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	log := logger.Setup(cfg.Dev)

	stores, err := server.OpenStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Type, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	handler, err := server.New(cfg, stores, log, server.Options{})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", string(cfg.Store.Type)).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

type HashPasswordCmd struct {
	Cost int `help:"bcrypt cost." default:"10"`
}

func (c *HashPasswordCmd) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return err
		}
		return errors.New("no password on stdin")
	}
	password := strings.TrimRight(scanner.Text(), "\r\n")

	hash, err := auth.BcryptHasher{Cost: c.Cost}.Hash(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func main() {
	_ = godotenv.Load(".env.local")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("todo-server"),
		kong.Description("Todo API with cookie sessions."),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)))
	cmd.FatalIfErrorf(cmd.Run())
}
