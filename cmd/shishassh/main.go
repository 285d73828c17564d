// Package main implements the SSH server that serves the storefront TUI.
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	gossh "golang.org/x/crypto/ssh"

	"github.com/thomas/shisha-terminal-go/internal/auth"
	"github.com/thomas/shisha-terminal-go/internal/config"
	applog "github.com/thomas/shisha-terminal-go/internal/logging"
	"github.com/thomas/shisha-terminal-go/internal/store"
	"github.com/thomas/shisha-terminal-go/internal/tui"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}

	// The server owns stderr, so logs go there unless LOG_FILE is set.
	logger, closer, err := openLogger(cfg)
	if err != nil {
		log.Fatal("Failed to open logger", "err", err)
	}
	defer closer.Close()

	// Ensure host key exists
	if err := ensureHostKey(logger, cfg.SSHHostKeyPath); err != nil {
		logger.Fatal("Failed to ensure host key", "err", err)
	}

	// Load allowlist if in allowlist mode
	var allowlist *auth.Allowlist
	if cfg.SSHAuthMode == config.AuthModeAllowlist {
		allowlist, err = auth.LoadAllowlist(cfg.AllowlistPath)
		if err != nil {
			if errors.Is(err, auth.ErrAllowlistNotFound) {
				logger.Info("Creating empty allowlist", "path", cfg.AllowlistPath)
				if err := auth.CreateEmptyAllowlist(cfg.AllowlistPath); err != nil {
					logger.Fatal("Failed to create allowlist", "err", err)
				}
				logger.Info("Please add your SSH public key to the allowlist and restart")
				os.Exit(1)
			}
			logger.Fatal("Failed to load allowlist", "err", err)
		}
		for _, line := range allowlist.Skipped {
			logger.Warn("Skipping unparseable allowlist entry", "path", cfg.AllowlistPath, "line", line)
		}
		if allowlist.Len() == 0 {
			logger.Warn("Allowlist is empty. No connections will be accepted.", "path", cfg.AllowlistPath)
		}
		logger.Info("Loaded allowlist", "keys", allowlist.Len())
	} else {
		logger.Warn("Running in PUBLIC mode - anyone can connect!")
		logger.Warn("This is NOT safe for internet-facing servers.")
	}

	promos, err := cfg.Promos()
	if err != nil {
		logger.Fatal("Invalid promo codes", "err", err)
	}

	// One backend shared by every session; each user gets their own slot.
	storeCtx, stopStore := context.WithCancel(context.Background())
	defer stopStore()

	backend, err := cfg.OpenStore(storeCtx)
	if err != nil {
		logger.Fatal("Failed to open cart store", "err", err)
	}
	if c, ok := backend.(io.Closer); ok {
		defer c.Close()
	}

	source, err := cfg.OpenCatalog()
	if err != nil {
		logger.Fatal("Failed to open catalog", "err", err)
	}

	policy := cfg.Policy()
	opts := tui.Options{
		Policy:            &policy,
		Promos:            promos,
		OpenMiniCartOnAdd: cfg.OpenMiniCartOnAdd,
	}

	// Create SSH server options
	serverOpts := []ssh.Option{
		wish.WithAddress(cfg.SSHAddr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				slotKey := auth.SlotKey(s.PublicKey(), cfg.CartSlot)
				sessionOpts := opts
				sessionOpts.Logger = logger.With("user", s.User(), "slot", slotKey)
				model := tui.NewModel(s.Context(), store.Slot(backend, slotKey), source, sessionOpts)
				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
	}

	// Add authentication based on mode
	if cfg.SSHAuthMode == config.AuthModeAllowlist {
		serverOpts = append(serverOpts, wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			return allowlist.Allows(key)
		}))
	} else {
		// Public mode - accept any public key
		serverOpts = append(serverOpts, wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			return true
		}))
	}

	// Always disable password auth
	serverOpts = append(serverOpts, wish.WithPasswordAuth(func(ctx ssh.Context, password string) bool {
		return false
	}))

	// Create SSH server
	server, err := wish.NewServer(serverOpts...)
	if err != nil {
		logger.Fatal("Failed to create SSH server", "err", err)
	}

	// Handle shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", cfg.SSHAddr, "auth", cfg.SSHAuthMode, "store", cfg.Store, "catalog", cfg.Catalog)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("Server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "err", err)
	}
}

func openLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	if cfg.LogFile != "" {
		return applog.Open(cfg.LogFile, cfg.LogLevel)
	}
	logger, err := applog.New(os.Stderr, cfg.LogLevel)
	return logger, io.NopCloser(nil), err
}

// ensureHostKey generates an ED25519 host key if it doesn't exist.
func ensureHostKey(logger *log.Logger, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	logger.Info("Generating new ED25519 host key", "path", path)

	pubKey, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	// Convert to OpenSSH format
	sshPrivKey, err := gossh.MarshalPrivateKey(privKey, "")
	if err != nil {
		return fmt.Errorf("marshaling private key: %w", err)
	}

	if err := os.WriteFile(path, pem.EncodeToMemory(sshPrivKey), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}

	sshPubKey, err := gossh.NewPublicKey(pubKey)
	if err != nil {
		return fmt.Errorf("creating public key: %w", err)
	}

	if err := os.WriteFile(path+".pub", gossh.MarshalAuthorizedKey(sshPubKey), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	return nil
}
