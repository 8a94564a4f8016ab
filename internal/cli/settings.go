package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/limbo/ceoos/internal/identity"
	"github.com/limbo/ceoos/internal/journal"
	"github.com/limbo/ceoos/internal/keychain"
	"github.com/limbo/ceoos/internal/local"
	"github.com/limbo/ceoos/internal/remote"
	"github.com/limbo/ceoos/pkg/config"
)

// Globals are the flags shared by every command. Non-empty flags override
// the config file.
type Globals struct {
	Config   string        `help:"YAML config file." type:"path" default:"~/.config/ceoos/config.yaml" env:"CEOOS_CONFIG"`
	Mode     string        `help:"Journal storage, local or remote." env:"CEOOS_MODE"`
	Server   string        `help:"Row-store API base URL." env:"CEOOS_SERVER"`
	DataDir  string        `help:"Directory for local data and logs." type:"path" env:"CEOOS_DATA_DIR"`
	Store    string        `help:"Local blob store, file or sqlite." env:"CEOOS_STORE"`
	Timezone string        `help:"IANA zone deciding calendar days." env:"CEOOS_TZ"`
	Timeout  time.Duration `help:"Timeout of one command." default:"30s"`
	Debug    bool          `help:"Also log to stderr."`
}

type Settings struct {
	Mode     string `yaml:"mode" validate:"oneof=local remote"`
	Server   string `yaml:"server,omitempty" validate:"omitempty,url"`
	DataDir  string `yaml:"data_dir" validate:"required"`
	Store    string `yaml:"store" validate:"oneof=file sqlite"`
	Timezone string `yaml:"timezone,omitempty" validate:"omitempty,timezone"`
}

func DefaultSettings() Settings {
	dir := ".ceoos"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".local", "share", "ceoos")
	}
	return Settings{Mode: ModeLocal, DataDir: dir, Store: "file"}
}

// Resolve layers defaults, the config file and the flags, then validates
// the result.
func (g Globals) Resolve() (Settings, error) {
	s := DefaultSettings()
	if err := config.LoadFile(g.Config, &s); err != nil {
		return Settings{}, err
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&s.Mode, g.Mode)
	override(&s.Server, g.Server)
	override(&s.DataDir, g.DataDir)
	override(&s.Store, g.Store)
	override(&s.Timezone, g.Timezone)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.Mode == ModeRemote && s.Server == "" {
		return errors.New("invalid settings: remote mode needs a server")
	}
	return nil
}

func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// Open builds the command context for s. The returned function releases
// the journal and flushes local data.
func Open(ctx context.Context, s Settings, logger *slog.Logger, timeout time.Duration) (*Context, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := s.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("loading timezone: %w", err)
	}
	c := &Context{
		Mode:     s.Mode,
		Settings: s,
		Now:      time.Now,
		Location: loc,
		Timeout:  timeout,
		Logger:   logger,
		Out:      os.Stdout,
	}
	opts := []journal.Option{journal.WithLocation(loc), journal.WithLogger(logger)}

	if s.Mode == ModeRemote {
		c.Session = identity.NewSession(logger)
		store := keychain.New(keychain.Service)
		c.Sessions = store
		if user, err := store.Load(); err == nil {
			c.Session.SignIn(ctx, user)
		} else if !errors.Is(err, keychain.ErrNotFound) {
			logger.Warn("session not restored", slog.String("error", err.Error()))
		}
		c.Auth = remote.NewAuthClient(s.Server)
		c.Journal = journal.NewRemote(remote.NewClient(s.Server, c.Session), c.Session, opts...)
		return c, func() error {
			c.Journal.Close()
			return nil
		}, nil
	}

	blobs, closeBlobs, err := openBlobStore(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	c.Container = local.New(blobs, local.WithLogger(logger))
	if err := c.Container.Open(ctx); err != nil {
		_ = closeBlobs()
		return nil, nil, err
	}
	c.Journal = journal.NewLocal(c.Container, opts...)
	return c, func() error {
		return errors.Join(c.Container.Close(), closeBlobs())
	}, nil
}

func openBlobStore(ctx context.Context, s Settings) (local.BlobStore, func() error, error) {
	if s.Store == "sqlite" {
		store, err := local.NewSQLiteStore(ctx, filepath.Join(s.DataDir, "ceoos.db"))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	if err := os.MkdirAll(s.DataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	return local.NewFileStore(s.DataDir), func() error { return nil }, nil
}

type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Print the effective settings." default:"1"`
	Init ConfigInitCmd `cmd:"" help:"Write the effective settings to the config file."`
}

type ConfigShowCmd struct{}

func (s *ConfigShowCmd) Run(c *Context) error {
	c.printf("mode:      %s\nserver:    %s\ndata dir:  %s\nstore:     %s\ntimezone:  %s\n",
		c.Settings.Mode, c.Settings.Server, c.Settings.DataDir, c.Settings.Store, c.Settings.Timezone)
	return nil
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (i *ConfigInitCmd) Run(c *Context) error {
	if c.ConfigPath == "" {
		return errors.New("no config path")
	}
	if _, err := os.Stat(c.ConfigPath); err == nil && !i.Force {
		return fmt.Errorf("%s exists, use --force to overwrite", c.ConfigPath)
	}
	if err := os.MkdirAll(filepath.Dir(c.ConfigPath), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := config.SaveFile(c.ConfigPath, c.Settings); err != nil {
		return err
	}
	c.printf("Wrote %s\n", c.ConfigPath)
	return nil
}
