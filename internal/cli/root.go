// Package cli holds the kong commands of the ceoos command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/ceoos/internal/identity"
	"github.com/limbo/ceoos/internal/journal"
	"github.com/limbo/ceoos/internal/local"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

var (
	ErrRemoteOnly = errors.New("command needs remote mode")
	ErrLocalOnly  = errors.New("command needs local mode")
	ErrSignedOut  = errors.New("not signed in, run `ceoos login` first")
)

// Authenticator performs account calls against the row-store API.
type Authenticator interface {
	Register(ctx context.Context, name, password string) (uuid.UUID, error)
	Login(ctx context.Context, name, password string) (identity.User, error)
}

// SessionStore persists the signed-in user between invocations.
type SessionStore interface {
	Save(user identity.User) error
	Load() (identity.User, error)
	Delete() error
}

// Context is handed to every command's Run.
type Context struct {
	Mode       string
	Settings   Settings
	ConfigPath string
	Journal    *journal.Journal
	// nil in remote mode
	Container *local.Container
	Session   *identity.Session
	Auth      Authenticator
	Sessions  SessionStore
	Out       io.Writer
	Now       func() time.Time
	Location  *time.Location
	Timeout   time.Duration
	Logger    *slog.Logger
}

func (c *Context) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Context) withTimeout() (context.Context, context.CancelFunc) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// load fetches the journal. In remote mode somebody has to be signed in.
func (c *Context) load(ctx context.Context) error {
	if c.Mode == ModeRemote {
		if _, ok := c.Session.Current(); !ok {
			return ErrSignedOut
		}
	}
	if err := c.Journal.Load(ctx); err != nil {
		c.logger().Error("load error", slog.String("error", err.Error()))
		return fmt.Errorf("loading journal: %w", err)
	}
	return nil
}

func (c *Context) requireRemote() error {
	if c.Mode != ModeRemote {
		return ErrRemoteOnly
	}
	return nil
}

func (c *Context) requireLocal() error {
	if c.Mode != ModeLocal || c.Container == nil {
		return ErrLocalOnly
	}
	return nil
}

func (c *Context) printJSON(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(c.out(), string(data))
	return err
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

// decodeFile overlays the JSON document at path onto dst.
func decodeFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := sonic.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// parseDay reads a YYYY-MM-DD date in the client zone, today when empty.
func (c *Context) parseDay(s string) (time.Time, error) {
	if s == "" {
		return c.today(), nil
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
