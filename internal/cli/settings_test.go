package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/limbo/ceoos/internal/identity"
	"github.com/limbo/ceoos/internal/keychain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestResolve(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "mode: remote\nserver: http://localhost:8080\ndata_dir: ${CEOOS_TEST_DIR}/data\nstore: sqlite\n")
	t.Setenv("CEOOS_TEST_DIR", "/tmp/ceoos")

	tests := []struct {
		name    string
		globals Globals
		want    Settings
		wantErr bool
	}{
		{
			name:    "file",
			globals: Globals{Config: cfg},
			want:    Settings{Mode: ModeRemote, Server: "http://localhost:8080", DataDir: "/tmp/ceoos/data", Store: "sqlite"},
		},
		{
			name:    "flags override file",
			globals: Globals{Config: cfg, Mode: ModeLocal, Store: "file", Timezone: "Asia/Tokyo"},
			want:    Settings{Mode: ModeLocal, Server: "http://localhost:8080", DataDir: "/tmp/ceoos/data", Store: "file", Timezone: "Asia/Tokyo"},
		},
		{
			name:    "missing file falls back to defaults",
			globals: Globals{Config: filepath.Join(t.TempDir(), "none.yaml"), DataDir: "/tmp/x"},
			want:    Settings{Mode: ModeLocal, DataDir: "/tmp/x", Store: "file"},
		},
		{
			name:    "unknown mode",
			globals: Globals{Config: cfg, Mode: "cloud"},
			wantErr: true,
		},
		{
			name:    "unknown timezone",
			globals: Globals{Config: cfg, Timezone: "Mars/Olympus"},
			wantErr: true,
		},
		{
			name:    "remote without server",
			globals: Globals{Config: filepath.Join(t.TempDir(), "none.yaml"), Mode: ModeRemote},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.globals.Resolve()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOpenLocalPersists(t *testing.T) {
	for _, store := range []string{"file", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			ctx := context.Background()
			s := Settings{Mode: ModeLocal, DataDir: t.TempDir(), Store: store, Timezone: "UTC"}

			c, closeFn, err := Open(ctx, s, nil, 0)
			require.NoError(t, err)
			c.Out = &bytes.Buffer{}
			c.Now = clock
			require.NoError(t, (&DailyLogCmd{Date: "2025-03-04", Word: "kept"}).Run(c))
			require.NoError(t, closeFn())

			again, closeAgain, err := Open(ctx, s, nil, 0)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closeAgain() })
			entry, ok := again.Journal.Daily.ByDate("2025-03-04")
			require.True(t, ok)
			assert.Equal(t, "kept", entry.EnergyWord)
		})
	}
}

func TestOpenRemoteRestoresSession(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	s := Settings{Mode: ModeRemote, Server: "http://127.0.0.1:1", DataDir: t.TempDir(), Store: "file"}

	c, closeFn, err := Open(ctx, s, nil, 0)
	require.NoError(t, err)
	_, ok := c.Session.Current()
	assert.False(t, ok)
	require.NoError(t, closeFn())

	user := identity.User{ID: uuid.New(), Name: "ann", Token: "jwt"}
	require.NoError(t, keychain.New(keychain.Service).Save(user))
	c, closeFn, err = Open(ctx, s, nil, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	got, ok := c.Session.Current()
	require.True(t, ok)
	assert.Equal(t, user, got)
	assert.Equal(t, "jwt", c.Session.Token())
}

func TestConfigInit(t *testing.T) {
	c, out := newLocalContext(t)
	c.Settings = Settings{Mode: ModeLocal, DataDir: "/tmp/ceoos", Store: "sqlite"}
	c.ConfigPath = filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, (&ConfigInitCmd{}).Run(c))
	assert.Contains(t, out.String(), "Wrote")
	assert.Error(t, (&ConfigInitCmd{}).Run(c))
	require.NoError(t, (&ConfigInitCmd{Force: true}).Run(c))

	got, err := Globals{Config: c.ConfigPath}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, c.Settings, got)

	out.Reset()
	require.NoError(t, (&ConfigShowCmd{}).Run(c))
	assert.Contains(t, out.String(), "sqlite")
}
