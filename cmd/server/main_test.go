package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	calls   []string
	version uint
	dirty   bool
	upErr   error
}

func (f *fakeMigrator) Up() error   { f.calls = append(f.calls, "up"); return f.upErr }
func (f *fakeMigrator) Down() error { f.calls = append(f.calls, "down"); return nil }
func (f *fakeMigrator) Version() (uint, bool, error) {
	f.calls = append(f.calls, "version")
	return f.version, f.dirty, nil
}
func (f *fakeMigrator) Close() error { f.calls = append(f.calls, "close"); return nil }

func useFakeMigrator(t *testing.T, f *fakeMigrator) *string {
	t.Helper()
	var gotURL string
	orig := newMigrator
	newMigrator = func(url string) (schemaMigrator, error) {
		gotURL = url
		return f, nil
	}
	t.Cleanup(func() { newMigrator = orig })
	return &gotURL
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile = ""
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	for _, sub := range []string{"serve", "migrate"} {
		assert.Contains(t, out, sub)
	}
	for _, flag := range []string{"--config", "--http-addr", "--database-url", "--redis-addr", "--seed-admin"} {
		assert.Contains(t, out, flag)
	}
}

func TestMigrate_Version(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://academy@localhost/academy")
	f := &fakeMigrator{version: 1}
	gotURL := useFakeMigrator(t, f)

	out, err := execute(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
	assert.Equal(t, "postgres://academy@localhost/academy", *gotURL)
	assert.Equal(t, []string{"version", "close"}, f.calls)
}

func TestMigrate_DirtyVersion(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://academy@localhost/academy")
	useFakeMigrator(t, &fakeMigrator{version: 2, dirty: true})

	out, err := execute(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "2 (dirty)\n", out)
}

func TestMigrate_DefaultsToUp(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://academy@localhost/academy")
	f := &fakeMigrator{}
	useFakeMigrator(t, f)

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations applied")
	assert.Equal(t, []string{"up", "close"}, f.calls)
}

func TestMigrate_FlagOverridesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://from-env/academy")
	f := &fakeMigrator{}
	gotURL := useFakeMigrator(t, f)

	_, err := execute(t, "migrate", "down", "--database-url", "postgres://from-flag/academy")
	require.NoError(t, err)
	assert.Equal(t, "postgres://from-flag/academy", *gotURL)
	assert.Equal(t, []string{"down", "close"}, f.calls)
}

func TestMigrate_UpFailureStillCloses(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://academy@localhost/academy")
	f := &fakeMigrator{upErr: errors.New("boom")}
	useFakeMigrator(t, f)

	_, err := execute(t, "migrate", "up")
	require.Error(t, err)
	assert.Equal(t, []string{"up", "close"}, f.calls)
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	useFakeMigrator(t, &fakeMigrator{})

	_, err := execute(t, "migrate", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url is required")
}
