package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testEnv is a database and config file pointing every provider at a fake server
type testEnv struct {
	dbPath     string
	configPath string
	provider   *testutil.FakeProvider
}

func newTestEnv(t *testing.T, fp *testutil.FakeProvider) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dbPath:     filepath.Join(dir, "sitechat.db"),
		configPath: filepath.Join(dir, "config.yaml"),
		provider:   fp,
	}

	config := "log_level: error\nendpoints:\n"
	for name, url := range fp.Endpoints() {
		config += fmt.Sprintf("  %s: %s\n", name, url)
	}
	if err := os.WriteFile(env.configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return env
}

// seed writes raw kv rows before any command runs
func (e *testEnv) seed(t *testing.T, rows map[string]string) {
	t.Helper()
	db, err := internal.OpenDatabase(e.dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	for k, v := range rows {
		testutil.InsertKV(t, db, k, v)
	}
}

func (e *testEnv) read(t *testing.T, key string) string {
	t.Helper()
	db, err := internal.OpenDatabase(e.dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	return testutil.ReadKV(t, db, key)
}

// run executes the root command against the test database and returns stdout
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(append([]string{"--db", e.dbPath, "--config", e.configPath}, args...))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(&bytes.Buffer{})

	err := rootCmd.Execute()
	_ = closeApp()
	return stdout.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into each other
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func defaultRows() map[string]string {
	return map[string]string{
		"openai_api_key": "sk-test-key-1234",
		"chat_history":   testutil.SampleHistoryJSON,
		"app_settings":   `{"model":"openai-gpt-4o-mini","code_policy":"carry-over","sanitize_preview":false}`,
	}
}
