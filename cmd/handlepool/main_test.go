package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/handlepool/internal/churn"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestDemo(t *testing.T) {
	out := execute(t, newDemoCmd())

	assert.Contains(t, out, "after freeing 25:\n  [0@0] 17\nafter inserting 2:")
	assert.Contains(t, out, "  [1@1] 2\n")
	assert.Regexp(t, `second handle\(\d+/1@0\) valid=false`, out)
	assert.Regexp(t, `third handle\(\d+/1@1\) valid=true`, out)
	assert.Regexp(t, `recycled handle\(\d+/1@1\) holds 25`, out)
	assert.Contains(t, out, "slot 1 holds 12")
}

func TestChurnCommand(t *testing.T) {
	out := execute(t, newChurnCmd(), "--ops", "2000", "--seed", "7", "--log-level", "error")

	var rep churn.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 1, rep.Rounds)
	assert.Equal(t, 2000, rep.Operations)
	assert.Equal(t, rep.Pool.Active, rep.Inserts+rep.Recycles-rep.Frees)
}

func TestChurnCommandConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "churn.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operations: 300\nrounds: 2\nlog:\n  level: error\n"), 0o644))

	out := execute(t, newChurnCmd(), "--config", path, "--rounds", "3")

	var rep churn.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3, rep.Rounds, "flags override the file")
	assert.Equal(t, 900, rep.Operations)
}

func TestChurnCommandRejectsBadConfig(t *testing.T) {
	cmd := newChurnCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--insert-ratio", "2", "--log-level", "error"})
	assert.Error(t, cmd.Execute())
}

func TestApplyFlagsMetricsAddrRunsForever(t *testing.T) {
	cmd := newChurnCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--metrics-addr", ":0"}))

	cfg := churn.DefaultConfig()
	var flags churn.Config
	flags.MetricsAddr = ":0"
	applyFlags(cmd, &cfg, flags)

	assert.Equal(t, ":0", cfg.MetricsAddr)
	assert.Equal(t, 0, cfg.Rounds)
}
