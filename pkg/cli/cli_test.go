package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foreman/foreman/pkg/cli"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// syncBuffer lets the simulation loops and the command share one writer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestCLI(input string) (*cli.CLI, *syncBuffer, *syncBuffer) {
	cfg := cli.NewConfig()
	cfg.Version = "1.2.3"
	out, errOut := &syncBuffer{}, &syncBuffer{}
	return cli.NewCLIWithIO(cfg, strings.NewReader(input), out, errOut), out, errOut
}

func TestVersionCommand(t *testing.T) {
	c, out, _ := newTestCLI("")
	require.NoError(t, c.Execute([]string{"version"}))
	assert.Contains(t, out.String(), "Foreman v1.2.3")
}

func TestInitAndValidate(t *testing.T) {
	dir := t.TempDir()

	c, out, _ := newTestCLI("")
	require.NoError(t, c.Execute([]string{"init", "--root", dir}))
	assert.Contains(t, out.String(), "Created")
	assert.FileExists(t, filepath.Join(dir, "foreman.yaml"))

	c, _, _ = newTestCLI("")
	err := c.Execute([]string{"init", "--root", dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	c, _, _ = newTestCLI("")
	require.NoError(t, c.Execute([]string{"init", "--root", dir, "--force"}))

	c, out, _ = newTestCLI("")
	require.NoError(t, c.Execute([]string{"validate", "--root", dir}))
	assert.Contains(t, out.String(), "Configuration is valid")
	assert.Contains(t, out.String(), "Bricks: 100, Cement: 50, Tools: 10")
	assert.Contains(t, out.String(), "Workers: 8")
}

func TestInitJSON(t *testing.T) {
	dir := t.TempDir()
	c, _, _ := newTestCLI("")
	require.NoError(t, c.Execute([]string{"init", "--root", dir, "--format", "json"}))
	assert.FileExists(t, filepath.Join(dir, "foreman.json"))

	c, _, _ = newTestCLI("")
	assert.Error(t, c.Execute([]string{"init", "--root", dir, "--format", "toml"}))
}

func TestValidate_Errors(t *testing.T) {
	c, _, _ := newTestCLI("")
	err := c.Execute([]string{"validate", "--root", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resources:\n  bricks: -4\n"), 0644))

	c, _, errOut := newTestCLI("")
	require.Error(t, c.Execute([]string{"validate", "--config", path}))
	assert.Contains(t, errOut.String(), "Invalid configuration")
}

func TestValidate_Findings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	content := "resources:\n  bricks: 10\nworkers:\n  - name: Ali\ntasks:\n  - name: tower\n    bricks: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, _, errOut := newTestCLI("")
	err := c.Execute([]string{"validate", "--config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")
	assert.Contains(t, errOut.String(), "tower.resources")
}

func TestShell(t *testing.T) {
	t.Setenv("FOREMAN_WEATHER_MODE", "clear")

	script := strings.Join([]string{
		"help",
		"hire Zed 5",
		"hire Zed 5",
		"task wall 2 1 0 1",
		"task bad -1 0 0 1",
		"task tower 500 0 0 2",
		"queue",
		"run",
		"status",
		"recall",
		"fire Nobody",
		"dance",
		"quit",
	}, "\n")

	c, out, errOut := newTestCLI(script)
	require.NoError(t, c.Execute([]string{"shell", "--root", t.TempDir(), "-v", "error"}))

	stdout := out.String()
	assert.Contains(t, stdout, "Commands:")
	assert.Contains(t, stdout, "Worker Zed hired")
	assert.Contains(t, stdout, "Task wall added with priority 1")
	assert.Contains(t, stdout, "PRIORITY")
	assert.Contains(t, stdout, "[Clear] 1 completed, 1 deferred")
	assert.Contains(t, stdout, "Shahzaib is back from break")
	assert.Contains(t, stdout, "Zed")

	stderr := errOut.String()
	assert.Contains(t, stderr, "already on roster")
	assert.Contains(t, stderr, "invalid resource quantity")
	assert.Contains(t, stderr, "worker not found")
	assert.Contains(t, stderr, `unknown command "dance"`)
}

func TestSimulate(t *testing.T) {
	dir := t.TempDir()
	content := `version: "1.0"
name: test-site
resources:
  bricks: 20
  cement: 10
  tools: 4
workers:
  - name: Ali
  - name: Bilal
    proficiency: 3
tasks:
  - name: foundation
    bricks: 6
    cement: 4
    tools: 2
    priority: 1
  - name: wall
    bricks: 8
    priority: 2
weather:
  mode: clear
simulation:
  cycleInterval: 1
  recallInterval: 1
  maxCycles: 50
logLevel: warn
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foreman.yaml"), []byte(content), 0644))

	c, out, _ := newTestCLI("")
	require.NoError(t, c.Execute([]string{"simulate", "--root", dir}))

	stdout := out.String()
	assert.Contains(t, stdout, "Simulating test-site")
	assert.Contains(t, stdout, "All tasks completed")
	assert.Contains(t, stdout, "Resources: Bricks: 20, Cement: 10, Tools: 4")
}

func TestSimulate_CycleLimit(t *testing.T) {
	t.Setenv("FOREMAN_WEATHER_MODE", "rainy")
	dir := t.TempDir()
	content := `{"version": "1.0", "resources": {"bricks": 5}, "workers": [{"name": "Ali"}],
"tasks": [{"name": "wall", "bricks": 1, "priority": 1}], "simulation": {"cycleInterval": 1}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foreman.json"), []byte(content), 0644))

	profile := filepath.Join(dir, "cpu.prof")
	c, out, _ := newTestCLI("")
	require.NoError(t, c.Execute([]string{"simulate", "--root", dir, "--cycles", "2", "-v", "error", "--cpuprofile", profile}))
	assert.FileExists(t, profile)

	stdout := out.String()
	assert.Contains(t, stdout, "2 cycle(s)")
	assert.Contains(t, stdout, "1 task(s) still queued")
	assert.Contains(t, stdout, "[Rainy] Work cannot proceed today")
}
