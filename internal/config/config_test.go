package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"golang.org/x/mod/semver"

	"github.com/lwmacct/261017-go-pkg-appcfg/pkg/mcfg"
)

var helper = mcfg.ConfigTestHelper[Config]{
	ExamplePath: "config/config.example.yaml",
	ConfigPath:  "config/config.yaml",
}

func TestWriteExample(t *testing.T)    { helper.WriteExampleFile(t, DefaultConfig()) }
func TestConfigKeysValid(t *testing.T) { helper.ValidateKeys(t) }

func TestVersion(t *testing.T) {
	assert.Equal(t, "2.1.1", Version)
	assert.True(t, semver.IsValid("v"+Version), "Version should be MAJOR.MINOR.PATCH")
	assert.Equal(t, "v"+Version, semver.Canonical("v"+Version), "Version should carry all three components")
}

func TestVersionCode(t *testing.T) {
	assert.Equal(t, 3, VersionCode)
	assert.Positive(t, VersionCode)
}

func TestVersion_ConcurrentReads(t *testing.T) {
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Equal(t, "2.1.1", Version)
				assert.Equal(t, 3, VersionCode)
			}
		}()
	}
	wg.Wait()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		fontSize string
		wantErr  error
	}{
		{name: "css size", fontSize: "14px"},
		{name: "rem size", fontSize: "1.2rem"},
		{name: "empty", fontSize: "", wantErr: ErrFontSizeMissing},
		{name: "whitespace", fontSize: "  ", wantErr: ErrFontSizeMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{UI: UIConfig{FontSize: tt.fontSize}}
			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_IgnoresAPI(t *testing.T) {
	cfg := Config{
		API: APIConfig{"anything": []any{1, "two"}, "nested": map[string]any{"x": nil}},
		UI:  UIConfig{FontSize: "14px"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.API = nil
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "14px", cfg.UI.FontSize)
	assert.Empty(t, cfg.API)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("APPCFG_TEST_TOKEN", "sk-abc")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
api:
  endpoint: "https://api.example.com"
  token: "{{.APPCFG_TEST_TOKEN}}"
  retries: 2
ui:
  font_size: "16px"
`), 0600))

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "16px", cfg.UI.FontSize)
	assert.Equal(t, "https://api.example.com", cfg.API["endpoint"])
	assert.Equal(t, "sk-abc", cfg.API["token"], "config file templates are expanded")
	assert.EqualValues(t, 2, cfg.API["retries"], "api values pass through untouched")
}

func TestLoad_NumericFontSize(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ui:\n  font_size: 14\n"), 0600))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "14", cfg.UI.FontSize, "numeric values are kept as text without adding a unit")
}

func TestLoad_EmptyFontSizeRejected(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ui:\n  font_size: \"\"\n"), 0600))

	_, err := Load(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFontSizeMissing)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ui:\n  font_size: \"16px\"\n"), 0600))
	t.Setenv("APPCFG_UI_FONT_SIZE", "18px")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "18px", cfg.UI.FontSize)
}

func TestLoad_Command(t *testing.T) {
	t.Chdir(t.TempDir())

	explicit := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(explicit, []byte(`{"api": {"model": "m1"}, "ui": {"font_size": "12px"}}`), 0600))
	t.Setenv("APPCFG_UI_FONT_SIZE", "18px")

	tests := []struct {
		name     string
		args     []string
		fontSize string
		model    any
	}{
		{name: "env only", args: []string{"app"}, fontSize: "18px"},
		{name: "flag beats env", args: []string{"app", "--ui-font-size", "20px"}, fontSize: "20px"},
		{name: "explicit config file", args: []string{"app", "--config", explicit}, fontSize: "18px", model: "m1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loaded *Config
			cmd := &cli.Command{
				Name: "app",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config"},
					&cli.StringFlag{Name: "ui-font-size"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := Load(cmd)
					loaded = cfg
					return err
				},
			}

			require.NoError(t, cmd.Run(context.Background(), tt.args))
			require.NotNil(t, loaded)
			assert.Equal(t, tt.fontSize, loaded.UI.FontSize)
			assert.Equal(t, tt.model, loaded.API["model"])
		})
	}
}

func TestLoad_MissingExplicitConfigFails(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := &cli.Command{
		Name:  "app",
		Flags: []cli.Flag{&cli.StringFlag{Name: "config"}},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := Load(cmd)
			return err
		},
	}

	err := cmd.Run(context.Background(), []string{"app", "--config", "/nonexistent/appcfg.yaml"})
	require.Error(t, err)
	assert.ErrorIs(t, err, mcfg.ErrConfigNotFound)
	assert.Contains(t, err.Error(), "/nonexistent/appcfg.yaml")
}

func TestLoad_EnvAPIPassthrough(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APPCFG_API_BASE_URL", "https://api.example.com")
	t.Setenv("APPCFG_UI", "big")

	cfg, err := Load(nil)
	require.NoError(t, err, "stray APPCFG_UI must not break loading")

	assert.Equal(t, "https://api.example.com", cfg.API["base_url"])
	assert.Equal(t, "14px", cfg.UI.FontSize)
}
