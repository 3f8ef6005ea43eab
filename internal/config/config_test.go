package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
resume: resume.pdf
search:
  keyword: machine learning
  city: Toronto
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "User", cfg.UserName)
	assert.Equal(t, 10, cfg.Search.Distance)
	assert.Equal(t, "Past 24 hours", cfg.Search.Period)
	assert.Equal(t, 8, cfg.MaxPage)
	assert.Equal(t, "trace.zip", cfg.Options.TracePath)
	assert.False(t, cfg.Options.Headless)
}

func TestLoadRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing resume",
			content: "search:\n  keyword: go\n  city: Toronto\n",
			wantErr: "resume",
		},
		{
			name:    "missing keyword",
			content: "resume: r.pdf\nsearch:\n  city: Toronto\n",
			wantErr: "search.keyword",
		},
		{
			name:    "empty city",
			content: "resume: r.pdf\nsearch:\n  keyword: go\n  city: \"\"\n",
			wantErr: "search.city",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadSecretsFromEnv(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")

	cfg, err := Load(writeConfig(t, `
resume: resume.pdf
search:
  keyword: go
  city: Toronto
`))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.DeepSeekAPIKey)
	assert.Equal(t, int64(12345), cfg.TelegramChatID)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
user_name: Arron
resume: resume.pdf
job_type: Backend
search:
  keyword: machine learning
  city: Toronto
  distance: 25
  period: Past week
max_page: 3
company_list: [Acme Corp, Globex]
repost: true
salary: true
schedule: "@every 12h"
options:
  headless: true
  tracing: true
  trace_path: out/trace.zip
`))
	require.NoError(t, err)

	assert.Equal(t, "Arron", cfg.UserName)
	assert.Equal(t, 25, cfg.Search.Distance)
	assert.Equal(t, "Past week", cfg.Search.Period)
	assert.Equal(t, 3, cfg.MaxPage)
	assert.Equal(t, []string{"Acme Corp", "Globex"}, cfg.CompanyList)
	assert.True(t, cfg.Repost)
	assert.True(t, cfg.Salary)
	assert.Equal(t, "@every 12h", cfg.Schedule)
	assert.True(t, cfg.Options.Headless)
	assert.Equal(t, "out/trace.zip", cfg.Options.TracePath)
}
