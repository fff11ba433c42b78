package helper

import (
	"bitbucket_v2/model"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch-config.yaml")
	content := `
bitbucket:
  login_type: oauth2
  oauth_access_token: secret
  timeout: 5
  proxy: proxy.local:8080
server:
  address: ":9000"
watchRepositories:
  - processName: watch-one
    cron: "0 * * * * *"
    workspace: team
    repoSlug: repo
    states: [OPEN, MERGED]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var cfg model.WatchConfig
	if err := LoadConfigFile(path, &cfg); err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	if cfg.Bitbucket.LoginType != "oauth2" || cfg.Bitbucket.OAuthAccessToken != "secret" {
		t.Errorf("auth = %q/%q", cfg.Bitbucket.LoginType, cfg.Bitbucket.OAuthAccessToken)
	}
	if cfg.Bitbucket.Timeout != 5 {
		t.Errorf("timeout = %d, want 5", cfg.Bitbucket.Timeout)
	}
	if cfg.Bitbucket.Proxy != "proxy.local:8080" {
		t.Errorf("proxy = %q", cfg.Bitbucket.Proxy)
	}
	if cfg.Server.Address != ":9000" {
		t.Errorf("address = %q", cfg.Server.Address)
	}
	if len(cfg.WatchRepositories) != 1 {
		t.Fatalf("got %d watched repositories, want 1", len(cfg.WatchRepositories))
	}
	w := cfg.WatchRepositories[0]
	if w.Workspace != "team" || w.RepoSlug != "repo" || len(w.States) != 2 {
		t.Errorf("watch = %+v", w)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	var cfg model.WatchConfig
	if err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
