package model

// WatchConfig is the bitbucket-watch service configuration file.
type WatchConfig struct {
	Bitbucket Options `yaml:"bitbucket"`
	Server    struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	WatchRepositories []WatchRepository `yaml:"watchRepositories"`
}

type WatchRepository struct {
	ProcessName string   `yaml:"processName"`
	Cron        string   `yaml:"cron"`
	Workspace   string   `yaml:"workspace"`
	RepoSlug    string   `yaml:"repoSlug"`
	States      []string `yaml:"states"`
	// Per-repository credentials; empty means the shared bitbucket options apply.
	Username    string `yaml:"username"`
	AppPassword string `yaml:"appPassword"`
	AccessToken string `yaml:"accessToken,omitempty"`
}

// PullRequestSnapshot is the last poll result for one repository.
type PullRequestSnapshot struct {
	Workspace    string        `json:"workspace"`
	RepoSlug     string        `json:"repoSlug"`
	RunID        string        `json:"runId"`
	PolledAt     string        `json:"polledAt"`
	PullRequests []PullRequest `json:"pullRequests"`
}
