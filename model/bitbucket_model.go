package model

// Page is the paginated envelope Bitbucket wraps list results in.
type Page[T any] struct {
	Pagelen  int    `json:"pagelen"`
	Size     int    `json:"size"`
	Page     int    `json:"page"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Values   []T    `json:"values"`
}

type Link struct {
	Href string `json:"href"`
	Name string `json:"name,omitempty"`
}

type Links struct {
	Self   *Link  `json:"self,omitempty"`
	HTML   *Link  `json:"html,omitempty"`
	Avatar *Link  `json:"avatar,omitempty"`
	Forks  *Link  `json:"forks,omitempty"`
	Clone  []Link `json:"clone,omitempty"`
}

type User struct {
	UUID        string `json:"uuid"`
	DisplayName string `json:"display_name"`
	Nickname    string `json:"nickname"`
	AccountID   string `json:"account_id"`
	Links       Links  `json:"links"`
}

type Workspace struct {
	UUID  string `json:"uuid"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Links Links  `json:"links"`
}

type Repository struct {
	UUID      string      `json:"uuid"`
	Slug      string      `json:"slug"`
	Name      string      `json:"name"`
	FullName  string      `json:"full_name"`
	IsPrivate bool        `json:"is_private"`
	Language  string      `json:"language"`
	Workspace *Workspace  `json:"workspace,omitempty"`
	Parent    *Repository `json:"parent,omitempty"`
	Links     Links       `json:"links"`
}

type Branch struct {
	Name   string  `json:"name"`
	Target *Commit `json:"target,omitempty"`
}

type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Author  struct {
		Raw  string `json:"raw"`
		User *User  `json:"user,omitempty"`
	} `json:"author"`
}

type PullRequestEndpoint struct {
	Branch     Branch      `json:"branch"`
	Repository *Repository `json:"repository,omitempty"`
}

type PullRequest struct {
	ID          int                 `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	CreatedOn   string              `json:"created_on"`
	State       string              `json:"state"`
	Author      User                `json:"author"`
	Source      PullRequestEndpoint `json:"source"`
	Destination PullRequestEndpoint `json:"destination"`
	Links       Links               `json:"links"`
}
