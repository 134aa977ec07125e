package infra

import (
	"net/http"

	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/infra/git"
	"github.com/m-mizutani/pqscan/pkg/infra/tool"
	"github.com/m-mizutani/pqscan/pkg/repository/memory"
)

type Clients struct {
	githubApp      interfaces.GitHubApp
	httpClient     HTTPClient
	fetcher        interfaces.Fetcher
	toolRunner     interfaces.ToolRunner
	bqClient       interfaces.BigQuery
	scanRepository interfaces.ScanRepository
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Clients)

// New builds the client set. Without options it clones anonymously, runs tools with default
// limits and keeps every record in memory.
func New(options ...Option) *Clients {
	client := &Clients{
		httpClient:     http.DefaultClient,
		toolRunner:     tool.New(),
		scanRepository: memory.New(),
	}

	for _, opt := range options {
		opt(client)
	}

	if client.fetcher == nil {
		var gitOptions []git.Option
		if client.githubApp != nil {
			gitOptions = append(gitOptions, git.WithGitHubApp(client.githubApp))
		}
		client.fetcher = git.New(gitOptions...)
	}

	return client
}

func (x *Clients) GitHubApp() interfaces.GitHubApp {
	return x.githubApp
}
func (x *Clients) HTTPClient() HTTPClient {
	return x.httpClient
}
func (x *Clients) Fetcher() interfaces.Fetcher {
	return x.fetcher
}
func (x *Clients) ToolRunner() interfaces.ToolRunner {
	return x.toolRunner
}
func (x *Clients) BigQuery() interfaces.BigQuery {
	return x.bqClient
}
func (x *Clients) ScanRepository() interfaces.ScanRepository {
	return x.scanRepository
}

func WithGitHubApp(client interfaces.GitHubApp) Option {
	return func(x *Clients) {
		x.githubApp = client
	}
}

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Clients) {
		x.httpClient = client
	}
}

func WithFetcher(fetcher interfaces.Fetcher) Option {
	return func(x *Clients) {
		x.fetcher = fetcher
	}
}

func WithToolRunner(runner interfaces.ToolRunner) Option {
	return func(x *Clients) {
		x.toolRunner = runner
	}
}

func WithBigQuery(client interfaces.BigQuery) Option {
	return func(x *Clients) {
		x.bqClient = client
	}
}

func WithScanRepository(repo interfaces.ScanRepository) Option {
	return func(x *Clients) {
		x.scanRepository = repo
	}
}
