// Package bootstrap assembles the infra adapters of a blog workspace so the
// CLI and the TUI wire them the same way.
package bootstrap

import (
	"io"
	"log/slog"

	"github.com/rvodden/rvodden.github.io/internal/buildinfo"
	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/infra/devto"
	"github.com/rvodden/rvodden.github.io/internal/infra/envsecrets"
	"github.com/rvodden/rvodden.github.io/internal/infra/gitpublish"
	"github.com/rvodden/rvodden.github.io/internal/infra/httpclient"
	"github.com/rvodden/rvodden.github.io/internal/infra/hugo"
	"github.com/rvodden/rvodden.github.io/internal/infra/markdown"
	"github.com/rvodden/rvodden.github.io/internal/infra/runstore"
	"github.com/rvodden/rvodden.github.io/internal/infra/workspacefinder"
	"github.com/rvodden/rvodden.github.io/internal/usecase"
	"github.com/rvodden/rvodden.github.io/internal/usecase/convert"
)

// Workspace is a loaded blog workspace with its adapters.
type Workspace struct {
	Root        string
	Config      domain.Config
	Credentials domain.Credentials

	Posts     *hugo.Source
	Articles  *devto.Client
	Reports   *runstore.JSONStore
	Publisher *gitpublish.Publisher

	log *slog.Logger
}

// Open loads blogctl.yaml and credentials from root and builds the adapters.
// A nil logger discards.
func Open(root string, log *slog.Logger) (*Workspace, error) {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	creds, err := envsecrets.NewLoader(root).LoadCredentials()
	if err != nil {
		return nil, err
	}

	hc := httpclient.DefaultConfig()
	hc.UserAgent = buildinfo.UserAgent()
	exec := httpclient.NewExecutor(
		httpclient.WithClient(httpclient.New(hc)),
		httpclient.WithTimeout(cfg.DevTo.Timeout),
		httpclient.WithRetries(cfg.DevTo.Retries),
		httpclient.WithBackoffFactor(cfg.DevTo.BackoffFactor),
		httpclient.WithLogger(log),
	)

	return &Workspace{
		Root:        root,
		Config:      cfg,
		Credentials: creds,
		Posts:       hugo.NewSource(cfg.Paths.ContentDir),
		Articles:    devto.New(cfg.DevTo.BaseURL, creds.DevToAPIToken, exec, devto.WithLogger(log)),
		Reports: runstore.NewJSONStore(root, cfg,
			runstore.WithIndex(true),
			runstore.WithSecrets(creds.DevToAPIToken),
		),
		Publisher: gitpublish.New(gitpublish.WithLogger(log)),
		log:       log,
	}, nil
}

// ConvertOptions derives conversion settings from the site config.
func (w *Workspace) ConvertOptions() convert.Options {
	return convert.Options{
		BaseURL:      w.Config.Site.BaseURL,
		CanonicalURL: w.Config.Site.CanonicalURL,
	}
}

// SyncArticles builds the sync use case. Reports are persisted when save is set.
func (w *Workspace) SyncArticles(save bool) *usecase.SyncArticles {
	opts := []usecase.SyncOption{
		usecase.WithConvertOptions(w.ConvertOptions()),
		usecase.WithSyncLogger(w.log),
	}
	if save {
		opts = append(opts, usecase.WithReportStore(w.Reports))
	}
	return usecase.NewSyncArticles(w.Posts, w.Articles, markdown.Parser{}, opts...)
}

func (w *Workspace) ConvertPost() *usecase.ConvertPost {
	return usecase.NewConvertPost(w.Posts, w.ConvertOptions())
}

func (w *Workspace) PublishSite() *usecase.PublishSite {
	return usecase.NewPublishSite(w.Publisher)
}

// PublishInput fills a publish request from config and credentials.
func (w *Workspace) PublishInput() usecase.PublishInput {
	return usecase.PublishInput{
		WorkspaceRoot:   w.Root,
		SiteDir:         w.Config.Paths.PublishDir,
		Remote:          w.Config.Publish.Remote,
		Branch:          w.Config.Publish.Branch,
		MessageTemplate: w.Config.Publish.CommitMessage,
		Credentials:     w.Credentials,
	}
}
