package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/ports"
	"github.com/rvodden/rvodden.github.io/internal/usecase/compare"
	"github.com/rvodden/rvodden.github.io/internal/usecase/convert"
)

// SyncArticles cross-posts Hugo posts to dev.to.
type SyncArticles struct {
	posts  ports.PostSource
	client ports.ArticleClient
	parser ports.DocumentParser
	store  ports.ReportStore
	opts   convert.Options
	log    *slog.Logger
}

type SyncOption func(*SyncArticles)

// WithReportStore persists every executed report. A nil store disables saving.
func WithReportStore(s ports.ReportStore) SyncOption {
	return func(uc *SyncArticles) { uc.store = s }
}

func WithConvertOptions(o convert.Options) SyncOption {
	return func(uc *SyncArticles) { uc.opts = o }
}

func WithSyncLogger(l *slog.Logger) SyncOption {
	return func(uc *SyncArticles) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewSyncArticles(ps ports.PostSource, ac ports.ArticleClient, dp ports.DocumentParser, opts ...SyncOption) *SyncArticles {
	uc := &SyncArticles{
		posts:  ps,
		client: ac,
		parser: dp,
		opts:   convert.DefaultOptions(),
		log:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SyncRequest selects how much of a sync actually happens.
type SyncRequest struct {
	DryRun bool
	Diff   bool
}

// Plan lists posts and remote articles and decides an action for every post.
// It makes no changes. A post that fails to convert is planned as
// ActionSkip with the error and does not stop the rest of the plan.
func (uc *SyncArticles) Plan(ctx context.Context, withDiff bool) (domain.SyncPlan, error) {
	posts, err := uc.posts.ListPosts(ctx)
	if err != nil {
		return domain.SyncPlan{}, err
	}
	articles, err := uc.client.ListArticles(ctx)
	if err != nil {
		return domain.SyncPlan{}, err
	}

	byTitle := make(map[string]*domain.Article, len(articles))
	for i := range articles {
		if _, seen := byTitle[articles[i].Title]; !seen {
			byTitle[articles[i].Title] = &articles[i]
		}
	}

	plan := domain.SyncPlan{Items: make([]domain.PlanItem, 0, len(posts))}
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return plan, err
		}

		doc, err := convert.Post(post, uc.opts)
		if err != nil {
			err = &domain.OpError{Op: "sync.plan", Kind: domain.KindInvalidConfig, Path: post.Path, Err: err}
			uc.log.Warn("sync.plan.skip", "path", post.Path, "error", err.Error())
			plan.Items = append(plan.Items, domain.PlanItem{Post: post, Action: domain.ActionSkip, Reason: "conversion failed", Err: err})
			continue
		}

		item := domain.PlanItem{Post: post, Generated: doc, Action: domain.ActionUpload}
		if remote, ok := byTitle[post.Title]; ok {
			item.Remote = remote
			item.Action = domain.ActionCompare
			uc.compare(&item, withDiff)
		}

		uc.log.Debug("sync.plan.item", "title", post.Title, "action", string(item.Action))
		plan.Items = append(plan.Items, item)
	}
	return plan, nil
}

// compare resolves an ActionCompare item into update or none.
func (uc *SyncArticles) compare(item *domain.PlanItem, withDiff bool) {
	remoteDoc, err := uc.parser.Parse(item.Remote.BodyMarkdown)
	if err != nil {
		// An unreadable remote body is drift by definition.
		uc.log.Warn("sync.compare.parse", "title", item.Post.Title, "error", err.Error())
		item.Action = domain.ActionUpdate
		if withDiff {
			item.Diff = "remote body could not be parsed: " + err.Error()
		}
		return
	}

	res, err := compare.Documents(item.Generated, remoteDoc)
	if err != nil || !res.Identical() {
		item.Action = domain.ActionUpdate
	} else {
		item.Action = domain.ActionNone
	}
	if item.Action == domain.ActionUpdate && withDiff {
		if d, derr := compare.Diff(item.Generated, remoteDoc); derr == nil {
			item.Diff = d
		}
	}
}

// Execute plans and then, unless DryRun is set, uploads missing articles and
// updates drifted ones. Per-item failures are recorded in the report and do
// not stop the run. The returned id is the saved report id, if any.
func (uc *SyncArticles) Execute(ctx context.Context, req SyncRequest) (domain.SyncReport, string, error) {
	report := domain.SyncReport{
		DryRun:    req.DryRun,
		StartedAt: time.Now(),
	}
	if cd, ok := uc.posts.(interface{ ContentDir() string }); ok {
		report.ContentDir = cd.ContentDir()
	}

	plan, err := uc.Plan(ctx, req.Diff)
	if err != nil {
		report.EndedAt = time.Now()
		return report, "", err
	}

	report.Items = make([]domain.ItemResult, 0, len(plan.Items))
	for _, it := range plan.Items {
		if it.Action == domain.ActionNone || it.Action == domain.ActionSkip || req.DryRun {
			report.Items = append(report.Items, planned(it))
		}
	}

	if !req.DryRun {
		for _, action := range []domain.Action{domain.ActionUpload, domain.ActionUpdate} {
			for _, it := range plan.Items {
				if it.Action != action {
					continue
				}
				if err := ctx.Err(); err != nil {
					report.EndedAt = time.Now()
					return report, "", err
				}
				report.Items = append(report.Items, uc.apply(ctx, it))
			}
		}
	}

	report.EndedAt = time.Now()
	uc.log.Info("sync.done",
		"items", len(report.Items),
		"failures", report.Failures(),
		"dry_run", req.DryRun,
		"duration_ms", report.EndedAt.Sub(report.StartedAt).Milliseconds(),
	)

	if uc.store == nil {
		return report, "", nil
	}
	id, err := uc.store.SaveReport(report)
	if err != nil {
		return report, "", err
	}
	return report, id, nil
}

func (uc *SyncArticles) apply(ctx context.Context, it domain.PlanItem) domain.ItemResult {
	out := planned(it)

	var (
		res domain.PublishResult
		err error
	)
	switch it.Action {
	case domain.ActionUpload:
		res, err = uc.client.Publish(ctx, it.Generated)
	case domain.ActionUpdate:
		res, err = uc.client.Update(ctx, it.Remote.ID, it.Generated)
	}

	if err != nil {
		uc.log.Error("sync.item.failed", "title", it.Post.Title, "action", string(it.Action), "error", err.Error())
		out.Outcome = domain.OutcomeFailure
		out.Error = err.Error()
		return out
	}

	out.Outcome = domain.OutcomeSuccess
	out.ArticleID = res.ID
	if res.URL != "" {
		out.URL = res.URL
	}
	uc.log.Info("sync.item.ok", "title", it.Post.Title, "action", string(it.Action), "id", res.ID)
	return out
}

func planned(it domain.PlanItem) domain.ItemResult {
	out := domain.ItemResult{
		Title:   it.Post.Title,
		Path:    it.Post.Path,
		Action:  it.Action,
		Outcome: domain.OutcomeSkipped,
		Diff:    it.Diff,
	}
	if it.Remote != nil {
		out.ArticleID = it.Remote.ID
		out.URL = it.Remote.URL
	}
	if it.Action == domain.ActionSkip {
		out.Error = it.Reason
		if it.Err != nil {
			out.Outcome = domain.OutcomeFailure
			out.Error = it.Err.Error()
		}
	}
	return out
}
