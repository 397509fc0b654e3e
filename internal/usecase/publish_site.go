package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rvodden/rvodden.github.io/internal/app/template"
	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/ports"
)

// PublishSite force-pushes the generated site to the hosting branch.
type PublishSite struct {
	publisher ports.SitePublisher
	now       func() time.Time
}

func NewPublishSite(p ports.SitePublisher) *PublishSite {
	return &PublishSite{publisher: p, now: time.Now}
}

// PublishInput is the resolved configuration for one deploy.
type PublishInput struct {
	WorkspaceRoot   string
	SiteDir         string
	Remote          string
	Branch          string
	MessageTemplate string
	Credentials     domain.Credentials
}

func (uc *PublishSite) Execute(ctx context.Context, in PublishInput) (domain.PublishReport, error) {
	var missing []string
	if strings.TrimSpace(in.Credentials.UserName) == "" {
		missing = append(missing, "USER_NAME")
	}
	if strings.TrimSpace(in.Credentials.UserEmail) == "" {
		missing = append(missing, "USER_EMAIL")
	}
	if len(missing) > 0 {
		return domain.PublishReport{}, &domain.OpError{
			Op:   "publish.credentials",
			Kind: domain.KindMissingVar,
			Err:  fmt.Errorf("%w: %s", domain.ErrMissingVar, strings.Join(missing, ", ")),
		}
	}

	remote := in.Remote
	if remote == "" {
		remote = domain.DefaultPublishRemote
	}
	branch := in.Branch
	if branch == "" {
		branch = domain.DefaultPublishBranch
	}
	tmpl := in.MessageTemplate
	if tmpl == "" {
		tmpl = domain.DefaultCommitMessage
	}

	msg, err := template.RenderString(tmpl, domain.Vars{
		"date":   uc.now().Format("2006-01-02 15:04:05"),
		"remote": remote,
		"branch": branch,
	})
	if err != nil {
		return domain.PublishReport{}, err
	}

	return uc.publisher.Publish(ctx, ports.PublishRequest{
		WorkspaceRoot: in.WorkspaceRoot,
		SiteDir:       in.SiteDir,
		Remote:        remote,
		Branch:        branch,
		Message:       msg,
		UserName:      in.Credentials.UserName,
		UserEmail:     in.Credentials.UserEmail,
	})
}
