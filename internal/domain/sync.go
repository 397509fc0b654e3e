package domain

import "time"

// Action is what a sync decides to do with a single post.
type Action string

const (
	ActionUpload  Action = "upload"
	ActionCompare Action = "compare"
	ActionUpdate  Action = "update"
	ActionNone    Action = "none"
	ActionSkip    Action = "skip"
)

// Outcome is the result of executing an Action.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped"
)

// PlanItem pairs a local post with its remote counterpart (if any) and the
// document generated from the post.
type PlanItem struct {
	Post      Post
	Remote    *Article
	Generated Document
	Action    Action

	// Diff is a human-readable description of the drift, filled for updates
	// when diffs are requested.
	Diff string

	// Reason says why an ActionSkip item is left alone. Err is set when the
	// post could not be converted; such items count as failures.
	Reason string
	Err    error
}

// SyncPlan is the ordered list of decisions for a sync run.
type SyncPlan struct {
	Items []PlanItem
}

// Count returns how many items carry the given action.
func (p SyncPlan) Count(a Action) int {
	n := 0
	for _, it := range p.Items {
		if it.Action == a {
			n++
		}
	}
	return n
}

// ItemResult records what happened to one post.
type ItemResult struct {
	Title     string  `json:"title"`
	Path      string  `json:"path"`
	Action    Action  `json:"action"`
	Outcome   Outcome `json:"outcome"`
	ArticleID int     `json:"article_id,omitempty"`
	URL       string  `json:"url,omitempty"`
	Error     string  `json:"error,omitempty"`
	Diff      string  `json:"diff,omitempty"`
}

// Failed reports whether the item failed.
func (r ItemResult) Failed() bool { return r.Outcome == OutcomeFailure }

// SyncReport is the persisted outcome of a sync run.
type SyncReport struct {
	ContentDir string       `json:"content_dir"`
	DryRun     bool         `json:"dry_run"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    time.Time    `json:"ended_at"`
	Items      []ItemResult `json:"items"`
}

// Failures counts failed items.
func (r SyncReport) Failures() int {
	n := 0
	for _, it := range r.Items {
		if it.Failed() {
			n++
		}
	}
	return n
}

// PublishReport describes a completed deploy.
type PublishReport struct {
	RemoteURL string
	Branch    string
	Commit    string
	Files     int
}
