package domain

// Article is a dev.to article as returned by the API.
// Only the fields blogctl reads are kept.
type Article struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Slug         string   `json:"slug"`
	URL          string   `json:"url"`
	CanonicalURL string   `json:"canonical_url"`
	Published    bool     `json:"published"`
	PublishedAt  string   `json:"published_at,omitempty"`
	BodyMarkdown string   `json:"body_markdown"`
	Tags         []string `json:"tag_list"`
}

// PublishResult identifies the article created or updated remotely.
type PublishResult struct {
	ID  int
	URL string
}
