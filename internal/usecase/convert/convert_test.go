package convert

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

func TestRemoveSkipped(t *testing.T) {
	in := "keep\n{{% skip %}}\nhidden\nlines\n{{% /skip %}}\nalso keep {{% skip %}}x{{% /skip %}}!"
	got := RemoveSkipped(in)
	want := "keep\n\nalso keep !"
	if got != want {
		t.Fatalf("RemoveSkipped = %q, want %q", got, want)
	}
}

func TestReplaceLatex(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"no math", "no math"},
		{"a $x$ b", "a {% katex inline %}x{% endkatex %} b"},
		{"$a$ and $b$", "{% katex inline %}a{% endkatex %} and {% katex inline %}b{% endkatex %}"},
		{"$x\n+ y$", "{% katex inline %}x\n+ y{% endkatex %}"},
		{"lonely $ sign", "lonely $ sign"},
	}
	for _, c := range cases {
		if got := ReplaceLatex(c.in); got != c.want {
			t.Errorf("ReplaceLatex(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestContentRemovesSkippedBeforeLatex(t *testing.T) {
	in := "{{% skip %}}$hidden${{% /skip %}}$shown$"
	got := Content(in)
	if got != "{% katex inline %}shown{% endkatex %}" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"content/posts/2021-05-02-geometric-solver-1.md", "geometric-solver-1"},
		{"2020-01-09-hello.markdown", "hello"},
		{"about.md", "about"},
		{"not-a-date-prefix.md", "not-a-date-prefix"},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalURL(t *testing.T) {
	u, err := CanonicalURL("content/posts/2021-05-02-solver.md", Options{BaseURL: "https://example.org/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != "https://example.org/posts/solver/" {
		t.Fatalf("unexpected url %q", u)
	}

	_, err = CanonicalURL("x.md", Options{CanonicalURL: "{{base_url}}/{{unknown}}"})
	if !domain.IsKind(err, domain.KindMissingVar) {
		t.Fatalf("expected missing_variable, got %v", err)
	}
}

func TestFrontMatter(t *testing.T) {
	in := domain.FrontMatter{
		"title":       "Solver",
		"description": "Constraint solving",
		"categories":  []any{"python"},
		"draft":       false,
		"series":      []any{"Geometric Solver", "Other"},
		"date":        "2021-05-02",
	}

	got, err := FrontMatter(in, "content/posts/2021-05-02-solver.md", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.FrontMatter{
		"title":         "Solver",
		"description":   "Constraint solving",
		"tags":          []any{"python"},
		"published":     true,
		"series":        "Geometric Solver",
		"canonical_url": "https://vodden.com/posts/solver/",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FrontMatter =\n%#v\nwant\n%#v", got, want)
	}
}

func TestFrontMatterMissingKeys(t *testing.T) {
	got, err := FrontMatter(domain.FrontMatter{"title": "Only", "draft": true}, "2021-01-01-only.md", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["published"] != false {
		t.Fatalf("expected draft to map to published=false")
	}
	for _, k := range []string{"description", "tags", "series"} {
		if _, ok := got[k]; ok {
			t.Fatalf("expected %s to be absent", k)
		}
	}
}

func TestPost(t *testing.T) {
	post := domain.Post{
		Path:  "content/posts/2021-05-02-solver.md",
		Title: "Solver",
		Document: domain.Document{
			FrontMatter: domain.FrontMatter{"title": "Solver"},
			Content:     "x = $a$ {{% skip %}}internal{{% /skip %}}",
		},
	}

	doc, err := Post(post, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content != "x = {% katex inline %}a{% endkatex %} " {
		t.Fatalf("unexpected content %q", doc.Content)
	}
	if doc.FrontMatter["published"] != true {
		t.Fatalf("expected published when draft is missing")
	}
}

func TestRenderGolden(t *testing.T) {
	doc := domain.Document{
		FrontMatter: domain.FrontMatter{
			"title":         "Geometric Solver Part 1",
			"description":   "Building a constraint solver",
			"tags":          []any{"python", "geometry"},
			"published":     true,
			"series":        "Geometric Solver",
			"canonical_url": "https://vodden.com/posts/geometric-solver-1/",
		},
		Content: "\nSome text {% katex inline %}x{% endkatex %}.\n",
	}

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "render_basic", []byte(out))
}

func TestRenderFoldsMultiline(t *testing.T) {
	out, err := Render(domain.Document{
		FrontMatter: domain.FrontMatter{"description": "line one\nline two"},
		Content:     "body",
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(out, "description: >") {
		t.Fatalf("expected folded scalar, got:\n%s", out)
	}
	if !strings.HasPrefix(out, "---\n") || !strings.HasSuffix(out, "---\nbody\n") {
		t.Fatalf("unexpected framing:\n%s", out)
	}
}

func TestRenderEmptyFrontMatter(t *testing.T) {
	out, err := Render(domain.Document{Content: "body"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if out != "---\n---\nbody\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNormalizeEqualizesTypes(t *testing.T) {
	a, err := Normalize(domain.FrontMatter{"tags": []string{"a", "b"}, "n": 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Normalize(domain.FrontMatter{"tags": []any{"a", "b"}, "n": 1})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected normalized maps to match: %#v vs %#v", a, b)
	}
}
