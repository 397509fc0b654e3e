package domain

import "fmt"

// FrontMatter is the YAML preamble of a markdown document.
// Values keep whatever shape the YAML decoder produced.
type FrontMatter map[string]any

// String returns the value at key as a string. Non-string scalars are formatted.
func (fm FrontMatter) String(key string) (string, bool) {
	v, ok := fm[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	default:
		return fmt.Sprint(t), true
	}
}

// Bool returns the value at key as a bool. Missing or non-bool values report ok=false.
func (fm FrontMatter) Bool(key string) (bool, bool) {
	v, ok := fm[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Strings returns the value at key as a string slice. A scalar string becomes a
// single-element slice.
func (fm FrontMatter) Strings(key string) ([]string, bool) {
	v, ok := fm[key]
	if !ok || v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			out = append(out, fmt.Sprint(it))
		}
		return out, true
	case string:
		return []string{t}, true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy.
func (fm FrontMatter) Clone() FrontMatter {
	out := make(FrontMatter, len(fm))
	for k, v := range fm {
		out[k] = v
	}
	return out
}

// Document is a markdown file split into its preamble and content.
type Document struct {
	FrontMatter FrontMatter
	Content     string
}

// Post is a Hugo post on disk.
type Post struct {
	Path  string
	Title string
	Document
}

// Draft reports whether the post is marked as draft.
func (p Post) Draft() bool {
	d, _ := p.FrontMatter.Bool("draft")
	return d
}

// PostRef is a lightweight reference to a post file on disk.
type PostRef struct {
	Title string
	Path  string
}
