package usecase

import (
	"github.com/rvodden/rvodden.github.io/internal/ports"
	"github.com/rvodden/rvodden.github.io/internal/usecase/convert"
)

// ConvertPost renders a single Hugo post as dev.to body markdown.
type ConvertPost struct {
	posts ports.PostSource
	opts  convert.Options
}

func NewConvertPost(ps ports.PostSource, opts convert.Options) *ConvertPost {
	return &ConvertPost{posts: ps, opts: opts}
}

func (uc *ConvertPost) Execute(path string) (string, error) {
	post, err := uc.posts.LoadPost(path)
	if err != nil {
		return "", err
	}
	doc, err := convert.Post(post, uc.opts)
	if err != nil {
		return "", err
	}
	return convert.Render(doc)
}
