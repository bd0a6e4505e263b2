package web

import (
	"context"
	"html/template"

	"Folio/internal/core/blog"
	"Folio/internal/core/page"
	"Folio/internal/core/repositories"
)

// Pipelines wires each feed to its fragment. Every loader falls back
// internally, so a section always renders something.
func Pipelines(r *Renderer, repos repositories.Service, posts blog.Service) []page.Pipeline {
	return []page.Pipeline{
		{
			Name:     SectionProjects,
			Skeleton: r.Skeleton(SectionProjects),
			Load: func(ctx context.Context) template.HTML {
				return r.Repositories(repos.ListRepositories(ctx))
			},
		},
		{
			Name:     SectionBlog,
			Skeleton: r.Skeleton(SectionBlog),
			Load: func(ctx context.Context) template.HTML {
				return r.Posts(posts.ListPosts(ctx))
			},
		},
		{
			Name:     SectionStats,
			Skeleton: r.Skeleton(SectionStats),
			Load: func(ctx context.Context) template.HTML {
				return r.Profile(repos.GetProfile(ctx))
			},
		},
	}
}
