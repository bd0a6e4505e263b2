package web

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/internal/core/blog"
	"Folio/internal/core/page"
	"Folio/internal/core/repositories"
)

type stubRepos struct{}

func (stubRepos) ListRepositories(context.Context) []repositories.Repository {
	return repositories.Fallback()
}

func (stubRepos) GetProfile(context.Context) repositories.Profile {
	return repositories.Profile{PublicRepos: 7, Followers: 3}
}

type stubPosts struct{}

func (stubPosts) ListPosts(context.Context) []blog.Post {
	return blog.Fallback()
}

func TestPipelines_LoadThroughController(t *testing.T) {
	r := newTestRenderer(t)
	controller, err := page.New(Pipelines(r, stubRepos{}, stubPosts{}))
	require.NoError(t, err)

	skeleton, _ := controller.Markup(SectionBlog)
	assert.Contains(t, string(skeleton), `aria-busy="true"`)

	controller.Load(context.Background())

	projects, _ := controller.Markup(SectionProjects)
	assert.Equal(t, len(repositories.Fallback()), strings.Count(string(projects), "project-card"))
	posts, _ := controller.Markup(SectionBlog)
	assert.Equal(t, 3, strings.Count(string(posts), "post-card"))
	stats, _ := controller.Markup(SectionStats)
	assert.Contains(t, string(stats), "<strong>7</strong>")
}
