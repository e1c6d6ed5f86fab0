package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/spacetraveling/internal/feed"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/service"
	"github.com/pribylovaa/spacetraveling/internal/view"
)

type stubSource struct {
	summaries []models.PostSummary
	listErr   error
	posts     map[string]*models.Post
	postErr   map[string]error
}

func (s *stubSource) AllSummaries(context.Context) ([]models.PostSummary, error) {
	return s.summaries, s.listErr
}

func (s *stubSource) FetchPost(_ context.Context, slug string) (*models.Post, error) {
	if err := s.postErr[slug]; err != nil {
		return nil, err
	}
	return s.posts[slug], nil
}

func renderer(t *testing.T) *view.Renderer {
	t.Helper()
	v, err := view.New(view.Options{Locale: "pt-BR"})
	require.NoError(t, err)
	return v
}

func source(uids ...string) *stubSource {
	src := &stubSource{posts: map[string]*models.Post{}, postErr: map[string]error{}}
	for _, uid := range uids {
		src.summaries = append(src.summaries, models.PostSummary{UID: uid, Data: models.SummaryData{Title: "Title " + uid}})
		src.posts[uid] = &models.Post{UID: uid, Data: models.PostData{Title: "Title " + uid}}
	}
	return src
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestSite_WritesIndexPostsAndStatic(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	res, err := Site(t.Context(), source("a", "b", "c"), renderer(t), Options{
		OutputDir:   out,
		Concurrency: 2,
		Feed:        feed.Channel{Title: "spacetraveling", BaseURL: "https://blog.example"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, res.Posts)
	require.Empty(t, res.Skipped)

	index := readFile(t, filepath.Join(out, "index.html"))
	require.Contains(t, index, "Title a")
	require.Contains(t, index, "Title c")
	require.NotContains(t, index, "Carregar mais posts")

	require.Contains(t, readFile(t, filepath.Join(out, "post", "b", "index.html")), "Title b")
	require.FileExists(t, filepath.Join(out, "static", "logo.svg"))
	require.FileExists(t, filepath.Join(out, "static", "styles.css"))

	rss := readFile(t, filepath.Join(out, "feed.xml"))
	require.Contains(t, rss, "<link>https://blog.example/post/c</link>")
	require.Contains(t, rss, "<language>pt-BR</language>")
}

func TestSite_SkipsVanishedPosts(t *testing.T) {
	t.Parallel()

	src := source("a", "b")
	src.postErr["b"] = fmt.Errorf("svc: %w", service.ErrNotFound)

	out := t.TempDir()
	res, err := Site(t.Context(), src, renderer(t), Options{OutputDir: out, Concurrency: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, res.Posts)
	require.Equal(t, []string{"b"}, res.Skipped)
	require.NoFileExists(t, filepath.Join(out, "post", "b", "index.html"))
	require.NoFileExists(t, filepath.Join(out, "feed.xml"))
}

func TestSite_Errors(t *testing.T) {
	t.Parallel()

	_, err := Site(t.Context(), source(), renderer(t), Options{})
	require.ErrorIs(t, err, ErrEmptyOutput)

	boom := errors.New("boom")

	src := source()
	src.listErr = boom
	_, err = Site(t.Context(), src, renderer(t), Options{OutputDir: t.TempDir()})
	require.ErrorIs(t, err, boom)

	src = source("a")
	src.postErr["a"] = fmt.Errorf("svc: %w", service.ErrUpstream)
	_, err = Site(t.Context(), src, renderer(t), Options{OutputDir: t.TempDir()})
	require.ErrorIs(t, err, service.ErrUpstream)
}

func TestSite_SkipsUnsafeUIDs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	out := filepath.Join(root, "public")
	unsafe := []string{"../../escaped", "..", ".hidden", `a\b`, "a/b"}

	res, err := Site(t.Context(), source(append([]string{"ok"}, unsafe...)...), renderer(t), Options{OutputDir: out})
	require.NoError(t, err)
	require.Equal(t, []string{"ok"}, res.Posts)
	require.Equal(t, unsafe, res.Skipped)

	require.FileExists(t, filepath.Join(out, "post", "ok", "index.html"))
	require.NoFileExists(t, filepath.Join(root, "escaped", "index.html"))
	require.NoFileExists(t, filepath.Join(filepath.Dir(root), "escaped", "index.html"))
	require.NoDirExists(t, filepath.Join(out, "post", "a"))
}

func TestSafeSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uid  string
		want bool
	}{
		{uid: "como-utilizar-hooks", want: true},
		{uid: "post.v2", want: true},
		{uid: "", want: false},
		{uid: "..", want: false},
		{uid: ".env", want: false},
		{uid: "../x", want: false},
		{uid: "a/b", want: false},
		{uid: `a\b`, want: false},
		{uid: "c:x", want: false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, safeSegment(tt.uid), tt.uid)
	}
}
