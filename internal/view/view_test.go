package view

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/richtext"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, locale string) *Renderer {
	t.Helper()
	r, err := New(Options{Locale: locale})
	require.NoError(t, err)
	return r
}

func ptr(t time.Time) *time.Time { return &t }

func TestLocale_Date(t *testing.T) {
	t.Parallel()

	d := time.Date(2021, time.March, 5, 19, 25, 28, 0, time.UTC)

	pt, err := NewLocale("pt-BR")
	require.NoError(t, err)
	require.Equal(t, "05 mar 2021", pt.Date(&d))
	require.Equal(t, "pt-BR", pt.Lang())

	en, err := NewLocale("en")
	require.NoError(t, err)
	require.Equal(t, "05 Mar 2021", en.Date(&d))

	require.Empty(t, pt.Date(nil))
}

func TestLocale_DateUsesUTC(t *testing.T) {
	t.Parallel()

	pt, err := NewLocale("pt-BR")
	require.NoError(t, err)

	// 23:30 в UTC-3 — уже следующий день по UTC.
	d := time.Date(2021, time.December, 31, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	require.Equal(t, "01 jan 2022", pt.Date(&d))
}

func TestLocale_UnknownFallsBackToDefault(t *testing.T) {
	t.Parallel()

	l, err := NewLocale("not a locale")
	require.NoError(t, err)
	require.Equal(t, "pt-BR", l.Lang())
	require.Equal(t, "Carregar mais posts", l.T("Load more posts"))
	require.Equal(t, "4 min", l.Minutes(4))
}

func TestLocale_EnglishKeepsKeys(t *testing.T) {
	t.Parallel()

	l, err := NewLocale("en-US")
	require.NoError(t, err)
	require.Equal(t, "Load more posts", l.T("Load more posts"))
}

func TestHome_RendersSummariesAndLoadMore(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, "pt-BR")
	out, err := r.Home(HomeData{
		Posts: []models.PostSummary{{
			UID:                  "como-utilizar-hooks",
			FirstPublicationDate: ptr(time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)),
			Data:                 models.SummaryData{Title: "Como utilizar Hooks", Subtitle: "Pensando em sincronização", Author: "Joseph Oliveira"},
		}},
		HasMore: true,
	})
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, "<title>Posts | spacetraveling</title>")
	require.Contains(t, html, `<html lang="pt-BR">`)
	require.Contains(t, html, `href="/post/como-utilizar-hooks"`)
	require.Contains(t, html, "Como utilizar Hooks")
	require.Contains(t, html, "Pensando em sincronização")
	require.Contains(t, html, "Joseph Oliveira")
	require.Contains(t, html, "15 mar 2021")
	require.Contains(t, html, "Carregar mais posts")
	require.Contains(t, html, `src="/static/logo.svg"`)
}

func TestHome_HidesLoadMoreAndShowsNotice(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, "pt-BR")

	out, err := r.Home(HomeData{Posts: []models.PostSummary{{UID: "p1"}}})
	require.NoError(t, err)
	require.NotContains(t, string(out), "Carregar mais posts")

	out, err = r.Home(HomeData{HasMore: true, Notice: "falhou"})
	require.NoError(t, err)
	require.Contains(t, string(out), `role="alert">falhou`)
	require.Contains(t, string(out), "Carregar mais posts")
}

func TestHome_EscapesCMSText(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, "pt-BR")
	out, err := r.Home(HomeData{Posts: []models.PostSummary{{
		UID:  "p1",
		Data: models.SummaryData{Title: "<script>alert(1)</script>"},
	}}})
	require.NoError(t, err)
	require.NotContains(t, string(out), "<script>alert(1)</script>")
	require.Contains(t, string(out), "&lt;script&gt;")
}

func TestPost_RendersMetadataAndSanitizedBody(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, "pt-BR")
	body := strings.Repeat("word ", 199) + "word"
	p := &models.Post{
		UID:                  "p1",
		FirstPublicationDate: ptr(time.Date(2021, 3, 25, 19, 25, 28, 0, time.UTC)),
		Data: models.PostData{
			Title:  "Criando um app CRA do zero",
			Banner: models.Image{URL: "https://images.prismic.io/banner.png"},
			Author: "Danilo Vieira",
			Content: []models.ContentBlock{{
				Heading: "Proin et varius",
				Body: []richtext.Fragment{
					{Type: richtext.TypeParagraph, Text: body},
					{Type: richtext.TypeParagraph, Text: "bold", Spans: []richtext.Span{{Start: 0, End: 4, Type: richtext.SpanStrong}}},
					{Type: richtext.TypeEmbed, Oembed: &richtext.Oembed{HTML: `<script>evil()</script>`}},
				},
			}},
		},
	}

	out, err := r.Post(p)
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, "Criando um app CRA do zero")
	require.Contains(t, html, `src="https://images.prismic.io/banner.png"`)
	require.Contains(t, html, `alt="banner"`)
	require.Contains(t, html, "25 mar 2021")
	require.Contains(t, html, "Danilo Vieira")
	// 200 слов тела + 3 слова заголовка + 1 слово -> ceil(204/200) = 2.
	require.Contains(t, html, "2 min")
	require.Contains(t, html, "<h2 class=\"heading\">Proin et varius</h2>")
	require.Contains(t, html, "<strong>bold</strong>")
	require.NotContains(t, html, "evil()")
}

func TestPostPage_Defaults(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, "pt-BR")
	pp := r.PostPage(&models.Post{UID: "p1"})

	require.Equal(t, "title", pp.Title)
	require.Nil(t, pp.Banner)
	require.Empty(t, pp.Date)
	require.Zero(t, pp.ReadingMinutes)
	require.Empty(t, pp.Sections)
}

func TestFallbackNotFoundError(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, "pt-BR")

	out, err := r.Fallback()
	require.NoError(t, err)
	require.Contains(t, string(out), "Carregando...")
	require.Contains(t, string(out), "<title>Posts | spacetraveling</title>")

	out, err = r.NotFound()
	require.NoError(t, err)
	require.Contains(t, string(out), "Post não encontrado")

	out, err = r.Error("O serviço de conteúdo está indisponível")
	require.NoError(t, err)
	require.Contains(t, string(out), "Algo deu errado")
	require.Contains(t, string(out), "indisponível")
}

func TestStatic_ContainsAssets(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"logo.svg", "styles.css"} {
		_, err := fs.Stat(Static(), name)
		require.NoError(t, err, name)
	}
}
