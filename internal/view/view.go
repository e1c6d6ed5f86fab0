// view — HTML-представление блога: общий каркас с шапкой, страницы списка,
// поста, заглушки загрузки, 404 и ошибки. Шаблоны и статика встроены в бинарник.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/readtime"
	"github.com/pribylovaa/spacetraveling/internal/richtext"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Имена страниц.
const (
	pageHome     = "home.html"
	pagePost     = "post.html"
	pageFallback = "fallback.html"
	pageNotFound = "notfound.html"
	pageError    = "error.html"
)

// Options — параметры представления.
type Options struct {
	// Title — заголовок вкладки; по умолчанию "Posts | spacetraveling".
	Title string
	// Locale — BCP 47 локаль дат и строк интерфейса.
	Locale string
}

// Renderer рендерит страницы. Безопасен для конкурентного использования.
type Renderer struct {
	title     string
	locale    *Locale
	sanitizer *richtext.Sanitizer
	pages     map[string]*template.Template
}

// HomeData — данные страницы списка.
type HomeData struct {
	Posts   []models.PostSummary
	HasMore bool
	// Notice — сообщение об ошибке догрузки; кнопка при этом остаётся.
	Notice string
}

// PostPage — пост, подготовленный к рендерингу.
type PostPage struct {
	UID            string
	Title          string
	Banner         *models.Image
	Author         string
	Date           string
	ReadingMinutes int
	Sections       []Section
}

// Section — секция поста с очищенным HTML тела.
type Section struct {
	Heading string
	Body    template.HTML
}

// page — общий конверт данных шаблона.
type page struct {
	Title string
	Lang  string
	Body  any
}

// New разбирает встроенные шаблоны.
func New(opts Options) (*Renderer, error) {
	const op = "view.New"

	if opts.Title == "" {
		opts.Title = "Posts | spacetraveling"
	}

	loc, err := NewLocale(opts.Locale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	funcs := template.FuncMap{
		"date":    loc.Date,
		"t":       loc.T,
		"minutes": loc.Minutes,
	}

	base, err := template.New("layout").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("%s: layout: %w", op, err)
	}

	r := &Renderer{
		title:     opts.Title,
		locale:    loc,
		sanitizer: richtext.NewSanitizer(),
		pages:     make(map[string]*template.Template),
	}

	for _, name := range []string{pageHome, pagePost, pageFallback, pageNotFound, pageError} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("%s: clone %s: %w", op, name, err)
		}

		if _, err := t.ParseFS(templatesFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("%s: parse %s: %w", op, name, err)
		}

		r.pages[name] = t
	}

	return r, nil
}

// Locale — локаль представления.
func (r *Renderer) Locale() *Locale { return r.locale }

// Home рендерит страницу списка.
func (r *Renderer) Home(data HomeData) ([]byte, error) {
	return r.render(pageHome, data)
}

// Post рендерит страницу поста.
func (r *Renderer) Post(p *models.Post) ([]byte, error) {
	return r.render(pagePost, r.PostPage(p))
}

// Fallback рендерит заглушку для поста, который ещё собирается.
func (r *Renderer) Fallback() ([]byte, error) {
	return r.render(pageFallback, nil)
}

// NotFound рендерит страницу 404.
func (r *Renderer) NotFound() ([]byte, error) {
	return r.render(pageNotFound, nil)
}

// Error рендерит страницу ошибки с сообщением msg.
func (r *Renderer) Error(msg string) ([]byte, error) {
	return r.render(pageError, msg)
}

// T переводит строку интерфейса в локали представления.
func (r *Renderer) T(key string, args ...any) string { return r.locale.T(key, args...) }

// PostPage собирает данные поста: дата, время чтения, очищенные секции.
func (r *Renderer) PostPage(p *models.Post) PostPage {
	pp := PostPage{
		UID:            p.UID,
		Title:          p.Data.Title,
		Author:         p.Data.Author,
		Date:           r.locale.Date(p.FirstPublicationDate),
		ReadingMinutes: readtime.EstimateMinutes(p.Data.Content),
		Sections:       make([]Section, 0, len(p.Data.Content)),
	}

	if pp.Title == "" {
		pp.Title = "title"
	}
	if p.Data.Banner.URL != "" {
		banner := p.Data.Banner
		pp.Banner = &banner
	}

	for _, block := range p.Data.Content {
		pp.Sections = append(pp.Sections, Section{
			Heading: block.Heading,
			Body:    r.sanitizer.Render(block.Body),
		})
	}

	return pp
}

func (r *Renderer) render(name string, body any) ([]byte, error) {
	t, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("view.render: unknown page %q", name)
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", page{
		Title: r.title,
		Lang:  r.locale.Lang(),
		Body:  body,
	})
	if err != nil {
		return nil, fmt.Errorf("view.render %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

// Static — встроенные статические файлы (логотип, стили).
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	return sub
}
