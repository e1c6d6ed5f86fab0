package richtext

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer очищает HTML, пришедший из CMS, по allow-list политике
// пользовательского контента. Безопасен для конкурентного использования.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer создаёт санитайзер на базе UGC-политики bluemonday
// с разрешённым class у блоков и span-меток.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "div")
	p.RequireNoReferrerOnLinks(true)

	return &Sanitizer{policy: p}
}

// Sanitize возвращает очищенную разметку, пригодную для вставки в шаблон.
func (s *Sanitizer) Sanitize(markup string) template.HTML {
	return template.HTML(s.policy.Sanitize(markup))
}

// Render — AsHTML + Sanitize.
func (s *Sanitizer) Render(fragments []Fragment) template.HTML {
	return s.Sanitize(AsHTML(fragments))
}
