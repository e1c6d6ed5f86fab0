package view

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Поддерживаемые локали; первая — локаль по умолчанию.
var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(supported)

// Сокращённые названия месяцев для формата "dd MMM yyyy".
var monthAbbrev = map[language.Tag][12]string{
	language.BrazilianPortuguese: {"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	language.AmericanEnglish:     {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

// Переводы строк интерфейса; ключ — английский текст.
var translations = map[language.Tag]map[string]string{
	language.BrazilianPortuguese: {
		"Load more posts":                    "Carregar mais posts",
		"Loading...":                         "Carregando...",
		"Post not found":                     "Post não encontrado",
		"Back to posts":                      "Voltar para os posts",
		"Something went wrong":               "Algo deu errado",
		"Could not load more posts":          "Não foi possível carregar mais posts",
		"A load is already in progress":      "Um carregamento já está em andamento",
		"The content service is unavailable": "O serviço de conteúdo está indisponível",
		"%d min":                             "%d min",
	},
}

// Locale — форматирование дат и строк интерфейса для одной локали.
type Locale struct {
	tag     language.Tag
	months  [12]string
	printer *message.Printer
}

// NewLocale подбирает ближайшую поддерживаемую локаль к name
// (BCP 47, например "pt-BR"). Неизвестная -> pt-BR.
func NewLocale(name string) (*Locale, error) {
	const op = "view.NewLocale"

	_, idx, _ := matcher.Match(language.Make(name))
	tag := supported[idx]

	cat := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	for t, msgs := range translations {
		for key, tr := range msgs {
			if err := cat.SetString(t, key, tr); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	return &Locale{
		tag:     tag,
		months:  monthAbbrev[tag],
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}, nil
}

// Lang — значение атрибута lang.
func (l *Locale) Lang() string { return l.tag.String() }

// Date форматирует дату как "dd MMM yyyy" в UTC; nil -> "".
func (l *Locale) Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}

	u := t.UTC()

	return fmt.Sprintf("%02d %s %d", u.Day(), l.months[u.Month()-1], u.Year())
}

// T переводит строку интерфейса.
func (l *Locale) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Minutes — подпись времени чтения, например "4 min".
func (l *Locale) Minutes(n int) string {
	return l.printer.Sprintf("%d min", n)
}
