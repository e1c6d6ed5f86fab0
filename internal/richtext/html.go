package richtext

import (
	"html"
	"sort"
	"strings"
	"unicode/utf16"
)

// AsHTML рендерит фрагменты в HTML-разметку.
//
// Правила:
//   - заголовки/параграфы/preformatted — соответствующие блочные теги;
//   - подряд идущие list-item / o-list-item группируются в <ul> / <ol>;
//   - spans вкладываются друг в друга, пересечения обрезаются по границе внешнего;
//   - текст экранируется, "\n" превращается в <br />.
//
// Результат считается недоверенным: перед вставкой в страницу его
// нужно пропустить через Sanitizer.
func AsHTML(fragments []Fragment) string {
	var b strings.Builder
	openList := ""

	for _, f := range fragments {
		list := listTag(f.Type)
		if list != openList {
			if openList != "" {
				b.WriteString("</" + openList + ">")
			}
			if list != "" {
				b.WriteString("<" + list + ">")
			}
			openList = list
		}

		writeBlock(&b, f)
	}

	if openList != "" {
		b.WriteString("</" + openList + ">")
	}

	return b.String()
}

func listTag(t string) string {
	switch t {
	case TypeListItem:
		return "ul"
	case TypeOListItem:
		return "ol"
	default:
		return ""
	}
}

func writeBlock(b *strings.Builder, f Fragment) {
	switch f.Type {
	case TypeImage:
		if f.URL == "" {
			return
		}
		b.WriteString(`<p class="block-img"><img src="`)
		b.WriteString(html.EscapeString(f.URL))
		b.WriteString(`" alt="`)
		b.WriteString(html.EscapeString(f.Alt))
		b.WriteString(`" /></p>`)
		return
	case TypeEmbed:
		if f.Oembed == nil || f.Oembed.HTML == "" {
			return
		}
		b.WriteString(`<div class="embed">`)
		b.WriteString(f.Oembed.HTML)
		b.WriteString(`</div>`)
		return
	}

	tag := blockTag(f.Type)
	b.WriteString("<" + tag + ">")
	b.WriteString(inline(f.Text, f.Spans))
	b.WriteString("</" + tag + ">")
}

func blockTag(t string) string {
	switch t {
	case TypeHeading1:
		return "h1"
	case TypeHeading2:
		return "h2"
	case TypeHeading3:
		return "h3"
	case TypeHeading4:
		return "h4"
	case TypeHeading5:
		return "h5"
	case TypeHeading6:
		return "h6"
	case TypePreformatted:
		return "pre"
	case TypeListItem, TypeOListItem:
		return "li"
	default:
		return "p"
	}
}

// inline рендерит текст блока с учётом spans.
func inline(text string, spans []Span) string {
	units := utf16.Encode([]rune(text))

	sorted := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > len(units) {
			s.End = len(units)
		}
		if s.Start < s.End {
			sorted = append(sorted, s)
		}
	}

	// Внешние (более длинные) spans — раньше вложенных.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	return renderRange(units, 0, len(units), sorted)
}

func renderRange(units []uint16, from, to int, spans []Span) string {
	var b strings.Builder
	pos := from

	for i := 0; i < len(spans); {
		sp := spans[i]
		if sp.Start < pos {
			sp.Start = pos
		}
		if sp.End > to {
			sp.End = to
		}

		// Вложенные — все последующие, начинающиеся внутри текущего.
		j := i + 1
		for j < len(spans) && spans[j].Start < sp.End {
			j++
		}

		if sp.Start >= sp.End {
			i = j
			continue
		}

		b.WriteString(escape(units[pos:sp.Start]))
		open, closeTag := spanTags(sp)
		b.WriteString(open)
		b.WriteString(renderRange(units, sp.Start, sp.End, spans[i+1:j]))
		b.WriteString(closeTag)

		pos = sp.End
		i = j
	}

	b.WriteString(escape(units[pos:to]))
	return b.String()
}

func spanTags(s Span) (string, string) {
	switch s.Type {
	case SpanStrong:
		return "<strong>", "</strong>"
	case SpanEm:
		return "<em>", "</em>"
	case SpanHyperlink:
		if s.Data == nil || s.Data.URL == "" {
			return "", ""
		}
		attrs := `href="` + html.EscapeString(s.Data.URL) + `"`
		if s.Data.Target != "" {
			attrs += ` target="` + html.EscapeString(s.Data.Target) + `" rel="noopener"`
		}
		return "<a " + attrs + ">", "</a>"
	case SpanLabel:
		label := ""
		if s.Data != nil {
			label = s.Data.Label
		}
		return `<span class="` + html.EscapeString(label) + `">`, "</span>"
	default:
		return "", ""
	}
}

func escape(units []uint16) string {
	s := html.EscapeString(string(utf16.Decode(units)))
	return strings.ReplaceAll(s, "\n", "<br />")
}
