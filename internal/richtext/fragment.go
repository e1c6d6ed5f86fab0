// richtext — структурированный текст CMS: фрагменты, их рендеринг
// в плоский текст и в HTML, а также санитизация результата.
package richtext

// Типы блочных фрагментов.
const (
	TypeParagraph    = "paragraph"
	TypePreformatted = "preformatted"
	TypeHeading1     = "heading1"
	TypeHeading2     = "heading2"
	TypeHeading3     = "heading3"
	TypeHeading4     = "heading4"
	TypeHeading5     = "heading5"
	TypeHeading6     = "heading6"
	TypeListItem     = "list-item"
	TypeOListItem    = "o-list-item"
	TypeImage        = "image"
	TypeEmbed        = "embed"
)

// Типы inline-разметки.
const (
	SpanStrong    = "strong"
	SpanEm        = "em"
	SpanHyperlink = "hyperlink"
	SpanLabel     = "label"
)

// Fragment — один блок rich text в формате CMS.
//
// Особенности:
//   - Spans адресуют Text в UTF-16 code units (как JS-строки на стороне CMS);
//   - URL/Alt заполнены только у image, Oembed — только у embed.
type Fragment struct {
	Type   string  `json:"type"`
	Text   string  `json:"text,omitempty"`
	Spans  []Span  `json:"spans,omitempty"`
	URL    string  `json:"url,omitempty"`
	Alt    string  `json:"alt,omitempty"`
	Oembed *Oembed `json:"oembed,omitempty"`
}

// Span — inline-разметка в диапазоне [Start, End).
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Type  string    `json:"type"`
	Data  *SpanData `json:"data,omitempty"`
}

// SpanData — полезная нагрузка span: ссылка у hyperlink, имя у label.
type SpanData struct {
	URL    string `json:"url,omitempty"`
	Target string `json:"target,omitempty"`
	Label  string `json:"label,omitempty"`
}

// Oembed — встраиваемый контент.
type Oembed struct {
	HTML string `json:"html"`
}
