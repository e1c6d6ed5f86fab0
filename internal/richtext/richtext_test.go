package richtext

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты рендеринга rich text:
//  - AsText: склейка пробелом, пропуск блоков без текста;
//  - AsHTML: блочные теги, группировка списков, вложенные spans, UTF-16 смещения, экранирование;
//  - Sanitizer: удаление опасной разметки при сохранении допустимой;
//  - декодирование фрагмента из JSON формата CMS.

func TestAsText_JoinsWithSpaceAndSkipsEmpty(t *testing.T) {
	t.Parallel()

	got := AsText([]Fragment{
		{Type: TypeParagraph, Text: "Olá mundo"},
		{Type: TypeImage, URL: "https://img.example/a.png"},
		{Type: TypeParagraph, Text: "segunda linha"},
	})

	require.Equal(t, "Olá mundo segunda linha", got)
	require.Equal(t, "", AsText(nil))
}

func TestAsHTML_BlocksAndLists(t *testing.T) {
	t.Parallel()

	got := AsHTML([]Fragment{
		{Type: TypeHeading2, Text: "Title"},
		{Type: TypeListItem, Text: "a"},
		{Type: TypeListItem, Text: "b"},
		{Type: TypeOListItem, Text: "one"},
		{Type: TypeParagraph, Text: "end"},
		{Type: TypePreformatted, Text: "x := 1"},
	})

	require.Equal(t,
		"<h2>Title</h2><ul><li>a</li><li>b</li></ul><ol><li>one</li></ol><p>end</p><pre>x := 1</pre>",
		got,
	)
}

func TestAsHTML_TrailingListIsClosed(t *testing.T) {
	t.Parallel()

	got := AsHTML([]Fragment{{Type: TypeOListItem, Text: "only"}})
	require.Equal(t, "<ol><li>only</li></ol>", got)
}

func TestAsHTML_NestedSpans(t *testing.T) {
	t.Parallel()

	got := AsHTML([]Fragment{{
		Type: TypeParagraph,
		Text: "hello brave world",
		Spans: []Span{
			{Start: 6, End: 11, Type: SpanEm},
			{Start: 0, End: 11, Type: SpanStrong},
			{Start: 12, End: 17, Type: SpanHyperlink, Data: &SpanData{URL: "https://example.com"}},
		},
	}})

	require.Equal(t,
		`<p><strong>hello <em>brave</em></strong> <a href="https://example.com">world</a></p>`,
		got,
	)
}

func TestAsHTML_SpanOffsetsAreUTF16(t *testing.T) {
	t.Parallel()

	// "🚀" занимает две UTF-16 единицы, поэтому "go" начинается с 3.
	got := AsHTML([]Fragment{{
		Type:  TypeParagraph,
		Text:  "🚀 go",
		Spans: []Span{{Start: 3, End: 5, Type: SpanStrong}},
	}})

	require.Equal(t, "<p>🚀 <strong>go</strong></p>", got)
}

func TestAsHTML_EscapesTextAndConvertsNewlines(t *testing.T) {
	t.Parallel()

	got := AsHTML([]Fragment{{Type: TypeParagraph, Text: "a<b>\nc"}})
	require.Equal(t, "<p>a&lt;b&gt;<br />c</p>", got)
}

func TestAsHTML_OutOfRangeSpansAreClipped(t *testing.T) {
	t.Parallel()

	got := AsHTML([]Fragment{{
		Type:  TypeParagraph,
		Text:  "abc",
		Spans: []Span{{Start: 1, End: 99, Type: SpanEm}, {Start: 5, End: 7, Type: SpanStrong}},
	}})

	require.Equal(t, "<p>a<em>bc</em></p>", got)
}

func TestAsHTML_ImageAndEmbed(t *testing.T) {
	t.Parallel()

	got := AsHTML([]Fragment{
		{Type: TypeImage, URL: "https://img.example/a.png", Alt: `a "cat"`},
		{Type: TypeImage},
		{Type: TypeEmbed, Oembed: &Oembed{HTML: "<b>video</b>"}},
	})

	require.Equal(t,
		`<p class="block-img"><img src="https://img.example/a.png" alt="a &#34;cat&#34;" /></p><div class="embed"><b>video</b></div>`,
		got,
	)
}

func TestSanitizer_StripsScriptsKeepsFormatting(t *testing.T) {
	t.Parallel()

	s := NewSanitizer()
	out := string(s.Render([]Fragment{
		{Type: TypeParagraph, Text: "safe", Spans: []Span{{Start: 0, End: 4, Type: SpanStrong}}},
		{Type: TypeEmbed, Oembed: &Oembed{HTML: `<script>alert(1)</script><img src="x" onerror="alert(2)">`}},
	}))

	require.Contains(t, out, "<strong>safe</strong>")
	require.NotContains(t, out, "<script")
	require.NotContains(t, out, "onerror")
	require.NotContains(t, out, "alert(1)")
}

func TestSanitizer_DropsJavascriptLinks(t *testing.T) {
	t.Parallel()

	s := NewSanitizer()
	out := string(s.Render([]Fragment{{
		Type:  TypeParagraph,
		Text:  "click",
		Spans: []Span{{Start: 0, End: 5, Type: SpanHyperlink, Data: &SpanData{URL: "javascript:alert(1)"}}},
	}}))

	require.NotContains(t, strings.ToLower(out), "javascript:")
	require.Contains(t, out, "click")
}

func TestFragment_DecodesCMSJSON(t *testing.T) {
	t.Parallel()

	raw := `[{"type":"paragraph","text":"Hi there","spans":[{"start":0,"end":2,"type":"hyperlink","data":{"link_type":"Web","url":"https://x.dev","target":"_blank"}}]}]`

	var frs []Fragment
	require.NoError(t, json.Unmarshal([]byte(raw), &frs))
	require.Len(t, frs, 1)
	require.Equal(t, "https://x.dev", frs[0].Spans[0].Data.URL)
	require.Equal(t, "_blank", frs[0].Spans[0].Data.Target)
}
