package richtext

import "strings"

// AsText рендерит фрагменты в плоский текст, разделяя блоки пробелом.
// Фрагменты без текста (image, embed) пропускаются.
func AsText(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f.Text == "" {
			continue
		}

		parts = append(parts, f.Text)
	}

	return strings.Join(parts, " ")
}
