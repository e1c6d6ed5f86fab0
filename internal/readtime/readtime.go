// readtime оценивает время чтения поста по его содержимому.
package readtime

import (
	"strings"

	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/richtext"
)

// WordsPerMinute — фиксированная скорость чтения.
const WordsPerMinute = 200

// EstimateMinutes возвращает оценку времени чтения в минутах.
//
// Для каждого блока считаются слова заголовка и плоского текста тела
// (разделитель — любые пробельные символы), сумма делится на WordsPerMinute
// с округлением вверх. Минуты блоков суммируются. Пустой контент даёт 0,
// минимальный порог в одну минуту не применяется.
func EstimateMinutes(content []models.ContentBlock) int {
	total := 0
	for _, block := range content {
		words := CountWords(block.Heading) + CountWords(richtext.AsText(block.Body))
		total += ceilDiv(words, WordsPerMinute)
	}

	return total
}

// CountWords считает слова, разделённые пробельными символами.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
