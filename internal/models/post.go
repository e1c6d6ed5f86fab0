// models содержит доменные сущности блога.
// Эти типы используются клиентом CMS, сервисным слоем, кэшем и представлением.
package models

import (
	"time"

	"github.com/pribylovaa/spacetraveling/internal/richtext"
)

// PostSummary — краткая запись поста для страницы списка.
//
// Особенности:
//   - UID — slug поста, используется в ссылке /post/{uid} и как ключ при рендеринге;
//   - FirstPublicationDate — nil, если CMS не вернула дату.
type PostSummary struct {
	UID                  string      `json:"uid"`
	FirstPublicationDate *time.Time  `json:"first_publication_date"`
	Data                 SummaryData `json:"data"`
}

// SummaryData — отображаемые поля краткой записи.
type SummaryData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
}

// Post — полностью разрешённый пост.
type Post struct {
	UID                  string     `json:"uid"`
	FirstPublicationDate *time.Time `json:"first_publication_date"`
	Data                 PostData   `json:"data"`
}

// PostData — тело поста.
type PostData struct {
	Title   string         `json:"title"`
	Banner  Image          `json:"banner"`
	Author  string         `json:"author"`
	Content []ContentBlock `json:"content"`
}

// Image — ссылка на изображение CMS.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// ContentBlock — секция поста: заголовок и rich-text тело.
type ContentBlock struct {
	Heading string              `json:"heading"`
	Body    []richtext.Fragment `json:"body"`
}

// SummaryPage — страница результатов CMS со ссылкой на продолжение.
//
// NextPage — непрозрачный URL курсора; "" означает, что страниц больше нет.
type SummaryPage struct {
	Results      []PostSummary `json:"results"`
	NextPage     string        `json:"next_page"`
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results_size"`
}

// QueryOptions — параметры выборки по типу документа.
//
// Особенности:
//   - PageSize <= 0 -> серверный default CMS;
//   - Page <= 0 -> первая страница.
type QueryOptions struct {
	DocumentType string
	PageSize     int
	Page         int
}
