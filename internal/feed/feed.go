// feed — лента RSS 2.0 по кратким записям постов.
package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/spacetraveling/internal/models"
)

// ErrInvalidBaseURL — адрес сайта не абсолютный.
var ErrInvalidBaseURL = errors.New("invalid base url")

// Channel — описание ленты.
type Channel struct {
	Title       string
	BaseURL     string
	Description string
	Language    string
}

// Build сериализует posts в RSS 2.0 в порядке выдачи CMS.
// lastBuildDate — самая поздняя дата публикации среди постов.
func Build(ch Channel, posts []models.PostSummary) ([]byte, error) {
	const op = "feed.Build"

	base, err := url.Parse(strings.TrimRight(ch.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidBaseURL, ch.BaseURL)
	}

	doc := rss{
		Version: "2.0",
		Channel: channel{
			Title:       ch.Title,
			Link:        base.String() + "/",
			Description: ch.Description,
			Language:    ch.Language,
			Items:       make([]item, 0, len(posts)),
		},
	}

	var latest time.Time
	for _, p := range posts {
		link := base.JoinPath("post", p.UID).String()

		it := item{
			Title:       p.Data.Title,
			Link:        link,
			GUID:        guid{IsPermaLink: "true", Value: link},
			Description: p.Data.Subtitle,
			Creator:     p.Data.Author,
		}
		if p.FirstPublicationDate != nil {
			it.PubDate = formatDate(*p.FirstPublicationDate)
			if p.FirstPublicationDate.After(latest) {
				latest = *p.FirstPublicationDate
			}
		}

		doc.Channel.Items = append(doc.Channel.Items, it)
	}

	if !latest.IsZero() {
		doc.Channel.LastBuildDate = formatDate(latest)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: marshal: %w", op, err)
	}

	return append([]byte(xml.Header), out...), nil
}

// formatDate — дата в формате RFC 1123 с числовой зоной, в UTC.
func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}
