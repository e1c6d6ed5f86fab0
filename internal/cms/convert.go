package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// Форматы дат публикации: CMS отдаёт смещение без двоеточия.
var dateLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

func toSummaryPage(ctx context.Context, resp *searchResponse) (*models.SummaryPage, error) {
	page := &models.SummaryPage{
		Results:      make([]models.PostSummary, 0, len(resp.Results)),
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResultsSize,
	}

	if resp.NextPage != nil {
		page.NextPage = *resp.NextPage
	}

	for _, d := range resp.Results {
		s := models.PostSummary{
			UID:                  d.UID,
			FirstPublicationDate: publicationDate(ctx, d),
		}

		if len(d.Data) > 0 {
			if err := json.Unmarshal(d.Data, &s.Data); err != nil {
				return nil, fmt.Errorf("%w: summary %q: %v", ErrDecode, d.UID, err)
			}
		}

		page.Results = append(page.Results, s)
	}

	return page, nil
}

func toPost(ctx context.Context, d document) (*models.Post, error) {
	post := &models.Post{
		UID:                  d.UID,
		FirstPublicationDate: publicationDate(ctx, d),
	}

	if len(d.Data) > 0 {
		if err := json.Unmarshal(d.Data, &post.Data); err != nil {
			return nil, fmt.Errorf("%w: post %q: %v", ErrDecode, d.UID, err)
		}
	}

	return post, nil
}

// publicationDate разбирает дату публикации. Неразборчивая дата логируется
// и превращается в nil, документ при этом не отбрасывается.
func publicationDate(ctx context.Context, d document) *time.Time {
	if d.FirstPublicationDate == nil {
		return nil
	}

	t, err := parseDate(*d.FirstPublicationDate)
	if err != nil {
		log.From(ctx).Warn("date_parse_failed",
			slog.String("uid", d.UID),
			slog.String("value", *d.FirstPublicationDate),
			slog.String("err", err.Error()),
		)
		return nil
	}

	return &t
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}

	var lastErr error
	for _, l := range dateLayouts {
		t, err := time.Parse(l, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}
