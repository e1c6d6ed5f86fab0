// export — статический экспорт сайта в каталог.
//
// Раскладка результата:
//
//	<out>/index.html             — список со всеми постами;
//	<out>/post/<uid>/index.html  — страница каждого поста;
//	<out>/static/...             — встроенные ассеты;
//	<out>/feed.xml               — лента RSS, если задан адрес сайта.
package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pribylovaa/spacetraveling/internal/feed"
	"github.com/pribylovaa/spacetraveling/internal/models"
	logctx "github.com/pribylovaa/spacetraveling/internal/pkg/log"
	"github.com/pribylovaa/spacetraveling/internal/service"
	"github.com/pribylovaa/spacetraveling/internal/view"
)

// ErrEmptyOutput — не задан каталог назначения.
var ErrEmptyOutput = errors.New("empty output dir")

// Source — источник данных экспорта.
type Source interface {
	AllSummaries(ctx context.Context) ([]models.PostSummary, error)
	FetchPost(ctx context.Context, slug string) (*models.Post, error)
}

// Options — параметры экспорта.
type Options struct {
	OutputDir   string
	Concurrency int
	// Feed — описание ленты; пустой BaseURL -> feed.xml не пишется.
	Feed feed.Channel
}

// Result — итог экспорта.
type Result struct {
	Posts   []string
	Skipped []string
}

// Site пишет весь сайт в out. Посты, удалённые из CMS между
// выборкой списка и загрузкой, и посты с uid, непригодным для имени
// каталога, пропускаются; любая другая ошибка прерывает экспорт.
func Site(ctx context.Context, src Source, v *view.Renderer, opts Options) (*Result, error) {
	const op = "export.Site"

	out, concurrency := opts.OutputDir, opts.Concurrency
	if out == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOutput)
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	summaries, err := src.AllSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	index, err := v.Home(view.HomeData{Posts: summaries})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := writeFile(filepath.Join(out, "index.html"), index); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	built := make([]bool, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, s := range summaries {
		if !safeSegment(s.UID) {
			logctx.From(ctx).Warn("export_post_skipped",
				slog.String("uid", s.UID),
				slog.String("reason", "unsafe uid"),
			)
			continue
		}

		g.Go(func() error {
			post, err := src.FetchPost(gctx, s.UID)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					logctx.From(ctx).Warn("export_post_skipped", slog.String("uid", s.UID))
					return nil
				}
				return fmt.Errorf("post %q: %w", s.UID, err)
			}

			page, err := v.Post(post)
			if err != nil {
				return fmt.Errorf("post %q: %w", s.UID, err)
			}

			if err := writeFile(filepath.Join(out, "post", s.UID, "index.html"), page); err != nil {
				return err
			}

			built[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := copyFS(filepath.Join(out, "static"), view.Static()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if opts.Feed.BaseURL != "" {
		ch := opts.Feed
		if ch.Language == "" {
			ch.Language = v.Locale().Lang()
		}

		xml, err := feed.Build(ch, summaries)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := writeFile(filepath.Join(out, "feed.xml"), xml); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		logctx.From(ctx).Info("export_feed_skipped", slog.String("reason", "empty base url"))
	}

	res := &Result{}
	for i, s := range summaries {
		if built[i] {
			res.Posts = append(res.Posts, s.UID)
		} else {
			res.Skipped = append(res.Skipped, s.UID)
		}
	}

	return res, nil
}

// safeSegment — uid годится как один элемент пути внутри out.
func safeSegment(uid string) bool {
	if uid == "" || strings.HasPrefix(uid, ".") || strings.ContainsAny(uid, `/\:`) {
		return false
	}

	return filepath.IsLocal(uid)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func copyFS(dst string, src fs.FS) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}

		return writeFile(target, data)
	})
}
