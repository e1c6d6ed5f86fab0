// cms — клиент headless CMS (Prismic REST API v2).
//
// Клиент не читает окружение процесса: endpoint и токен передаются явно
// через Options. Повторов запросов нет, любая ошибка возвращается вызывающему.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// MaxPageSize — верхняя граница pageSize, которую принимает CMS.
const MaxPageSize = 100

var (
	ErrInvalidOptions   = errors.New("invalid cms options")
	ErrNotFound         = errors.New("document not found")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDecode           = errors.New("decode failed")
	ErrForeignCursor    = errors.New("cursor points outside cms endpoint")
)

// Options — явная конфигурация клиента.
type Options struct {
	// Endpoint — корень API, например https://repo.cdn.prismic.io/api/v2.
	Endpoint string
	// AccessToken — токен доступа; пустой для публичных репозиториев.
	AccessToken string
}

// Client — аутентифицированный дескриптор CMS.
type Client struct {
	http     *http.Client
	endpoint *url.URL
	token    string
}

// New создаёт клиента. httpClient настраивается извне (таймауты, транспорт);
// nil -> клиент с таймаутом 10s.
func New(opts Options, httpClient *http.Client) (*Client, error) {
	const op = "cms.New"

	raw := strings.TrimSpace(opts.Endpoint)
	if raw == "" {
		return nil, fmt.Errorf("%s: %w: empty endpoint", op, ErrInvalidOptions)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidOptions, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s: %w: endpoint must be an absolute http(s) URL", op, ErrInvalidOptions)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{http: httpClient, endpoint: u, token: opts.AccessToken}, nil
}

// Query выбирает документы заданного типа (предикат at(document.type, ...)).
func (c *Client) Query(ctx context.Context, opts models.QueryOptions) (*models.SummaryPage, error) {
	const op = "cms.Query"

	if opts.DocumentType == "" {
		return nil, fmt.Errorf("%s: %w: empty document type", op, ErrInvalidOptions)
	}

	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.search(ctx, ref, typePredicate(opts.DocumentType), opts.PageSize, opts.Page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toSummaryPage(ctx, resp)
}

// PostByUID возвращает полный документ по uid.
// Нет документа -> ErrNotFound.
func (c *Client) PostByUID(ctx context.Context, docType, uid string) (*models.Post, error) {
	const op = "cms.PostByUID"

	if !validUID(uid) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := fmt.Sprintf(`[[at(my.%s.uid,"%s")]]`, docType, uid)
	resp, err := c.search(ctx, ref, q, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	post, err := toPost(ctx, resp.Results[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// NextPage выполняет один GET по URL курсора и возвращает следующую страницу.
// Курсор обязан указывать на тот же scheme+host, что и endpoint.
func (c *Client) NextPage(ctx context.Context, cursor string) (*models.SummaryPage, error) {
	const op = "cms.NextPage"

	target, err := c.cursorURL(cursor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var resp searchResponse
	if err := c.getJSON(ctx, target, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toSummaryPage(ctx, &resp)
}

// UIDs обходит все страницы документов типа docType и возвращает их uid
// в порядке выдачи CMS.
func (c *Client) UIDs(ctx context.Context, docType string) ([]string, error) {
	const op = "cms.UIDs"

	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var uids []string
	for page := 1; ; page++ {
		resp, err := c.search(ctx, ref, typePredicate(docType), MaxPageSize, page)
		if err != nil {
			return nil, fmt.Errorf("%s: page=%d: %w", op, page, err)
		}

		for _, d := range resp.Results {
			if d.UID != "" {
				uids = append(uids, d.UID)
			}
		}

		if resp.NextPage == nil || page >= resp.TotalPages {
			break
		}
	}

	return uids, nil
}

// masterRef читает дескриптор API и возвращает master ref.
func (c *Client) masterRef(ctx context.Context) (string, error) {
	u := *c.endpoint
	if c.token != "" {
		u.RawQuery = url.Values{"access_token": {c.token}}.Encode()
	}

	var api apiDescriptor
	if err := c.getJSON(ctx, u.String(), &api); err != nil {
		return "", fmt.Errorf("master_ref: %w", err)
	}

	for _, r := range api.Refs {
		if r.IsMasterRef && r.Ref != "" {
			return r.Ref, nil
		}
	}

	return "", fmt.Errorf("master_ref: %w: no master ref", ErrDecode)
}

func (c *Client) search(ctx context.Context, ref, q string, pageSize, page int) (*searchResponse, error) {
	u := c.endpoint.JoinPath("documents", "search")

	v := url.Values{}
	v.Set("ref", ref)
	v.Set("q", q)
	if pageSize > 0 {
		v.Set("pageSize", strconv.Itoa(min(pageSize, MaxPageSize)))
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if c.token != "" {
		v.Set("access_token", c.token)
	}
	u.RawQuery = v.Encode()

	var resp searchResponse
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &resp, nil
}

// cursorURL проверяет курсор и при необходимости дописывает токен.
func (c *Client) cursorURL(cursor string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(cursor))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrForeignCursor, cursor)
	}

	if !strings.EqualFold(u.Scheme, c.endpoint.Scheme) || !strings.EqualFold(u.Host, c.endpoint.Host) {
		return "", fmt.Errorf("%w: host %q", ErrForeignCursor, u.Host)
	}

	if c.token != "" {
		q := u.Query()
		if q.Get("access_token") == "" {
			q.Set("access_token", c.token)
			u.RawQuery = q.Encode()
		}
	}

	return u.String(), nil
}

func (c *Client) getJSON(ctx context.Context, target string, dst any) error {
	lg := log.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("new_request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		lg.Warn("cms_http_error",
			slog.String("url", redact(target)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		lg.Warn("cms_unexpected_status",
			slog.String("url", redact(target)),
			slog.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: status=%d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return nil
}

func typePredicate(docType string) string {
	return fmt.Sprintf(`[[at(document.type,"%s")]]`, docType)
}

// validUID отсекает значения, которые нельзя подставить в предикат.
func validUID(uid string) bool {
	if uid == "" {
		return false
	}

	return !strings.ContainsAny(uid, "\"\\[]")
}

// redact убирает токен из URL перед логированием.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	q := u.Query()
	if q.Has("access_token") {
		q.Set("access_token", "REDACTED")
		u.RawQuery = q.Encode()
	}

	return u.String()
}
