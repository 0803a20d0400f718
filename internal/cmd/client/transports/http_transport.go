package transports

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rzbill/lodex/internal/catalog"
)

// HTTPTransport implements ItemsTransport and Admin over the HTTP API.
type HTTPTransport struct {
	base       string
	collection string
	client     *http.Client
}

// NewHTTPTransport targets baseURL (e.g. http://127.0.0.1:8080).
func NewHTTPTransport(baseURL, collection string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{base: strings.TrimRight(baseURL, "/"), collection: collection, client: client}
}

type itemsResp struct {
	Items []catalog.Item `json:"items"`
}

func (t *HTTPTransport) Forward(ctx context.Context, q catalog.ForwardQuery) ([]catalog.Item, error) {
	v := t.values()
	setNonEmpty(v, "lower", q.Lower)
	setNonEmpty(v, "filter", q.Filter)
	v.Set("offset", strconv.Itoa(q.Offset))
	v.Set("limit", strconv.Itoa(q.Limit))
	var out itemsResp
	if err := t.do(ctx, http.MethodGet, "/v1/items", v, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (t *HTTPTransport) Reverse(ctx context.Context, q catalog.ReverseQuery) ([]catalog.Item, error) {
	v := t.values()
	setNonEmpty(v, "lower", q.Lower)
	setNonEmpty(v, "upper", q.Upper)
	setNonEmpty(v, "upper_id", q.UpperID)
	setNonEmpty(v, "filter", q.Filter)
	v.Set("limit", strconv.Itoa(q.Limit))
	var out itemsResp
	if err := t.do(ctx, http.MethodGet, "/v1/items/reverse", v, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (t *HTTPTransport) Count(ctx context.Context, filter string) (int, error) {
	v := t.values()
	setNonEmpty(v, "filter", filter)
	var out struct {
		Count int `json:"count"`
	}
	if err := t.do(ctx, http.MethodGet, "/v1/items/count", v, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (t *HTTPTransport) Seed(ctx context.Context, count int, seed uint64) (int, error) {
	body := map[string]any{"collection": t.collection, "count": count, "seed": seed}
	var out struct {
		Inserted int `json:"inserted"`
	}
	if err := t.do(ctx, http.MethodPost, "/v1/items/seed", nil, body, &out); err != nil {
		return 0, err
	}
	return out.Inserted, nil
}

func (t *HTTPTransport) Clear(ctx context.Context) error {
	return t.do(ctx, http.MethodPost, "/v1/items/clear", nil, map[string]any{"collection": t.collection}, nil)
}

func (t *HTTPTransport) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := t.do(ctx, http.MethodGet, "/v1/healthz", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// Watch reads the server-sent change events.
func (t *HTTPTransport) Watch(ctx context.Context, fn func()) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.base+"/v1/items/changes?"+t.values().Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	res, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return httpError(res)
	}
	sc := bufio.NewScanner(res.Body)
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), "data:") {
			fn()
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}

func (t *HTTPTransport) Close() error { return nil }

func (t *HTTPTransport) values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "collection", t.collection)
	return v
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := t.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return httpError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func httpError(res *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	if json.Unmarshal(b, &body) != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(b))
	}
	return &HTTPError{Status: res.StatusCode, Message: body.Error}
}
