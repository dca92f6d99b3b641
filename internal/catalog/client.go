package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"MiniCatalog/internal/money"
)

var (
	ErrClientNotFound    = errors.New("catalog item not found")
	ErrClientBadStatus   = errors.New("catalog bad status")
	ErrClientUnavailable = errors.New("catalog unavailable")
)

// Client talks to the catalog HTTP API.
type Client struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *Client) Insert(ctx context.Context, id int64, price money.Money, tags []int64) (int, error) {
	var out InsertResp
	err := c.do(ctx, http.MethodPut, itemPath(id), InsertReq{Price: formatCents(price), Tags: tags}, &out)
	return out.Created, err
}

func (c *Client) Find(ctx context.Context, id int64) (money.Money, error) {
	var out PriceResp
	err := c.do(ctx, http.MethodGet, itemPath(id)+"/price", nil, &out)
	return money.FromCents(out.PriceCents), err
}

func (c *Client) Item(ctx context.Context, id int64) (Item, error) {
	var out ItemResp
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &out); err != nil {
		return Item{}, err
	}
	return Item{ID: out.ID, Price: money.FromCents(out.PriceCents), Tags: out.Tags}, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (int64, error) {
	var out SumResp
	err := c.do(ctx, http.MethodDelete, itemPath(id), nil, &out)
	return out.Sum, err
}

func (c *Client) RemoveNames(ctx context.Context, id int64, tags []int64) (int64, error) {
	var out SumResp
	err := c.do(ctx, http.MethodPost, itemPath(id)+"/remove-tags", RemoveTagsReq{Tags: tags}, &out)
	return out.Sum, err
}

func (c *Client) FindMinPrice(ctx context.Context, tag int64) (money.Money, error) {
	var out PriceResp
	err := c.do(ctx, http.MethodGet, tagPath(tag)+"/min", nil, &out)
	return money.FromCents(out.PriceCents), err
}

func (c *Client) FindMaxPrice(ctx context.Context, tag int64) (money.Money, error) {
	var out PriceResp
	err := c.do(ctx, http.MethodGet, tagPath(tag)+"/max", nil, &out)
	return money.FromCents(out.PriceCents), err
}

func (c *Client) FindPriceRange(ctx context.Context, tag int64, low, high money.Money) (int, error) {
	q := url.Values{}
	q.Set("low", formatCents(low))
	q.Set("high", formatCents(high))

	var out CountResp
	err := c.do(ctx, http.MethodGet, tagPath(tag)+"/range?"+q.Encode(), nil, &out)
	return out.Count, err
}

func (c *Client) PriceHike(ctx context.Context, lowID, highID int64, ratePercent float64) (money.Money, error) {
	var out PriceHikeResp
	err := c.do(ctx, http.MethodPost, "/price-hikes", PriceHikeReq{LowID: lowID, HighID: highID, Rate: ratePercent}, &out)
	return money.FromCents(out.Increase.PriceCents), err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClientUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrClientNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrClientBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func itemPath(id int64) string { return "/items/" + strconv.FormatInt(id, 10) }

func tagPath(tag int64) string { return "/tags/" + strconv.FormatInt(tag, 10) }

// formatCents renders the padded "D.CC" form, which Parse reads back exactly.
func formatCents(m money.Money) string {
	c := m.InCents()
	sign := ""
	if c < 0 {
		sign = "-"
	}
	d := m.Dollars()
	if d < 0 {
		d = -d
	}
	return fmt.Sprintf("%s%d.%02d", sign, d, m.Cents())
}
