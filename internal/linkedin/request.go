package linkedin

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

// PageResponse is the envelope returned by paginated platform endpoints.
type PageResponse struct {
	Elements []Element `json:"elements"`
	Paging   struct {
		Start int `json:"start"`
		Count int `json:"count"`
		Total int `json:"total"`
	} `json:"paging"`
}

// Element is a raw profile record as returned by the API.
type Element map[string]any

// GetElements makes GET requests to the platform API and returns elements
// from all pages. A missing endpoint is a valid empty result, not an error:
// the platform removes search surfaces without notice and callers must treat
// zero results as retryable.
func (c *Client) GetElements(ctx context.Context, endpoint string, q url.Values) ([]Element, error) {
	var elements []Element

	start := 0
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		c.setHeaders(req)
		req.Header.Set("Content-Type", contentType)

		query := cloneValues(q)
		query.Set("start", strconv.Itoa(start))
		query.Set("count", strconv.Itoa(perPage))
		req.URL.RawQuery = query.Encode()

		resp, err := c.do(ctx, req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			resp.Body.Close()
			c.logger.Warn("search endpoint is not available, treating as empty result")
			return elements, nil
		}

		page, err := parsePageResponse(resp)
		if err != nil {
			return nil, err
		}

		elements = append(elements, page.Elements...)

		next := page.Paging.Start + page.Paging.Count
		if len(page.Elements) == 0 || next >= page.Paging.Total {
			return elements, nil
		}
		start = next
	}
}

func parsePageResponse(resp *http.Response) (*PageResponse, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	var page PageResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := decodeBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := decodeBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

// do applies the rate limit and executes the request.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.logger.Debug("platform api request", zapURL(req))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
}

func decodeBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	return io.ReadAll(reader)
}

func cloneValues(q url.Values) url.Values {
	out := url.Values{}
	for key, vals := range q {
		for _, v := range vals {
			out.Add(key, v)
		}
	}
	return out
}
