// Copyright (c) 2026 MangaMania. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mangamania/api/internal/platform/apperr"
	"github.com/mangamania/api/internal/platform/constants"
)

// maxResponseBytes caps how much of an upstream response body we will read.
// Jikan payloads are small; anything beyond this is a malfunctioning upstream.
const maxResponseBytes = 4 << 20

// Client is the outbound HTTP client for the Jikan catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client for the given base URL
// (e.g. "https://api.jikan.moe/v4").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.CatalogRequestTimeout,
		},
	}
}

/*
Search queries the upstream full-text manga search.

Parameters:
  - ctx: Request context.
  - query: Free-text search term.
  - page: 1-based upstream page number.

Returns:
  - *Page: Matching entries with upstream pagination state.
  - error: BAD_GATEWAY on upstream failure.
*/
func (client *Client) Search(ctx context.Context, query string, page int) (*Page, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))

	var result Page
	if err := client.get(ctx, "/manga?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

/*
Top fetches the upstream top-ranked manga listing.

Parameters:
  - ctx: Request context.
  - page: 1-based upstream page number.

Returns:
  - *Page: Ranked entries with upstream pagination state.
*/
func (client *Client) Top(ctx context.Context, page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result Page
	if err := client.get(ctx, "/top/manga?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

/*
GetByID fetches the full record of a single title.

Returns:
  - *Entry: The title's full metadata.
  - error: NOT_FOUND if the upstream has no such ID, BAD_GATEWAY otherwise.
*/
func (client *Client) GetByID(ctx context.Context, malID int) (*Entry, error) {
	var result struct {
		Data Entry `json:"data"`
	}
	if err := client.get(ctx, fmt.Sprintf("/manga/%d/full", malID), &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// get performs a GET against the upstream and decodes the JSON body into target.
func (client *Client) get(ctx context.Context, path string, target interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("catalog: failed to build request: %w", err))
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", constants.AppName+"/"+constants.AppVersion)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return apperr.BadGateway("Catalog service unavailable", err)
	}
	defer func() { _ = response.Body.Close() }()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return apperr.NotFound("Manga")
	case response.StatusCode == http.StatusTooManyRequests:
		return apperr.BadGateway("Catalog service is rate limiting requests",
			fmt.Errorf("catalog: upstream returned 429"))
	case response.StatusCode != http.StatusOK:
		return apperr.BadGateway("Catalog service returned an error",
			fmt.Errorf("catalog: upstream returned %d", response.StatusCode))
	}

	body := io.LimitReader(response.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return apperr.BadGateway("Catalog service returned malformed data", err)
	}

	return nil
}
