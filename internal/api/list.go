package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rshade/bistro/internal/listctl"
)

// Query parameter names understood by every list endpoint.
const (
	ParamPage      = "page"
	ParamLimit     = "limit"
	ParamSearch    = "search"
	ParamFilter    = "filter"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
)

// ParamsFunc supplies extra query parameters at request time, such as the period of the
// orders list. It is called once per request.
type ParamsFunc func() url.Values

// listEnvelope mirrors the backend response. Unknown fields are ignored.
type listEnvelope[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
}

// QueryParams encodes q as URL query parameters. Empty values are omitted.
func QueryParams(q listctl.Query) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set(ParamLimit, strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if q.Filter != listctl.FilterNone {
		v.Set(ParamFilter, string(q.Filter))
	}
	if q.SortBy != "" {
		v.Set(ParamSortBy, string(q.SortBy))
	}
	if q.SortOrder != "" {
		v.Set(ParamSortOrder, string(q.SortOrder))
	}
	return v
}

// List fetches one page of the collection at path.
func List[T any](ctx context.Context, c *Client, path string, q listctl.Query, extra url.Values) (listctl.Result[T], error) {
	params := QueryParams(q)
	for k, vs := range extra {
		for _, v := range vs {
			if v != "" {
				params.Add(k, v)
			}
		}
	}

	body, err := c.get(ctx, path, params)
	if err != nil {
		return listctl.Result[T]{}, err
	}

	var env listEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return listctl.Result[T]{}, fmt.Errorf("%w: decoding %s: %w", ErrMalformedResponse, path, err)
	}
	return listctl.Result[T](env), nil
}

// Fetcher returns a FetchFunc that lists the collection at path. extra may be nil.
func Fetcher[T any](c *Client, path string, extra ParamsFunc) listctl.FetchFunc[T] {
	return func(ctx context.Context, q listctl.Query) (listctl.Result[T], error) {
		var params url.Values
		if extra != nil {
			params = extra()
		}
		return List[T](ctx, c, path, q, params)
	}
}
