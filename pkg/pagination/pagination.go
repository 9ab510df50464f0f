// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses page/limit query parameters and builds the meta
// block returned next to list data.
package pagination

import (
	"net/http"

	"github.com/xcalibur215/mmhub/pkg/convert"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows skipped before this page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) bounds of this page over n in-memory
// items. Pages past the end yield an empty window.
func (p Params) Window(n int) (start, end int) {
	start = min(p.Offset(), n)
	end = min(start+p.Limit, n)
	return start, end
}

// Meta describes one page of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds [Meta]; a non-positive limit reports zero pages.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// FromRequest reads ?page= and ?limit=.
//
// Unparseable or out-of-range values fall back to [DefaultPage] and
// [DefaultLimit]; a limit above [MaxLimit] is treated as out of range.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()

	params := Params{
		Page:  convert.ToIntD(query.Get("page"), DefaultPage),
		Limit: convert.ToIntD(query.Get("limit"), DefaultLimit),
	}
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 || params.Limit > MaxLimit {
		params.Limit = DefaultLimit
	}
	return params
}
