// Package paging はオフセット方式のページトークンを扱います。
package paging

import (
	"errors"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var (
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidPageToken = errors.New("invalid page token")
)

// Page は正規化済みの取得範囲です。
type Page struct {
	Limit  int
	Offset int
}

// Parse はページサイズとトークンを検証し Page を返します。
// pageSize が 0 以下の場合は DefaultPageSize を使います。
func Parse(pageSize int, token string) (Page, error) {
	limit := pageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		return Page{}, ErrInvalidPageSize
	}

	offset := 0
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		v, err := strconv.Atoi(trimmed)
		if err != nil || v < 0 {
			return Page{}, ErrInvalidPageToken
		}
		offset = v
	}

	return Page{Limit: limit, Offset: offset}, nil
}

// Trim は limit+1 件取得した結果を切り詰め、次ページのトークンを返します。
func Trim[T any](items []T, page Page) ([]T, string) {
	if len(items) <= page.Limit {
		return items, ""
	}
	return items[:page.Limit], strconv.Itoa(page.Offset + page.Limit)
}
