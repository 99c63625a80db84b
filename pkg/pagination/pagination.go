// Package pagination implements keyset paging over (created_at, id) for the
// catalog and order listings.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Params is what a listing endpoint receives from the query string.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor points at the last row of the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Window is a resolved page request. Fetch is one more than Limit so the
// caller can tell whether another page exists.
type Window struct {
	Limit int
	Fetch int
	After *Cursor
}

var cursorEncoding = base64.RawURLEncoding

// Window normalizes the limit and decodes the cursor.
func (p Params) Window() (Window, error) {
	after, err := ParseCursor(p.Cursor)
	if err != nil {
		return Window{}, err
	}
	limit := p.Limit
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return Window{Limit: limit, Fetch: limit + 1, After: after}, nil
}

// Trim cuts rows fetched for w down to the page and returns the cursor for the
// next one, or "" on the last page.
func Trim[T any](w Window, rows []T, key func(T) Cursor) ([]T, string) {
	if len(rows) <= w.Limit {
		return rows, ""
	}
	rows = rows[:w.Limit]
	return rows, EncodeCursor(key(rows[len(rows)-1]))
}

// EncodeCursor renders c as an opaque, URL-safe token.
func EncodeCursor(c Cursor) string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return cursorEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a token from EncodeCursor. A blank token means the first page.
func ParseCursor(token string) (*Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	raw, err := cursorEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	stamp, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil, errors.New("cursor missing separator")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	if id = strings.TrimSpace(id); id == "" {
		return nil, errors.New("cursor missing id")
	}
	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}
