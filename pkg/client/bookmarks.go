package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canvastools/canvas-lms-client/pkg/cache"
)

// bookmarkPattern drops every cached view of the bookmark collection after
// a mutation.
const bookmarkPattern = "users:self:bookmarks*"

// Bookmark is a user-owned Canvas bookmark.
type Bookmark struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// ListBookmarks fetches the caller's bookmarks, cached as a collection.
func (c *Client) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	key := cache.Key{Resource: "users:self:bookmarks"}.String()

	raw, err := c.GetCollection(ctx, "/users/self/bookmarks", nil, key)
	if err != nil {
		return nil, err
	}

	bookmarks := make([]Bookmark, 0, len(raw))
	for _, item := range raw {
		var b Bookmark
		if err := json.Unmarshal(item, &b); err != nil {
			return nil, fmt.Errorf("decode bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

// CreateBookmark creates a bookmark and invalidates cached bookmark
// collections so the next read re-fetches.
func (c *Client) CreateBookmark(ctx context.Context, name, bookmarkURL string) (*Bookmark, error) {
	payload := map[string]string{"name": name, "url": bookmarkURL}

	var created Bookmark
	if err := c.Post(ctx, "/users/self/bookmarks", payload, bookmarkPattern, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteBookmark deletes a bookmark and invalidates cached bookmark
// collections.
func (c *Client) DeleteBookmark(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/users/self/bookmarks/%d", id), bookmarkPattern, nil)
}
