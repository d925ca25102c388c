package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/canvastools/canvas-lms-client/pkg/cache"
)

// Course is the subset of Canvas course fields the typed accessors decode.
type Course struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CourseCode    string `json:"course_code"`
	WorkflowState string `json:"workflow_state"`
}

// GetCourse fetches a single course, cached under its id.
func (c *Client) GetCourse(ctx context.Context, id int64) (*Course, error) {
	key := cache.Key{Resource: "courses", ID: strconv.FormatInt(id, 10)}.String()

	var course Course
	if err := c.GetObject(ctx, fmt.Sprintf("/courses/%d", id), nil, key, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCourses fetches all active enrollments, following pagination, and
// caches the accumulated collection.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	params := url.Values{"enrollment_state": []string{"active"}}
	key := cache.Key{Resource: "courses", Params: params}.String()

	raw, err := c.GetCollection(ctx, "/courses", params, key)
	if err != nil {
		return nil, err
	}
	return decodeCourses(raw)
}

// SearchCourses queries courses by search term. Search results are never
// cached: the same term can legitimately return different results moments
// apart and the key space is unbounded.
func (c *Client) SearchCourses(ctx context.Context, term string) ([]Course, error) {
	params := url.Values{"search_term": []string{term}}

	raw, err := c.GetCollectionUncached(ctx, "/search/all_courses", params)
	if err != nil {
		return nil, err
	}
	return decodeCourses(raw)
}

func decodeCourses(raw []json.RawMessage) ([]Course, error) {
	courses := make([]Course, 0, len(raw))
	for _, item := range raw {
		var course Course
		if err := json.Unmarshal(item, &course); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, nil
}
