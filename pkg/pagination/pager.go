package pagination

import "context"

// Page is one page of a paginated collection: the raw body plus the
// pagination relations of the response that carried it.
type Page struct {
	Body  []byte
	Links Links
}

// FetchFunc fetches a single page at url.
type FetchFunc func(ctx context.Context, url string) (Page, error)

// Pager walks a paginated collection lazily, one fetch per Next call.
// The walk terminates when a fetched page has no next relation, or on the
// first fetch error. A Pager is single-use and not safe for concurrent use.
type Pager struct {
	fetch FetchFunc
	next  string
	done  bool
}

// NewPager creates a pager starting at startURL.
func NewPager(startURL string, fetch FetchFunc) *Pager {
	return &Pager{fetch: fetch, next: startURL}
}

// Next fetches the next page. ok is false once the walk is exhausted.
// After an error or exhaustion every subsequent call returns ok=false.
func (p *Pager) Next(ctx context.Context) (page Page, ok bool, err error) {
	if p.done || p.next == "" {
		p.done = true
		return Page{}, false, nil
	}

	page, err = p.fetch(ctx, p.next)
	if err != nil {
		p.done = true
		return Page{}, false, err
	}

	p.next = page.Links.Next
	if p.next == "" {
		p.done = true
	}
	return page, true, nil
}

// Done reports whether the walk has terminated.
func (p *Pager) Done() bool {
	return p.done
}
