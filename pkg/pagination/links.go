package pagination

import "strings"

// Links holds the pagination relation URLs from a Link response header.
// Absent relations are empty strings.
type Links struct {
	Current string
	Next    string
	Prev    string
	First   string
	Last    string
}

// Parse decodes a Link header of the form
//
//	<url>; rel="next", <url>; rel="prev", ...
//
// into named relations. An empty or malformed header yields an empty Links;
// malformed segments and unrecognized rel values are skipped.
func Parse(header string) Links {
	var links Links
	if header == "" {
		return links
	}

	for _, segment := range strings.Split(header, ",") {
		sections := strings.Split(segment, ";")
		if len(sections) < 2 {
			continue
		}

		target := strings.TrimSpace(sections[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		target = target[1 : len(target)-1]
		if target == "" {
			continue
		}

		for _, attr := range sections[1:] {
			attr = strings.TrimSpace(attr)
			if !strings.HasPrefix(attr, "rel=") {
				continue
			}
			rel := strings.Trim(strings.TrimPrefix(attr, "rel="), `"`)

			switch rel {
			case "current":
				links.Current = target
			case "next":
				links.Next = target
			case "prev":
				links.Prev = target
			case "first":
				links.First = target
			case "last":
				links.Last = target
			}
		}
	}

	return links
}

// HasNext reports whether another page exists.
func (l Links) HasNext() bool {
	return l.Next != ""
}

// NextURL returns the next page URL, or "" when the collection is
// exhausted.
func (l Links) NextURL() string {
	return l.Next
}
