// Package pagination handles Canvas paginated collections.
//
// Canvas signals further pages through an RFC 5988 Link response header
// listing relation URLs (current, next, prev, first, last). The presence of
// a "next" relation is the sole signal that more pages exist.
//
// Parse decodes the header into a Links value; a missing or malformed
// header yields an empty Links, never an error, so a broken header
// degrades to "no further pages" instead of failing a multi-page read.
//
// Pager walks a collection lazily:
//
//	pager := pagination.NewPager(startURL, fetch)
//	for {
//		page, ok, err := pager.Next(ctx)
//		if err != nil || !ok {
//			break
//		}
//		// consume page.Body
//	}
//
// Each Next call fetches exactly one page; the walk terminates once a page
// carries no next relation.
package pagination
