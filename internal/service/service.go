// Package service holds the business rules between the HTTP handlers and
// the repositories.
package service

import (
	"agora/internal/repository"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// Owns reports whether the actor is ownerID or an administrator.
func (a Actor) Owns(ownerID uuid.UUID) bool {
	return a.IsAdmin || a.ID == ownerID
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxSearchLimit   = 50
)

// resolvePage applies defaults and caps to client pagination input.
func resolvePage(page, limit, maxLimit int) repository.Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return repository.Page{Page: page, Limit: limit}
}

// Pagination is the paging block of list responses that carry one.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func newPagination(p repository.Page, total int64) Pagination {
	pages := repository.TotalPages(total, p.Limit)
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}
