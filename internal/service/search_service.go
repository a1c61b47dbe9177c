package service

import (
	"context"
	"strings"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/validation"
)

// Search result types.
const (
	SearchAll        = "all"
	SearchIdeas      = "ideas"
	SearchUsers      = "users"
	SearchComments   = "comments"
	SearchCategories = "categories"
)

type SearchService struct {
	ideaRepo     repository.IdeaRepository
	userRepo     repository.UserRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository
}

type SearchInput struct {
	Query string
	Type  string
	Page  int
	Limit int
}

// SearchResults holds one slice per type. Types that were not searched
// are empty.
type SearchResults struct {
	Ideas      []models.Idea     `json:"ideas"`
	Users      []models.User     `json:"users"`
	Comments   []models.Comment  `json:"comments"`
	Categories []models.Category `json:"categories"`
}

// SearchPagination.Total is the number of results returned on this page
// across all types.
type SearchPagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type SearchResponse struct {
	Query      string           `json:"query"`
	Type       string           `json:"type"`
	Results    SearchResults    `json:"results"`
	Pagination SearchPagination `json:"pagination"`
}

func NewSearchService(
	ideaRepo repository.IdeaRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	categoryRepo repository.CategoryRepository,
) *SearchService {
	return &SearchService{
		ideaRepo:     ideaRepo,
		userRepo:     userRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
	}
}

// Search runs the query against every requested type. Users and comments
// are only searched for administrators; for anyone else those lists stay
// empty.
func (s *SearchService) Search(ctx context.Context, actor *Actor, in SearchInput) (*SearchResponse, error) {
	query := strings.TrimSpace(in.Query)
	if err := validation.Length("Search query", query, validation.SearchQueryMin, validation.SearchQueryMax); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind == "" {
		kind = SearchAll
	}
	switch kind {
	case SearchAll, SearchIdeas, SearchUsers, SearchComments, SearchCategories:
	default:
		return nil, models.NewValidationError("Invalid search type")
	}

	admin := actor != nil && actor.IsAdmin
	page := resolvePage(in.Page, in.Limit, MaxSearchLimit)
	resp := &SearchResponse{
		Query:      query,
		Type:       kind,
		Pagination: SearchPagination{Page: page.Page, Limit: page.Limit},
		Results: SearchResults{
			Ideas:      []models.Idea{},
			Users:      []models.User{},
			Comments:   []models.Comment{},
			Categories: []models.Category{},
		},
	}
	want := func(t string) bool { return kind == SearchAll || kind == t }

	if want(SearchIdeas) {
		ideas, _, err := s.ideaRepo.List(ctx, repository.IdeaFilter{
			Search: query,
			Sort:   repository.SortRecent,
			Page:   page,
		})
		if err != nil {
			return nil, err
		}
		resp.Results.Ideas = ideas
	}

	if admin && want(SearchUsers) {
		users, _, err := s.userRepo.Search(ctx, query, page)
		if err != nil {
			return nil, err
		}
		resp.Results.Users = users
	}

	if admin && want(SearchComments) {
		comments, _, err := s.commentRepo.Search(ctx, query, page)
		if err != nil {
			return nil, err
		}
		resp.Results.Comments = comments
	}

	if want(SearchCategories) {
		categories, err := s.categoryRepo.Search(ctx, query, page.Limit)
		if err != nil {
			return nil, err
		}
		resp.Results.Categories = categories
	}

	resp.Pagination.Total = int64(len(resp.Results.Ideas) + len(resp.Results.Users) +
		len(resp.Results.Comments) + len(resp.Results.Categories))

	return resp, nil
}
