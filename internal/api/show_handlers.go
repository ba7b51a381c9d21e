package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/service"
)

func (s *Server) registerShowRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listShows",
		Method:      http.MethodGet,
		Path:        "/api/v1/shows",
		Summary:     "List shows",
		Description: "Returns the catalog with average rating and rating count per show",
		Tags:        []string{"Shows"},
	}, s.handleListShows)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShow",
		Method:      http.MethodGet,
		Path:        "/api/v1/shows/{id}",
		Summary:     "Get show",
		Description: "Returns a show with its reviews. With a bearer token, also the caller's rating, review and votes.",
		Tags:        []string{"Shows"},
		Security:    bearer,
	}, s.handleGetShow)
}

// ListShowsInput contains catalog filters.
type ListShowsInput struct {
	Sort  string `query:"sort" doc:"Sort order (default year_desc)"`
	Year  int    `query:"year" doc:"Only shows from this year (0 = any)"`
	Corps string `query:"corps" doc:"Only shows by this corps (case-insensitive)"`
}

// ListShowsResponse contains catalog entries.
type ListShowsResponse struct {
	Sort  domain.SortMode         `json:"sort" doc:"Applied sort order"`
	Shows []*domain.ShowWithStats `json:"shows" doc:"Shows with rating aggregates"`
}

// ListShowsOutput wraps the catalog for Huma.
type ListShowsOutput struct {
	Body ListShowsResponse
}

// ShowIDInput identifies a show.
type ShowIDInput struct {
	ID int64 `path:"id" doc:"Show ID"`
}

// ShowPageOutput wraps a show page for Huma.
type ShowPageOutput struct {
	Body *service.ShowPage
}

func (s *Server) handleListShows(ctx context.Context, input *ListShowsInput) (*ListShowsOutput, error) {
	req := service.ListRequest{Sort: input.Sort, Corps: input.Corps}
	if input.Year != 0 {
		req.Year = &input.Year
	}

	shows, err := s.services.Catalog.ListShows(ctx, req)
	if err != nil {
		return nil, err
	}
	if shows == nil {
		shows = []*domain.ShowWithStats{}
	}
	return &ListShowsOutput{Body: ListShowsResponse{Sort: domain.ParseSortMode(input.Sort), Shows: shows}}, nil
}

func (s *Server) handleGetShow(ctx context.Context, input *ShowIDInput) (*ShowPageOutput, error) {
	page, err := s.services.Catalog.ShowDetail(ctx, input.ID, viewerID(ctx))
	if err != nil {
		return nil, err
	}
	if page.Reviews == nil {
		page.Reviews = []*domain.ReviewEntry{}
	}
	return &ShowPageOutput{Body: page}, nil
}
