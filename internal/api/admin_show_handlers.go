package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/service"
)

func (s *Server) registerAdminShowRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminAddShow",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/shows",
		Summary:     "Add show",
		Description: "Adds a show. A show with the same normalized year, corps and title is reported as a duplicate (200) instead of created (201).",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleAdminAddShow)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminUpdateShow",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/shows/{id}",
		Summary:     "Update show",
		Description: "Edits a show's year, corps, title and poster",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleAdminUpdateShow)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminImportShows",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/shows/import",
		Summary:     "Bulk import shows",
		Description: "Imports one show per line as 'year | corps | title [| poster_url]' or the comma-separated equivalent. Any unparseable line rejects the whole batch.",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleAdminImportShows)
}

// ShowBody is the editable part of a show.
type ShowBody struct {
	Year      int    `json:"year" minimum:"0" doc:"Season year"`
	Corps     string `json:"corps" doc:"Corps name"`
	Title     string `json:"title" doc:"Show title"`
	PosterURL string `json:"poster_url,omitempty" doc:"Poster image URL"`
}

func (b ShowBody) request() service.ShowRequest {
	return service.ShowRequest{Year: b.Year, Corps: b.Corps, Title: b.Title, PosterURL: b.PosterURL}
}

// AddShowInput carries a new show.
type AddShowInput struct {
	Body ShowBody
}

// AddShowResponse reports what happened to the submitted show.
type AddShowResponse struct {
	ShowID int64                `json:"show_id" doc:"ID of the new or existing show"`
	Status domain.AddShowStatus `json:"status" doc:"inserted, duplicate or duplicate_poster_updated"`
}

// AddShowOutput wraps the add result for Huma.
type AddShowOutput struct {
	Status int
	Body   AddShowResponse
}

// UpdateShowInput carries an edited show.
type UpdateShowInput struct {
	ID   int64 `path:"id" doc:"Show ID"`
	Body ShowBody
}

// ShowOutput wraps a show for Huma.
type ShowOutput struct {
	Body *domain.Show
}

// ImportShowsInput carries the raw import text.
type ImportShowsInput struct {
	Body struct {
		Text string `json:"text" doc:"Newline-separated show lines; blank lines and lines starting with # are skipped"`
	}
}

// ImportShowsOutput wraps the import report for Huma.
type ImportShowsOutput struct {
	Body *service.ImportReport
}

func (s *Server) handleAdminAddShow(ctx context.Context, input *AddShowInput) (*AddShowOutput, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	res, err := s.services.Catalog.AddShow(ctx, input.Body.request())
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return &AddShowOutput{
		Status: status,
		Body:   AddShowResponse{ShowID: res.ShowID, Status: res.Status},
	}, nil
}

func (s *Server) handleAdminUpdateShow(ctx context.Context, input *UpdateShowInput) (*ShowOutput, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	show, err := s.services.Catalog.UpdateShow(ctx, input.ID, input.Body.request())
	if err != nil {
		return nil, err
	}
	return &ShowOutput{Body: show}, nil
}

func (s *Server) handleAdminImportShows(ctx context.Context, input *ImportShowsInput) (*ImportShowsOutput, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	report, err := s.services.Catalog.BulkImport(ctx, input.Body.Text)
	if err != nil {
		return nil, err
	}
	return &ImportShowsOutput{Body: report}, nil
}
