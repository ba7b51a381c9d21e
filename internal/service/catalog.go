package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/corpsboard/corpsboard-server/internal/bulkimport"
	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
	"github.com/corpsboard/corpsboard-server/internal/store"
	"github.com/corpsboard/corpsboard-server/internal/validation"
)

// catalogStore is what the catalog needs from persistence.
type catalogStore interface {
	store.ShowStore
	store.RatingStore
	store.ReviewStore
}

// CatalogService manages the show catalog and the show detail page.
type CatalogService struct {
	store     catalogStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store catalogStore, validator *validation.Validator, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		validator: validator,
		logger:    componentLogger(logger, "catalog"),
	}
}

// ShowRequest is the admin payload for creating or editing a show.
type ShowRequest struct {
	Year      int    `json:"year" validate:"gte=0"`
	Corps     string `json:"corps" validate:"notblank,max=200"`
	Title     string `json:"title" validate:"notblank,max=300"`
	PosterURL string `json:"poster_url,omitempty" validate:"max=2048"`
}

func (r ShowRequest) input() domain.ShowInput {
	return domain.ShowInput{Year: r.Year, Corps: r.Corps, Title: r.Title, PosterURL: r.PosterURL}
}

// ListRequest selects and orders a catalog listing. Unknown sorts use the default.
type ListRequest struct {
	Sort  string
	Year  *int
	Corps string
}

// ShowPage is a show with its aggregates, reviews and the viewer's own entries.
type ShowPage struct {
	Show     *domain.ShowWithStats `json:"show"`
	MyRating *int                  `json:"my_rating,omitempty"`
	MyReview *string               `json:"my_review,omitempty"`
	Reviews  []*domain.ReviewEntry `json:"reviews"`
}

// ImportReport summarizes a bulk import. PostersUpdated counts the duplicates
// whose missing poster was filled in.
type ImportReport struct {
	BatchID        string                 `json:"batch_id"`
	Inserted       int                    `json:"inserted"`
	Duplicates     int                    `json:"duplicates"`
	PostersUpdated int                    `json:"posters_updated"`
	Invalid        int                    `json:"invalid"`
	Errors         []bulkimport.LineError `json:"errors,omitempty"`
}

// AddShow creates a show, or reports the existing one with the same normalized key.
func (s *CatalogService) AddShow(ctx context.Context, req ShowRequest) (*domain.AddShowResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	res, err := s.store.AddShow(ctx, req.input())
	if err != nil {
		return nil, err
	}

	s.logger.Info("show added",
		"show_id", res.ShowID,
		"status", res.Status,
	)
	return res, nil
}

// UpdateShow edits a show. Editing onto another show's normalized key is a conflict.
func (s *CatalogService) UpdateShow(ctx context.Context, id int64, req ShowRequest) (*domain.Show, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.store.UpdateShow(ctx, id, req.input()); err != nil {
		return nil, err
	}

	s.logger.Info("show updated", "show_id", id)
	return s.store.GetShow(ctx, id)
}

// ListShows returns the catalog with per-show rating aggregates.
func (s *CatalogService) ListShows(ctx context.Context, req ListRequest) ([]*domain.ShowWithStats, error) {
	mode := domain.ParseSortMode(req.Sort)
	return s.store.ListShows(ctx, mode, domain.ShowFilter{Year: req.Year, Corps: req.Corps})
}

// ShowDetail assembles the show page. viewerID is nil for anonymous visitors.
func (s *CatalogService) ShowDetail(ctx context.Context, id int64, viewerID *int64) (*ShowPage, error) {
	show, err := s.store.ShowDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, domainerrors.NotFoundf("show %d not found", id)
	}

	page := &ShowPage{Show: show}
	if viewerID != nil {
		if page.MyRating, err = s.store.RatingFor(ctx, id, *viewerID); err != nil {
			return nil, err
		}
		if page.MyReview, err = s.store.ReviewFor(ctx, id, *viewerID); err != nil {
			return nil, err
		}
	}

	if page.Reviews, err = s.store.ListReviewsForShow(ctx, id, viewerID, 0); err != nil {
		return nil, err
	}
	return page, nil
}

// BulkImport parses text and adds every show in it. If any line fails to parse
// nothing is written and the line errors are returned in the report and in the
// error details. Duplicates never stop the import.
func (s *CatalogService) BulkImport(ctx context.Context, text string) (*ImportReport, error) {
	report := &ImportReport{BatchID: uuid.NewString()}
	log := s.logger.With("batch_id", report.BatchID)

	items, lineErrs := bulkimport.Parse(text)
	if len(lineErrs) > 0 {
		report.Errors = lineErrs
		log.Info("bulk import rejected", "parse_errors", len(lineErrs))
		return report, domainerrors.ValidationWithDetails(
			fmt.Sprintf("%d line(s) could not be parsed; nothing was imported", len(lineErrs)),
			lineErrs,
		)
	}
	if len(items) == 0 {
		return report, domainerrors.Validation("no shows to import")
	}

	for _, item := range items {
		res, err := s.store.AddShow(ctx, item.Input)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrValidation) {
				report.Invalid++
				report.Errors = append(report.Errors, bulkimport.LineError{Line: item.Line, Message: errorMessage(err)})
				continue
			}
			log.Error("bulk import aborted", "line", item.Line, "error", err)
			return report, domainerrors.Wrapf(err, domainerrors.CodeInternal, "import stopped at line %d", item.Line)
		}

		switch res.Status {
		case domain.AddShowInserted:
			report.Inserted++
		case domain.AddShowDuplicatePosterUpdated:
			report.Duplicates++
			report.PostersUpdated++
		default:
			report.Duplicates++
		}
	}

	log.Info("bulk import complete",
		"inserted", report.Inserted,
		"duplicates", report.Duplicates,
		"posters_updated", report.PostersUpdated,
		"invalid", report.Invalid,
	)
	return report, nil
}

// errorMessage returns the user-facing message of a domain error.
func errorMessage(err error) string {
	var de *domainerrors.Error
	if domainerrors.As(err, &de) {
		return de.Message
	}
	return strings.TrimSpace(err.Error())
}
