// Package handler exposes the rating API over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"ratingsvc/internal/platform/middleware"
	"ratingsvc/internal/rating/models"
	dErrors "ratingsvc/pkg/domain-errors"
)

const (
	defaultPage = 0
	defaultSize = 20
	maxSize     = 100
)

// Service defines the rating operations the handler needs.
type Service interface {
	SubmitRating(ctx context.Context, userID, courseID uuid.UUID, value int, credential string) (models.Rating, error)
	GetRatings(ctx context.Context, filter models.RatingFilter, page models.PageRequest) (models.RatingPage, error)
	GetRatingByID(ctx context.Context, ratingID uuid.UUID) (models.Rating, error)
}

// Handler wires rating endpoints to the rating service.
type Handler struct {
	service  Service
	logger   *slog.Logger
	validate *validator.Validate
}

// New constructs a rating handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register mounts rating endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/ratings", h.HandleSubmitRating)
	r.Get("/api/v1/ratings", h.HandleGetRatings)
	r.Get("/api/v1/ratings/{ratingId}", h.HandleGetRatingByID)
}

// HandleSubmitRating handles POST /api/v1/ratings requests.
func (h *Handler) HandleSubmitRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req models.SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, dErrors.NewWithDetails(dErrors.CodeValidation,
			"request validation failed",
			validationDetails(err)))
		return
	}

	rating, err := h.service.SubmitRating(ctx, userID, req.CourseID, req.RatingValue, middleware.GetCredential(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "rating submission rejected",
			"request_id", requestID,
			"user_id", userID,
			"course_id", req.CourseID,
			"error", err,
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.NewRatingResponse(rating))
}

// HandleGetRatings handles GET /api/v1/ratings requests with optional
// userId, courseId, page, and size query parameters.
func (h *Handler) HandleGetRatings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.GetRatings(ctx, filter, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewRatingPageResponse(result))
}

// HandleGetRatingByID handles GET /api/v1/ratings/{ratingId} requests.
func (h *Handler) HandleGetRatingByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ratingID, err := uuid.Parse(chi.URLParam(r, "ratingId"))
	if err != nil {
		writeError(w, dErrors.NewWithDetails(dErrors.CodeValidation,
			"rating id must be a valid uuid",
			map[string]any{"ratingId": chi.URLParam(r, "ratingId")}))
		return
	}

	rating, err := h.service.GetRatingByID(ctx, ratingID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewRatingResponse(rating))
}

func parseFilter(r *http.Request) (models.RatingFilter, error) {
	var filter models.RatingFilter
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return models.RatingFilter{}, dErrors.New(dErrors.CodeValidation, "userId must be a valid uuid")
		}
		filter.UserID = &id
	}
	if raw := r.URL.Query().Get("courseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return models.RatingFilter{}, dErrors.New(dErrors.CodeValidation, "courseId must be a valid uuid")
		}
		filter.CourseID = &id
	}
	return filter, nil
}

func parsePage(r *http.Request) (models.PageRequest, error) {
	page := models.PageRequest{Page: defaultPage, Size: defaultSize}
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return models.PageRequest{}, dErrors.New(dErrors.CodeValidation, "page must be a non-negative integer")
		}
		page.Page = n
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSize {
			return models.PageRequest{}, dErrors.New(dErrors.CodeValidation, "size must be between 1 and 100")
		}
		page.Size = n
	}
	return page, nil
}

func validationDetails(err error) map[string]any {
	details := make(map[string]any)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		details["error"] = err.Error()
		return details
	}
	for _, fe := range fieldErrs {
		details[fe.Field()] = "failed " + fe.Tag() + " validation"
	}
	return details
}
