package pin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pinshare/pinshare-api/internal/httputil"
	"github.com/pinshare/pinshare-api/internal/logging"
	"github.com/pinshare/pinshare-api/internal/user"
	"github.com/pinshare/pinshare-api/internal/validation"
)

// UserDirectory resolves owner info for pins shared to the current user
type UserDirectory interface {
	ListByIDs(ctx context.Context, ids []string) ([]*user.User, error)
}

// Handler contains HTTP handlers for pin endpoints and the user info view
type Handler struct {
	service *Service
	users   UserDirectory
}

func NewHandler(service *Service, users UserDirectory) *Handler {
	return &Handler{service: service, users: users}
}

// CreatePinRequest is the request body for pin creation
type CreatePinRequest struct {
	Name   string    `json:"name" validate:"required,notblank" errmsg:"required:Pin name is required;notblank:Not a valid pin name."`
	LatLng []float64 `json:"latLng" validate:"required,len=2" errmsg:"len:Length must be between 2 and 2."`
}

// UpdatePinRequest is the request body for partial pin updates
type UpdatePinRequest struct {
	Name   *string   `json:"name" validate:"omitempty,notblank" errmsg:"notblank:Not a valid pin name."`
	LatLng []float64 `json:"latLng" validate:"omitempty,len=2" errmsg:"len:Length must be between 2 and 2."`
}

// SharePinRequest is the request body for sharing a pin
type SharePinRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=10" errmsg:"required:UserIDs is required;min:Length must be between 1 and 10.;max:Length must be between 1 and 10."`
}

// OwnerInfo is the minimal user shape nested in a pin response
type OwnerInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// DTO is the pin shape in API responses
type DTO struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	LatLng     []float64  `json:"latLng"`
	User       *OwnerInfo `json:"user,omitempty"`
	Shared     bool       `json:"shared"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt time.Time  `json:"modified_at"`
}

func newDTO(p *Pin, owner *OwnerInfo, shared bool) DTO {
	return DTO{
		ID:         p.ID,
		UserID:     p.UserID,
		Name:       p.Name,
		LatLng:     p.LatLng,
		User:       owner,
		Shared:     shared,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		ModifiedAt: p.ModifiedAt,
	}
}

// CreatePin handles pin creation
// @Summary      Create a pin
// @Description  Create a named geographic point owned by the caller
// @Tags         pins
// @Accept       json
// @Produce      json
// @Param        request body CreatePinRequest true "Pin data"
// @Security     BearerAuth
// @Success      201 {object} httputil.Envelope
// @Failure      400 {object} httputil.Envelope "Validation error"
// @Failure      401 {object} httputil.Envelope
// @Router       /pin [post]
func (h *Handler) CreatePin(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	current, ok := user.FromContext(r.Context())
	if !ok {
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	var req CreatePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create pin request body", "error", err.Error())
		httputil.Fail(w, "Request must be a valid JSON", http.StatusBadRequest)
		return
	}

	if errs := validation.Struct(&req); errs != nil {
		logger.Warn("create pin validation failed")
		httputil.Fail(w, errs, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), current.ID, req.Name, req.LatLng)
	if err != nil {
		logger.Error("failed to create pin", "error", err.Error())
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("pin created", "pin_id", created.ID, "user_id", current.ID)

	owner := &OwnerInfo{ID: current.ID, Username: current.Username}
	httputil.Success(w, "Pin added successfully", map[string]any{
		"pin": newDTO(created, owner, false),
	}, http.StatusCreated)
}

// UpdatePin handles partial pin updates
// @Summary      Update a pin
// @Description  Update a pin's name and/or coordinates; owner only
// @Tags         pins
// @Accept       json
// @Produce      json
// @Param        pin_id path string true "Pin ID"
// @Param        request body UpdatePinRequest true "Fields to update"
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      400 {object} httputil.Envelope "Validation error or unknown pin"
// @Failure      401 {object} httputil.Envelope "Not the pin owner"
// @Router       /pin/{pin_id} [put]
func (h *Handler) UpdatePin(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	current, ok := user.FromContext(r.Context())
	if !ok {
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	pinID := chi.URLParam(r, "pin_id")

	var req UpdatePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update pin request body", "error", err.Error())
		httputil.Fail(w, "Request must be a valid JSON", http.StatusBadRequest)
		return
	}

	if errs := validation.Struct(&req); errs != nil {
		logger.Warn("update pin validation failed")
		httputil.Fail(w, errs, http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), current.ID, pinID, req.Name, req.LatLng)
	if err != nil {
		h.failPinAccess(w, logger, pinID, err)
		return
	}

	logger.Info("pin updated", "pin_id", pinID, "user_id", current.ID)

	owner := &OwnerInfo{ID: current.ID, Username: current.Username}
	httputil.Success(w, "Pin updated successfully", map[string]any{
		"pin": newDTO(updated, owner, false),
	}, http.StatusOK)
}

// SharePin handles sharing a pin with other users
// @Summary      Share a pin
// @Description  Share a pin with up to ten users; unknown recipients and duplicate shares are skipped
// @Tags         pins
// @Accept       json
// @Produce      json
// @Param        pin_id path string true "Pin ID"
// @Param        request body SharePinRequest true "Recipient user ids"
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      400 {object} httputil.Envelope "Validation error or unknown pin"
// @Failure      401 {object} httputil.Envelope "Not the pin owner"
// @Router       /share_pin/{pin_id} [post]
func (h *Handler) SharePin(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	current, ok := user.FromContext(r.Context())
	if !ok {
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	pinID := chi.URLParam(r, "pin_id")

	var req SharePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid share pin request body", "error", err.Error())
		httputil.Fail(w, "Request must be a valid JSON", http.StatusBadRequest)
		return
	}

	if errs := validation.Struct(&req); errs != nil {
		logger.Warn("share pin validation failed")
		httputil.Fail(w, errs, http.StatusBadRequest)
		return
	}

	if err := h.service.Share(r.Context(), current.ID, pinID, req.UserIDs); err != nil {
		h.failPinAccess(w, logger, pinID, err)
		return
	}

	logger.Info("pin shared", "pin_id", pinID, "user_id", current.ID)

	httputil.Success(w, "Pin shared successfully", nil, http.StatusOK)
}

// UserInfo handles the current user's profile view: their own pins, the
// pins shared to them, and the union of both.
// @Summary      Current user info
// @Description  The caller's profile with own pins, shared pins and their union
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope
// @Router       /user_info [get]
func (h *Handler) UserInfo(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	current, ok := user.FromContext(r.Context())
	if !ok {
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	myPins, err := h.service.ListByOwner(r.Context(), current.ID)
	if err != nil {
		logger.Error("failed to list own pins", "error", err.Error())
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	sharedPins, err := h.service.ListSharedTo(r.Context(), current.ID)
	if err != nil {
		logger.Error("failed to list shared pins", "error", err.Error())
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	owners, err := h.ownerInfo(r.Context(), sharedPins)
	if err != nil {
		logger.Error("failed to resolve pin owners", "error", err.Error())
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	self := &OwnerInfo{ID: current.ID, Username: current.Username}

	myDTOs := make([]DTO, 0, len(myPins))
	for _, p := range myPins {
		myDTOs = append(myDTOs, newDTO(p, self, false))
	}

	sharedDTOs := make([]DTO, 0, len(sharedPins))
	for _, p := range sharedPins {
		sharedDTOs = append(sharedDTOs, newDTO(p, owners[p.UserID], true))
	}

	allDTOs := make([]DTO, 0, len(myDTOs)+len(sharedDTOs))
	allDTOs = append(allDTOs, myDTOs...)
	allDTOs = append(allDTOs, sharedDTOs...)

	httputil.Success(w, "User info retrieved successfully", map[string]any{
		"user": map[string]any{
			"id":          current.ID,
			"username":    current.Username,
			"is_active":   current.IsActive,
			"created_at":  current.CreatedAt,
			"modified_at": current.ModifiedAt,
			"my_pins":     myDTOs,
			"shares":      sharedDTOs,
			"all_pins":    allDTOs,
		},
	}, http.StatusOK)
}

// ownerInfo resolves the owners of the given pins into a lookup by user id
func (h *Handler) ownerInfo(ctx context.Context, pins []*Pin) (map[string]*OwnerInfo, error) {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(pins))
	for _, p := range pins {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	users, err := h.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]*OwnerInfo, len(users))
	for _, u := range users {
		owners[u.ID] = &OwnerInfo{ID: u.ID, Username: u.Username}
	}
	return owners, nil
}

// failPinAccess maps service errors for pin lookup and ownership to the
// API's responses.
func (h *Handler) failPinAccess(w http.ResponseWriter, logger *logging.Logger, pinID string, err error) {
	switch {
	case errors.Is(err, ErrPinNotFound):
		logger.Warn("pin not found", "pin_id", pinID)
		httputil.Fail(w, "Pin does not exist", http.StatusBadRequest)
	case errors.Is(err, ErrNotOwner):
		logger.Warn("unauthorized pin access", "pin_id", pinID)
		httputil.Fail(w, "Unauthorized access", http.StatusUnauthorized)
	default:
		logger.Error("pin operation failed", "pin_id", pinID, "error", err.Error())
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
	}
}
