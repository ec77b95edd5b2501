package user

import (
	"context"
	"net/http"

	"github.com/pinshare/pinshare-api/internal/httputil"
	"github.com/pinshare/pinshare-api/internal/logging"
)

// Directory lists users for the public listing endpoint
type Directory interface {
	ListAll(ctx context.Context) ([]*User, error)
}

// Handler contains HTTP handlers for user listing endpoints
type Handler struct {
	users Directory
}

func NewHandler(users Directory) *Handler {
	return &Handler{users: users}
}

// Summary is the user shape exposed to other users
type Summary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AllUsers handles user listing
// @Summary      List all users
// @Description  List every registered user, e.g. to pick share recipients
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope
// @Router       /all_users [get]
func (h *Handler) AllUsers(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	summaries := make([]Summary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, Summary{ID: u.ID, Username: u.Username})
	}

	httputil.Success(w, "Users retrieved successfully", map[string]any{
		"users": summaries,
	}, http.StatusOK)
}
