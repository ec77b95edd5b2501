package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/pinshare/pinshare-api/internal/httputil"
	"github.com/pinshare/pinshare-api/internal/logging"
	"github.com/pinshare/pinshare-api/internal/validation"
)

// RateLimiter guards the public auth endpoints against brute force.
// Implemented by ratelimit.Limiter.
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
}

// Handler contains HTTP handlers for signup and login
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
	logger      *logging.Logger
}

func NewHandler(service *Service, rateLimiter RateLimiter, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// CredentialsRequest is the request body for both signup and login
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,notblank" errmsg:"required:Username is required;notblank:Not a valid username."`
	Password string `json:"password" validate:"required,notblank" errmsg:"required:Password is required;notblank:Not a valid password."`
}

// SignUp handles user registration
// @Summary      Sign up
// @Description  Create a new account and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Signup credentials"
// @Success      201 {object} httputil.Envelope
// @Failure      400 {object} httputil.Envelope "Validation error or duplicate username"
// @Router       /signup [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.limitExceeded(w, r, "signup") {
		return
	}

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.Fail(w, "Request must be a valid JSON", http.StatusBadRequest)
		return
	}

	if errs := validation.Struct(&req); errs != nil {
		logger.Warn("signup validation failed")
		httputil.Fail(w, errs, http.StatusBadRequest)
		return
	}

	token, err := h.service.SignUp(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			logger.Warn("signup failed: username already exists", "username", req.Username)
			httputil.Fail(w, "Username already exists", http.StatusBadRequest)
			return
		}
		logger.Error("signup failed", "error", err.Error())
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("user signed up", "username", strings.ToLower(req.Username))

	httputil.Success(w, "User signed up successfully", map[string]any{
		"token": token,
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      Log in
// @Description  Authenticate with username and password and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Login credentials"
// @Success      200 {object} httputil.Envelope
// @Failure      400 {object} httputil.Envelope "Invalid credentials"
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.limitExceeded(w, r, "login") {
		return
	}

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.Fail(w, "Request must be a valid JSON", http.StatusBadRequest)
		return
	}

	if errs := validation.Struct(&req); errs != nil {
		logger.Warn("login validation failed")
		httputil.Fail(w, errs, http.StatusBadRequest)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.Fail(w, "Invalid username or password", http.StatusBadRequest)
			return
		}
		logger.Error("login failed", "error", err.Error())
		httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "username", strings.ToLower(req.Username))

	httputil.Success(w, "User login successful", map[string]any{
		"token": token,
	}, http.StatusOK)
}

// limitExceeded applies the per-IP rate limit for the given purpose and
// writes the response itself when the caller is over the limit. Rate limiter
// failures are logged and fail open.
func (h *Handler) limitExceeded(w http.ResponseWriter, r *http.Request, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		return false
	}
	if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.Fail(w, "Too many requests, please try again later", http.StatusTooManyRequests)
		return true
	}

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	return false
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// chi's RealIP middleware has already folded X-Forwarded-For into RemoteAddr
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
