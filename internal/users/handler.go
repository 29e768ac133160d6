package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/bookshelf/internal/api"
	"github.com/ayush/bookshelf/internal/auth"
	"github.com/ayush/bookshelf/internal/models"
	"github.com/ayush/bookshelf/internal/store"
	"github.com/ayush/bookshelf/internal/validate"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, u *models.User) (*models.User, error)
	Delete(ctx context.Context, username string) (*models.User, error)
}

// Handler holds user HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *auth.TokenManager
	log    zerolog.Logger
}

func NewHandler(users UserStore, tokens *auth.TokenManager, log zerolog.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, log: log}
}

// List returns all users, newest first, without password hashes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list users")
		api.Unexpected(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "All Users",
		"data":    map[string]interface{}{"user": users},
	})
}

// Signup registers a new user and issues a token for it.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(&req); errs != nil {
		api.ValidationFailed(w, errs)
		return
	}

	if _, err := h.users.GetByUsername(r.Context(), req.Username); err == nil {
		api.Error(w, http.StatusBadRequest, "Username already exists")
		return
	} else if !errors.Is(err, store.ErrUserNotFound) {
		api.Unexpected(w, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		api.Error(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.Unexpected(w, err)
		return
	}
	user, err := h.users.Create(r.Context(), &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Username: req.Username,
		Password: string(hashed),
	})
	if errors.Is(err, store.ErrUsernameTaken) {
		api.Error(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("create user")
		api.Unexpected(w, err)
		return
	}

	token, err := h.tokens.Sign(user.ID, user.Email, user.Username)
	if err != nil {
		api.Unexpected(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
		"token":   token,
	})
}

// Signin checks credentials and issues a token.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(&req); errs != nil {
		api.ValidationFailed(w, errs)
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrUserNotFound) {
		api.Error(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		api.Unexpected(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := h.tokens.Sign(user.ID, user.Email, user.Username)
	if err != nil {
		api.Unexpected(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User logged in successfully",
		"user":    user,
		"token":   token,
	})
}

// Update rewrites the requester's profile. The password is rehashed and
// stored on every call, even when only other fields change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(&req); errs != nil {
		api.ValidationFailed(w, errs)
		return
	}

	// Ownership is only enforced when the gate attached an identity.
	if claims, ok := auth.ClaimsFrom(r.Context()); ok && claims.Username != req.Username {
		api.Error(w, http.StatusBadRequest, "You are not authorized to update this user")
		return
	}

	if _, err := h.users.GetByUsername(r.Context(), req.Username); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			api.Error(w, http.StatusBadRequest, "User not found")
			return
		}
		api.Unexpected(w, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		api.Error(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.Unexpected(w, err)
		return
	}
	user, err := h.users.Update(r.Context(), req.Username, &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashed),
	})
	if errors.Is(err, store.ErrUserNotFound) {
		api.Error(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("update user")
		api.Unexpected(w, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

// Delete removes the requester's account and returns the deleted snapshot.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(&req); errs != nil {
		api.ValidationFailed(w, errs)
		return
	}

	if claims, ok := auth.ClaimsFrom(r.Context()); ok && claims.Username != req.Username {
		api.Error(w, http.StatusBadRequest, "You are not authorized to delete this user")
		return
	}

	user, err := h.users.Delete(r.Context(), req.Username)
	if errors.Is(err, store.ErrUserNotFound) {
		api.Error(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("delete user")
		api.Unexpected(w, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deleted successfully",
		"user":    user,
	})
}
