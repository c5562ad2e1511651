package handler

import (
	"net/http"

	"github.com/daap14/stockroom/internal/api/middleware"
	"github.com/daap14/stockroom/internal/api/response"
	"github.com/daap14/stockroom/internal/user"
)

type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Active    *bool  `json:"active"`
}

type userResponse struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:         u.ID.String(),
		ExternalID: u.ExternalID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:  u.UpdatedAt.UTC().Format(timeFormat),
	}
}

// UserHandler handles the /api/users endpoints.
type UserHandler struct {
	svc *user.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Current handles GET /api/users/current.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	u, err := h.svc.GetCurrent(r.Context(), identity)
	if err != nil {
		writeError(w, r, err, "get current user")
		return
	}
	response.Success(w, http.StatusOK, toUserResponse(u), middleware.GetRequestID(r.Context()))
}

// Sync handles POST /api/users/sync: it stores or refreshes the caller's
// profile from the claims of the presented token.
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	u, err := h.svc.SyncFromIdentityProvider(r.Context(),
		identity.Subject,
		identity.Username,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.Roles(),
	)
	if err != nil {
		writeError(w, r, err, "sync user")
		return
	}
	response.Success(w, http.StatusOK, toUserResponse(u), middleware.GetRequestID(r.Context()))
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err, "list users")
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), middleware.GetRequestID(r.Context()))
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get user")
		return
	}
	response.Success(w, http.StatusOK, toUserResponse(u), middleware.GetRequestID(r.Context()))
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.svc.Update(r.Context(), id, user.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Active:    req.Active,
	})
	if err != nil {
		writeError(w, r, err, "update user")
		return
	}
	response.Success(w, http.StatusOK, toUserResponse(u), middleware.GetRequestID(r.Context()))
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "delete user")
		return
	}
	response.NoContent(w)
}
