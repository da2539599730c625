package httpapi

import (
	"net/http"
	"time"

	"github.com/avasilyev/notekeep/internal/server/models"
)

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		LastLogin: u.LastLogin,
	}
}

func (rt *Router) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := rt.users.Profile(r.Context(), subjectFrom(r.Context()))
	if err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusOK, toUserResponse(user))
}

func (rt *Router) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		rt.error(w, r, err)
		return
	}

	if err := rt.users.UpdateProfile(r.Context(), subjectFrom(r.Context()), req.Email, req.Password); err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusOK, map[string]string{"message": "profile updated"})
}

func (rt *Router) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	subjectID := subjectFrom(r.Context())
	if err := rt.users.Deactivate(r.Context(), subjectID); err != nil {
		rt.error(w, r, err)
		return
	}
	rt.log.Info(r.Context(), "account deactivated", "user_id", subjectID)
	rt.respond(w, r, http.StatusOK, map[string]string{"message": "account deactivated"})
}
