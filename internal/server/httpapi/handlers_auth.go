package httpapi

import "net/http"

type signUpResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleSignUp creates an account. The API key is returned exactly once,
// here; no other endpoint ever echoes it back.
func (rt *Router) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decode(r, &req); err != nil {
		rt.error(w, r, err)
		return
	}

	user, err := rt.users.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		rt.error(w, r, err)
		return
	}

	rt.log.Info(r.Context(), "account created", "user_id", user.ID)
	rt.respond(w, r, http.StatusCreated, signUpResponse{ID: user.ID, Email: user.Email, APIKey: user.APIKey})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		rt.error(w, r, err)
		return
	}

	token, err := rt.users.Login(r.Context(), req.Email, req.Password, req.APIKey)
	if err != nil {
		rt.error(w, r, err)
		return
	}

	rt.respond(w, r, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

// handleLogout reads the same two credential headers as protected routes
// but skips the authorizer; the user service runs its own key check.
func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	key := r.Header.Get(apiKeyHeader)

	if err := rt.users.Logout(r.Context(), token, key); err != nil {
		rt.error(w, r, err)
		return
	}

	rt.respond(w, r, http.StatusOK, map[string]string{"message": "logged out"})
}
