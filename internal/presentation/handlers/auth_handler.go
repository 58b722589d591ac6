package handlers

import (
	"net/http"
	"time"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/application/service"
	"gitcollab/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
)

const githubProvider = "github"

// TokenIssuer signs session tokens for logged-in users
type TokenIssuer interface {
	IssueToken(userID, username string) (string, time.Time, error)
}

// ConfigureOAuth installs the cookie session store and the GitHub provider.
// The "repo" scope lets the API grant strategy add collaborators as the owner.
func ConfigureOAuth(cfg config.AuthConfig) {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	goth.UseProviders(
		github.New(
			cfg.GitHubClientID,
			cfg.GitHubClientSecret,
			cfg.GitHubCallbackURL,
			"read:user",
			"user:email",
			"repo",
		),
	)
}

// AuthHandler runs the GitHub OAuth flow and exchanges it for a bearer token
type AuthHandler struct {
	userService *service.UserService
	tokens      TokenIssuer

	beginAuth    func(http.ResponseWriter, *http.Request)
	completeAuth func(http.ResponseWriter, *http.Request) (goth.User, error)
}

// NewAuthHandler creates a new auth handler backed by gothic
func NewAuthHandler(userService *service.UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokens:       tokens,
		beginAuth:    gothic.BeginAuthHandler,
		completeAuth: gothic.CompleteUserAuth,
	}
}

// BeginAuth handles GET /auth/:provider
// @Summary Start GitHub login
// @Description Redirects to GitHub's consent page
// @Tags Authentication
// @Param provider path string true "Provider" Enums(github)
// @Success 307
// @Failure 404 {object} ErrorResponse
// @Router /auth/{provider} [get]
func (h *AuthHandler) BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider != githubProvider {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Unknown auth provider"})
		return
	}
	h.beginAuth(c.Writer, addProviderParam(c.Request, provider))
}

// Callback handles GET /auth/:provider/callback
// @Summary Finish GitHub login
// @Description Creates or finds the user, links the GitHub account and returns a bearer token
// @Tags Authentication
// @Produce json
// @Param provider path string true "Provider" Enums(github)
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/{provider}/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")
	if provider != githubProvider {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Unknown auth provider"})
		return
	}

	ghUser, err := h.completeAuth(c.Writer, addProviderParam(c.Request, provider))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "GitHub login failed",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.LoginWithGitHub(c.Request.Context(), service.GitHubLogin{
		ExternalID:  ghUser.UserID,
		Login:       ghUser.NickName,
		Email:       ghUser.Email,
		AccessToken: ghUser.AccessToken,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := h.tokens.IssueToken(user.ID, user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// gothic reads the provider name from the query string
func addProviderParam(r *http.Request, provider string) *http.Request {
	query := r.URL.Query()
	query.Set("provider", provider)
	r.URL.RawQuery = query.Encode()
	return r
}
