package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/team-lineup/internal/config"
	"github.com/iliyamo/team-lineup/internal/utils"
)

// AuthHandler issues coach access tokens.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type loginResp struct {
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Access   tokenPart `json:"access"`
}

// Login checks the coach credentials and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	// Both checks always run so a wrong username costs the same as a wrong password.
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.Cfg.CoachUsername)) == 1
	passOK := utils.VerifyPassword(h.Cfg.CoachPasswordHash, req.Password)
	if !userOK || !passOK {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Username, utils.RoleCoach, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Username: req.Username,
		Role:     utils.RoleCoach,
		Access:   tokenPart{Token: access.Token, Expires: access.Exp},
	})
}
