package handler

import (
	"net/http"

	"club-hours/internal/logger"
	"club-hours/internal/middleware"
	"club-hours/internal/model"
	"club-hours/internal/service"
	"club-hours/internal/workhours"

	"github.com/gin-gonic/gin"
)

const selectionMessage = "Mehrere Mitglieder verwenden diese E-Mail-Adresse. Bitte wählen Sie Ihr Profil."

type AuthHandler struct{ auth *service.AuthService }

func NewAuthHandler(auth *service.AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email, "ip", middleware.ClientIP(c.Request))
		_ = c.Error(err)
		return
	}

	if res.Token != "" {
		logger.Info("login.ok", "member", res.Member.ID)
		c.JSON(http.StatusOK, model.LoginResponse{
			Type:    "single",
			Success: true,
			Token:   res.Token,
			User:    userResponse(*res.Member),
		})
		return
	}

	logger.Info("login.selection", "email", req.Email, "candidates", len(res.Candidates))
	users := make([]model.UserResponse, 0, len(res.Candidates))
	for _, m := range res.Candidates {
		users = append(users, userResponse(m))
	}
	c.JSON(http.StatusOK, model.MemberSelectionResponse{
		Type:           "multiple",
		Success:        true,
		Multiple:       true,
		Users:          users,
		SelectionToken: res.SelectionToken,
		Message:        selectionMessage,
	})
}

func (h *AuthHandler) SelectMember(c *gin.Context) {
	var req model.SelectMemberRequest
	if !bind(c, &req) {
		return
	}
	token, m, err := h.auth.SelectMember(c.Request.Context(), req.MemberID, req.SelectionToken)
	if err != nil {
		logger.Warn("login.select_failed", "member", req.MemberID)
		_ = c.Error(err)
		return
	}
	logger.Info("login.ok", "member", m.ID, "selected", true)
	c.JSON(http.StatusOK, model.LoginResponse{Type: "single", Success: true, Token: token, User: userResponse(*m)})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bind(c, &req) {
		return
	}
	if err := h.auth.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		_ = c.Error(err)
		return
	}
	logger.Info("register.ok", "email", req.Email)
	c.JSON(http.StatusCreated, model.MessageResponse{Success: true, Message: "Registrierung erfolgreich"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}
	logger.Info("password.reset_requested", "email", req.Email)
	c.JSON(http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "Ein Link zum Zurücksetzen des Passworts wurde an Ihre E-Mail-Adresse gesendet.",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password, req.ID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "Passwort erfolgreich zurückgesetzt. Sie können sich jetzt mit Ihrem neuen Passwort anmelden.",
	})
}

// CurrentUser serves both /user and /verify-token.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	m, err := h.auth.CurrentUser(c.Request.Context(), middleware.MemberID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, model.UserEnvelope{
		Success: true,
		User: model.CurrentUser{
			UserResponse: userResponse(*m),
			Profile:      model.Profile{LastName: m.LastName, FirstName: m.FirstName, TeableID: m.ID},
		},
	})
}

func userResponse(m workhours.Member) model.UserResponse {
	return model.UserResponse{ID: m.ID, Name: m.Name(), Email: m.Email}
}

// bind decodes the JSON body and records a bind error on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}
