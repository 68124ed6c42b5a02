package login

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	sessionstore "github.com/merchdesk/merchdesk/internal/app/store/sessions"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type Handler struct {
	Backend    *backend.Client
	SessionMgr *auth.SessionManager
	Tokens     *auth.TokenCodec
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Sessions   *sessionstore.Store
	Log        *zap.Logger

	// Google is nil when Google sign-in is not configured.
	Google *oauth2.Config
}

func NewHandler(api *backend.Client, sm *auth.SessionManager, tokens *auth.TokenCodec, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, sessStore *sessionstore.Store, google *oauth2.Config, logger *zap.Logger) *Handler {
	return &Handler{
		Backend:    api,
		SessionMgr: sm,
		Tokens:     tokens,
		ErrLog:     errLog,
		AuditLog:   audit,
		Sessions:   sessStore,
		Log:        logger,
		Google:     google,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

// ServeForm handles GET /login.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     safeReturnURL(query.Get(r, "return")),
		GoogleEnabled: h.Google != nil,
	}
	templates.Render(w, r, "login", data)
}

// HandleSubmit handles POST /login: exchanges the operator's
// credentials with the backend for a bearer token, then establishes
// the local session.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("email")))
	password := r.PostFormValue("password")
	returnURL := safeReturnURL(r.PostFormValue("return"))

	if email == "" || password == "" {
		h.renderError(w, r, email, returnURL, "Email and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	resp, err := backend.Create[models.LoginResponse](ctx, h.Backend.WithToken(""), "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.AuditLog.LoginFailed(ctx, r, email, "invalid credentials")
			h.renderError(w, r, email, returnURL, "Incorrect email or password.")
			return
		}
		h.ErrLog.LogServerError(w, r, "backend login failed", err, "Sign-in is unavailable right now. Please try again.", "/login")
		return
	}

	h.establishSession(w, r, resp, "password", returnURL)
}

// establishSession finishes any successful credential exchange.
func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, resp models.LoginResponse, method, returnURL string) {
	u := auth.SessionUser{
		ID:    resp.User.ID,
		Name:  resp.User.Name,
		Email: resp.User.Email,
		Role:  resp.User.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "session sign-in failed", err, "A server error occurred.", "/login")
		return
	}

	ttl := time.Duration(resp.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if err := h.Tokens.Set(w, resp.Token, ttl); err != nil {
		h.ErrLog.LogServerError(w, r, "token cookie encode failed", err, "A server error occurred.", "/login")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()
	if _, err := h.Sessions.Create(ctx, sessionstore.Session{
		UserID:   u.ID,
		UserName: u.Name,
		Role:     u.Role,
		IP:       r.RemoteAddr,
	}); err != nil {
		h.Log.Warn("record sign-in session failed", zap.Error(err))
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Name, method)

	if returnURL == "" {
		returnURL = "/dashboard"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, email, returnURL, msg string) {
	data := loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     returnURL,
		GoogleEnabled: h.Google != nil,
	}
	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "login", data)
}

// safeReturnURL only allows same-site relative paths.
func safeReturnURL(s string) string {
	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") {
		return ""
	}
	return s
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
