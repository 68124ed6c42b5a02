package login

import (
	"context"
	"net/http"

	"github.com/merchdesk/merchdesk/internal/app/backend"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

const stateCookieName = "merchdesk-oauth-state"

// ServeGoogle handles GET /login/google: redirects to Google's consent
// screen with a one-shot state value.
func (h *Handler) ServeGoogle(w http.ResponseWriter, r *http.Request) {
	if h.Google == nil {
		http.NotFound(w, r)
		return
	}

	state := randomState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/login",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.Google.AuthCodeURL(state), http.StatusSeeOther)
}

// HandleGoogleCallback handles GET /login/google/callback: verifies
// state, exchanges the code, and hands Google's ID token to the
// backend, which owns the account mapping and role assignment.
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Google == nil {
		http.NotFound(w, r)
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.renderError(w, r, "", "", "Sign-in session expired. Please try again.")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/login", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.renderError(w, r, "", "", "Google sign-in was cancelled.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tok, err := h.Google.Exchange(ctx, code)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "google token exchange failed", err, "Google sign-in failed. Please try again.", "/login")
		return
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		h.renderError(w, r, "", "", "Google sign-in failed. Please try again.")
		return
	}

	resp, err := backend.Create[models.LoginResponse](ctx, h.Backend.WithToken(""), "/auth/google", map[string]string{
		"idToken": idToken,
	})
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.AuditLog.LoginFailed(ctx, r, "", "google account not recognized")
			h.renderError(w, r, "", "", "That Google account has no dashboard access.")
			return
		}
		h.ErrLog.LogServerError(w, r, "backend google login failed", err, "Sign-in is unavailable right now. Please try again.", "/login")
		return
	}

	h.establishSession(w, r, resp, "google", "")
}
