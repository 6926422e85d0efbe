// Package auth provides the lightweight identity surface of Atrium: named
// sessions carried in a signed cookie, a default anonymous identity for
// everyone else, and an admin flag gated by a shared password. It is not a
// security boundary - bookings work fine without logging in.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/atrium-hq/atrium/engine"
)

const (
	cookieName = "atrium_session"
	adminAud   = "admin"
	sessionTTL = 30 * 24 * time.Hour
)

type Module struct {
	issuer        *engine.TokenIssuer
	adminPassword string
}

func New(issuer *engine.TokenIssuer, adminPassword string) *Module {
	return &Module{issuer: issuer, adminPassword: adminPassword}
}

func (m *Module) AttachRoutes(router *engine.Router) {
	router.Handle("POST", "/api/login", m.handleLogin)
	router.Handle("GET", "/api/user", m.WithAuthn(m.handleWhoAmI))
}

func (m *Module) handleLogin(r *http.Request, _ httprouter.Params) engine.Response {
	req := struct {
		Username      string `json:"username"`
		AdminPassword string `json:"adminPassword"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return engine.ClientErrorf("invalid json")
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return engine.ClientErrorf("username is required")
	}

	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   req.Username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
	}
	if m.adminPassword != "" && req.AdminPassword == m.adminPassword {
		claims.Audience = jwt.ClaimStrings{adminAud}
	}

	tok, err := m.issuer.Sign(claims)
	if err != nil {
		return engine.Error(err)
	}

	return engine.Response{
		Status: http.StatusOK,
		Body: &Identity{
			ID:       claims.ID,
			Username: claims.Subject,
			Admin:    len(claims.Audience) > 0,
		},
		Header: http.Header{"Set-Cookie": []string{(&http.Cookie{
			Name:     cookieName,
			Value:    tok,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(sessionTTL),
		}).String()}},
	}
}

func (m *Module) handleWhoAmI(r *http.Request, _ httprouter.Params) engine.Response {
	return engine.JSON(From(r.Context()))
}

// WithAuthn resolves the caller's identity into the request context. It never
// rejects: requests without a valid session proceed as the anonymous user.
func (m *Module) WithAuthn(next engine.Handler) engine.Handler {
	return func(r *http.Request, ps httprouter.Params) engine.Response {
		ident := Anonymous()
		if cookie, err := r.Cookie(cookieName); err == nil {
			if claims, err := m.issuer.Verify(cookie.Value); err == nil {
				ident = &Identity{
					ID:       claims.ID,
					Username: claims.Subject,
					Admin:    slices.Contains(claims.Audience, adminAud),
				}
			}
		}
		return next(r.WithContext(withIdentity(r.Context(), ident)), ps)
	}
}

// WithAdmin rejects requests whose session does not carry the admin flag.
func (m *Module) WithAdmin(next engine.Handler) engine.Handler {
	return m.WithAuthn(func(r *http.Request, ps httprouter.Params) engine.Response {
		if !From(r.Context()).Admin {
			return engine.Unauthorized(errors.New("admin session required"))
		}
		return next(r, ps)
	})
}
