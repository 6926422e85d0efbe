package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"

	"github.com/atrium-hq/atrium/engine"
)

func newTestServer(t *testing.T, adminPassword string) *httpexpect.Expect {
	issuer := engine.NewTokenIssuer(filepath.Join(t.TempDir(), "test.pem"))
	m := New(issuer, adminPassword)

	router := engine.NewRouter(nil)
	m.AttachRoutes(router)
	router.Handle("GET", "/whoami-admin", m.WithAdmin(func(r *http.Request, _ httprouter.Params) engine.Response {
		return engine.JSON(From(r.Context()))
	}))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return httpexpect.Default(t, server.URL)
}

func TestAnonymousIdentity(t *testing.T) {
	e := newTestServer(t, "")

	resp := e.GET("/api/user").Expect().Status(http.StatusOK).JSON().Object()
	resp.HasValue("id", "anonymous")
	resp.HasValue("username", "guest")
	resp.HasValue("admin", false)
}

func TestLoginRoundtrip(t *testing.T) {
	e := newTestServer(t, "")

	e.POST("/api/login").
		WithJSON(map[string]string{"username": "laura"}).
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("username", "laura").
		HasValue("admin", false)

	// The session cookie carries the identity to later requests
	resp := e.GET("/api/user").Expect().Status(http.StatusOK).JSON().Object()
	resp.HasValue("username", "laura")
	resp.Value("id").String().NotEmpty()
	resp.NotHasValue("id", "anonymous")
}

func TestLoginValidation(t *testing.T) {
	e := newTestServer(t, "")

	e.POST("/api/login").
		WithJSON(map[string]string{"username": "   "}).
		Expect().
		Status(http.StatusBadRequest)

	e.POST("/api/login").
		WithText("not json").
		Expect().
		Status(http.StatusBadRequest)
}

func TestAdminFlag(t *testing.T) {
	e := newTestServer(t, "hunter2")

	// Wrong or missing password logs in without the admin flag
	e.POST("/api/login").
		WithJSON(map[string]string{"username": "laura", "adminPassword": "wrong"}).
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("admin", false)
	e.GET("/whoami-admin").Expect().Status(http.StatusUnauthorized)

	e.POST("/api/login").
		WithJSON(map[string]string{"username": "laura", "adminPassword": "hunter2"}).
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("admin", true)
	e.GET("/whoami-admin").Expect().Status(http.StatusOK).JSON().Object().
		HasValue("admin", true)
}

func TestAdminNeverGrantedWithoutConfiguredPassword(t *testing.T) {
	// An empty configured password must not make everyone admin
	e := newTestServer(t, "")

	e.POST("/api/login").
		WithJSON(map[string]string{"username": "laura", "adminPassword": ""}).
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("admin", false)
}

func TestInvalidCookieFallsBackToAnonymous(t *testing.T) {
	e := newTestServer(t, "")

	e.GET("/api/user").
		WithCookie(cookieName, "garbage").
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("id", "anonymous")
}

func TestIdentityContextDefaults(t *testing.T) {
	assert.Equal(t, Anonymous(), From(t.Context()))
}
