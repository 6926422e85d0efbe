package venues

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/assert"

	"github.com/atrium-hq/atrium/engine"
)

func TestValid(t *testing.T) {
	m := New([]string{"101", "102", "STEM Room"}, "08:00", "22:00", 30)

	assert.True(t, m.Valid("101"))
	assert.True(t, m.Valid("STEM Room"))
	assert.False(t, m.Valid("999"))
	assert.False(t, m.Valid(""))
	assert.False(t, m.Valid("stem room"))
}

func TestConfigEndpoint(t *testing.T) {
	m := New([]string{"101", "102"}, "08:00", "22:00", 30)

	router := engine.NewRouter(nil)
	m.AttachRoutes(router)
	server := httptest.NewServer(router)
	defer server.Close()

	e := httpexpect.Default(t, server.URL)
	resp := e.GET("/api/config").Expect().Status(http.StatusOK).JSON().Object()
	resp.Value("venues").Array().ConsistsOf("101", "102")
	resp.HasValue("openTime", "08:00")
	resp.HasValue("closeTime", "22:00")
	resp.HasValue("slotMinutes", 30)
}
