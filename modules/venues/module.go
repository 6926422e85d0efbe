// Package venues holds the fixed venue enumeration and business-hours
// configuration, and serves them to clients. Venues are operator
// configuration - they cannot be extended at request time.
package venues

import (
	"net/http"
	"slices"

	"github.com/julienschmidt/httprouter"

	"github.com/atrium-hq/atrium/engine"
)

type Module struct {
	venues      []string
	openTime    string
	closeTime   string
	slotMinutes int
}

func New(venues []string, openTime, closeTime string, slotMinutes int) *Module {
	return &Module{
		venues:      venues,
		openTime:    openTime,
		closeTime:   closeTime,
		slotMinutes: slotMinutes,
	}
}

// Valid reports whether the given venue code is part of the enumeration.
func (m *Module) Valid(venue string) bool { return slices.Contains(m.venues, venue) }

func (m *Module) OpenTime() string  { return m.openTime }
func (m *Module) CloseTime() string { return m.closeTime }
func (m *Module) SlotMinutes() int  { return m.slotMinutes }

func (m *Module) AttachRoutes(router *engine.Router) {
	router.Handle("GET", "/api/config", m.handleConfig)
}

func (m *Module) handleConfig(r *http.Request, _ httprouter.Params) engine.Response {
	return engine.JSON(map[string]any{
		"venues":      m.venues,
		"openTime":    m.openTime,
		"closeTime":   m.closeTime,
		"slotMinutes": m.slotMinutes,
	})
}
