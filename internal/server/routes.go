package server

import (
	"net/http"
	"time"

	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/internal/flow"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const setupTimeout = 30 * time.Second

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)

	e.GET("/api/flow", s.FlowFormHandler)
	e.POST("/api/flow", s.FlowStepHandler)
	e.GET("/api/flow/callback", s.FlowCallbackHandler)

	e.GET("/api/entries", s.ListEntriesHandler)
	e.DELETE("/api/entries/:id", s.DeleteEntryHandler)
	e.DELETE("/api/entries/:id/devices/:serial", s.RemoveDeviceHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) FlowFormHandler(c echo.Context) error {
	result, err := s.flow.StepUser(c.Request().Context(), "")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, flowResultJSON(result, ""))
}

func (s *Server) FlowStepHandler(c echo.Context) error {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.flow.StepUser(c.Request().Context(), body.Mode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	setupStatus := ""
	if result.Type == flow.ResultCreateEntry {
		setupStatus = s.setupEntry(result)
	}
	return c.JSON(http.StatusOK, flowResultJSON(result, setupStatus))
}

func (s *Server) FlowCallbackHandler(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing state or code")
	}

	result, err := s.flow.Callback(c.Request().Context(), state, code)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	setupStatus := ""
	if result.Type == flow.ResultCreateEntry {
		setupStatus = s.setupEntry(result)
	}
	return c.JSON(http.StatusOK, flowResultJSON(result, setupStatus))
}

func (s *Server) ListEntriesHandler(c echo.Context) error {
	type entryJSON struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Mode  string `json:"mode"`
	}
	entries := s.store.List()
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{ID: e.ID, Title: e.Title, Mode: string(e.Mode())})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) DeleteEntryHandler(c echo.Context) error {
	id := c.Param("id")
	if _, ok := s.store.Get(id); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown entry")
	}

	// an entry with no live runtime (partially failed setup) still gets
	// removed from the store, so the teardown reply is advisory only
	_, err := s.rootContext.RequestFuture(s.masterActor, domain.TeardownEntryRequest{EntryID: id}, setupTimeout).Result()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	if err := s.store.Remove(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveDeviceHandler implements the stale-device cleanup check: removal is
// denied while the device still reports through its entry.
func (s *Server) RemoveDeviceHandler(c echo.Context) error {
	id := c.Param("id")
	serial := c.Param("serial")

	res, err := s.rootContext.RequestFuture(s.masterActor, domain.RemoveDeviceRequest{
		EntryID: id,
		Serial:  serial,
	}, 10*time.Second).Result()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	response, ok := res.(domain.RemoveDeviceResponse)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "unexpected response")
	}
	if !response.Allowed {
		return c.JSON(http.StatusConflict, map[string]any{"allowed": false})
	}
	return c.JSON(http.StatusOK, map[string]any{"allowed": true})
}

func (s *Server) setupEntry(result flow.Result) string {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.SetupEntryRequest{Entry: result.Entry}, setupTimeout).Result()
	if err != nil {
		return "pending"
	}
	response, ok := res.(domain.SetupEntryResponse)
	switch {
	case !ok:
		return "pending"
	case response.AuthFailed:
		return "auth_failed"
	case response.HasResponseError():
		return "retrying"
	default:
		return "ok"
	}
}

func flowResultJSON(result flow.Result, setupStatus string) map[string]any {
	out := map[string]any{
		"type": string(result.Type),
	}
	if result.StepID != "" {
		out["step_id"] = result.StepID
	}
	if len(result.Options) > 0 {
		out["options"] = result.Options
	}
	if len(result.Errors) > 0 {
		out["errors"] = result.Errors
	}
	if result.AbortReason != "" {
		out["reason"] = result.AbortReason
	}
	if result.AuthURL != "" {
		out["url"] = result.AuthURL
	}
	if result.Entry != nil {
		out["entry_id"] = result.Entry.ID
		out["title"] = result.Entry.Title
	}
	if setupStatus != "" {
		out["setup"] = setupStatus
	}
	return out
}
