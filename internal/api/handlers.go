package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"listfetch/internal/record"
	"listfetch/internal/state"
	"listfetch/internal/transform"
	"listfetch/source"
)

// Refresher is satisfied by *pipeline.Runner.
type Refresher interface {
	Refresh(ctx context.Context) (state.Snapshot, error)
}

type Handler struct {
	store     *state.Store
	refresher Refresher
}

func NewHandler(store *state.Store, r Refresher) *Handler {
	return &Handler{store: store, refresher: r}
}

type statusResponse struct {
	Loading   bool            `json:"loading"`
	Ready     bool            `json:"ready"`
	Error     string          `json:"error,omitempty"`
	Snapshot  string          `json:"snapshot,omitempty"`
	FetchedAt *time.Time      `json:"fetched_at,omitempty"`
	Stats     transform.Stats `json:"stats"`
}

type itemsResponse struct {
	Snapshot string          `json:"snapshot"`
	Items    []record.Record `json:"items"`
}

type groupsResponse struct {
	Snapshot string                  `json:"snapshot"`
	Groups   transform.GroupedResult `json:"groups"`
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) Status(c *gin.Context) {
	v := h.store.View()
	resp := statusResponse{Loading: v.Loading, Ready: v.Ready}
	if v.Err != nil {
		resp.Error = v.Err.Error()
	}
	if v.Ready {
		at := v.Snapshot.FetchedAt
		resp.Snapshot = v.Snapshot.ID
		resp.FetchedAt = &at
		resp.Stats = v.Snapshot.Stats
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Items(c *gin.Context) {
	v, ok := h.ready(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, itemsResponse{Snapshot: v.Snapshot.ID, Items: v.Snapshot.Items})
}

func (h *Handler) Groups(c *gin.Context) {
	v, ok := h.ready(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, groupsResponse{Snapshot: v.Snapshot.ID, Groups: v.Snapshot.Groups})
}

func (h *Handler) Refresh(c *gin.Context) {
	if h.refresher == nil {
		respondError(c, http.StatusNotImplemented, "refresh_unavailable", errors.New("refresh is not wired"))
		return
	}
	snap, err := h.refresher.Refresh(c.Request.Context())
	if err != nil {
		var te *source.TransportError
		var de *source.DecodeError
		switch {
		case errors.As(err, &de):
			respondError(c, http.StatusBadGateway, "decode_error", err)
			return
		case errors.As(err, &te):
			respondError(c, http.StatusBadGateway, "transport_error", err)
			return
		case snap.ID == "":
			respondError(c, http.StatusInternalServerError, "refresh_failed", err)
			return
		}
		// sink failures do not invalidate the fresh snapshot
		c.Header("X-Sink-Error", err.Error())
	}
	c.JSON(http.StatusOK, groupsResponse{Snapshot: snap.ID, Groups: snap.Groups})
}

func (h *Handler) ready(c *gin.Context) (state.View, bool) {
	v := h.store.View()
	if !v.Ready {
		code := "not_ready"
		if v.Loading {
			code = "loading"
		}
		err := v.Err
		if err == nil {
			err = errors.New("no snapshot fetched yet")
		}
		respondError(c, http.StatusServiceUnavailable, code, err)
		return v, false
	}
	return v, true
}
