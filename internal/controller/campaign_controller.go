// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/broadcast-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Engine          *service.DispatchEngine
	Tracker         *service.EngagementTracker
}

func campaignID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in service.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(in, ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	channel := r.URL.Query().Get("channel")
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := c.CampaignService.ListCampaigns(page, pageSize, channel, status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	campaign, err := c.CampaignService.GetCampaign(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	var in service.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	campaign, err := c.CampaignService.UpdateCampaign(id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

// SendCampaign dispatches synchronously and returns the final counters.
func (c *CampaignController) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	result, err := c.Engine.Send(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (c *CampaignController) CancelCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	campaign, err := c.CampaignService.CancelCampaign(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	if err := c.CampaignService.DeleteCampaign(id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TrackOpen and TrackClick are intentionally unauthenticated: they are hit
// by tracking pixels and link redirects embedded in already-sent content.

func (c *CampaignController) TrackOpen(w http.ResponseWriter, r *http.Request) {
	c.trackEvent(w, r, c.Tracker.TrackOpen)
}

func (c *CampaignController) TrackClick(w http.ResponseWriter, r *http.Request) {
	c.trackEvent(w, r, c.Tracker.TrackClick)
}

func (c *CampaignController) trackEvent(w http.ResponseWriter, r *http.Request, track func(int) error) {
	id, ok := campaignID(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	if err := track(id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
