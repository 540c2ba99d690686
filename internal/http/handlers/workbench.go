package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"promptstudio/internal/domain"
	"promptstudio/internal/workbench"
)

func (a *App) WorkbenchSnapshot(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Bench.Snapshot())
}

type selectModeRequest struct {
	Mode string `json:"mode"`
}

func (a *App) SelectMode(w http.ResponseWriter, r *http.Request) {
	var req selectModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.Bench.SelectMode(domain.NormalizeInputMode(req.Mode))
	a.json(w, http.StatusOK, a.Bench.Snapshot())
}

func (a *App) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var fields domain.FormFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.Bench.UpdateForm(fields)
	a.json(w, http.StatusOK, a.Bench.Snapshot())
}

type updateSeedRequest struct {
	Seed string `json:"seed"`
}

func (a *App) UpdateSeed(w http.ResponseWriter, r *http.Request) {
	var req updateSeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.Bench.UpdateSeed(req.Seed)
	a.json(w, http.StatusOK, a.Bench.Snapshot())
}

func (a *App) SubmitFormPrompt(w http.ResponseWriter, r *http.Request) {
	var fields domain.FormFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Bench.SubmitForm(r.Context(), fields); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Bench.Snapshot())
}

type enhanceRequest struct {
	Seed string `json:"seed"`
}

func (a *App) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Bench.EnhanceSeed(r.Context(), req.Seed); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Bench.Snapshot())
}

type generateImageResponse struct {
	Snapshot workbench.Snapshot `json:"snapshot"`
	Warning  string             `json:"warning,omitempty"`
}

func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	err := a.Bench.GenerateImage(r.Context())
	var partial *domain.PartialSaveError
	switch {
	case err == nil:
		a.json(w, http.StatusCreated, generateImageResponse{Snapshot: a.Bench.Snapshot()})
	case errors.As(err, &partial):
		// The image is kept and shown; only the history write failed.
		a.Logger.Warn().Err(partial.Err).Msg("record save failed after successful image generation")
		a.json(w, http.StatusCreated, generateImageResponse{
			Snapshot: a.Bench.Snapshot(),
			Warning:  partial.Error(),
		})
	default:
		a.fail(w, err)
	}
}

type loadRecordRequest struct {
	ID string `json:"id"`
}

func (a *App) LoadRecord(w http.ResponseWriter, r *http.Request) {
	var req loadRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "record id required")
		return
	}
	if err := a.Bench.LoadRecord(req.ID); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Bench.Snapshot())
}

type switchGalleryRequest struct {
	View string `json:"view"`
}

func (a *App) SwitchGallery(w http.ResponseWriter, r *http.Request) {
	var req switchGalleryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.Bench.SwitchGallery(workbench.GalleryView(req.View))
	a.json(w, http.StatusOK, a.Bench.Gallery())
}

// PromptText serves the current prompt as plain text. Read-only leaf for the
// copy-to-clipboard action; never mutates workbench state.
func (a *App) PromptText(w http.ResponseWriter, r *http.Request) {
	snap := a.Bench.Snapshot()
	if snap.Prompt == "" {
		a.error(w, http.StatusNotFound, "not_found", "no prompt generated yet")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(snap.Prompt))
}

// DownloadImage serves the current image bytes as an attachment. Read-only
// leaf; never mutates workbench state.
func (a *App) DownloadImage(w http.ResponseWriter, r *http.Request) {
	snap := a.Bench.Snapshot()
	if snap.Image == nil {
		a.error(w, http.StatusNotFound, "not_found", "no image generated yet")
		return
	}
	data, err := base64.StdEncoding.DecodeString(snap.Image.Data)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "image payload is not base64")
		return
	}
	ext := "png"
	switch snap.Image.MIME {
	case "image/jpeg", "image/jpg":
		ext = "jpg"
	case "image/webp":
		ext = "webp"
	}
	w.Header().Set("Content-Type", snap.Image.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=generated.%s", ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
