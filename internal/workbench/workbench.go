// Package workbench implements the generation workflow orchestrator: the
// state machine that sequences prompt construction, prompt generation, image
// generation, persistence and gallery restore, and keeps the transient UI
// state consistent across the two input modes and the two remote calls.
package workbench

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"promptstudio/internal/domain"
)

// PromptService is the Remote Prompt Service boundary.
type PromptService interface {
	GenerateFromForm(ctx context.Context, fields domain.FormFields) (string, error)
	Enhance(ctx context.Context, seed string) (string, error)
}

// ImageService is the Remote Image Service boundary.
type ImageService interface {
	Generate(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
}

// Archiver optionally keeps a copy of generated image bytes outside the
// record store. Failures are logged, never propagated.
type Archiver interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Deps wires the orchestrator's collaborators.
type Deps struct {
	Prompts  PromptService
	Images   ImageService
	Store    domain.RecordStore
	Archiver Archiver
	Logger   zerolog.Logger
}

// Workbench owns the single mutable workbench state. All mutation goes
// through its methods; views only read snapshots and submit intents.
//
// The pending flags enforce the no-concurrent-call rule: at most one prompt
// call and one image call may be outstanding, and a same-kind resubmission is
// rejected rather than raced. The remote call itself runs outside the lock so
// unrelated intents stay processable while it is in flight. There is no
// cancellation and no orchestrator-imposed timeout; a call runs to completion
// or failure.
type Workbench struct {
	prompts  PromptService
	images   ImageService
	store    domain.RecordStore
	archiver Archiver
	log      zerolog.Logger

	mu sync.Mutex

	mode   domain.InputMode
	form   domain.FormFields
	seed   string
	prompt string
	image  *domain.GeneratedImage

	promptPending bool
	imagePending  bool

	galleryView GalleryView
	history     []domain.HistoryRecord
	favorites   []domain.HistoryRecord
}

// New constructs an idle workbench. Call Bootstrap afterwards to populate the
// gallery projections.
func New(deps Deps) (*Workbench, error) {
	if deps.Prompts == nil {
		return nil, fmt.Errorf("workbench: prompt service is required")
	}
	if deps.Images == nil {
		return nil, fmt.Errorf("workbench: image service is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("workbench: record store is required")
	}
	return &Workbench{
		prompts:     deps.Prompts,
		images:      deps.Images,
		store:       deps.Store,
		archiver:    deps.Archiver,
		log:         deps.Logger,
		mode:        domain.ModeForm,
		galleryView: GalleryHistory,
	}, nil
}

// Bootstrap issues the one-time initial fetch of both gallery projections.
// A failed fetch leaves the (empty) lists in place and is surfaced once.
func (w *Workbench) Bootstrap(ctx context.Context) {
	w.refreshGallery(ctx, "bootstrap")
}

// SelectMode toggles the active input mode. Both the form fields and the
// free-text seed are retained, so switching back and forth loses nothing.
func (w *Workbench) SelectMode(mode domain.InputMode) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = mode
}

// UpdateForm retains edited form fields without triggering any call.
func (w *Workbench) UpdateForm(fields domain.FormFields) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = fields
}

// UpdateSeed retains the edited free-text seed without triggering any call.
func (w *Workbench) UpdateSeed(seed string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seed = seed
}

// SubmitForm runs transition 2: validate the fields, call the prompt service,
// and on success store the result as the current prompt. On failure the
// previous prompt (and everything else) stays intact.
func (w *Workbench) SubmitForm(ctx context.Context, fields domain.FormFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	if w.promptPending {
		w.mu.Unlock()
		return domain.ErrPromptInFlight
	}
	w.promptPending = true
	w.mu.Unlock()
	defer w.clearPromptPending()

	out, err := w.prompts.GenerateFromForm(ctx, fields)
	if err != nil {
		return &domain.RemoteCallError{Op: "generate prompt", Err: err}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = fields
	w.mode = domain.ModeForm
	w.commitPrompt(out)
	return nil
}

// EnhanceSeed runs transition 3: same pending/ready pattern as SubmitForm,
// calling the prompt service with the free-text seed instead.
func (w *Workbench) EnhanceSeed(ctx context.Context, seed string) error {
	if strings.TrimSpace(seed) == "" {
		return &domain.ValidationError{Field: "seed", Reason: "is required"}
	}

	w.mu.Lock()
	if w.promptPending {
		w.mu.Unlock()
		return domain.ErrPromptInFlight
	}
	w.promptPending = true
	w.mu.Unlock()
	defer w.clearPromptPending()

	out, err := w.prompts.Enhance(ctx, seed)
	if err != nil {
		return &domain.RemoteCallError{Op: "enhance prompt", Err: err}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.seed = seed
	w.mode = domain.ModeFreeText
	w.commitPrompt(out)
	return nil
}

// GenerateImage runs transition 4: call the image service with the current
// prompt, show the result, then persist a new history record and refresh the
// gallery. If persistence fails after a successful image call the image is
// kept on screen and a PartialSaveError is returned; the gallery keeps its
// previous contents. Deliberate partial-success policy.
func (w *Workbench) GenerateImage(ctx context.Context) error {
	w.mu.Lock()
	if w.prompt == "" {
		w.mu.Unlock()
		return &domain.ValidationError{Field: "prompt", Reason: "generate a prompt first"}
	}
	if w.imagePending {
		w.mu.Unlock()
		return domain.ErrImageInFlight
	}
	w.imagePending = true
	promptText := w.prompt
	mode := w.mode
	params := w.parametersLocked()
	w.mu.Unlock()
	defer w.clearImagePending()

	img, err := w.images.Generate(ctx, promptText)
	if err != nil {
		return &domain.RemoteCallError{Op: "generate image", Err: err}
	}

	// Image display is committed before persistence and is never rolled
	// back, even when the save below fails.
	w.mu.Lock()
	w.image = img
	w.mu.Unlock()

	w.archive(ctx, img)

	rec := &domain.HistoryRecord{
		PromptText: promptText,
		PromptType: mode,
		Parameters: params,
		ImageData:  img.Data,
	}
	if _, err := w.store.Save(ctx, rec); err != nil {
		return &domain.PartialSaveError{Err: err}
	}

	w.refreshGallery(ctx, "after save")
	return nil
}

// ToggleFavorite runs transition 5: flip the flag at the store, then re-fetch
// both projections in full. No optimistic local patch.
func (w *Workbench) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	fav, err := w.store.ToggleFavorite(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, err
		}
		return false, &domain.RemoteCallError{Op: "toggle favorite", Err: err}
	}
	w.refreshGallery(ctx, "after toggle")
	return fav, nil
}

// LoadRecord runs transition 6: unconditionally replace the transient state
// with the record's content. Never calls a remote service.
func (w *Workbench) LoadRecord(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var rec *domain.HistoryRecord
	for i := range w.history {
		if w.history[i].ID == id {
			rec = &w.history[i]
			break
		}
	}
	if rec == nil {
		return domain.ErrNotFound
	}

	w.prompt = rec.PromptText
	if rec.ImageData != "" {
		w.image = &domain.GeneratedImage{Data: rec.ImageData, MIME: domain.DefaultImageMIME}
	} else {
		w.image = nil
	}
	if rec.PromptType == domain.ModeFreeText {
		w.seed = rec.Parameters.Seed
		w.mode = domain.ModeFreeText
	} else {
		if rec.Parameters.Form != nil {
			w.form = *rec.Parameters.Form
		} else {
			w.form = domain.FormFields{}
		}
		w.mode = domain.ModeForm
	}
	return nil
}

// SwitchGallery runs transition 7: a pure display filter over the already
// fetched lists.
func (w *Workbench) SwitchGallery(view GalleryView) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if view == GalleryFavorites {
		w.galleryView = GalleryFavorites
	} else {
		w.galleryView = GalleryHistory
	}
}

// Snapshot returns a copy of the current workbench state.
func (w *Workbench) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := Snapshot{
		Mode:          w.mode,
		Form:          w.form,
		Seed:          w.seed,
		Prompt:        w.prompt,
		PromptPending: w.promptPending,
		ImagePending:  w.imagePending,
	}
	if w.image != nil {
		img := *w.image
		snap.Image = &img
	}
	return snap
}

// Gallery returns both projections and the active view.
func (w *Workbench) Gallery() GallerySnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return GallerySnapshot{
		View:      w.galleryView,
		History:   append([]domain.HistoryRecord(nil), w.history...),
		Favorites: append([]domain.HistoryRecord(nil), w.favorites...),
	}
}

// commitPrompt stores a freshly generated prompt and drops the previous
// image: the machine is back in the prompt-ready state and the old image no
// longer corresponds to the prompt.
func (w *Workbench) commitPrompt(prompt string) {
	w.prompt = prompt
	w.image = nil
}

func (w *Workbench) parametersLocked() domain.RecordParameters {
	if w.mode == domain.ModeFreeText {
		return domain.RecordParameters{Seed: w.seed}
	}
	form := w.form
	return domain.RecordParameters{Form: &form}
}

func (w *Workbench) clearPromptPending() {
	w.mu.Lock()
	w.promptPending = false
	w.mu.Unlock()
}

func (w *Workbench) clearImagePending() {
	w.mu.Lock()
	w.imagePending = false
	w.mu.Unlock()
}

// refreshGallery re-fetches both projections. A failure is non-fatal: the
// previous lists stay visible and the failure is surfaced once, without
// automatic retry.
func (w *Workbench) refreshGallery(ctx context.Context, trigger string) {
	history, err := w.store.ListHistory(ctx)
	if err != nil {
		w.log.Warn().Err(err).Str("trigger", trigger).Msg("history refresh failed, keeping previous list")
		return
	}
	favorites, err := w.store.ListFavorites(ctx)
	if err != nil {
		w.log.Warn().Err(err).Str("trigger", trigger).Msg("favorites refresh failed, keeping previous lists")
		return
	}
	w.mu.Lock()
	w.history = history
	w.favorites = favorites
	w.mu.Unlock()
}

func (w *Workbench) archive(ctx context.Context, img *domain.GeneratedImage) {
	if w.archiver == nil {
		return
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		w.log.Warn().Err(err).Msg("archive skipped: image payload is not base64")
		return
	}
	key := fmt.Sprintf("%s/%s%s", time.Now().UTC().Format("2006-01-02"), uuid.NewString(), extensionForMIME(img.MIME))
	if _, err := w.archiver.Write(ctx, key, data); err != nil {
		w.log.Warn().Err(err).Str("key", key).Msg("archive write failed")
	}
}

func extensionForMIME(mime string) string {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
