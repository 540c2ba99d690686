package workbench

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"promptstudio/internal/domain"
)

type stubPromptService struct {
	mu           sync.Mutex
	formFn       func(ctx context.Context, fields domain.FormFields) (string, error)
	enhanceFn    func(ctx context.Context, seed string) (string, error)
	formCalls    int
	enhanceCalls int
}

func (s *stubPromptService) GenerateFromForm(ctx context.Context, fields domain.FormFields) (string, error) {
	s.mu.Lock()
	s.formCalls++
	fn := s.formFn
	s.mu.Unlock()
	if fn == nil {
		return "", errors.New("no form stub")
	}
	return fn(ctx, fields)
}

func (s *stubPromptService) Enhance(ctx context.Context, seed string) (string, error) {
	s.mu.Lock()
	s.enhanceCalls++
	fn := s.enhanceFn
	s.mu.Unlock()
	if fn == nil {
		return "", errors.New("no enhance stub")
	}
	return fn(ctx, seed)
}

func (s *stubPromptService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formCalls + s.enhanceCalls
}

type stubImageService struct {
	mu    sync.Mutex
	fn    func(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
	calls int
}

func (s *stubImageService) Generate(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	s.mu.Lock()
	s.calls++
	fn := s.fn
	s.mu.Unlock()
	if fn == nil {
		return nil, errors.New("no image stub")
	}
	return fn(ctx, prompt)
}

type stubStore struct {
	mu        sync.Mutex
	records   []domain.HistoryRecord
	saveErr   error
	listErr   error
	toggleErr error
	saves     int
	listCalls int
}

func (s *stubStore) Save(ctx context.Context, rec *domain.HistoryRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return "", s.saveErr
	}
	stored := *rec
	stored.ID = fmt.Sprintf("rec-%d", len(s.records)+1)
	s.records = append(s.records, stored)
	rec.ID = stored.ID
	return stored.ID, nil
}

func (s *stubStore) ListHistory(ctx context.Context) ([]domain.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.HistoryRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *stubStore) ListFavorites(ctx context.Context) ([]domain.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.HistoryRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].IsFavorite {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

func (s *stubStore) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].IsFavorite = !s.records[i].IsFavorite
			return s.records[i].IsFavorite, nil
		}
	}
	return false, domain.ErrNotFound
}

func newTestBench(t *testing.T, prompts *stubPromptService, images *stubImageService, store domain.RecordStore) *Workbench {
	t.Helper()
	bench, err := New(Deps{
		Prompts: prompts,
		Images:  images,
		Store:   store,
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return bench
}

func TestSubmitFormEmptySubjectIsLocalFailure(t *testing.T) {
	prompts := &stubPromptService{}
	images := &stubImageService{}
	bench := newTestBench(t, prompts, images, &stubStore{})

	before := bench.Snapshot()
	err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: "   "})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if prompts.calls() != 0 {
		t.Fatalf("prompt service calls = %d, want 0", prompts.calls())
	}
	if got := bench.Snapshot(); !reflect.DeepEqual(got, before) {
		t.Fatalf("snapshot changed on validation failure: %+v != %+v", got, before)
	}
}

func TestSubmitFormRejectsUnknownEnumValues(t *testing.T) {
	cases := []struct {
		name   string
		fields domain.FormFields
	}{
		{name: "lighting", fields: domain.FormFields{Subject: "mug", Lighting: "disco"}},
		{name: "camera_angle", fields: domain.FormFields{Subject: "mug", CameraAngle: "upside_down"}},
		{name: "style", fields: domain.FormFields{Subject: "mug", Style: "brutalist"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prompts := &stubPromptService{}
			bench := newTestBench(t, prompts, &stubImageService{}, &stubStore{})
			err := bench.SubmitForm(context.Background(), tc.fields)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if vErr.Field != tc.name {
				t.Fatalf("field = %q, want %q", vErr.Field, tc.name)
			}
			if prompts.calls() != 0 {
				t.Fatalf("prompt service calls = %d, want 0", prompts.calls())
			}
		})
	}
}

func TestSubmitFormSuccessLeavesImageAbsent(t *testing.T) {
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "A leather wallet on a dark studio backdrop...", nil
		},
	}
	bench := newTestBench(t, prompts, &stubImageService{}, &stubStore{})

	fields := domain.FormFields{Subject: "leather wallet", Lighting: "studio"}
	if err := bench.SubmitForm(context.Background(), fields); err != nil {
		t.Fatalf("SubmitForm returned error: %v", err)
	}

	snap := bench.Snapshot()
	if snap.Prompt != "A leather wallet on a dark studio backdrop..." {
		t.Fatalf("prompt = %q", snap.Prompt)
	}
	if snap.Image != nil {
		t.Fatal("image must stay absent until image generation succeeds")
	}
	if snap.PromptPending || snap.ImagePending {
		t.Fatalf("pending flags not cleared: %+v", snap)
	}
	if snap.Mode != domain.ModeForm {
		t.Fatalf("mode = %q, want form", snap.Mode)
	}
	if !reflect.DeepEqual(snap.Form, fields) {
		t.Fatalf("form = %+v, want %+v", snap.Form, fields)
	}
}

func TestSubmitFormFailureKeepsPreviousPrompt(t *testing.T) {
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "first prompt", nil
		},
	}
	bench := newTestBench(t, prompts, &stubImageService{}, &stubStore{})
	if err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: "mug"}); err != nil {
		t.Fatalf("SubmitForm returned error: %v", err)
	}

	prompts.mu.Lock()
	prompts.formFn = func(ctx context.Context, fields domain.FormFields) (string, error) {
		return "", errors.New("service down")
	}
	prompts.mu.Unlock()

	err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: "vase"})
	var rErr *domain.RemoteCallError
	if !errors.As(err, &rErr) {
		t.Fatalf("err = %v, want RemoteCallError", err)
	}
	snap := bench.Snapshot()
	if snap.Prompt != "first prompt" {
		t.Fatalf("prompt = %q, want previous prompt preserved", snap.Prompt)
	}
	if snap.PromptPending {
		t.Fatal("prompt pending flag not cleared after failure")
	}
}

func TestEnhanceSeedEmptyIsLocalFailure(t *testing.T) {
	prompts := &stubPromptService{}
	bench := newTestBench(t, prompts, &stubImageService{}, &stubStore{})
	err := bench.EnhanceSeed(context.Background(), "  ")
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if prompts.calls() != 0 {
		t.Fatalf("prompt service calls = %d, want 0", prompts.calls())
	}
}

func TestEnhanceSeedSuccessSetsFreeTextMode(t *testing.T) {
	prompts := &stubPromptService{
		enhanceFn: func(ctx context.Context, seed string) (string, error) {
			return "enhanced: " + seed, nil
		},
	}
	bench := newTestBench(t, prompts, &stubImageService{}, &stubStore{})
	if err := bench.EnhanceSeed(context.Background(), "a coffee cup on a wooden table"); err != nil {
		t.Fatalf("EnhanceSeed returned error: %v", err)
	}
	snap := bench.Snapshot()
	if snap.Mode != domain.ModeFreeText {
		t.Fatalf("mode = %q, want freetext", snap.Mode)
	}
	if snap.Seed != "a coffee cup on a wooden table" {
		t.Fatalf("seed = %q", snap.Seed)
	}
	if snap.Prompt != "enhanced: a coffee cup on a wooden table" {
		t.Fatalf("prompt = %q", snap.Prompt)
	}
}

func TestGenerateImageRequiresPrompt(t *testing.T) {
	images := &stubImageService{}
	bench := newTestBench(t, &stubPromptService{}, images, &stubStore{})
	err := bench.GenerateImage(context.Background())
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if images.calls != 0 {
		t.Fatalf("image service calls = %d, want 0", images.calls)
	}
}

func TestGenerateImagePersistsRecordAndRefreshesGallery(t *testing.T) {
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "A leather wallet on a dark studio backdrop...", nil
		},
	}
	images := &stubImageService{
		fn: func(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
			return &domain.GeneratedImage{Data: "aW1hZ2UtYnl0ZXM=", MIME: "image/png"}, nil
		},
	}
	store := &stubStore{}
	bench := newTestBench(t, prompts, images, store)

	fields := domain.FormFields{Subject: "leather wallet", Lighting: "studio"}
	if err := bench.SubmitForm(context.Background(), fields); err != nil {
		t.Fatalf("SubmitForm returned error: %v", err)
	}
	if err := bench.GenerateImage(context.Background()); err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}

	snap := bench.Snapshot()
	if snap.Image == nil || snap.Image.Data != "aW1hZ2UtYnl0ZXM=" || snap.Image.MIME != "image/png" {
		t.Fatalf("image = %+v", snap.Image)
	}

	gallery := bench.Gallery()
	if len(gallery.History) != 1 {
		t.Fatalf("history len = %d, want 1", len(gallery.History))
	}
	rec := gallery.History[0]
	if rec.PromptText != "A leather wallet on a dark studio backdrop..." {
		t.Fatalf("record prompt_text = %q", rec.PromptText)
	}
	if rec.PromptType != domain.ModeForm {
		t.Fatalf("record prompt_type = %q, want form", rec.PromptType)
	}
	if rec.Parameters.Form == nil || !reflect.DeepEqual(*rec.Parameters.Form, fields) {
		t.Fatalf("record parameters = %+v, want %+v", rec.Parameters, fields)
	}
	if rec.ImageData != "aW1hZ2UtYnl0ZXM=" {
		t.Fatalf("record image_data = %q", rec.ImageData)
	}
}

func TestGenerateImageFreeTextParameters(t *testing.T) {
	prompts := &stubPromptService{
		enhanceFn: func(ctx context.Context, seed string) (string, error) {
			return "enhanced", nil
		},
	}
	images := &stubImageService{
		fn: func(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
			return &domain.GeneratedImage{Data: "eA==", MIME: "image/png"}, nil
		},
	}
	store := &stubStore{}
	bench := newTestBench(t, prompts, images, store)

	if err := bench.EnhanceSeed(context.Background(), "coffee cup"); err != nil {
		t.Fatalf("EnhanceSeed returned error: %v", err)
	}
	if err := bench.GenerateImage(context.Background()); err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}

	gallery := bench.Gallery()
	if len(gallery.History) != 1 {
		t.Fatalf("history len = %d, want 1", len(gallery.History))
	}
	rec := gallery.History[0]
	if rec.PromptType != domain.ModeFreeText {
		t.Fatalf("prompt_type = %q, want freetext", rec.PromptType)
	}
	if rec.Parameters.Seed != "coffee cup" || rec.Parameters.Form != nil {
		t.Fatalf("parameters = %+v, want seed only", rec.Parameters)
	}
}

func TestGenerateImageFailureReturnsToPromptReady(t *testing.T) {
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "the prompt", nil
		},
	}
	images := &stubImageService{
		fn: func(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
			return nil, errors.New("render failed")
		},
	}
	store := &stubStore{}
	bench := newTestBench(t, prompts, images, store)

	if err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: "mug"}); err != nil {
		t.Fatalf("SubmitForm returned error: %v", err)
	}
	err := bench.GenerateImage(context.Background())
	var rErr *domain.RemoteCallError
	if !errors.As(err, &rErr) {
		t.Fatalf("err = %v, want RemoteCallError", err)
	}
	snap := bench.Snapshot()
	if snap.Prompt != "the prompt" {
		t.Fatalf("prompt = %q, want preserved", snap.Prompt)
	}
	if snap.Image != nil {
		t.Fatal("image must stay absent after a failed image call")
	}
	if snap.ImagePending {
		t.Fatal("image pending flag not cleared after failure")
	}
	if store.saves != 0 {
		t.Fatalf("saves = %d, want 0", store.saves)
	}
}

func TestGenerateImagePartialSuccessKeepsImage(t *testing.T) {
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "the prompt", nil
		},
	}
	images := &stubImageService{
		fn: func(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
			return &domain.GeneratedImage{Data: "eA==", MIME: "image/png"}, nil
		},
	}
	store := &stubStore{saveErr: errors.New("db down")}
	bench := newTestBench(t, prompts, images, store)

	if err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: "mug"}); err != nil {
		t.Fatalf("SubmitForm returned error: %v", err)
	}
	listCallsBefore := store.listCalls
	err := bench.GenerateImage(context.Background())

	var partial *domain.PartialSaveError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want PartialSaveError", err)
	}
	snap := bench.Snapshot()
	if snap.Image == nil {
		t.Fatal("image must be kept when only persistence fails")
	}
	if snap.ImagePending {
		t.Fatal("image pending flag not cleared")
	}
	if store.listCalls != listCallsBefore {
		t.Fatalf("gallery was refreshed after failed save: listCalls %d -> %d", listCallsBefore, store.listCalls)
	}
	if len(bench.Gallery().History) != 0 {
		t.Fatal("history must not grow on failed save")
	}
}

func TestGenerateImageRefreshFailureIsNonFatal(t *testing.T) {
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "the prompt", nil
		},
	}
	images := &stubImageService{
		fn: func(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
			return &domain.GeneratedImage{Data: "eA==", MIME: "image/png"}, nil
		},
	}
	store := &stubStore{}
	bench := newTestBench(t, prompts, images, store)

	if err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: "mug"}); err != nil {
		t.Fatalf("SubmitForm returned error: %v", err)
	}
	store.mu.Lock()
	store.listErr = errors.New("list down")
	store.mu.Unlock()

	if err := bench.GenerateImage(context.Background()); err != nil {
		t.Fatalf("GenerateImage returned error: %v, refresh failure must be non-fatal", err)
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d, want 1", store.saves)
	}
	if len(bench.Gallery().History) != 0 {
		t.Fatal("previous (empty) lists must remain when refresh fails")
	}
}

func TestSecondPromptSubmissionWhilePendingIsRejected(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			close(started)
			<-block
			return "winner", nil
		},
	}
	bench := newTestBench(t, prompts, &stubImageService{}, &stubStore{})

	errCh := make(chan error, 1)
	go func() {
		errCh <- bench.SubmitForm(context.Background(), domain.FormFields{Subject: "first"})
	}()
	<-started

	// The second submission resolves before the first: it must be a no-op
	// rejection, not a race for the prompt slot.
	err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: "second"})
	if !errors.Is(err, domain.ErrPromptInFlight) {
		t.Fatalf("err = %v, want ErrPromptInFlight", err)
	}

	close(block)
	if err := <-errCh; err != nil {
		t.Fatalf("first submission returned error: %v", err)
	}

	if prompts.calls() != 1 {
		t.Fatalf("prompt service calls = %d, want 1", prompts.calls())
	}
	snap := bench.Snapshot()
	if snap.Prompt != "winner" {
		t.Fatalf("prompt = %q, want the first submission's result", snap.Prompt)
	}
	if snap.Form.Subject != "first" {
		t.Fatalf("form subject = %q, want %q", snap.Form.Subject, "first")
	}
}

func TestSecondImageSubmissionWhilePendingIsRejected(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "prompt", nil
		},
	}
	images := &stubImageService{
		fn: func(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
			close(started)
			<-block
			return &domain.GeneratedImage{Data: "eA==", MIME: "image/png"}, nil
		},
	}
	store := &stubStore{}
	bench := newTestBench(t, prompts, images, store)
	if err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: "mug"}); err != nil {
		t.Fatalf("SubmitForm returned error: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bench.GenerateImage(context.Background())
	}()
	<-started

	if err := bench.GenerateImage(context.Background()); !errors.Is(err, domain.ErrImageInFlight) {
		t.Fatalf("err = %v, want ErrImageInFlight", err)
	}

	close(block)
	if err := <-errCh; err != nil {
		t.Fatalf("first generation returned error: %v", err)
	}
	if images.calls != 1 {
		t.Fatalf("image service calls = %d, want 1", images.calls)
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d, want exactly one record", store.saves)
	}
}

func TestModeSwitchRetainsBothInputs(t *testing.T) {
	bench := newTestBench(t, &stubPromptService{}, &stubImageService{}, &stubStore{})
	fields := domain.FormFields{Subject: "mug", Mood: "calm"}
	bench.UpdateForm(fields)
	bench.UpdateSeed("a mug at dawn")

	bench.SelectMode(domain.ModeFreeText)
	snap := bench.Snapshot()
	if snap.Mode != domain.ModeFreeText {
		t.Fatalf("mode = %q, want freetext", snap.Mode)
	}
	if !reflect.DeepEqual(snap.Form, fields) || snap.Seed != "a mug at dawn" {
		t.Fatalf("inputs lost on mode switch: %+v", snap)
	}

	bench.SelectMode(domain.ModeForm)
	snap = bench.Snapshot()
	if !reflect.DeepEqual(snap.Form, fields) || snap.Seed != "a mug at dawn" {
		t.Fatalf("inputs lost on switching back: %+v", snap)
	}
}

func TestToggleFavoriteRefetchesAndStaysSubset(t *testing.T) {
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "p-" + fields.Subject, nil
		},
	}
	images := &stubImageService{
		fn: func(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
			return &domain.GeneratedImage{Data: "eA==", MIME: "image/png"}, nil
		},
	}
	store := &stubStore{}
	bench := newTestBench(t, prompts, images, store)

	for _, subject := range []string{"mug", "vase", "lamp"} {
		if err := bench.SubmitForm(context.Background(), domain.FormFields{Subject: subject}); err != nil {
			t.Fatalf("SubmitForm(%s) returned error: %v", subject, err)
		}
		if err := bench.GenerateImage(context.Background()); err != nil {
			t.Fatalf("GenerateImage(%s) returned error: %v", subject, err)
		}
	}

	gallery := bench.Gallery()
	if len(gallery.History) != 3 || len(gallery.Favorites) != 0 {
		t.Fatalf("history/favorites = %d/%d, want 3/0", len(gallery.History), len(gallery.Favorites))
	}
	id := gallery.History[1].ID

	fav, err := bench.ToggleFavorite(context.Background(), id)
	if err != nil {
		t.Fatalf("ToggleFavorite returned error: %v", err)
	}
	if !fav {
		t.Fatal("first toggle must set the flag")
	}
	assertFavoritesSubset(t, bench.Gallery())
	if got := len(bench.Gallery().Favorites); got != 1 {
		t.Fatalf("favorites len = %d, want 1", got)
	}

	fav, err = bench.ToggleFavorite(context.Background(), id)
	if err != nil {
		t.Fatalf("second ToggleFavorite returned error: %v", err)
	}
	if fav {
		t.Fatal("second toggle must restore the original value")
	}
	assertFavoritesSubset(t, bench.Gallery())
	if got := len(bench.Gallery().Favorites); got != 0 {
		t.Fatalf("favorites len = %d, want 0", got)
	}
}

func TestToggleFavoriteUnknownIDLeavesListsUnchanged(t *testing.T) {
	store := &stubStore{}
	bench := newTestBench(t, &stubPromptService{}, &stubImageService{}, store)
	listCallsBefore := store.listCalls
	_, err := bench.ToggleFavorite(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if store.listCalls != listCallsBefore {
		t.Fatal("lists must not be refetched after a failed toggle")
	}
}

func TestLoadRecordReplacesTransientStateCompletely(t *testing.T) {
	prompts := &stubPromptService{
		formFn: func(ctx context.Context, fields domain.FormFields) (string, error) {
			return "p-" + fields.Subject, nil
		},
		enhanceFn: func(ctx context.Context, seed string) (string, error) {
			return "e-" + seed, nil
		},
	}
	images := &stubImageService{
		fn: func(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
			return &domain.GeneratedImage{Data: "aW1n", MIME: "image/png"}, nil
		},
	}
	store := &stubStore{}
	bench := newTestBench(t, prompts, images, store)

	formFields := domain.FormFields{Subject: "wallet", Lighting: "studio", Mood: "sleek"}
	if err := bench.SubmitForm(context.Background(), formFields); err != nil {
		t.Fatalf("SubmitForm returned error: %v", err)
	}
	if err := bench.GenerateImage(context.Background()); err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if err := bench.EnhanceSeed(context.Background(), "neon diner"); err != nil {
		t.Fatalf("EnhanceSeed returned error: %v", err)
	}
	if err := bench.GenerateImage(context.Background()); err != nil {
		t.Fatalf("second GenerateImage returned error: %v", err)
	}

	gallery := bench.Gallery()
	if len(gallery.History) != 2 {
		t.Fatalf("history len = %d, want 2", len(gallery.History))
	}

	// Newest first, so [1] is the form record.
	var formRec, seedRec domain.HistoryRecord
	for _, rec := range gallery.History {
		if rec.PromptType == domain.ModeForm {
			formRec = rec
		} else {
			seedRec = rec
		}
	}

	// Scribble over the workbench, then restore the form record.
	bench.UpdateForm(domain.FormFields{Subject: "something else"})
	bench.UpdateSeed("other seed")
	if err := bench.LoadRecord(formRec.ID); err != nil {
		t.Fatalf("LoadRecord returned error: %v", err)
	}
	snap := bench.Snapshot()
	if snap.Mode != domain.ModeForm {
		t.Fatalf("mode = %q, want form", snap.Mode)
	}
	if !reflect.DeepEqual(snap.Form, formFields) {
		t.Fatalf("form = %+v, want %+v", snap.Form, formFields)
	}
	if snap.Prompt != formRec.PromptText {
		t.Fatalf("prompt = %q, want %q", snap.Prompt, formRec.PromptText)
	}
	if snap.Image == nil || snap.Image.Data != formRec.ImageData || snap.Image.MIME != domain.DefaultImageMIME {
		t.Fatalf("image = %+v, want restored with default mime", snap.Image)
	}

	if err := bench.LoadRecord(seedRec.ID); err != nil {
		t.Fatalf("LoadRecord(seed) returned error: %v", err)
	}
	snap = bench.Snapshot()
	if snap.Mode != domain.ModeFreeText {
		t.Fatalf("mode = %q, want freetext", snap.Mode)
	}
	if snap.Seed != "neon diner" {
		t.Fatalf("seed = %q, want %q", snap.Seed, "neon diner")
	}
}

func TestLoadRecordUnknownID(t *testing.T) {
	bench := newTestBench(t, &stubPromptService{}, &stubImageService{}, &stubStore{})
	if err := bench.LoadRecord("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSwitchGalleryIsDisplayOnly(t *testing.T) {
	store := &stubStore{}
	bench := newTestBench(t, &stubPromptService{}, &stubImageService{}, store)
	bench.Bootstrap(context.Background())
	listCallsBefore := store.listCalls

	bench.SwitchGallery(GalleryFavorites)
	if got := bench.Gallery().View; got != GalleryFavorites {
		t.Fatalf("view = %q, want favorites", got)
	}
	bench.SwitchGallery(GalleryHistory)
	if got := bench.Gallery().View; got != GalleryHistory {
		t.Fatalf("view = %q, want history", got)
	}
	if store.listCalls != listCallsBefore {
		t.Fatal("gallery switch must not refetch")
	}
}

func TestBootstrapFailureLeavesEmptyLists(t *testing.T) {
	store := &stubStore{listErr: errors.New("down")}
	bench := newTestBench(t, &stubPromptService{}, &stubImageService{}, store)
	bench.Bootstrap(context.Background())
	gallery := bench.Gallery()
	if len(gallery.History) != 0 || len(gallery.Favorites) != 0 {
		t.Fatalf("lists = %d/%d, want empty", len(gallery.History), len(gallery.Favorites))
	}
}

func assertFavoritesSubset(t *testing.T, g GallerySnapshot) {
	t.Helper()
	ids := make(map[string]struct{}, len(g.History))
	for _, rec := range g.History {
		ids[rec.ID] = struct{}{}
	}
	for _, rec := range g.Favorites {
		if _, ok := ids[rec.ID]; !ok {
			t.Fatalf("favorite %s not present in history", rec.ID)
		}
		if !rec.IsFavorite {
			t.Fatalf("favorites list contains non-favorite %s", rec.ID)
		}
	}
}
