package cvforge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alnah/go-cvforge/internal/avatar"
)

// CropState is the phase of a CropSession.
type CropState int

const (
	StateIdle CropState = iota
	StateAwaitingImage
	StateCropping
	StateCommitting
	StateCancelled
)

// String returns the state name.
func (s CropState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingImage:
		return "awaiting-image"
	case StateCropping:
		return "cropping"
	case StateCommitting:
		return "committing"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DefaultViewport is the area the image is fitted into for cropping.
var DefaultViewport = avatar.Size{Width: 400, Height: 400}

// CropOption configures a CropSession.
type CropOption func(*CropSession)

// WithViewport sets the display area the image is fitted into. Crop regions
// are expressed in that displayed space.
func WithViewport(width, height float64) CropOption {
	return func(s *CropSession) {
		if width > 0 && height > 0 {
			s.viewport = avatar.Size{Width: width, Height: height}
		}
	}
}

// WithAvatarOutput sets the encoded avatar's maximum edge and JPEG quality.
func WithAvatarOutput(maxEdge, quality int) CropOption {
	return func(s *CropSession) {
		s.output = avatar.Options{MaxEdge: maxEdge, Quality: quality}
	}
}

// CropSession walks one photo from upload to committed avatar:
//
//	Idle -> AwaitingImage -> Cropping -> Committing -> Idle
//	                 \            \
//	                  -> Cancelled -> Idle
//
// Every transition happens under the session lock, and the editor's
// document changes only on a successful Commit.
type CropSession struct {
	editor   *Editor
	notifier Notifier
	viewport avatar.Size
	output   avatar.Options

	mu        sync.Mutex
	state     CropState
	gen       uint64 // bumped by Open and Cancel; stale decodes compare it
	source    *avatar.Source
	displayed avatar.Size
	region    avatar.CropRegion
}

// NewCropSession returns an idle session that commits into editor.
// A nil notifier discards notices.
func NewCropSession(editor *Editor, notifier Notifier, opts ...CropOption) *CropSession {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	s := &CropSession{
		editor:   editor,
		notifier: notifier,
		viewport: DefaultViewport,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a crop for u. Validation runs before Open returns: a rejected
// upload is notified, leaves the session Idle and is returned as the error.
// Otherwise the session moves to AwaitingImage and the image is decoded in
// the background. The returned channel yields exactly one value: nil once
// the session is Cropping with the default region, the decode error (the
// session is back to Idle), or ErrCropCancelled if Cancel ran first.
func (s *CropSession) Open(ctx context.Context, u avatar.Upload) (<-chan error, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionBusy, state)
	}
	if err := avatar.ValidateUpload(u); err != nil {
		s.mu.Unlock()
		s.notifyFailure(err)
		return nil, err
	}
	s.state = StateAwaitingImage
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		src, err := avatar.Load(ctx, u)
		done <- s.loaded(gen, src, err)
	}()
	return done, nil
}

// loaded installs a decode result unless the session moved on.
func (s *CropSession) loaded(gen uint64, src *avatar.Source, err error) error {
	s.mu.Lock()
	if s.gen != gen || s.state != StateAwaitingImage {
		s.mu.Unlock()
		return ErrCropCancelled
	}
	if err != nil {
		s.reset()
		s.mu.Unlock()
		s.notifyFailure(err)
		return err
	}

	s.source = src
	s.displayed = avatar.FitDisplay(src.Natural, s.viewport)
	s.region = avatar.DefaultCropRegion(s.displayed)
	s.state = StateCropping
	s.mu.Unlock()
	return nil
}

// SetRegion replaces the crop region. The region is locked to a square
// inside the displayed image before it is stored; the stored value is
// returned.
func (s *CropSession) SetRegion(r avatar.CropRegion) (avatar.CropRegion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCropping {
		return avatar.CropRegion{}, fmt.Errorf("%w: session is %s", ErrNotCropping, s.state)
	}
	s.region = avatar.LockSquare(r, s.displayed)
	return s.region, nil
}

// Region returns the current crop region in displayed pixels.
func (s *CropSession) Region() avatar.CropRegion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.region
}

// Displayed returns the size the image is shown at.
func (s *CropSession) Displayed() avatar.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed
}

// Preview returns the uploaded image as a data URI, or "" when no image is
// loaded.
func (s *CropSession) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return ""
	}
	return s.source.URI()
}

// State returns the current state.
func (s *CropSession) State() CropState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CanCommit reports whether Commit would start: an image is loaded and the
// region has an area.
func (s *CropSession) CanCommit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateCropping && !s.region.Empty()
}

// Commit crops, encodes and stores the avatar through the editor.
//
// An empty region returns ErrInvalidCropRegion and keeps the session in
// Cropping so the user can fix it. Any other failure is notified, keeps the
// previous avatar and returns the session to Idle.
func (s *CropSession) Commit(ctx context.Context) (*avatar.Encoded, error) {
	s.mu.Lock()
	if s.state != StateCropping {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session is %s", ErrNotCropping, state)
	}
	if s.region.Empty() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: region has no area", ErrInvalidCropRegion)
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = StateCommitting
	src, displayed, region := s.source, s.displayed, s.region
	s.mu.Unlock()

	enc, err := avatar.Crop(src, displayed, region, s.output)
	if errors.Is(err, ErrInvalidCropRegion) {
		s.mu.Lock()
		s.state = StateCropping
		s.mu.Unlock()
		return nil, err
	}
	if err == nil {
		_, err = s.editor.SetAvatar(enc.URI)
	}

	s.mu.Lock()
	s.reset()
	s.mu.Unlock()

	if err != nil {
		s.notifyFailure(err)
		return nil, err
	}
	notify(s.notifier, "Profile photo updated", "Your new photo has been added to the CV.", SeveritySuccess)
	return enc, nil
}

// Cancel abandons the current crop. It has an effect only while awaiting
// an image or cropping; a decode still in flight is discarded when it
// finishes. Reports whether anything was cancelled.
func (s *CropSession) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateAwaitingImage, StateCropping:
		s.state = StateCancelled
		s.gen++
		s.reset()
		return true
	}
	return false
}

// reset clears the working data and returns to Idle. Callers hold s.mu.
func (s *CropSession) reset() {
	s.state = StateIdle
	s.source = nil
	s.displayed = avatar.Size{}
	s.region = avatar.CropRegion{}
}

// notifyFailure maps an error to the notice the user sees.
func (s *CropSession) notifyFailure(err error) {
	title, desc := "Image processing failed", "The photo could not be processed. Please try another image."
	switch {
	case errors.Is(err, ErrNotAnImage):
		title, desc = "Invalid file type", "Please upload an image file."
	case errors.Is(err, ErrFileTooLarge):
		title, desc = "File too large", "Please upload an image smaller than 5MB."
	case errors.Is(err, ErrUnsupportedFormat):
		title, desc = "Unsupported format", "Please upload a JPEG, PNG, WebP or HEIC image."
	case errors.Is(err, ErrNoDecoder):
		title, desc = "Unsupported format", "This image format cannot be decoded here. Please convert it to JPEG or PNG."
	}
	notify(s.notifier, title, desc, SeverityError)
}
