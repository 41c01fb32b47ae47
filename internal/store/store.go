// Package store holds the session's frame and photo assets. Configs are
// plain values owned by their photo; every accessor hands out copies so the
// interactive loop, the preview and an in-flight export can never alias the
// same config.
package store

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/example/framekit/internal/placement"
)

var (
	ErrNoSuchPhoto = errors.New("no such photo")
	ErrNoActive    = errors.New("no active photo")
)

// Frame is the session's transparency overlay. One frame at a time; setting
// a new one releases the previous source.
type Frame struct {
	Source  string
	Width   int
	Height  int
	release func()
}

// NewFrame wraps an overlay source. release may be nil; when present it is
// invoked once the frame is replaced or cleared (blob handles, temp files).
func NewFrame(source string, release func()) *Frame {
	return &Frame{Source: source, release: release}
}

// SetBounds records the frame's pixel dimensions once they are known. The
// dimensions load lazily because decoding happens on first draw.
func (f *Frame) SetBounds(b image.Rectangle) {
	f.Width = b.Dx()
	f.Height = b.Dy()
}

// Photo is one uploaded photograph with its owned placement config.
type Photo struct {
	ID     string
	Source string
	Name   string
	Width  int
	Height int
	Config placement.Config
}

// SetBounds records the photo's pixel dimensions once decoded.
func (p *Photo) SetBounds(b image.Rectangle) {
	p.Width = b.Dx()
	p.Height = b.Dy()
}

// Store is the in-memory asset list for one editing session. It is not safe
// for concurrent mutation; the single active-photo invariant is enforced by
// the event loop, not by a lock.
type Store struct {
	frame  *Frame
	photos []Photo
	active int
}

// New creates an empty store.
func New() *Store {
	return &Store{active: -1}
}

// SetFrame replaces the session frame, releasing the previous one.
func (s *Store) SetFrame(f *Frame) {
	if s.frame != nil && s.frame.release != nil {
		s.frame.release()
	}
	s.frame = f
}

// Frame returns the current frame, or nil when none is set.
func (s *Store) Frame() *Frame {
	return s.frame
}

// AddPhoto appends a photo with a default config and returns its ID. The
// first photo added becomes the active one.
func (s *Store) AddPhoto(source, name string) string {
	p := Photo{
		ID:     uuid.NewString(),
		Source: source,
		Name:   displayName(name),
		Config: placement.Default(),
	}
	s.photos = append(s.photos, p)
	if s.active < 0 {
		s.active = 0
	}
	return p.ID
}

// RemovePhoto deletes a photo. The active selection is clamped to remain
// valid; removing the last photo leaves the store with no active photo.
func (s *Store) RemovePhoto(id string) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchPhoto, id)
	}
	s.photos = append(s.photos[:idx], s.photos[idx+1:]...)
	switch {
	case len(s.photos) == 0:
		s.active = -1
	case s.active > idx:
		s.active--
	case s.active >= len(s.photos):
		s.active = len(s.photos) - 1
	}
	return nil
}

// Len reports the number of photos in the session.
func (s *Store) Len() int { return len(s.photos) }

// Photos returns a snapshot copy of all photos in upload order.
func (s *Store) Photos() []Photo {
	out := make([]Photo, len(s.photos))
	copy(out, s.photos)
	return out
}

// Photo returns a copy of the photo with the given ID.
func (s *Store) Photo(id string) (Photo, error) {
	idx := s.index(id)
	if idx < 0 {
		return Photo{}, fmt.Errorf("%w: %s", ErrNoSuchPhoto, id)
	}
	return s.photos[idx], nil
}

// Active returns a copy of the currently selected photo.
func (s *Store) Active() (Photo, error) {
	if s.active < 0 || s.active >= len(s.photos) {
		return Photo{}, ErrNoActive
	}
	return s.photos[s.active], nil
}

// ActiveIndex reports the selected position, or -1 with an empty store.
func (s *Store) ActiveIndex() int { return s.active }

// SetActive selects the photo at idx for interactive editing.
func (s *Store) SetActive(idx int) error {
	if idx < 0 || idx >= len(s.photos) {
		return fmt.Errorf("photo index %d out of range", idx)
	}
	s.active = idx
	return nil
}

// UpdateConfig applies fn to a copy of the photo's config, clamps the
// result and stores it back. Copy-on-write: fn never sees live state.
func (s *Store) UpdateConfig(id string, fn func(*placement.Config)) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchPhoto, id)
	}
	cfg := s.photos[idx].Config
	fn(&cfg)
	s.photos[idx].Config = cfg.Clamp()
	return nil
}

// UpdateActive applies fn to the active photo's config. A no-op when the
// store is empty so interaction handlers can call it unconditionally.
func (s *Store) UpdateActive(fn func(*placement.Config)) {
	if s.active < 0 || s.active >= len(s.photos) {
		return
	}
	cfg := s.photos[s.active].Config
	fn(&cfg)
	s.photos[s.active].Config = cfg.Clamp()
}

// ApplyToAll copies the named photo's config, by value, onto every other
// photo. Bounds stay per-photo; only the placement parameters travel.
func (s *Store) ApplyToAll(id string) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchPhoto, id)
	}
	cfg := s.photos[idx].Config
	for i := range s.photos {
		if i == idx {
			continue
		}
		s.photos[i].Config = cfg
	}
	return nil
}

// SetBounds records decoded pixel dimensions for a photo.
func (s *Store) SetBounds(id string, b image.Rectangle) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchPhoto, id)
	}
	s.photos[idx].SetBounds(b)
	return nil
}

func (s *Store) index(id string) int {
	for i := range s.photos {
		if s.photos[i].ID == id {
			return i
		}
	}
	return -1
}

func displayName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." {
		return "photo"
	}
	return name
}
