// Package session holds per-user restoration state and guards its transitions
package session

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/UnendingLoop/PhotoRestorer/internal/intake"
	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/google/uuid"
)

// Ticket identifies one restore attempt; completions carrying an outdated ticket are dropped
type Ticket uint64

type Session struct {
	mu         sync.Mutex
	id         uuid.UUID
	source     string
	result     string
	config     model.RestorationConfig
	status     model.Status
	errMsg     string
	generation Ticket
	createdAt  time.Time
	updatedAt  time.Time
	now        func() time.Time
}

func newSession(id uuid.UUID, now func() time.Time) *Session {
	t := now().UTC()
	return &Session{
		id:        id,
		config:    model.DefaultConfig(),
		status:    model.StatusIdle,
		createdAt: t,
		updatedAt: t,
		now:       now,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// SetSource replaces the source image and drops any previous result
func (s *Session) SetSource(encoded string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.StatusProcessing {
		return model.ErrRequestInFlight
	}
	s.source = encoded
	s.result = ""
	s.errMsg = ""
	s.status = model.StatusIdle
	s.touch()
	return nil
}

// Configure validates and stores the config; a request already in flight keeps its own snapshot
func (s *Session) Configure(cfg model.RestorationConfig) error {
	normalized, err := NormalizeConfig(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = normalized
	s.touch()
	return nil
}

// Begin moves idle|error to processing and hands out what the orchestrator needs
func (s *Session) Begin() (Ticket, string, model.RestorationConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case model.StatusProcessing:
		return 0, "", model.RestorationConfig{}, model.ErrRequestInFlight
	case model.StatusSuccess:
		return 0, "", model.RestorationConfig{}, model.ErrResultPending
	}
	if s.source == "" {
		return 0, "", model.RestorationConfig{}, model.ErrNoSource
	}

	s.generation++
	s.status = model.StatusProcessing
	s.errMsg = ""
	s.touch()
	return s.generation, s.source, s.config, nil
}

func (s *Session) Succeed(t Ticket, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTicket(t); err != nil {
		return err
	}
	s.result = result
	s.status = model.StatusSuccess
	s.touch()
	return nil
}

func (s *Session) Fail(t Ticket, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTicket(t); err != nil {
		return err
	}
	if message == "" {
		message = model.GenericRestoreMessage
	}
	s.errMsg = message
	s.status = model.StatusError
	s.touch()
	return nil
}

// Reset returns to idle from any state, discarding both images
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.source = ""
	s.result = ""
	s.errMsg = ""
	s.status = model.StatusIdle
	s.touch()
}

// ClearResult returns to idle but keeps the source so the user can restore again
func (s *Session) ClearResult() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.StatusProcessing {
		return model.ErrRequestInFlight
	}
	s.result = ""
	s.errMsg = ""
	s.status = model.StatusIdle
	s.touch()
	return nil
}

// Image returns the encoded image of the requested kind
func (s *Session) Image(kind model.ImageKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var img string
	switch kind {
	case model.KindOriginal:
		img = s.source
	case model.KindResult:
		img = s.result
	default:
		return "", model.ErrUnknownImageKind
	}
	if img == "" {
		return "", model.ErrResultNotReady
	}
	return img, nil
}

func (s *Session) Snapshot() *model.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &model.SessionView{
		ID:           s.id,
		Status:       s.status,
		ErrorMessage: s.errMsg,
		Config:       s.config,
		HasSource:    s.source != "",
		HasResult:    s.result != "",
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
	}
	if view.HasSource {
		view.SourceType = intake.MediaType(s.source)
	}
	if view.HasResult {
		view.ResultType = intake.MediaType(s.result)
	}
	return view
}

// expired reports whether the session sat untouched for longer than ttl; processing never expires
func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status != model.StatusProcessing && now.Sub(s.updatedAt) > ttl
}

func (s *Session) checkTicket(t Ticket) error {
	if s.status != model.StatusProcessing || t != s.generation {
		return model.ErrStaleRequest
	}
	return nil
}

func (s *Session) touch() {
	s.updatedAt = s.now().UTC()
}

// NormalizeConfig fills defaults and rejects unknown ratios and overlong notes
func NormalizeConfig(cfg model.RestorationConfig) (model.RestorationConfig, error) {
	cfg.AspectRatio = model.AspectRatio(strings.TrimSpace(string(cfg.AspectRatio)))
	if cfg.AspectRatio == "" {
		cfg.AspectRatio = model.DefaultAspectRatio
	}
	if !model.AspectRatioMap[cfg.AspectRatio] {
		return model.RestorationConfig{}, model.ErrUnsupportedAspectRatio
	}

	cfg.PromptEnhancement = strings.TrimSpace(cfg.PromptEnhancement)
	if utf8.RuneCountInString(cfg.PromptEnhancement) > model.MaxNoteLength {
		return model.RestorationConfig{}, model.ErrNoteTooLong
	}
	return cfg, nil
}
