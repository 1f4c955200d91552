// Package service provides business-logic for the app
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/UnendingLoop/PhotoRestorer/internal/imageproc"
	"github.com/UnendingLoop/PhotoRestorer/internal/intake"
	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/UnendingLoop/PhotoRestorer/internal/mwlogger"
	"github.com/UnendingLoop/PhotoRestorer/internal/restorer"
	"github.com/UnendingLoop/PhotoRestorer/internal/session"
)

type RestorationService struct {
	store       SessionStore
	restorer    Orchestrator
	previewSize int
	now         func() time.Time
}

func NewRestorationService(store SessionStore, orch Orchestrator, previewSize int) *RestorationService {
	return &RestorationService{
		store:       store,
		restorer:    orch,
		previewSize: previewSize,
		now:         time.Now,
	}
}

// Orchestrator - контракт для внешнего вызова модели
type Orchestrator interface {
	Restore(ctx context.Context, encoded string, cfg model.RestorationConfig) (string, error)
}

// SessionStore - контракт для хранилища сессий
type SessionStore interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
	Delete(id string) error
	Sweep(now time.Time) int
	Len() int
}

// CreateSession starts a new session, optionally with a source image and config.
// Nothing is stored if any part of the input is rejected.
func (s RestorationService) CreateSession(ctx context.Context, upload *model.UploadData, cfg *model.RestorationConfig) (*model.SessionView, error) {
	var encoded string
	if upload != nil {
		var err error
		if encoded, err = s.accept(ctx, upload); err != nil {
			return nil, err
		}
	}

	var normalized model.RestorationConfig
	if cfg != nil {
		var err error
		if normalized, err = session.NormalizeConfig(*cfg); err != nil {
			return nil, err
		}
	}

	sess := s.store.Create()
	if cfg != nil {
		if err := sess.Configure(normalized); err != nil {
			return nil, err
		}
	}
	if encoded != "" {
		if err := sess.SetSource(encoded); err != nil {
			return nil, err
		}
	}

	logger := mwlogger.LoggerFromContext(ctx)
	logger.Info().
		Str("session_id", sess.ID().String()).
		Bool("with_source", encoded != "").
		Msg("session created")

	return sess.Snapshot(), nil
}

func (s RestorationService) GetSession(ctx context.Context, id string) (*model.SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

func (s RestorationService) UploadSource(ctx context.Context, id string, upload *model.UploadData) (*model.SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	encoded, err := s.accept(ctx, upload)
	if err != nil {
		return nil, err
	}

	if err := sess.SetSource(encoded); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

func (s RestorationService) Configure(ctx context.Context, id string, cfg model.RestorationConfig) (*model.SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Configure(cfg); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// Restore runs one restoration synchronously. Provider failures end up as the session's
// error message; the caller also gets ErrRestoreFailed alongside the resulting view.
func (s RestorationService) Restore(ctx context.Context, id string) (*model.SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	logger := mwlogger.LoggerFromContext(ctx).With().Str("session_id", id).Logger()

	ticket, source, cfg, err := sess.Begin()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("aspect_ratio", string(cfg.AspectRatio)).
		Bool("with_note", cfg.PromptEnhancement != "").
		Msg("restoration started")

	// запрос к модели не отменяется вместе с клиентом
	start := s.now()
	result, rErr := s.restorer.Restore(context.WithoutCancel(ctx), source, cfg)
	elapsed := s.now().Sub(start)

	if rErr != nil {
		msg := restorer.UserMessage(rErr)
		logger.Error().Err(rErr).Dur("elapsed", elapsed).Msg("restoration failed")

		if err := sess.Fail(ticket, msg); err != nil {
			logger.Warn().Err(err).Msg("dropping failure of outdated restoration")
			return sess.Snapshot(), err
		}
		return sess.Snapshot(), fmt.Errorf("%w: %s", model.ErrRestoreFailed, msg)
	}

	if err := sess.Succeed(ticket, result); err != nil {
		logger.Warn().Err(err).Msg("dropping result of outdated restoration")
		return sess.Snapshot(), err
	}

	logger.Info().Dur("elapsed", elapsed).Msg("restoration succeeded")
	return sess.Snapshot(), nil
}

// ClearResult drops the result but keeps the source, for another attempt with a different config
func (s RestorationService) ClearResult(ctx context.Context, id string) (*model.SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := sess.ClearResult(); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// Reset discards both images and returns the session to idle
func (s RestorationService) Reset(ctx context.Context, id string) (*model.SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	logger := mwlogger.LoggerFromContext(ctx)
	logger.Info().Str("session_id", id).Msg("session reset")
	return sess.Snapshot(), nil
}

func (s RestorationService) DeleteSession(ctx context.Context, id string) error {
	return s.store.Delete(id)
}

// LoadImage returns the raw bytes of the original or restored image with their media type
func (s RestorationService) LoadImage(ctx context.Context, id string, kind model.ImageKind) (io.Reader, string, error) {
	encoded, err := s.image(id, kind)
	if err != nil {
		return nil, "", err
	}

	r, mediaType, err := intake.Reader(encoded)
	if err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Str("session_id", id).Msg("Failed to decode stored image")
		return nil, "", model.ErrCommon500
	}
	return r, mediaType, nil
}

// Preview returns a bounded JPEG of the original or restored image for the comparison view
func (s RestorationService) Preview(ctx context.Context, id string, kind model.ImageKind) (io.Reader, int64, error) {
	data, err := s.imageBytes(ctx, id, kind)
	if err != nil {
		return nil, 0, err
	}

	r, size, err := imageproc.Preview(data, s.previewSize)
	if err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Str("session_id", id).Msg("Failed to build preview")
		return nil, 0, model.ErrCommon500
	}
	return r, size, nil
}

// Download returns the restored image as PNG with a timestamped file name
func (s RestorationService) Download(ctx context.Context, id string) (io.Reader, int64, string, error) {
	data, err := s.imageBytes(ctx, id, model.KindResult)
	if err != nil {
		return nil, 0, "", err
	}

	r, size, err := imageproc.ToPNG(data)
	if err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Str("session_id", id).Msg("Failed to convert result to PNG")
		return nil, 0, "", model.ErrCommon500
	}
	return r, size, DownloadName(s.now()), nil
}

// SweepExpired drops idle sessions past their TTL
func (s RestorationService) SweepExpired(ctx context.Context) int {
	removed := s.store.Sweep(s.now())
	if removed > 0 {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Info().Int("removed", removed).Int("active", s.store.Len()).Msg("expired sessions swept")
	}
	return removed
}

// DownloadName is restored-<unix millis>.png
func DownloadName(t time.Time) string {
	return fmt.Sprintf("restored-%d.png", t.UnixMilli())
}

func (s RestorationService) accept(ctx context.Context, upload *model.UploadData) (string, error) {
	encoded, err := intake.Accept(upload)
	if err == nil {
		return encoded, nil
	}
	switch {
	case errors.Is(err, model.ErrUnsupportedType),
		errors.Is(err, model.ErrFileTooLarge),
		errors.Is(err, model.ErrEmptyFile):
		return "", err
	default:
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Msg("Failed to read uploaded image")
		return "", model.ErrCommon500
	}
}

func (s RestorationService) image(id string, kind model.ImageKind) (string, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	return sess.Image(kind)
}

func (s RestorationService) imageBytes(ctx context.Context, id string, kind model.ImageKind) ([]byte, error) {
	encoded, err := s.image(id, kind)
	if err != nil {
		return nil, err
	}
	_, data, err := intake.Decode(encoded)
	if err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Str("session_id", id).Msg("Failed to decode stored image")
		return nil, model.ErrCommon500
	}
	return data, nil
}
