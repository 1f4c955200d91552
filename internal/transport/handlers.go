// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/UnendingLoop/PhotoRestorer/internal/mwlogger"
	"github.com/wb-go/wbf/ginext"
)

// запас на multipart-обвязку поверх самого файла
const multipartOverhead = 1 << 20

type RestorationHandler struct {
	service RestorationService
}

type RestorationService interface {
	CreateSession(ctx context.Context, upload *model.UploadData, cfg *model.RestorationConfig) (*model.SessionView, error)
	GetSession(ctx context.Context, id string) (*model.SessionView, error)
	UploadSource(ctx context.Context, id string, upload *model.UploadData) (*model.SessionView, error)
	Configure(ctx context.Context, id string, cfg model.RestorationConfig) (*model.SessionView, error)
	Restore(ctx context.Context, id string) (*model.SessionView, error)     // синхронный вызов модели
	ClearResult(ctx context.Context, id string) (*model.SessionView, error) // сбросить результат, оставить исходник
	Reset(ctx context.Context, id string) (*model.SessionView, error)       // сбросить все
	DeleteSession(ctx context.Context, id string) error
	LoadImage(ctx context.Context, id string, kind model.ImageKind) (io.Reader, string, error)
	Preview(ctx context.Context, id string, kind model.ImageKind) (io.Reader, int64, error)
	Download(ctx context.Context, id string) (io.Reader, int64, string, error)
}

func NewRestorationHandler(svc RestorationService) *RestorationHandler {
	return &RestorationHandler{
		service: svc,
	}
}

func (h RestorationHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h RestorationHandler) AspectRatios(ctx *ginext.Context) {
	ctx.JSON(200, map[string]any{
		"default": model.DefaultAspectRatio,
		"presets": model.AspectRatios,
	})
}

// CreateSession accepts an optional multipart form: image, aspect_ratio, prompt_enhancement
func (h RestorationHandler) CreateSession(ctx *ginext.Context) {
	limitBody(ctx)

	upload, file, err := formUpload(ctx, "image")
	switch {
	case err == nil:
		defer closeFileFlow(file)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// исходник опционален
		upload = nil
	default:
		ctx.JSON(uploadErrorCode(err), map[string]string{"error": uploadErrorMessage(err)})
		return
	}

	res, err := h.service.CreateSession(ctx.Request.Context(), upload, formConfig(ctx))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, res)
}

func (h RestorationHandler) GetSession(ctx *ginext.Context) {
	res, err := h.service.GetSession(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h RestorationHandler) UploadSource(ctx *ginext.Context) {
	limitBody(ctx)

	upload, file, err := formUpload(ctx, "image")
	if err != nil {
		ctx.JSON(uploadErrorCode(err), map[string]string{"error": uploadErrorMessage(err)})
		return
	}
	defer closeFileFlow(file)

	res, err := h.service.UploadSource(ctx.Request.Context(), ctx.Param("id"), upload)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h RestorationHandler) Configure(ctx *ginext.Context) {
	var cfg model.RestorationConfig
	if err := ctx.ShouldBindJSON(&cfg); err != nil {
		ctx.JSON(400, map[string]string{"error": model.ErrMalformedConfig.Error()})
		return
	}

	res, err := h.service.Configure(ctx.Request.Context(), ctx.Param("id"), cfg)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

// Restore blocks until the model answers; a failed restoration still returns the session with its message
func (h RestorationHandler) Restore(ctx *ginext.Context) {
	res, err := h.service.Restore(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrRestoreFailed) && res != nil {
			ctx.JSON(502, res)
			return
		}
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h RestorationHandler) ClearResult(ctx *ginext.Context) {
	res, err := h.service.ClearResult(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h RestorationHandler) Reset(ctx *ginext.Context) {
	res, err := h.service.Reset(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h RestorationHandler) DeleteSession(ctx *ginext.Context) {
	if err := h.service.DeleteSession(ctx.Request.Context(), ctx.Param("id")); err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.Status(204)
}

// LoadImage serves the stored bytes of the given kind as they are
func (h RestorationHandler) LoadImage(kind model.ImageKind) func(*ginext.Context) {
	return func(ctx *ginext.Context) {
		id := ctx.Param("id")

		res, cType, err := h.service.LoadImage(ctx.Request.Context(), id, kind)
		if err != nil {
			ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
			return
		}

		ctx.Writer.Header().Set("Content-Type", cType)
		ctx.Writer.WriteHeader(200)
		if n, err := io.Copy(ctx.Writer, res); err != nil {
			logger := mwlogger.LoggerFromContext(ctx.Request.Context())
			logger.Error().Err(err).
				Int64("written", n).Str("session_id", id).Msg("Failed to write image response")
		}
	}
}

// Preview serves a bounded JPEG for the side-by-side view
func (h RestorationHandler) Preview(kind model.ImageKind) func(*ginext.Context) {
	return func(ctx *ginext.Context) {
		res, size, err := h.service.Preview(ctx.Request.Context(), ctx.Param("id"), kind)
		if err != nil {
			ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
			return
		}

		ctx.DataFromReader(200, size, model.JPEG, res, nil)
	}
}

func (h RestorationHandler) Download(ctx *ginext.Context) {
	res, size, filename, err := h.service.Download(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.DataFromReader(200, size, model.PNG, res, map[string]string{
		"Content-Disposition": `attachment; filename="` + filename + `"`,
	})
}
