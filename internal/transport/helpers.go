package transport

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500):
		return 500
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrResultNotReady):
		return 404
	case errors.Is(err, model.ErrFileTooLarge):
		return 413
	case errors.Is(err, model.ErrNoSource),
		errors.Is(err, model.ErrRequestInFlight),
		errors.Is(err, model.ErrResultPending),
		errors.Is(err, model.ErrStaleRequest):
		return 409
	case errors.Is(err, model.ErrRestoreFailed),
		errors.Is(err, model.ErrNoResult):
		return 502
	case errors.Is(err, model.ErrIncorrectID),
		errors.Is(err, model.ErrUnsupportedType),
		errors.Is(err, model.ErrEmptyFile),
		errors.Is(err, model.ErrInvalidImage),
		errors.Is(err, model.ErrUnsupportedAspectRatio),
		errors.Is(err, model.ErrNoteTooLong),
		errors.Is(err, model.ErrUnknownImageKind),
		errors.Is(err, model.ErrMalformedConfig):
		return 400
	default:
		return 500
	}
}

func limitBody(ctx *ginext.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, model.MaxUploadSize+multipartOverhead)
}

func formUpload(ctx *ginext.Context, field string) (*model.UploadData, multipart.File, error) {
	file, header, err := ctx.Request.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	return &model.UploadData{
		File:        file,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Filename:    header.Filename,
	}, file, nil
}

// formConfig returns nil when the form carries no config fields at all
func formConfig(ctx *ginext.Context) *model.RestorationConfig {
	ratio, hasRatio := ctx.GetPostForm("aspect_ratio")
	note, hasNote := ctx.GetPostForm("prompt_enhancement")
	if !hasRatio && !hasNote {
		return nil
	}
	return &model.RestorationConfig{
		AspectRatio:       model.AspectRatio(ratio),
		PromptEnhancement: note,
	}
}

func uploadErrorCode(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return 413
	}
	return 400
}

func uploadErrorMessage(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return model.ErrFileTooLarge.Error()
	case errors.Is(err, http.ErrMissingFile):
		return "image is required"
	default:
		return "failed to parse multipart form"
	}
}

func closeFileFlow(res io.Closer) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Handler failed to close fileflow")
	}
}
