package transport

import (
	"context"
	"io"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/gin-gonic/gin"
)

type mockRestorationService struct {
	createFn      func(ctx context.Context, upload *model.UploadData, cfg *model.RestorationConfig) (*model.SessionView, error)
	getFn         func(ctx context.Context, id string) (*model.SessionView, error)
	uploadFn      func(ctx context.Context, id string, upload *model.UploadData) (*model.SessionView, error)
	configureFn   func(ctx context.Context, id string, cfg model.RestorationConfig) (*model.SessionView, error)
	restoreFn     func(ctx context.Context, id string) (*model.SessionView, error)
	clearResultFn func(ctx context.Context, id string) (*model.SessionView, error)
	resetFn       func(ctx context.Context, id string) (*model.SessionView, error)
	deleteFn      func(ctx context.Context, id string) error
	loadImageFn   func(ctx context.Context, id string, kind model.ImageKind) (io.Reader, string, error)
	previewFn     func(ctx context.Context, id string, kind model.ImageKind) (io.Reader, int64, error)
	downloadFn    func(ctx context.Context, id string) (io.Reader, int64, string, error)
}

func (m *mockRestorationService) CreateSession(ctx context.Context, upload *model.UploadData, cfg *model.RestorationConfig) (*model.SessionView, error) {
	return m.createFn(ctx, upload, cfg)
}

func (m *mockRestorationService) GetSession(ctx context.Context, id string) (*model.SessionView, error) {
	return m.getFn(ctx, id)
}

func (m *mockRestorationService) UploadSource(ctx context.Context, id string, upload *model.UploadData) (*model.SessionView, error) {
	return m.uploadFn(ctx, id, upload)
}

func (m *mockRestorationService) Configure(ctx context.Context, id string, cfg model.RestorationConfig) (*model.SessionView, error) {
	return m.configureFn(ctx, id, cfg)
}

func (m *mockRestorationService) Restore(ctx context.Context, id string) (*model.SessionView, error) {
	return m.restoreFn(ctx, id)
}

func (m *mockRestorationService) ClearResult(ctx context.Context, id string) (*model.SessionView, error) {
	return m.clearResultFn(ctx, id)
}

func (m *mockRestorationService) Reset(ctx context.Context, id string) (*model.SessionView, error) {
	return m.resetFn(ctx, id)
}

func (m *mockRestorationService) DeleteSession(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRestorationService) LoadImage(ctx context.Context, id string, kind model.ImageKind) (io.Reader, string, error) {
	return m.loadImageFn(ctx, id, kind)
}

func (m *mockRestorationService) Preview(ctx context.Context, id string, kind model.ImageKind) (io.Reader, int64, error) {
	return m.previewFn(ctx, id, kind)
}

func (m *mockRestorationService) Download(ctx context.Context, id string) (io.Reader, int64, string, error) {
	return m.downloadFn(ctx, id)
}

func init() {
	gin.SetMode(gin.TestMode)
}
