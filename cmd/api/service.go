package main

import (
	"context"
	"io"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
)

type RestorationAPIService interface {
	CreateSession(ctx context.Context, upload *model.UploadData, cfg *model.RestorationConfig) (*model.SessionView, error)
	GetSession(ctx context.Context, id string) (*model.SessionView, error)
	UploadSource(ctx context.Context, id string, upload *model.UploadData) (*model.SessionView, error)
	Configure(ctx context.Context, id string, cfg model.RestorationConfig) (*model.SessionView, error)
	Restore(ctx context.Context, id string) (*model.SessionView, error)
	ClearResult(ctx context.Context, id string) (*model.SessionView, error)
	Reset(ctx context.Context, id string) (*model.SessionView, error)
	DeleteSession(ctx context.Context, id string) error
	LoadImage(ctx context.Context, id string, kind model.ImageKind) (io.Reader, string, error)
	Preview(ctx context.Context, id string, kind model.ImageKind) (io.Reader, int64, error)
	Download(ctx context.Context, id string) (io.Reader, int64, string, error)
	SweepExpired(ctx context.Context) int
}
