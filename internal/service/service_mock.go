package service

import (
	"bytes"
	"context"
	"time"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/UnendingLoop/PhotoRestorer/internal/session"
)

// MOCK ORCHESTRATOR

type mockRestorer struct {
	calls     int
	restoreFn func(ctx context.Context, encoded string, cfg model.RestorationConfig) (string, error)
}

func (m *mockRestorer) Restore(ctx context.Context, encoded string, cfg model.RestorationConfig) (string, error) {
	m.calls++
	return m.restoreFn(ctx, encoded, cfg)
}

// MOCK STORE

type mockStore struct {
	createFn func() *session.Session
	getFn    func(id string) (*session.Session, error)
	deleteFn func(id string) error
	sweepFn  func(now time.Time) int
	lenFn    func() int
}

func (m *mockStore) Create() *session.Session {
	return m.createFn()
}

func (m *mockStore) Get(id string) (*session.Session, error) {
	return m.getFn(id)
}

func (m *mockStore) Delete(id string) error {
	return m.deleteFn(id)
}

func (m *mockStore) Sweep(now time.Time) int {
	return m.sweepFn(now)
}

func (m *mockStore) Len() int {
	return m.lenFn()
}

// MOCK для загружаемого файла
func newUpload(ct string, data []byte) *model.UploadData {
	return &model.UploadData{
		File:        bytes.NewReader(data),
		ContentType: ct,
		Size:        int64(len(data)),
		Filename:    "photo",
	}
}
