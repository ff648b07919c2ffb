package review

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kindra-app/kindra-backend/internal/domain"
)

var _ metadataRepo = &metadataRepoMock{}

type metadataRepoMock struct {
	GetFunc  func(ctx context.Context, userID uuid.UUID) (*domain.ConversationMetadata, error)
	SaveFunc func(ctx context.Context, userID uuid.UUID, meta *domain.ConversationMetadata) error

	calls struct {
		Get []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		Save []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Meta   *domain.ConversationMetadata
		}
	}
	lockGet  sync.RWMutex
	lockSave sync.RWMutex
}

func (mock *metadataRepoMock) Get(ctx context.Context, userID uuid.UUID) (*domain.ConversationMetadata, error) {
	if mock.GetFunc == nil {
		panic("metadataRepoMock.GetFunc: method is nil but metadataRepo.Get was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{Ctx: ctx, UserID: userID}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, userID)
}

func (mock *metadataRepoMock) GetCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *metadataRepoMock) Save(ctx context.Context, userID uuid.UUID, meta *domain.ConversationMetadata) error {
	if mock.SaveFunc == nil {
		panic("metadataRepoMock.SaveFunc: method is nil but metadataRepo.Save was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Meta   *domain.ConversationMetadata
	}{Ctx: ctx, UserID: userID, Meta: meta}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, userID, meta)
}

func (mock *metadataRepoMock) SaveCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Meta   *domain.ConversationMetadata
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}

