package preference

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kindra-app/kindra-backend/internal/domain"
)

var _ prefsRepo = &prefsRepoMock{}

type prefsRepoMock struct {
	GetFunc  func(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error)
	SaveFunc func(ctx context.Context, userID uuid.UUID, doc *domain.UserPreferences) error

	calls struct {
		Get []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		Save []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Doc    *domain.UserPreferences
		}
	}
	lockGet  sync.RWMutex
	lockSave sync.RWMutex
}

func (mock *prefsRepoMock) Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	if mock.GetFunc == nil {
		panic("prefsRepoMock.GetFunc: method is nil but prefsRepo.Get was just called")
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

func (mock *prefsRepoMock) GetCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *prefsRepoMock) Save(ctx context.Context, userID uuid.UUID, doc *domain.UserPreferences) error {
	if mock.SaveFunc == nil {
		panic("prefsRepoMock.SaveFunc: method is nil but prefsRepo.Save was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Doc    *domain.UserPreferences
	}{Ctx: ctx, UserID: userID, Doc: doc}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, userID, doc)
}

func (mock *prefsRepoMock) SaveCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Doc    *domain.UserPreferences
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}
