package review

import (
	"context"
	"sync"

	"github.com/kindra-app/kindra-backend/internal/domain"
)

var _ preferenceStore = &preferenceStoreMock{}

type preferenceStoreMock struct {
	GetFunc             func(ctx context.Context) (*domain.UserPreferences, error)
	ApplyValueFunc      func(ctx context.Context, key string, v domain.PreferenceValue) error
	ApplyConstraintFunc func(ctx context.Context, c domain.UnifiedConstraint) error

	calls struct {
		Get []struct {
			Ctx context.Context
		}
		ApplyValue []struct {
			Ctx context.Context
			Key string
			V   domain.PreferenceValue
		}
		ApplyConstraint []struct {
			Ctx context.Context
			C   domain.UnifiedConstraint
		}
	}
	lockGet             sync.RWMutex
	lockApplyValue      sync.RWMutex
	lockApplyConstraint sync.RWMutex
}

func (mock *preferenceStoreMock) Get(ctx context.Context) (*domain.UserPreferences, error) {
	if mock.GetFunc == nil {
		panic("preferenceStoreMock.GetFunc: method is nil but preferenceStore.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx)
}

func (mock *preferenceStoreMock) GetCalls() []struct {
	Ctx context.Context
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *preferenceStoreMock) ApplyValue(ctx context.Context, key string, v domain.PreferenceValue) error {
	if mock.ApplyValueFunc == nil {
		panic("preferenceStoreMock.ApplyValueFunc: method is nil but preferenceStore.ApplyValue was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key string
		V   domain.PreferenceValue
	}{Ctx: ctx, Key: key, V: v}
	mock.lockApplyValue.Lock()
	mock.calls.ApplyValue = append(mock.calls.ApplyValue, callInfo)
	mock.lockApplyValue.Unlock()
	return mock.ApplyValueFunc(ctx, key, v)
}

func (mock *preferenceStoreMock) ApplyValueCalls() []struct {
	Ctx context.Context
	Key string
	V   domain.PreferenceValue
} {
	mock.lockApplyValue.RLock()
	calls := mock.calls.ApplyValue
	mock.lockApplyValue.RUnlock()
	return calls
}

func (mock *preferenceStoreMock) ApplyConstraint(ctx context.Context, c domain.UnifiedConstraint) error {
	if mock.ApplyConstraintFunc == nil {
		panic("preferenceStoreMock.ApplyConstraintFunc: method is nil but preferenceStore.ApplyConstraint was just called")
	}
	callInfo := struct {
		Ctx context.Context
		C   domain.UnifiedConstraint
	}{Ctx: ctx, C: c}
	mock.lockApplyConstraint.Lock()
	mock.calls.ApplyConstraint = append(mock.calls.ApplyConstraint, callInfo)
	mock.lockApplyConstraint.Unlock()
	return mock.ApplyConstraintFunc(ctx, c)
}

func (mock *preferenceStoreMock) ApplyConstraintCalls() []struct {
	Ctx context.Context
	C   domain.UnifiedConstraint
} {
	mock.lockApplyConstraint.RLock()
	calls := mock.calls.ApplyConstraint
	mock.lockApplyConstraint.RUnlock()
	return calls
}
