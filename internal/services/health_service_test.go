package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ysianalyzer/internal/shared/testutil"
)

type MockScratchChecker struct {
	mock.Mock
}

func (m *MockScratchChecker) ValidateScratchDirectory(dir string) error {
	args := m.Called(dir)
	return args.Error(0)
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		checkErr   error
		wantStatus string
	}{
		{name: "scratch writable", wantStatus: "ready"},
		{name: "scratch broken", checkErr: errors.New("scratch directory /x is not writable"), wantStatus: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			checker := new(MockScratchChecker)
			checker.On("ValidateScratchDirectory", "/tmp/ysi").Return(tt.checkErr)

			hs := NewHealthService("1.0.0", "/tmp/ysi", checker, logger)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantStatus, status.Services["scratch"].Status)
			checker.AssertExpectations(t)
		})
	}
}

func TestHealthService_NoChecker(t *testing.T) {
	hs := NewHealthService("1.0.0", "", nil, nil)
	assert.Equal(t, "ready", hs.ReadinessCheck(context.Background()).Status)
}

func TestHealthService_HealthAndLiveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", t.TempDir(), nil, logger)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := hs.Version()
	assert.Equal(t, "1.2.3", version["version"])
	assert.Contains(t, version, "git_commit")
}
