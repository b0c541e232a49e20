package phoneauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RunOnce(t *testing.T) {
	codes := &mockCodeStore{}
	codes.On("DeleteExpiredOrUsed", mock.Anything, "", fixedNow).Return(int64(3), nil)
	s := NewSweeper(codes)
	s.now = func() time.Time { return fixedNow }

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSweeper_RunOnceError(t *testing.T) {
	codes := &mockCodeStore{}
	codes.On("DeleteExpiredOrUsed", mock.Anything, "", mock.Anything).Return(int64(0), errors.New("locked"))

	_, err := NewSweeper(codes).RunOnce(context.Background())
	assert.Error(t, err)
}

func TestSweeper_StartRejectsBadSchedule(t *testing.T) {
	err := NewSweeper(&mockCodeStore{}).Start("every day")
	assert.Error(t, err)
}

func TestSweeper_StartStop(t *testing.T) {
	s := NewSweeper(&mockCodeStore{})
	require.NoError(t, s.Start(""))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	NewSweeper(&mockCodeStore{}).Stop(context.Background())
}

var _ CodeStore = (*mockCodeStore)(nil)
