package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedUpdater struct {
	mu      sync.Mutex
	batches [][]Update
	offsets []int64
	calls   int
}

func (s *scriptedUpdater) GetUpdates(ctx context.Context, offset int64, _ time.Duration, _ int) ([]Update, error) {
	s.mu.Lock()
	s.offsets = append(s.offsets, offset)
	s.calls++
	call := s.calls
	var batch []Update
	if len(s.batches) > 0 {
		batch, s.batches = s.batches[0], s.batches[1:]
	}
	s.mu.Unlock()

	if call == 2 {
		return nil, errors.New("network hiccup")
	}
	if batch == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return batch, nil
}

func (s *scriptedUpdater) DeleteWebhook(context.Context, bool) error { return nil }

type recordingHandler struct {
	mu  sync.Mutex
	ids []int64
}

func (h *recordingHandler) HandleUpdate(_ context.Context, u Update) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ids = append(h.ids, u.UpdateID)
	return nil
}

func (h *recordingHandler) seen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ids)
}

func TestPollerAdvancesOffset(t *testing.T) {
	updater := &scriptedUpdater{batches: [][]Update{
		{{UpdateID: 10}, {UpdateID: 11}},
		{},
		{{UpdateID: 12}},
	}}
	handler := &recordingHandler{}
	p := NewPoller(updater, handler, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return handler.seen() == 3 }, time.Second, time.Millisecond)
	cancel()
	<-done

	updater.mu.Lock()
	defer updater.mu.Unlock()
	assert.Equal(t, []int64{0, 12, 12}, updater.offsets[:3])
	assert.Equal(t, []int64{10, 11, 12}, handler.ids)
}
