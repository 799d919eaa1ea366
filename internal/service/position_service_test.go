package service

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/writequeue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedClock(sec int64) Clock {
	return func() time.Time { return time.Unix(sec, 0) }
}

func TestSetOrderMovesSiblings(t *testing.T) {
	ctx := context.Background()
	repo := newMemNoteRepo()
	ids := repo.seed(1, "", "A", "B", "C")
	svc := NewPositionService(repo, nil, zap.NewNop(), nil)

	res, err := svc.SetOrder(ctx, 1, ids[0], 2, nil)
	require.NoError(t, err)
	assert.Equal(t, &domain.ReorderResult{NoteID: ids[0], Order: 2, OldOrder: 0}, res)
	assert.Equal(t, []string{"B", "C", "A"}, repo.titles(1))
	assert.Equal(t, 1, repo.writes)
}

func TestSetOrderSameOrderWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := newMemNoteRepo()
	ids := repo.seed(1, "", "A", "B", "C")
	svc := NewPositionService(repo, nil, nil, nil)

	for range 2 {
		res, err := svc.SetOrder(ctx, 1, ids[1], 1, nil)
		require.NoError(t, err)
		assert.Equal(t, res.Order, res.OldOrder)
	}
	assert.Zero(t, repo.writes)
}

func TestSetOrderRejects(t *testing.T) {
	ctx := context.Background()
	repo := newMemNoteRepo()
	ids := repo.seed(1, "", "A", "B", "C")
	other := repo.seed(2, "", "X")
	svc := NewPositionService(repo, nil, nil, nil)

	_, err := svc.SetOrder(ctx, 1, ids[0], 3, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)

	_, err = svc.SetOrder(ctx, 1, ids[0], -1, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SetOrder(ctx, 1, "missing", 0, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.SetOrder(ctx, 1, other[0], 0, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Zero(t, repo.writes)
	assert.Equal(t, []string{"A", "B", "C"}, repo.titles(1))
}

func TestSetCoordinates(t *testing.T) {
	ctx := context.Background()
	repo := newMemNoteRepo()
	ids := repo.seed(1, "", "A", "B")
	svc := NewPositionService(repo, nil, nil, fixedClock(1700000000))

	res, err := svc.SetCoordinates(ctx, 1, ids[1], 40, 60.5, nil)
	require.NoError(t, err)
	assert.Equal(t, &domain.MoveResult{NoteID: ids[1], X: 40, Y: 60.5, LastMovedAt: 1700000000}, res)

	a, err := svc.Get(ctx, 1, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.Position{Order: 0}, a)

	b, err := svc.Get(ctx, 1, ids[1])
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 40, Y: 60.5, Order: 1, LastMovedAt: 1700000000}, b)
}

func TestSetCoordinatesRejects(t *testing.T) {
	ctx := context.Background()
	repo := newMemNoteRepo()
	ids := repo.seed(1, "", "A")
	svc := NewPositionService(repo, nil, nil, nil)

	_, err := svc.SetCoordinates(ctx, 1, ids[0], math.NaN(), 0, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.SetCoordinates(ctx, 1, ids[0], 0, math.Inf(1), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.SetCoordinates(ctx, 2, ids[0], 1, 1, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Get(ctx, 2, ids[0])
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Zero(t, repo.writes)
}

func TestSetOrderConcurrentStaysDense(t *testing.T) {
	ctx := context.Background()
	repo := newMemNoteRepo()
	ids := repo.seed(1, "", "A", "B", "C", "D", "E", "F")
	queue := writequeue.New(nil, zap.NewNop())
	defer queue.Shutdown(ctx)
	svc := NewPositionService(repo, queue, nil, nil)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for range 25 {
				_, err := svc.SetOrder(ctx, 1, ids[rnd.Intn(len(ids))], rnd.Intn(len(ids)), nil)
				assert.NoError(t, err)
			}
		}(int64(w))
	}
	wg.Wait()

	assert.True(t, repo.dense(1))
	assert.Len(t, repo.titles(1), len(ids))
}

func TestSetOrderCallbacksFollowApplyOrder(t *testing.T) {
	ctx := context.Background()
	repo := newMemNoteRepo()
	titles := []string{"A", "B", "C", "D", "E", "F"}
	ids := repo.seed(1, "", titles...)
	byID := make(map[string]string, len(ids))
	for i, id := range ids {
		byID[id] = titles[i]
	}
	queue := writequeue.New(nil, zap.NewNop())
	defer queue.Shutdown(ctx)
	svc := NewPositionService(repo, queue, nil, nil)

	var mu sync.Mutex
	var seen []domain.ReorderResult
	record := func(r domain.ReorderResult) {
		mu.Lock()
		seen = append(seen, r)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for range 25 {
				_, err := svc.SetOrder(ctx, 1, ids[rnd.Intn(len(ids))], rnd.Intn(len(ids)), record)
				assert.NoError(t, err)
			}
		}(int64(w))
	}
	wg.Wait()

	// a client replaying the deltas in delivery order ends on the stored list
	replay := append([]string(nil), titles...)
	for _, r := range seen {
		title := byID[r.NoteID]
		require.Equal(t, title, replay[r.OldOrder])
		replay = append(replay[:r.OldOrder], replay[r.OldOrder+1:]...)
		replay = append(replay[:r.Order], append([]string{title}, replay[r.Order:]...)...)
	}
	assert.Len(t, seen, 200)
	assert.Equal(t, repo.titles(1), replay)
}
