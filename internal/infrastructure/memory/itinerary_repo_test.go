package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"itinerary/internal/domain/itinerary"
	"itinerary/internal/domain/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *itinerary.Itinerary {
	return &itinerary.Itinerary{
		SortedTickets: []ticket.Ticket{
			{Type: ticket.Train, From: "A", To: "B", Identifier: "T1"},
		},
		ReadableItinerary: []string{"0. Start.", "1. Board train T1, from A to B.", "2. Last destination reached."},
		CreatedAt:         time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestItineraryRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewItineraryRepository()

	in := sample()
	id, err := repo.Store(ctx, in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "itinerary_"))
	assert.Empty(t, in.ID, "Store must not mutate the caller's value")

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, in.SortedTickets, got.SortedTickets)
	assert.Equal(t, in.ReadableItinerary, got.ReadableItinerary)
	assert.True(t, in.CreatedAt.Equal(got.CreatedAt))
}

func TestItineraryRepository_UnknownID(t *testing.T) {
	repo := NewItineraryRepository()

	got, err := repo.GetByID(context.Background(), "itinerary_never_issued")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestItineraryRepository_RecordsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewItineraryRepository()

	in := sample()
	id, err := repo.Store(ctx, in)
	require.NoError(t, err)

	in.SortedTickets[0].From = "changed by caller"
	in.ReadableItinerary[1] = "changed by caller"

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	got.SortedTickets[0].To = "changed by reader"
	got.ReadableItinerary = append(got.ReadableItinerary, "extra")

	again, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sample().SortedTickets, again.SortedTickets)
	assert.Equal(t, sample().ReadableItinerary, again.ReadableItinerary)
}

func TestItineraryRepository_GetAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	n := 0
	repo := NewItineraryRepository(WithIDGenerator(func() (string, error) {
		n++
		// Reverse lexical order to prove ordering does not come from the key.
		return fmt.Sprintf("itinerary_%d", 100-n), nil
	}))

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := repo.Store(ctx, sample())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, it := range all {
		assert.Equal(t, ids[i], it.ID)
	}
}

func TestItineraryRepository_GetAllEmpty(t *testing.T) {
	all, err := NewItineraryRepository().GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestItineraryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewItineraryRepository()

	first, err := repo.Store(ctx, sample())
	require.NoError(t, err)
	second, err := repo.Store(ctx, sample())
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, second, all[0].ID)
	assert.Equal(t, 1, repo.Len())
}

func TestItineraryRepository_IDErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("generator failure", func(t *testing.T) {
		repo := NewItineraryRepository(WithIDGenerator(func() (string, error) {
			return "", errors.New("entropy exhausted")
		}))
		_, err := repo.Store(ctx, sample())
		assert.ErrorContains(t, err, "entropy exhausted")
	})

	t.Run("collision", func(t *testing.T) {
		repo := NewItineraryRepository(WithIDGenerator(func() (string, error) {
			return "itinerary_fixed", nil
		}))
		_, err := repo.Store(ctx, sample())
		require.NoError(t, err)
		_, err = repo.Store(ctx, sample())
		assert.ErrorContains(t, err, "already taken")
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("nil itinerary", func(t *testing.T) {
		_, err := NewItineraryRepository().Store(ctx, nil)
		assert.Error(t, err)
	})
}

func TestItineraryRepository_ConcurrentStore(t *testing.T) {
	ctx := context.Background()
	repo := NewItineraryRepository()

	const workers = 50
	ids := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.Store(ctx, sample())
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, workers)
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers)
	assert.Equal(t, workers, repo.Len())
}
