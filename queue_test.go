package bytesocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueueOrder(t *testing.T) {
	var q eventQueue

	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)
	const n = 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		q.push(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestEventQueueSerial(t *testing.T) {
	var q eventQueue

	var (
		running int
		overlap bool
		mu      sync.Mutex
		wg      sync.WaitGroup
	)
	const n = 20
	wg.Add(n)
	for i := 0; i < n; i++ {
		q.push(func() {
			defer wg.Done()
			mu.Lock()
			running++
			if running > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.False(t, overlap)
}

func TestEventQueuePushFromTask(t *testing.T) {
	var q eventQueue

	done := make(chan []string, 1)
	var order []string
	q.push(func() {
		order = append(order, "outer")
		q.push(func() {
			order = append(order, "inner")
			done <- order
		})
		order = append(order, "outer done")
	})

	select {
	case got := <-done:
		assert.Equal(t, []string{"outer", "outer done", "inner"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("nested task did not run")
	}
}
