// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/bridge/queue.go
// Summary: Unbounded FIFO of output chunks shared by the reader goroutine and the frame loop.

package bridge

import "sync"

// chunkQueue never blocks the producer; the consumer polls it once per frame.
type chunkQueue struct {
	mu     sync.Mutex
	chunks [][]byte
	closed bool
}

func (q *chunkQueue) push(chunk []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.chunks = append(q.chunks, chunk)
}

func (q *chunkQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// pop returns the oldest chunk. done is true only when the queue is closed
// and empty.
func (q *chunkQueue) pop() (chunk []byte, done bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.chunks) == 0 {
		return nil, q.closed
	}
	chunk = q.chunks[0]
	q.chunks[0] = nil
	q.chunks = q.chunks[1:]
	if len(q.chunks) == 0 {
		// Release the backing array once drained.
		q.chunks = nil
	}
	return chunk, false
}

func (q *chunkQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chunks)
}
