package channel_utils

import (
	"context"
	"sync"
	"veo-prompt-director/application/ports/outbound"
)

// MergeChannels fans every input into one channel that closes after all
// inputs have closed. Once ctx is done values are discarded instead of
// forwarded, but inputs are still read to the end so their producers never
// block.
//
// When the pool rejects a task the error is returned and every input is
// drained in the background.
func MergeChannels[T any](ctx context.Context, workerPool outbound.TaskDispatcher, channels ...<-chan T) (<-chan T, error) {
	ctx, cancel := context.WithCancel(ctx)
	merged := make(chan T)
	var wg sync.WaitGroup

	forward := func(in <-chan T) {
		defer wg.Done()
		for val := range in {
			select {
			case merged <- val:
			case <-ctx.Done():
			}
		}
	}
	closeWhenDone := func() {
		wg.Wait()
		cancel()
		close(merged)
	}

	wg.Add(len(channels))
	for i, in := range channels {
		ch := in
		if err := workerPool.Submit(func() { forward(ch) }); err != nil {
			cancel()
			for _, rest := range channels[i:] {
				go forward(rest)
			}
			go closeWhenDone()
			return nil, err
		}
	}

	if err := workerPool.Submit(closeWhenDone); err != nil {
		cancel()
		go closeWhenDone()
		return nil, err
	}

	return merged, nil
}
