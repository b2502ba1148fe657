package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

type Worker interface {
	Name() string
	Start(ctx context.Context) error
}

type Group []Worker

// Start runs every worker until ctx is cancelled or one of them returns,
// then waits for the rest to stop.
func (g Group) Start(ctx context.Context) error {
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))
	wg.Add(len(g))
	for _, w := range g {
		go func(w Worker) {
			defer wg.Done()
			defer cancelFn()
			if err := w.Start(runCtx); err != nil {
				errCh <- fmt.Errorf("%s: %w", w.Name(), err)
			}
		}(w)
	}

	<-runCtx.Done()
	wg.Wait()
	close(errCh)

	var err error
	for workerErr := range errCh {
		err = multierror.Append(err, workerErr)
	}
	return err
}
