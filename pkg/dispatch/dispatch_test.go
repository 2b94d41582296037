package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harborworks/trawl/pkg/dispatch"
)

func TestDispatch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dispatch Suite")
}

var _ = Describe("Pool", func() {
	It("runs a task and returns its error", func() {
		pool := dispatch.NewPool(1)

		sentinel := errors.New("task error")
		err := pool.Do(context.Background(), "k", func(context.Context) error {
			return sentinel
		})
		Expect(err).To(MatchError(sentinel))
	})

	It("rejects a second task for a busy key immediately", func() {
		pool := dispatch.NewPool(2)

		started := make(chan struct{})
		release := make(chan struct{})

		go func() {
			_ = pool.Do(context.Background(), "chat-1", func(context.Context) error {
				close(started)
				<-release
				return nil
			})
		}()

		<-started
		err := pool.Do(context.Background(), "chat-1", func(context.Context) error {
			return nil
		})
		Expect(err).To(MatchError(dispatch.ErrInFlight))

		close(release)
		pool.Wait()
	})

	It("allows different keys to run concurrently", func() {
		pool := dispatch.NewPool(2)

		var wg sync.WaitGroup
		barrier := make(chan struct{})

		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				err := pool.Do(context.Background(), key, func(context.Context) error {
					// Both tasks must be inside the pool for either to pass
					// the barrier; a deadlock here means concurrency broke.
					barrier <- struct{}{}
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			}(key)
		}

		<-barrier
		<-barrier
		wg.Wait()
	})

	It("caps total concurrency at the pool size", func() {
		pool := dispatch.NewPool(2)

		var running, peak atomic.Int32
		var wg sync.WaitGroup
		gate := make(chan struct{})

		for _, key := range []string{"a", "b", "c", "d"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				_ = pool.Do(context.Background(), key, func(context.Context) error {
					now := running.Add(1)
					for {
						old := peak.Load()
						if now <= old || peak.CompareAndSwap(old, now) {
							break
						}
					}
					<-gate
					running.Add(-1)
					return nil
				})
			}(key)
		}

		// Let two tasks through, then the rest.
		gate <- struct{}{}
		gate <- struct{}{}
		gate <- struct{}{}
		gate <- struct{}{}
		wg.Wait()

		Expect(peak.Load()).To(BeNumerically("<=", 2))
	})

	It("returns the context error when saturated past the deadline", func() {
		pool := dispatch.NewPool(1)

		started := make(chan struct{})
		release := make(chan struct{})

		go func() {
			_ = pool.Do(context.Background(), "holder", func(context.Context) error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := pool.Do(ctx, "waiter", func(context.Context) error {
			return nil
		})
		Expect(err).To(MatchError(context.Canceled))

		close(release)
		pool.Wait()
	})

	It("tracks in-flight keys", func() {
		pool := dispatch.NewPool(1)

		started := make(chan struct{})
		release := make(chan struct{})

		go func() {
			_ = pool.Do(context.Background(), "k", func(context.Context) error {
				close(started)
				<-release
				return nil
			})
		}()

		<-started
		Expect(pool.InFlight("k")).To(BeTrue())
		Expect(pool.InFlight("other")).To(BeFalse())

		close(release)
		pool.Wait()
		Expect(pool.InFlight("k")).To(BeFalse())
	})
})
