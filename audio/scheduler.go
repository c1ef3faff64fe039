package audio

import (
	"sync"
	"time"
)

// Scheduler runs fn repeatedly at a fixed period
type Scheduler interface {
	Every(period time.Duration, fn func()) Timer
}

// Timer is a running schedule
type Timer interface {
	Stop()
}

// TickerScheduler schedules on a time.Ticker goroutine
// Ticks of one timer run serially; the first fires one period after Every
type TickerScheduler struct{}

func (TickerScheduler) Every(period time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(period),
		stop:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) run(fn func()) {
	defer t.ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C:
			// Stop may race the ticker; prefer stop
			select {
			case <-t.stop:
				return
			default:
			}
			fn()
		}
	}
}

// Stop does not wait for an in-flight tick to return
func (t *tickerTimer) Stop() {
	t.once.Do(func() { close(t.stop) })
}
