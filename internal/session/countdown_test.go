package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/facebookgo/clock"
)

const wait = time.Second

func TestRemainingSeconds(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		deadline time.Time
		want     int
	}{
		{deadline: now.Add(90 * time.Second), want: 90},
		{deadline: now.Add(1500 * time.Millisecond), want: 2},
		{deadline: now, want: 0},
		{deadline: now.Add(-time.Minute), want: 0},
	}
	for _, tc := range cases {
		if got := RemainingSeconds(tc.deadline, now); got != tc.want {
			t.Fatalf("RemainingSeconds(%v) = %d, want %d", tc.deadline.Sub(now), got, tc.want)
		}
	}
}

func TestCountdown_TicksDownAndExpiresOnce(t *testing.T) {
	mock := clock.NewMock()
	c := NewCountdown(mock, mock.Now().Add(3*time.Second))

	ticks := make(chan int, 10)
	var expired int32
	c.OnTick(func(r int) { ticks <- r })
	c.OnExpire(func() { atomic.AddInt32(&expired, 1) })
	c.Start()
	if c.State() != StateRunning || c.Remaining() != 3 {
		t.Fatalf("state=%s remaining=%d", c.State(), c.Remaining())
	}

	var seen []int
	for i := 0; i < 3; i++ {
		mock.Add(time.Second)
		select {
		case r := <-ticks:
			seen = append(seen, r)
		case <-time.After(wait):
			t.Fatalf("tick %d not observed", i+1)
		}
	}
	if len(seen) != 3 || seen[0] != 2 || seen[1] != 1 || seen[2] != 0 {
		t.Fatalf("unexpected ticks %v", seen)
	}
	if c.State() != StateExpired || c.Remaining() != 0 {
		t.Fatalf("state=%s remaining=%d", c.State(), c.Remaining())
	}

	mock.Add(5 * time.Second)
	c.Start()
	select {
	case r := <-ticks:
		t.Fatalf("tick after expiry: %d", r)
	case <-time.After(50 * time.Millisecond):
	}
	if n := atomic.LoadInt32(&expired); n != 1 {
		t.Fatalf("expiry fired %d times", n)
	}
}

func TestCountdown_ImmediateExpiry(t *testing.T) {
	mock := clock.NewMock()
	mock.Add(time.Hour)
	c := NewCountdown(mock, mock.Now().Add(-time.Minute))

	var ticked, expired int32
	c.OnTick(func(int) { atomic.AddInt32(&ticked, 1) })
	c.OnExpire(func() { atomic.AddInt32(&expired, 1) })
	c.Start()

	if c.State() != StateExpired || c.Remaining() != 0 {
		t.Fatalf("state=%s remaining=%d", c.State(), c.Remaining())
	}
	if atomic.LoadInt32(&expired) != 1 {
		t.Fatalf("expiry must fire synchronously on start")
	}
	mock.Add(10 * time.Second)
	if atomic.LoadInt32(&ticked) != 0 {
		t.Fatalf("expired countdown must never tick")
	}
}

func TestCountdown_InvokesLatestCallback(t *testing.T) {
	mock := clock.NewMock()
	c := NewCountdown(mock, mock.Now().Add(time.Second))

	fired := make(chan string, 2)
	c.OnExpire(func() { fired <- "first" })
	c.Start()
	c.OnExpire(func() { fired <- "second" })
	mock.Add(time.Second)

	select {
	case who := <-fired:
		if who != "second" {
			t.Fatalf("stale callback invoked: %s", who)
		}
	case <-time.After(wait):
		t.Fatalf("expiry not fired")
	}
}

func TestCountdown_StopCancelsWithoutExpiry(t *testing.T) {
	mock := clock.NewMock()
	c := NewCountdown(mock, mock.Now().Add(2*time.Second))

	var expired int32
	c.OnExpire(func() { atomic.AddInt32(&expired, 1) })
	c.Start()
	if !c.Stop() {
		t.Fatalf("expected running countdown to stop")
	}
	mock.Add(10 * time.Second)
	time.Sleep(20 * time.Millisecond)

	if atomic.LoadInt32(&expired) != 0 {
		t.Fatalf("stopped countdown fired expiry")
	}
	if c.State() != StateStopped {
		t.Fatalf("state=%s", c.State())
	}
	if c.Stop() {
		t.Fatalf("second stop should report nothing cancelled")
	}
}

func TestCountdown_RemainingNeverIncreases(t *testing.T) {
	mock := clock.NewMock()
	start := mock.Now()
	c := NewCountdown(mock, start.Add(3*time.Second))
	c.Start()
	defer c.Stop()

	c.tick(start.Add(1500 * time.Millisecond))
	if c.Remaining() != 2 {
		t.Fatalf("remaining=%d", c.Remaining())
	}
	// a clock that steps backwards must not add time
	c.tick(start.Add(200 * time.Millisecond))
	if c.Remaining() != 2 {
		t.Fatalf("remaining went up to %d", c.Remaining())
	}
}
