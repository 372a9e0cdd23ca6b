package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualScheduler_FiresInDueThenScheduleOrder(t *testing.T) {
	s := NewManualScheduler(TestEpoch)
	var order []string

	s.Schedule(800*time.Millisecond, func() { order = append(order, "late") })
	s.Schedule(700*time.Millisecond, func() { order = append(order, "early-1") })
	s.Schedule(700*time.Millisecond, func() { order = append(order, "early-2") })

	assert.Equal(t, 3, s.Pending())
	assert.Equal(t, 2, s.Advance(750*time.Millisecond))
	assert.Equal(t, []string{"early-1", "early-2"}, order)
	assert.Equal(t, TestEpoch.Add(750*time.Millisecond), s.Now())

	assert.Equal(t, 1, s.Advance(50*time.Millisecond))
	assert.Equal(t, []string{"early-1", "early-2", "late"}, order)
	assert.Equal(t, 0, s.Pending())
}

func TestManualScheduler_ClockAtCallbackTime(t *testing.T) {
	s := NewManualScheduler(TestEpoch)
	var seen time.Time
	s.Schedule(300*time.Millisecond, func() { seen = s.Now() })

	s.Advance(time.Second)
	assert.Equal(t, TestEpoch.Add(300*time.Millisecond), seen)
	assert.Equal(t, TestEpoch.Add(time.Second), s.Now())
}

func TestManualScheduler_NestedScheduling(t *testing.T) {
	s := NewManualScheduler(TestEpoch)
	var order []string

	s.Schedule(100*time.Millisecond, func() {
		order = append(order, "outer")
		s.Schedule(100*time.Millisecond, func() { order = append(order, "inner") })
	})

	assert.Equal(t, 2, s.Advance(200*time.Millisecond))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestManualScheduler_Cancel(t *testing.T) {
	s := NewManualScheduler(TestEpoch)
	fired := false
	cancel := s.Schedule(time.Second, func() { fired = true })

	assert.True(t, cancel())
	assert.False(t, cancel())
	assert.Equal(t, 0, s.Advance(2*time.Second))
	assert.False(t, fired)

	cancel = s.Schedule(time.Second, func() {})
	s.Advance(time.Second)
	assert.False(t, cancel(), "cancel after firing reports false")
}

func TestManualScheduler_Flush(t *testing.T) {
	s := NewManualScheduler(TestEpoch)
	count := 0
	s.Schedule(time.Hour, func() { count++ })
	s.Schedule(time.Minute, func() { count++ })

	assert.Equal(t, 2, s.Flush())
	assert.Equal(t, 2, count)
	assert.Equal(t, 0, s.Flush())
}

func TestLoop_DoRunsInOrder(t *testing.T) {
	loop := NewLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, loop.Do(func() { order = append(order, i) }))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestLoop_ScheduleRunsOnLoop(t *testing.T) {
	loop := NewLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	fired := make(chan time.Time, 1)
	start := time.Now()
	loop.Schedule(20*time.Millisecond, func() {
		fired <- time.Now()
		wg.Done()
	})
	wg.Wait()

	assert.GreaterOrEqual(t, (<-fired).Sub(start), 20*time.Millisecond)
}

func TestLoop_ScheduleCancel(t *testing.T) {
	loop := NewLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	fired := make(chan struct{}, 1)
	stop := loop.Schedule(30*time.Millisecond, func() { fired <- struct{}{} })
	assert.True(t, stop())

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(80 * time.Millisecond):
	}
	assert.False(t, stop())
}

func TestLoop_PostAfterStop(t *testing.T) {
	loop := NewLoop(1)
	loop.Stop()
	assert.False(t, loop.Post(func() {}))
	assert.False(t, loop.Do(func() {}))
}

func TestLoop_RunReturnsOnCancel(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestLoop_DrivesWorkspace(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	delivered := make(chan Message, 1)
	w, err := NewWorkspace(Options{
		Registry:   NewMemoryRegistry(CreateTestSession("alpha")),
		Scheduler:  loop,
		Notifier:   NewRecordingNotifier(),
		Clipboard:  NewFakeClipboard(),
		ReplyDelay: 10 * time.Millisecond,
		OnReply:    func(_ PendingReply, msg Message) { delivered <- msg },
	})
	require.NoError(t, err)

	require.True(t, loop.Do(func() { w.Submit("ping") }))

	select {
	case msg := <-delivered:
		assert.Equal(t, RoleAssistant, msg.Role)
	case <-time.After(time.Second):
		t.Fatal("reply never arrived")
	}

	var n int
	loop.Do(func() { n = len(w.Messages()) })
	assert.Equal(t, 14, n)
}

func TestParseReplyPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ReplyPolicy
		wantErr bool
	}{
		{in: "", want: ReplyToActive},
		{in: "active", want: ReplyToActive},
		{in: "Origin", want: ReplyToOrigin},
		{in: "cancel", want: CancelOnSwitch},
		{in: "cancel-on-switch", want: CancelOnSwitch},
		{in: "never", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReplyPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			text, _ := got.MarshalText()
			var back ReplyPolicy
			require.NoError(t, back.UnmarshalText(text))
			assert.Equal(t, got, back)
		})
	}
}
