package daemon_test

import (
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"go.trai.ch/rpmd/internal/adapters/daemon"
)

func TestLifecycle_AutoShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		select {
		case <-lc.ShutdownChan():
		case <-time.After(200 * time.Millisecond):
			t.Fatal("expected shutdown to be triggered")
		}
		synctest.Wait()
	})
}

func TestLifecycle_ResetPreventsShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		time.Sleep(50 * time.Millisecond)
		lc.ResetTimer()

		select {
		case <-lc.ShutdownChan():
			t.Fatal("shutdown should not have triggered yet")
		case <-time.After(60 * time.Millisecond):
		}
		lc.Shutdown()
		synctest.Wait()
	})
}

func TestLifecycle_HoldWhileBusy(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var busy atomic.Bool
		busy.Store(true)
		lc := daemon.NewLifecycle(100 * time.Millisecond)
		lc.HoldWhile(busy.Load)

		select {
		case <-lc.ShutdownChan():
			t.Fatal("shutdown should wait while busy")
		case <-time.After(350 * time.Millisecond):
		}

		busy.Store(false)
		select {
		case <-lc.ShutdownChan():
		case <-time.After(200 * time.Millisecond):
			t.Fatal("expected shutdown once idle")
		}
		synctest.Wait()
	})
}

func TestLifecycle_IdleRemaining(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		timeout := 100 * time.Millisecond
		lc := daemon.NewLifecycle(timeout)

		remaining := lc.IdleRemaining()
		if remaining > timeout {
			t.Fatalf("idle remaining %v > timeout %v", remaining, timeout)
		}

		time.Sleep(50 * time.Millisecond)
		if after := lc.IdleRemaining(); after >= remaining {
			t.Fatalf("idle remaining should have decreased")
		}
		lc.Shutdown()
		synctest.Wait()
	})
}

func TestLifecycle_UptimeAndActivity(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(time.Hour)
		initial := lc.LastActivity()

		time.Sleep(10 * time.Millisecond)
		lc.ResetTimer()

		if uptime := lc.Uptime(); uptime < 10*time.Millisecond {
			t.Fatalf("uptime %v < 10ms", uptime)
		}
		if !lc.LastActivity().After(initial) {
			t.Fatal("last activity should have been updated")
		}
		lc.Shutdown()
		synctest.Wait()
	})
}

func TestLifecycle_Shutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(time.Hour)

		select {
		case <-lc.ShutdownChan():
			t.Fatal("should not have shutdown yet")
		case <-time.After(10 * time.Millisecond):
		}

		lc.Shutdown()
		lc.Shutdown()

		select {
		case <-lc.ShutdownChan():
		case <-time.After(10 * time.Millisecond):
			t.Fatal("should have shutdown after calling Shutdown()")
		}
		synctest.Wait()
	})
}
