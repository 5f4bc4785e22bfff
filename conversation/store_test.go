package conversation

import (
	"testing"
	"time"
)

func TestAcquireCreatesMainMenuSession(t *testing.T) {
	s := NewStore()

	sess, release := s.Acquire(1)
	defer release()

	if sess.State != StateMainMenu {
		t.Fatalf("new session state = %q", sess.State)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestAcquireSerializesSameUser(t *testing.T) {
	s := NewStore()

	sess, release := s.Acquire(1)
	sess.Name = "first"

	entered := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(entered)
		other, otherRelease := s.Acquire(1)
		if other.Name != "first" {
			t.Errorf("second acquire saw %q", other.Name)
		}
		otherRelease()
		close(done)
	}()

	<-entered
	select {
	case <-done:
		t.Fatal("second acquire proceeded while first held the session")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second acquire never proceeded after release")
	}
}

func TestAcquireDifferentUsersIndependent(t *testing.T) {
	s := NewStore()

	_, release1 := s.Acquire(1)
	defer release1()

	done := make(chan struct{})
	go func() {
		_, release2 := s.Acquire(2)
		release2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire for another user blocked")
	}
}

func TestDelete(t *testing.T) {
	s := NewStore()
	_, release := s.Acquire(1)
	release()

	s.Delete(1)
	if s.Len() != 0 {
		t.Fatalf("Len after delete = %d", s.Len())
	}
}

func TestEvictIdle(t *testing.T) {
	s := NewStore()
	_, release := s.Acquire(1)
	release()
	_, release = s.Acquire(2)
	release()

	s.mu.Lock()
	s.entries[1].lastSeen = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	if n := s.EvictIdle(30 * time.Minute); n != 1 {
		t.Fatalf("evicted = %d", n)
	}
	if s.Len() != 1 {
		t.Fatalf("Len after evict = %d", s.Len())
	}

	// The surviving session is the recently used one.
	sess, release := s.Acquire(2)
	release()
	if sess == nil {
		t.Fatal("session 2 missing")
	}
}

func TestEvictIdleSkipsHeldSessions(t *testing.T) {
	s := NewStore()
	_, release := s.Acquire(1)

	s.entries[1].lastSeen = time.Now().Add(-time.Hour)

	if n := s.EvictIdle(30 * time.Minute); n != 0 {
		t.Fatalf("evicted held session: %d", n)
	}
	release()
}
