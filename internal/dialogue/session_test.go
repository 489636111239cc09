package dialogue

import (
	"testing"
	"time"
)

func TestSessionStore_PutGetDelete(t *testing.T) {
	st := NewSessionStore(30 * time.Minute)

	if _, ok := st.Get("u1"); ok {
		t.Fatal("expected no session for fresh store")
	}

	s, _ := Start(FlowWeight)
	st.Put("u1", s)

	got, ok := st.Get("u1")
	if !ok {
		t.Fatal("expected session after Put")
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	st.Delete("u1")
	if _, ok := st.Get("u1"); ok {
		t.Fatal("expected no session after Delete")
	}
}

func TestSessionStore_DeleteAbsentIsNoop(t *testing.T) {
	st := NewSessionStore(30 * time.Minute)
	st.Delete("nobody")
}

func TestSessionStore_PutReplacesExisting(t *testing.T) {
	st := NewSessionStore(30 * time.Minute)

	first, _ := Start(FlowWeight)
	st.Put("u1", first)
	second, _ := Start(FlowDirect)
	st.Put("u1", second)

	got, ok := st.Get("u1")
	if !ok {
		t.Fatal("expected session")
	}
	if got.Kind != FlowDirect {
		t.Errorf("kind = %v, want FlowDirect (replacement)", got.Kind)
	}
	if st.Len() != 1 {
		t.Errorf("len = %d, want 1", st.Len())
	}
}

func TestSessionStore_ExpiresIdleSessions(t *testing.T) {
	st := NewSessionStore(30 * time.Minute)

	base := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	now := base
	st.SetNow(func() time.Time { return now })

	s, _ := Start(FlowWeight)
	st.Put("u1", s)

	// Just inside the TTL: still there.
	now = base.Add(29 * time.Minute)
	if _, ok := st.Get("u1"); !ok {
		t.Fatal("session expired before TTL")
	}

	// The Get above refreshed activity, so another 29 minutes is fine.
	now = now.Add(29 * time.Minute)
	if _, ok := st.Get("u1"); !ok {
		t.Fatal("session expired despite activity refresh")
	}

	// Past the TTL with no access in between: gone.
	now = now.Add(31 * time.Minute)
	if _, ok := st.Get("u1"); ok {
		t.Fatal("session survived past TTL")
	}
	if st.Len() != 0 {
		t.Errorf("len = %d, want 0 after expiry", st.Len())
	}
}

func TestSessionStore_ZeroTTLDisablesExpiry(t *testing.T) {
	st := NewSessionStore(0)

	base := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	now := base
	st.SetNow(func() time.Time { return now })

	s, _ := Start(FlowDirect)
	st.Put("u1", s)

	now = base.Add(365 * 24 * time.Hour)
	if _, ok := st.Get("u1"); !ok {
		t.Fatal("session expired with expiry disabled")
	}
}

func TestSessionStore_PerUserIsolation(t *testing.T) {
	st := NewSessionStore(30 * time.Minute)

	s1, _ := Start(FlowWeight)
	s2, _ := Start(FlowDate)
	st.Put("u1", s1)
	st.Put("u2", s2)

	got1, _ := st.Get("u1")
	got2, _ := st.Get("u2")
	if got1.Kind != FlowWeight || got2.Kind != FlowDate {
		t.Error("sessions crossed users")
	}

	st.Delete("u1")
	if _, ok := st.Get("u2"); !ok {
		t.Error("deleting one user dropped another's session")
	}
}
