package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/debugview/internal/jsontree"
)

type session struct {
	User  string   `json:"user"`
	Roles []string `json:"roles"`
}

func TestStore_PublishAndSnapshot(t *testing.T) {
	var s Store

	before := time.Now()
	s.Publish(session{User: "ada", Roles: []string{"admin"}})

	snap := s.Snapshot()
	if !snap.HasValue || snap.Value.Kind() != jsontree.Object {
		t.Fatalf("snapshot value = %v, want object", snap.Value.Kind())
	}
	user, ok := snap.Value.Field("user")
	if !ok || user.Str() != "ada" {
		t.Fatalf("user = %#v, want ada", user)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestStore_PublishedValueIsIndependent(t *testing.T) {
	var s Store

	st := session{User: "ada", Roles: []string{"admin"}}
	s.Publish(st)
	st.Roles[0] = "guest"

	roles, _ := s.Snapshot().Value.Field("roles")
	if got := roles.Items()[0].Str(); got != "admin" {
		t.Fatalf("roles[0] = %q, want admin", got)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Publish(map[string]int{"count": 1})
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if snap.HasValue != prev.HasValue || !reflect.DeepEqual(snap.Value, prev.Value) {
		t.Fatalf("value changed on error: got %#v want %#v", snap.Value, prev.Value)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	// Initially zero failures
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}
	if snap.HasValue || snap.Value.Kind() != jsontree.Null {
		t.Fatal("zero snapshot should hold null")
	}

	// First failure
	s.Update(nil, errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 1 failure")
	}

	// Second failure - now offline
	s.Update(nil, errors.New("fail 2"))
	snap = s.Snapshot()
	if !snap.IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	// Success resets counter
	s.Publish(true)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after success")
	}
}

func TestStore_SubscribeSignalsUpdates(t *testing.T) {
	var s Store
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Update(nil, errors.New("down"))
	select {
	case <-ch:
	default:
		t.Fatal("no change signal after Update")
	}
}
