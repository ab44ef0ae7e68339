package errors

import (
	"errors"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	err := NewInvalidArgument("bad")
	if !IsInvalidArgument(err) {
		t.Fatal("expected invalid argument")
	}

	wrapped := WrapInternal(err, "ctx")
	if !IsInternal(wrapped) {
		t.Fatal("expected internal")
	}

	if !IsStoreUnavailable(WrapStoreUnavailable(errors.New("dial tcp"), "FindByUsername")) {
		t.Fatal("expected store unavailable")
	}
	if !IsCacheUnavailable(WrapCacheUnavailable(errors.New("i/o timeout"), "Get")) {
		t.Fatal("expected cache unavailable")
	}
}

func TestIsAuthFailure(t *testing.T) {
	for _, err := range []error{ErrInvalidCredentials, ErrAccountDisabled, ErrInvalidToken} {
		if !IsAuthFailure(err) {
			t.Fatalf("%v must be an auth failure", err)
		}
	}
	if IsAuthFailure(ErrStoreUnavailable) {
		t.Fatal("store outage is not an auth failure")
	}
	if IsAuthFailure(ErrConflict) {
		t.Fatal("conflict is not an auth failure")
	}
}
