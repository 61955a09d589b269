package verification

import "testing"

func TestStateLifecycle(t *testing.T) {
	state := NewState()

	if state.IsVerified() {
		t.Fatalf("fresh state must be unverified")
	}
	if _, ok := state.Identity(); ok {
		t.Fatalf("fresh state must hold no identity")
	}

	state.Set(Identity{Nationality: "AR", PassportNumber: "X123"})
	if !state.IsVerified() {
		t.Fatalf("state must be verified after Set")
	}
	identity, ok := state.Identity()
	if !ok || identity.Nationality != "AR" || identity.PassportNumber != "X123" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	state.Forget()
	if state.IsVerified() {
		t.Fatalf("forget must clear the verified identity")
	}
}
