package cart

import "testing"

func TestServiceKeepsOneCartPerSession(t *testing.T) {
	svc := New(fixedClock())
	a := svc.Cart("session-a")
	if svc.Cart("session-a") != a {
		t.Fatalf("expected the same cart for the same session")
	}
	_, _ = a.AddProduct(sandwich)
	if n := svc.Cart("session-b").Count(); n != 0 {
		t.Fatalf("expected empty cart for another session, got %d", n)
	}
	svc.Drop("session-a")
	if n := svc.Cart("session-a").Count(); n != 0 {
		t.Fatalf("expected fresh cart after drop, got %d", n)
	}
}
