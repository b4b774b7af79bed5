package order

import "testing"

func TestBucketFor(t *testing.T) {
	active := []Status{StatusPending, StatusInProgress, StatusReady}
	history := []Status{StatusDelivered, StatusCancelled, StatusFailed}

	for _, s := range active {
		if BucketFor(s) != BucketActive {
			t.Errorf("BucketFor(%q) = %q, want active", s, BucketFor(s))
		}
	}
	for _, s := range history {
		if BucketFor(s) != BucketHistory {
			t.Errorf("BucketFor(%q) = %q, want history", s, BucketFor(s))
		}
	}
}

// Every known status lands in exactly one bucket; unknown strings in none.
func TestBucketFor_Totality(t *testing.T) {
	known := []Status{StatusPending, StatusInProgress, StatusReady, StatusDelivered, StatusCancelled, StatusFailed}
	for _, s := range known {
		b := BucketFor(s)
		if b != BucketActive && b != BucketHistory {
			t.Errorf("status %q not bucketed", s)
		}
	}
	if BucketFor(Status("Shipped")) != BucketNone {
		t.Errorf("unknown status must map to no bucket")
	}
}
