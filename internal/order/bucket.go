package order

// Bucket is the display lifecycle stage of an order. Every known status maps
// to exactly one bucket; unknown statuses map to none.
type Bucket string

const (
	BucketActive  Bucket = "active"
	BucketHistory Bucket = "history"
	BucketNone    Bucket = ""
)

// BucketFor centralizes the stage classification that used to be scattered
// across views.
func BucketFor(s Status) Bucket {
	switch s {
	case StatusPending, StatusInProgress, StatusReady:
		return BucketActive
	case StatusDelivered, StatusCancelled, StatusFailed:
		return BucketHistory
	}
	return BucketNone
}
