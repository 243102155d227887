package status

import "errors"

// Status is an order status code. The set is owned by the store and may
// grow; unknown codes on a snapshot are displayed verbatim, the known
// set is only used to validate list filters.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusOnHold     Status = "on-hold"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusFailed     Status = "failed"
)

var ErrUnknownStatus = errors.New("unknown order status")

var known = map[Status]string{
	StatusPending:    "Pending payment",
	StatusProcessing: "Processing",
	StatusOnHold:     "On hold",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
	StatusRefunded:   "Refunded",
	StatusFailed:     "Failed",
}

func (s Status) String() string {
	return string(s)
}

// Label returns the display name for a known status, or the raw code.
func (s Status) Label() string {
	if label, ok := known[s]; ok {
		return label
	}

	return string(s)
}

// Parse validates a list-filter value against the known set.
func Parse(s string) (Status, error) {
	if _, ok := known[Status(s)]; ok {
		return Status(s), nil
	}

	return "", ErrUnknownStatus
}
