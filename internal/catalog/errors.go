package catalog

// ListingFailedMessage is the only error text clients ever see.
const ListingFailedMessage = "failed to fetch listing"

// InternalError wraps any failure while resolving a listing. Error() never
// includes the cause; use errors.Is/As to inspect it.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return ListingFailedMessage
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
