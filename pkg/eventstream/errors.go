package eventstream

import "errors"

// ErrNilBatchEvent is returned when a nil event is published.
var ErrNilBatchEvent = errors.New("nil batch event")
