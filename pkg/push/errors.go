package push

import "errors"

var (
	ErrNotConfigured   = errors.New("push delivery is not configured")
	ErrInvalidConfig   = errors.New("invalid push configuration")
	ErrDeliveryFailed  = errors.New("push delivery failed")
	ErrTopicManagement = errors.New("push topic management failed")
)
