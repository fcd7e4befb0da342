package regioncache

import (
	"errors"
	"fmt"
)

var (
	// ErrDestructiveFlushRefused is returned by Clear on a flush-only region
	// when DestructiveFlush was not set. A flush would destroy every region
	// and any foreign data sharing the store, so it is never the default.
	ErrDestructiveFlushRefused = errors.New(
		"regioncache: clear would flush the whole store; set DestructiveFlush to allow it")
)

// UnsupportedBackendError reports a store whose capabilities could not be
// classified into a clearing strategy.
type UnsupportedBackendError struct {
	Store string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("regioncache: store %s has no index, scan, or flush capability", e.Store)
}

// NotSerializableError reports a Put or PutIfAbsent value the configured
// codec could not encode.
type NotSerializableError struct {
	Key   string
	Cause error
}

func (e *NotSerializableError) Error() string {
	return fmt.Sprintf("regioncache: value for key %q is not serializable: %v", e.Key, e.Cause)
}

func (e *NotSerializableError) Unwrap() error { return e.Cause }

// DeserializationError reports stored content that could not be decoded as
// the requested type. It is never silently collapsed into a miss.
type DeserializationError struct {
	Key   string
	Cause error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("regioncache: cannot decode value for key %q: %v", e.Key, e.Cause)
}

func (e *DeserializationError) Unwrap() error { return e.Cause }

// LoadError wraps a loader failure during GetOrLoad. Every caller gated on
// the same in-flight load observes the same LoadError.
type LoadError struct {
	Region string
	Key    string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("regioncache: loading key %q in region %q failed: %v", e.Key, e.Region, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// IndexProvisioningError reports an index/view setup failure that was not a
// benign race (a concurrent "already exists" is recovered by the store).
type IndexProvisioningError struct {
	Region string
	Cause  error
}

func (e *IndexProvisioningError) Error() string {
	return fmt.Sprintf("regioncache: provisioning index for region %q failed: %v", e.Region, e.Cause)
}

func (e *IndexProvisioningError) Unwrap() error { return e.Cause }
