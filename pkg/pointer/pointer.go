// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer holds generic helpers for optional values.

PATCH payloads decode absent fields as nil pointers, so merging a partial
update is a sequence of [Apply] calls over the stored record. Fields that
may be cleared use [Optional], which also remembers an explicit null.
*/
package pointer

import "encoding/json"

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Apply copies *patch into *dst when patch is non-nil and reports whether it did.
func Apply[T any](dst *T, patch *T) bool {
	if patch == nil {
		return false
	}
	*dst = *patch
	return true
}

// ApplyFunc is [Apply] with a conversion step, for fields whose stored type
// differs from the payload type.
func ApplyFunc[T, U any](dst *U, patch *T, convert func(T) U) bool {
	if patch == nil {
		return false
	}
	*dst = convert(*patch)
	return true
}

// # Nullable Fields

// Optional is a JSON field that tells an absent key from an explicit null.
//
//   - key absent: Set is false
//   - "key": null: Set is true, Value is nil
//   - "key": value: Set is true, Value points to the decoded value
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set [Optional] holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: To(v)}
}

// Null returns a set [Optional] holding nothing.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON implements [json.Unmarshaler]. It is only called when the key is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = To(value)
	return nil
}

// ApplyOptional replaces *dst with patch.Value when patch is set, nil included,
// and reports whether it did.
func ApplyOptional[T any](dst **T, patch Optional[T]) bool {
	if !patch.Set {
		return false
	}
	*dst = patch.Value
	return true
}
