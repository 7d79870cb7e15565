// Package assert provides a few tiny test helpers for cases where
// pulling in a full assertion library reads worse than the check
// itself.
package assert

import (
	"reflect"
	"testing"
)

// Nil fails the test if given value is not nil
func Nil(t testing.TB, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %#v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if two values are not equal
func Equal(t testing.TB, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant: %#v\n got: %#v", want, got)
	}
}

// Panics will run given function and recover any panic. It will fail
// the test if given function call did not panic.
func Panics(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test if the error is not of the wanted kind. Kind
// matching is done through the Is method of the registered error.
func IsErr(t testing.TB, want interface{ Is(error) bool }, err error) {
	t.Helper()
	if !want.Is(err) {
		t.Fatalf("unexpected error kind: %+v", err)
	}
}
