package option_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse-svg/core/option"
)

func TestOptionValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.core")
	defer teardown()
	//
	x := option.SomeFloat32(42)
	t.Logf("x = %v, x.T = %T, x.unwrap = %v", x, x, x.Unwrap())
	if x.IsNone() || x.Unwrap() != 42 {
		t.Errorf("expected SomeFloat32(42) to carry 42, is %v", x)
	}
	if x.String() != "42" {
		t.Errorf("expected SomeFloat32(42) to print as 42, is %q", x.String())
	}
}

func TestOrElse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.core")
	defer teardown()
	//
	if option.Float32().OrElse(3) != 3 {
		t.Errorf("expected unset value to fall back to default")
	}
	if option.SomeFloat32(0).OrElse(3) != 0 {
		t.Errorf("expected zero to be a set value")
	}
	if !option.Float32().IsNone() || option.Float32().String() != "Float32.None" {
		t.Errorf("expected Float32() to be None")
	}
}
