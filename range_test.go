package spritefield

import "testing"

func TestIndexRangeZeroValueUndefined(t *testing.T) {
	var r indexRange
	if r.isDefined() {
		t.Error("zero-value range should be undefined")
	}
}

func TestIndexRangeExpandInitializes(t *testing.T) {
	var r indexRange
	r.expandToInclude(7)
	if !r.isDefined() {
		t.Fatal("range should be defined after expandToInclude")
	}
	if r.lowBound() != 7 || r.highBound() != 7 {
		t.Errorf("bounds = [%d, %d], want [7, 7]", r.lowBound(), r.highBound())
	}
}

func TestIndexRangeExpandWidens(t *testing.T) {
	var r indexRange
	r.expandToInclude(5)
	r.expandToInclude(2)
	if r.lowBound() != 2 || r.highBound() != 5 {
		t.Errorf("bounds = [%d, %d], want [2, 5]", r.lowBound(), r.highBound())
	}
}

func TestIndexRangeExpandInsideBoundsNoChange(t *testing.T) {
	var r indexRange
	r.expandToInclude(1)
	r.expandToInclude(9)
	r.expandToInclude(4)
	if r.lowBound() != 1 || r.highBound() != 9 {
		t.Errorf("bounds = [%d, %d], want [1, 9]", r.lowBound(), r.highBound())
	}
}

func TestIndexRangeClear(t *testing.T) {
	var r indexRange
	r.expandToInclude(3)
	r.clear()
	if r.isDefined() {
		t.Error("range should be undefined after clear")
	}
}

func TestIndexRangeReuseAfterClear(t *testing.T) {
	var r indexRange
	r.expandToInclude(3)
	r.clear()
	r.expandToInclude(11)
	if r.lowBound() != 11 || r.highBound() != 11 {
		t.Errorf("bounds = [%d, %d], want [11, 11]", r.lowBound(), r.highBound())
	}
}

func TestIndexRangeUndefinedReadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("lowBound on undefined range should panic")
		}
	}()
	var r indexRange
	_ = r.lowBound()
}

func TestTimeRangeExpandWidens(t *testing.T) {
	var r timeRange
	r.expandToInclude(250.5)
	r.expandToInclude(100.0)
	r.expandToInclude(180.0)
	if r.lowBound() != 100.0 || r.highBound() != 250.5 {
		t.Errorf("bounds = [%f, %f], want [100, 250.5]", r.lowBound(), r.highBound())
	}
}

func TestTimeRangeClearThenUndefinedReadPanics(t *testing.T) {
	var r timeRange
	r.expandToInclude(1)
	r.clear()
	if r.isDefined() {
		t.Fatal("range should be undefined after clear")
	}
	defer func() {
		if recover() == nil {
			t.Error("highBound on undefined range should panic")
		}
	}()
	_ = r.highBound()
}
