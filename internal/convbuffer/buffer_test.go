package convbuffer

import "testing"

func TestRenderValuelessPadsAndSorts(t *testing.T) {
	b := New(3)
	b.Update(300, 0)
	b.Update(100, 0)
	got := b.Render(Valueless)
	want := "[0,100,300]"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderWithValue(t *testing.T) {
	b := NewWithFirst(3, 200, 7)
	b.Update(100, 3)
	got := b.Render(WithValue)
	want := "[0,100,200],[0,3,7]"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestUpdateNoOpAtCapacity(t *testing.T) {
	b := New(2)
	b.Update(10, 1)
	b.Update(20, 2)
	b.Update(30, 3) // dropped: already at capacity
	got := b.Render(WithValue)
	want := "[10,20],[1,2]"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderZeroCapacityIsEmptyList(t *testing.T) {
	b := New(0)
	got := b.Render(Valueless)
	if got != "[]" {
		t.Errorf("Render = %q, want %q", got, "[]")
	}
}

func TestRenderStableTiesPreserveInsertionOrder(t *testing.T) {
	b := New(3)
	b.Update(100, 1)
	b.Update(100, 2)
	b.Update(100, 3)
	got := b.Render(WithValue)
	want := "[100,100,100],[1,2,3]"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}
