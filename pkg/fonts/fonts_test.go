package fonts

import "testing"

func TestRegularParses(t *testing.T) {
	f, err := Regular()
	if err != nil {
		t.Fatalf("Regular() error = %v", err)
	}
	if f == nil {
		t.Fatal("Regular() = nil")
	}
}

func TestTextWidth(t *testing.T) {
	faces := NewFaces()

	w := faces.TextWidth("PIANO", 23)
	if w <= 0 {
		t.Fatalf("TextWidth(PIANO, 23) = %v, want > 0", w)
	}
	if w2 := faces.TextWidth("PIANO", 46); w2 <= w {
		t.Errorf("TextWidth at double size = %v, want > %v", w2, w)
	}
	if got := faces.TextWidth("", 23); got != 0 {
		t.Errorf("TextWidth(\"\") = %v, want 0", got)
	}
	if again := faces.TextWidth("PIANO", 23); again != w {
		t.Errorf("TextWidth not stable: %v then %v", w, again)
	}
}

func TestFixed(t *testing.T) {
	if got := Fixed(0.5).TextWidth("abcd", 10); got != 20 {
		t.Errorf("Fixed.TextWidth() = %v, want 20", got)
	}
}
