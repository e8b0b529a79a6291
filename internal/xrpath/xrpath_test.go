package xrpath

import "testing"

func TestIsWellFormed(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/user/hand/right", true},
		{"/interaction_profiles/oculus/touch_controller", true},
		{"/user/hand/right/input/trigger/value", true},
		{"", false},
		{"no/leading/slash", false},
		{"/user//right", false},
		{"/user/hand/", false},
		{"/user/..", false},
		{"/USER/HAND", false},
		{"/user/hand.right", true},
	}
	for _, c := range cases {
		if got := IsWellFormed(c.path); got != c.want {
			t.Errorf("IsWellFormed(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestInternRoundTrip(t *testing.T) {
	in := New()
	paths := []string{"/user/hand/left", "/user/hand/right", "/user/head"}

	handles := make([]Path, len(paths))
	for i, p := range paths {
		h, err := in.Intern(p)
		if err != nil {
			t.Fatalf("Intern(%q) failed: %v", p, err)
		}
		handles[i] = h
	}

	for i, p := range paths {
		got, err := in.String(handles[i])
		if err != nil {
			t.Fatalf("String(%v) failed: %v", handles[i], err)
		}
		if got != p {
			t.Errorf("String(Intern(%q)) = %q", p, got)
		}
	}
}

func TestInternIsIdempotent(t *testing.T) {
	in := New()
	a, _ := in.Intern("/user/hand/left")
	b, _ := in.Intern("/user/hand/left")
	if a != b {
		t.Errorf("interning the same path twice gave different handles: %v != %v", a, b)
	}
}

func TestInternRejectsIllFormed(t *testing.T) {
	in := New()
	if _, err := in.Intern("not-a-path"); err != ErrFormatInvalid {
		t.Errorf("Intern(ill-formed) = %v, want ErrFormatInvalid", err)
	}
}

func TestStringRejectsUnknownHandle(t *testing.T) {
	in := New()
	if _, err := in.String(Path(9999)); err != ErrInvalid {
		t.Errorf("String(unknown) = %v, want ErrInvalid", err)
	}
	if _, err := in.String(NullPath); err != ErrInvalid {
		t.Errorf("String(NullPath) = %v, want ErrInvalid", err)
	}
}
