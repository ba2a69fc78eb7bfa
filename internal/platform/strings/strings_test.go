package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	in := []int{1, 2, 3}
	if got := IfEmpty(in, []int{9}); len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	var empty []string
	if got := IfEmpty(empty, []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got)
	}
}

func TestOr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"2024-03", "2024-03"},
		{"", "-"},
		{" \t", "-"},
		{"待定", "待定"},
	}
	for _, c := range cases {
		if got := Or(c.in, "-"); got != c.want {
			t.Fatalf("Or(%q) = %q want %q", c.in, got, c.want)
		}
	}
}
