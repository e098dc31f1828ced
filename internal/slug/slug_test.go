package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sunset Beach.jpg", "sunset-beach-jpg"},
		{"férias_em_São-Paulo", "ferias-em-sao-paulo"},
		{"IMG_20250101_001", "img-20250101-001"},
		{"---", "image"},
		{"", "image"},
		{"  spaced   out  ", "spaced-out"},
	}

	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
