package categories

import "testing"

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Hot Drinks":          "hot-drinks",
		"  Burgers & Fries  ": "burgers-fries",
		"Mocktails!!":         "mocktails",
		"---":                 "",
		"Café Specials 2":     "café-specials-2",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
