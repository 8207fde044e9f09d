package section

import "testing"

func TestNormalizeDigits(t *testing.T) {
	cases := []struct{ in, want string }{
		{"المادة ٥", "المادة 5"},
		{"٠١٢٣٤٥٦٧٨٩", "0123456789"},
		{"Article 12", "Article 12"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeDigits(c.in); got != c.want {
			t.Errorf("NormalizeDigits(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMarkerNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"5", 5},
		{"12a", 12},
		{"٥", 5},
		{"٢٣", 23},
		{"(أ)", 1},
		{"(ب)", 2},
		{"(ي)", 10},
		{"", 0},
		{"---", 0},
	}
	for _, c := range cases {
		if got := MarkerNumber(c.in); got != c.want {
			t.Errorf("MarkerNumber(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPreview(t *testing.T) {
	short := "short heading"
	if got := preview(short); got != short {
		t.Errorf("short text must pass through, got %q", got)
	}

	long := ""
	for i := 0; i < 20; i++ {
		long += "abcde"
	}
	got := preview(long)
	if len([]rune(got)) != titlePreviewLen+3 {
		t.Errorf("expected %d runes, got %d", titlePreviewLen+3, len([]rune(got)))
	}
}

func TestArabicDominant(t *testing.T) {
	if !arabicDominant("نطاق التطبيق") {
		t.Error("Arabic text should be Arabic-dominant")
	}
	if arabicDominant("plain english text") {
		t.Error("English text should not be Arabic-dominant")
	}
	if arabicDominant("mixed نص but mostly english words here") {
		t.Error("mostly-English text should not be Arabic-dominant")
	}
}
