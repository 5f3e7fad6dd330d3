package register

import "testing"

func TestParseAmount_PlainAndFormatted(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"0", 0},
		{"50000", 50000},
		{"50000.50", 50000.50},
		{"1,23,456", 123456},
		{"1,234,567.89", 1234567.89},
		{"-1800", -1800},
		{"(1800)", -1800},
		{"( 1,800.25 )", -1800.25},
		{"+42", 42},
		{".5", 0.5},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseAmount(%q) want=%v got=%v", c.in, c.want, got)
		}
	}
}

func TestParseAmount_Rejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"abc", "12abc", "1.2.3", "Rs 100", "NaN", "Inf", "-", "()", "--5", "1e300"} {
		if _, err := ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) expected error", in)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"15-08-1991", "15-08-1991"},
		{"15/08/1991", "15-08-1991"},
		{"1991-08-15", "15-08-1991"},
		{"15.08.1991", "15-08-1991"},
		{"NIL", "NIL"},
		{"not a date", "not a date"},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Fatalf("NormalizeDate(%q) want=%q got=%q", c.in, c.want, got)
		}
	}
}

func TestTrimNumericText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"E100", "E100"},
		{"100234567890", "100234567890"},
		{"100234567890.0", "100234567890"},
		{"42.0", "42"},
		{"42.5", "42.5"},
		{"SBIN0001", "SBIN0001"},
	}
	for _, c := range cases {
		if got := TrimNumericText(c.in); got != c.want {
			t.Fatalf("TrimNumericText(%q) want=%q got=%q", c.in, c.want, got)
		}
	}
}

func TestIsBlankRow(t *testing.T) {
	t.Parallel()

	if !IsBlankRow(nil) {
		t.Fatalf("nil row should be blank")
	}
	if !IsBlankRow([]string{"", "  ", "\t"}) {
		t.Fatalf("whitespace row should be blank")
	}
	if IsBlankRow([]string{"", "E100"}) {
		t.Fatalf("row with a value is not blank")
	}
}
