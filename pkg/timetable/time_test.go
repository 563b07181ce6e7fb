package timetable

import "testing"

func TestParseTime(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "00:00", want: 1440},
		{input: "00:01", want: 1},
		{input: "08:30", want: 510},
		{input: "23:59", want: 1439},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "-1:30", wantErr: true},
		{input: "0830", wantErr: true},
		{input: "ab:cd", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseTime(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseTime(%q) expected an error, got %d", test.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTime(%q) unexpected error: %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseTime(%q) = %d, want %d", test.input, got, test.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{input: 0, want: "00:00"},
		{input: 510, want: "08:30"},
		{input: 1439, want: "23:59"},
		{input: 1440, want: "00:00"},
		{input: 1500, want: "01:00"},
		{input: -30, want: "23:30"},
	}

	for _, test := range tests {
		if got := FormatTime(test.input); got != test.want {
			t.Errorf("FormatTime(%d) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		from int
		to   int
		want int
	}{
		{from: 480, to: 540, want: 60},
		{from: 540, to: 480, want: 1380},
		{from: 1430, to: 1440, want: 10},
		{from: 1435, to: 5, want: 10},
		{from: 100, to: 100, want: 0},
	}

	for _, test := range tests {
		if got := Duration(test.from, test.to); got != test.want {
			t.Errorf("Duration(%d, %d) = %d, want %d", test.from, test.to, got, test.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{input: 0, want: "0h 0m"},
		{input: 60, want: "1h 0m"},
		{input: 70, want: "1h 10m"},
		{input: 185, want: "3h 5m"},
	}

	for _, test := range tests {
		if got := FormatDuration(test.input); got != test.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for minutes := 0; minutes <= MinutesPerDay; minutes++ {
		parsed, err := ParseTime(FormatTime(minutes))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", minutes, err)
		}
		if parsed%MinutesPerDay != minutes%MinutesPerDay {
			t.Errorf("round trip of %d gave %d", minutes, parsed)
		}
	}
}
