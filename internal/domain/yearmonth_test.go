package domain

import "testing"

func TestYearMonthPrevCrossesYearBoundary(t *testing.T) {
	got := YearMonth{Year: 2026, Month: 1}.Prev()
	if got.Year != 2025 || got.Month != 12 {
		t.Fatalf("unexpected prev: %+v", got)
	}

	got = YearMonth{Year: 2026, Month: 7}.Prev()
	if got.Year != 2026 || got.Month != 6 {
		t.Fatalf("unexpected prev: %+v", got)
	}
}

func TestYearMonthFormat(t *testing.T) {
	if got := (YearMonth{Year: 2026, Month: 3}).Format(); got != "202603" {
		t.Fatalf("unexpected format: %s", got)
	}
}

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    YearMonth
		wantErr bool
	}{
		{name: "valid", input: "202412", want: YearMonth{Year: 2024, Month: 12}},
		{name: "invalid month", input: "202413", wantErr: true},
		{name: "too short", input: "2024", wantErr: true},
		{name: "not numeric", input: "2024ab", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYearMonth(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMonthsBackDescendingInclusive(t *testing.T) {
	months := MonthsBack(YearMonth{Year: 2026, Month: 2}, 4)
	if len(months) != 4 {
		t.Fatalf("expected 4 months, got %d", len(months))
	}

	want := []string{"202602", "202601", "202512", "202511"}
	for i, ym := range months {
		if ym.Format() != want[i] {
			t.Fatalf("months[%d] = %s, want %s", i, ym.Format(), want[i])
		}
	}
}
