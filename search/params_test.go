package search

import "testing"

func TestParseYearRange(t *testing.T) {
	tests := []struct {
		in      string
		want    YearRange
		wantErr bool
	}{
		{in: "2020", want: Between{2020, 2020}},
		{in: "2020...", want: After{2020}},
		{in: "...2020", want: Before{2020}},
		{in: "2016...2020", want: Between{2016, 2020}},
		{in: "2020...2016", wantErr: true},
		{in: "", wantErr: true},
		{in: "...", wantErr: true},
		{in: "20x0", wantErr: true},
		{in: "2016...2018...2020", wantErr: true},
		{in: "-5...2020", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseYearRange(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseYearRange(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseYearRange(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseYearRange(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
