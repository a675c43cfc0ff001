package memberid

import "testing"

func TestSeed(t *testing.T) {
	if got := Seed(Regular); got != "0001" {
		t.Errorf("Seed(Regular) = %q, want %q", got, "0001")
	}
	if got := Seed(Guest); got != "T001" {
		t.Errorf("Seed(Guest) = %q, want %q", got, "T001")
	}
}

func TestNext_Regular(t *testing.T) {
	tests := []struct {
		highest string
		want    string
	}{
		{"", "0001"},
		{"0001", "0002"},
		{"0009", "0010"},
		{"0099", "0100"},
		{"9999", "10000"}, // widens past the padded range
		{"10000", "10001"},
	}
	for _, tt := range tests {
		got, err := Next(Regular, tt.highest)
		if err != nil {
			t.Fatalf("Next(Regular, %q) error: %v", tt.highest, err)
		}
		if got != tt.want {
			t.Errorf("Next(Regular, %q) = %q, want %q", tt.highest, got, tt.want)
		}
	}
}

func TestNext_Guest(t *testing.T) {
	tests := []struct {
		highest string
		want    string
	}{
		{"", "T001"},
		{"T001", "T002"},
		{"T009", "T010"},
		{"T999", "T1000"},
	}
	for _, tt := range tests {
		got, err := Next(Guest, tt.highest)
		if err != nil {
			t.Fatalf("Next(Guest, %q) error: %v", tt.highest, err)
		}
		if got != tt.want {
			t.Errorf("Next(Guest, %q) = %q, want %q", tt.highest, got, tt.want)
		}
	}
}

func TestNext_Malformed(t *testing.T) {
	if _, err := Next(Regular, "T001"); err == nil {
		t.Error("expected error for guest id in regular sequence")
	}
	if _, err := Next(Guest, "0001"); err == nil {
		t.Error("expected error for regular id in guest sequence")
	}
	if _, err := Next(Guest, "T"); err == nil {
		t.Error("expected error for bare prefix")
	}
	if _, err := Next(Regular, "12ab"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestCategoryFor(t *testing.T) {
	if CategoryFor("guest") != Guest {
		t.Error("guest member type should map to Guest")
	}
	for _, mt := range []string{"ordinary", "life", "associate", "honorary", "overseas", ""} {
		if CategoryFor(mt) != Regular {
			t.Errorf("member type %q should map to Regular", mt)
		}
	}
}

func TestSequences_Disjoint(t *testing.T) {
	// The same numeric position renders differently per category, so the
	// two sequences can never collide.
	for n := 1; n < 50; n++ {
		if Render(Regular, n) == Render(Guest, n) {
			t.Fatalf("sequences collide at %d", n)
		}
	}
}
