package service

import "testing"

func TestTrailingNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOk bool
	}{
		{"KTMN001", 1, true},
		{"KTMN099", 99, true},
		{"MNTKTM012", 12, true},
		{"007", 7, true},
		{"KTMN", 0, false},
		{"", 0, false},
		{"N12A", 0, false},
	}
	for _, tt := range tests {
		got, ok := trailingNumber(tt.in)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("trailingNumber(%q) = %d, %t, want %d, %t", tt.in, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestNextCounterFallsBackToOne(t *testing.T) {
	if got := nextCounter("KTMN009"); got != 10 {
		t.Errorf("nextCounter(KTMN009) = %d, want 10", got)
	}
	// numbering must never block on a malformed predecessor
	if got := nextCounter("garbage"); got != 1 {
		t.Errorf("nextCounter(garbage) = %d, want 1", got)
	}
}

func TestSequenceFormats(t *testing.T) {
	if got := formatNormalInvoice("KTM", 7); got != "KTMN007" {
		t.Errorf("formatNormalInvoice = %q", got)
	}
	if got := formatNormalInvoice("KTM", 1234); got != "KTMN1234" {
		t.Errorf("formatNormalInvoice overflow = %q", got)
	}
	if got := formatFactoryInvoice("KTM", 5, 3); got != "KTM053" {
		t.Errorf("formatFactoryInvoice = %q", got)
	}
	if got := formatMntNumber("KTM", 12); got != "MNTKTM012" {
		t.Errorf("formatMntNumber = %q", got)
	}
	if got := formatRefractionNumber(4); got != "004" {
		t.Errorf("formatRefractionNumber = %q", got)
	}
}

func TestFactoryCounterRoundTrip(t *testing.T) {
	tests := []struct {
		num    string
		prefix string
		day    int
		want   int
		wantOk bool
	}{
		{"KTM053", "KTM", 5, 3, true},
		{"KTM0512", "KTM", 5, 12, true},
		{"KTM05", "KTM", 5, 0, false},   // no counter part
		{"PKRN001", "KTM", 5, 0, false}, // other branch
		{"KTM063", "KTM", 5, 0, false},  // other day
	}
	for _, tt := range tests {
		got, ok := factoryCounter(tt.num, tt.prefix, tt.day)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("factoryCounter(%q, %q, %d) = %d, %t, want %d, %t",
				tt.num, tt.prefix, tt.day, got, ok, tt.want, tt.wantOk)
		}
	}
}
