package citation

import "testing"

func TestStorageKey(t *testing.T) {
	tests := []struct {
		name string
		cite Citation
		want string
	}{
		{
			name: "federal with subsection path",
			cite: Citation{Jurisdiction: "us", Code: "26", Section: "32", SubsectionPath: []string{"a", "1", "A"}},
			want: "statute/26/32/a/1/A",
		},
		{
			name: "federal section only",
			cite: Citation{Jurisdiction: "us", Code: "26", Section: "32"},
			want: "statute/26/32",
		},
		{
			name: "federal regulation",
			cite: Citation{Jurisdiction: "us", DocType: DocRegulation, Code: "26", Section: "601.602", SubsectionPath: []string{"a"}},
			want: "regulation/26/601.602/a",
		},
		{
			name: "state keeps jurisdiction prefix",
			cite: Citation{Jurisdiction: "us-ca", Code: "RTC", Section: "17041"},
			want: "us-ca/statute/RTC/17041",
		},
		{
			name: "canada",
			cite: Citation{Jurisdiction: "ca", Code: "I-3.3", Section: "32", SubsectionPath: []string{"1", "a"}},
			want: "ca/statute/I-3.3/32/1/a",
		},
		{
			name: "uk",
			cite: Citation{Jurisdiction: "uk", Code: "ukpga/2003/1", Section: "62", UKType: "ukpga", UKYear: 2003, UKNumber: 1},
			want: "uk/statute/ukpga/2003/1/62",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cite.StorageKey(); got != tt.want {
				t.Errorf("StorageKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSectionKey(t *testing.T) {
	cite := Citation{Jurisdiction: "us", Code: "26", Section: "32", SubsectionPath: []string{"a", "1", "A"}}
	if got := cite.SectionKey(); got != "statute/26/32" {
		t.Errorf("SectionKey() = %q, want %q", got, "statute/26/32")
	}

	// Section keys ignore the subsection path entirely.
	if cite.SectionKey() != cite.SectionCitation().StorageKey() {
		t.Error("SectionKey should equal the storage key of the section citation")
	}
}

func TestEqual(t *testing.T) {
	a := Citation{Jurisdiction: "us", Code: "26", Section: "32", SubsectionPath: []string{"a", "1"}}
	b := Citation{Jurisdiction: "us", DocType: DocStatute, Code: "26", Section: "32", SubsectionPath: []string{"a", "1"}}
	if !a.Equal(b) {
		t.Error("empty DocType should equal explicit statute")
	}

	c := b
	c.SubsectionPath = []string{"a", "2"}
	if a.Equal(c) {
		t.Error("different subsection paths must not be equal")
	}

	d := b
	d.SubsectionPath = []string{"a"}
	if a.Equal(d) {
		t.Error("shorter subsection path must not be equal")
	}

	e := b
	e.Section = "320"
	if a.Equal(e) {
		t.Error("sections 32 and 320 must not be equal")
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key  string
		want Citation
	}{
		{
			key:  "statute/26/32/a/1/A",
			want: Citation{Jurisdiction: "us", DocType: DocStatute, Code: "26", Section: "32", SubsectionPath: []string{"a", "1", "A"}},
		},
		{
			key:  "regulation/26/601.602",
			want: Citation{Jurisdiction: "us", DocType: DocRegulation, Code: "26", Section: "601.602"},
		},
		{
			key:  "us-ca/statute/RTC/17041",
			want: Citation{Jurisdiction: "us-ca", DocType: DocStatute, Code: "RTC", Section: "17041"},
		},
		{
			key: "uk/statute/ukpga/2003/1/62",
			want: Citation{
				Jurisdiction: "uk", DocType: DocStatute, Code: "ukpga/2003/1",
				Section: "62", UKType: "ukpga", UKYear: 2003, UKNumber: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := ParseKey(tt.key)
			if err != nil {
				t.Fatalf("ParseKey(%q) failed: %v", tt.key, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseKey(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	cites := []Citation{
		{Jurisdiction: "us", Code: "26", Section: "32", SubsectionPath: []string{"a", "1", "A"}},
		{Jurisdiction: "us-ny", Code: "TAX", Section: "601"},
		{Jurisdiction: "ca", Code: "I-3.3", Section: "32", SubsectionPath: []string{"1", "a"}},
		{Jurisdiction: "uk", Code: "ukpga/2003/1", Section: "62", UKType: "ukpga", UKYear: 2003, UKNumber: 1},
	}
	for _, c := range cites {
		got, err := ParseKey(c.StorageKey())
		if err != nil {
			t.Fatalf("ParseKey(%q) failed: %v", c.StorageKey(), err)
		}
		if !got.Equal(c) {
			t.Errorf("ParseKey(StorageKey) = %+v, want %+v", got, c)
		}
	}
}

func TestParseKeyInvalid(t *testing.T) {
	for _, key := range []string{"", "statute", "bogus/26/32", "uk/statute/ukpga/20xx/1"} {
		if _, err := ParseKey(key); err == nil {
			t.Errorf("ParseKey(%q) should fail", key)
		}
	}
}

func TestJurisdictionName(t *testing.T) {
	if got := JurisdictionName("us-ca"); got != "California" {
		t.Errorf("JurisdictionName(us-ca) = %q", got)
	}
	if got := JurisdictionName("zz"); got != "zz" {
		t.Errorf("unknown jurisdiction should fall back to ID, got %q", got)
	}
}
