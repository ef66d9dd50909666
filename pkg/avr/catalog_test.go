package avr

import (
	"reflect"
	"testing"
)

func TestCatalogProbeOrder(t *testing.T) {
	c := newCatalog()
	c.add("00", "TV", true)
	c.add("05", "PHONO", false)
	c.add("19", "BD", true)

	if !c.Built() {
		t.Fatal("catalog with entries must report built")
	}

	id, ok := c.IDForName("PHONO")
	if !ok || id != "05" {
		t.Errorf("IDForName(PHONO) = %q, %v", id, ok)
	}
	name, ok := c.NameForID("19")
	if !ok || name != "BD" {
		t.Errorf("NameForID(19) = %q, %v", name, ok)
	}
	if _, ok := c.NameForID("42"); ok {
		t.Error("unpopulated slot resolved")
	}
}

func TestCatalogNamesFiltering(t *testing.T) {
	c := newCatalog()
	c.add("00", "TV", true)
	c.add("05", "PHONO", false)
	c.add("19", "BD", true)

	tests := []struct {
		name        string
		enabledOnly bool
		disabled    []string
		want        []string
	}{
		{"unfiltered", false, nil, []string{"TV", "PHONO", "BD"}},
		{"enabled only", true, nil, []string{"TV", "BD"}},
		{"disabled list", false, []string{"BD"}, []string{"TV", "PHONO"}},
		{"both", true, []string{"TV"}, []string{"BD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Names(tt.enabledOnly, tt.disabled)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Names(%v, %v) = %v, want %v", tt.enabledOnly, tt.disabled, got, tt.want)
			}
		})
	}
}

func TestStaticCatalog(t *testing.T) {
	c := newStaticCatalog(map[string]string{
		"CD":    "01",
		"TUNER": "02",
		"TV":    "05",
	})

	if !c.Built() {
		t.Fatal("static catalog must report built")
	}

	// No enabled flags were collected: enabled-only filtering must not
	// hide anything.
	got := c.Names(true, nil)
	want := []string{"CD", "TUNER", "TV"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestEmptyCatalog(t *testing.T) {
	c := newCatalog()
	if c.Built() {
		t.Error("empty catalog reports built")
	}
	if names := c.Names(true, nil); len(names) != 0 {
		t.Errorf("empty catalog lists %v", names)
	}
}
