package data

import (
	"io/fs"
	"testing"

	"github.com/olablt/gio-geomap/geo"
)

func TestCollectionsLoad(t *testing.T) {
	tests := []struct {
		file     string
		features int
	}{
		{FederalStateFile, 1},
		{SummitsFile, 3},
		{WalkFile, 1},
		{NatParksFile, 4},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			raw, err := fs.ReadFile(FS, tt.file)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			c, err := geo.Load(tt.file, raw)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(c.Features) != tt.features {
				t.Errorf("expected %d features, got %d", tt.features, len(c.Features))
			}
			for i, f := range c.Features {
				if f.Properties.Name == nil {
					t.Errorf("feature %d has no NAME", i)
				}
			}
		})
	}
}

func TestIconsPresent(t *testing.T) {
	for _, name := range []string{HouseIcon, SummitIcon} {
		if _, err := fs.Stat(FS, name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
