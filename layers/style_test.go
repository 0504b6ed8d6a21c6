package layers

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#666", want: color.NRGBA{0x66, 0x66, 0x66, 0xff}},
		{in: "#D34137", want: color.NRGBA{0xd3, 0x41, 0x37, 0xff}},
		{in: "ff9985", want: color.NRGBA{0xff, 0x99, 0x85, 0xff}},
		{in: "#12345", wantErr: true},
		{in: "#ggg", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultPathStyle(t *testing.T) {
	s := DefaultPathStyle()
	if s.Color != MustHex("#3388ff") || s.Weight != 3 || s.Opacity != 1 || !s.Fill {
		t.Errorf("unexpected default style %+v", s)
	}
	fill := s.FillPaint()
	if fill.R != 0x33 || fill.G != 0x88 || fill.B != 0xff || fill.A != 51 {
		t.Errorf("FillPaint() = %v, want #3388ff at 20%%", fill)
	}

	s.FillColor = MustHex("#000")
	s.FillOpacity = 1
	if got := s.FillPaint(); got != (color.NRGBA{A: 0xff}) {
		t.Errorf("explicit FillColor ignored: %v", got)
	}
}

func TestStrokeColorClampsOpacity(t *testing.T) {
	s := Style{Color: MustHex("#ffffff"), Opacity: 1.5}
	if a := s.StrokeColor().A; a != 0xff {
		t.Errorf("alpha = %d, want 255", a)
	}
	s.Opacity = 0.65
	if a := s.StrokeColor().A; a != 166 {
		t.Errorf("alpha = %d, want 166", a)
	}
}

func TestMustHexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	MustHex("nope")
}
