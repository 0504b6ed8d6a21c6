package tiles

import "testing"

func TestURLTemplateExpand(t *testing.T) {
	tests := []struct {
		name string
		tmpl URLTemplate
		tile Tile
		want string
	}{
		{
			name: "rotating subdomain",
			tmpl: URLTemplate{Pattern: "http://{s}.tile.thunderforest.com/landscape/{z}/{x}/{y}.png"},
			tile: Tile{X: 274, Y: 179, Zoom: 9},
			want: "http://a.tile.thunderforest.com/landscape/9/274/179.png",
		},
		{
			name: "next subdomain",
			tmpl: URLTemplate{Pattern: "http://{s}.example.com/{z}/{x}/{y}.png"},
			tile: Tile{X: 1, Y: 0, Zoom: 1},
			want: "http://b.example.com/1/1/0.png",
		},
		{
			name: "negative column",
			tmpl: URLTemplate{Pattern: "{s}", Subdomains: "xyz"},
			tile: Tile{X: -2, Y: 0, Zoom: 3},
			want: "z",
		},
		{
			name: "retina placeholder dropped",
			tmpl: URLTemplate{Pattern: "http://tile.stamen.com/toner/{z}/{x}/{y}{r}.png"},
			tile: Tile{X: 3, Y: 5, Zoom: 4},
			want: "http://tile.stamen.com/toner/4/3/5.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tmpl.Expand(tt.tile); got != tt.want {
				t.Errorf("Expand() = %q, want %q", got, tt.want)
			}
		})
	}
}
