package organize

import "testing"

func TestExcludeSet(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		want     bool
	}{
		{"no patterns", nil, "a.txt", false, false},
		{"blank pattern", []string{"  "}, "a.txt", false, false},
		{"basename glob", []string{"*.part"}, "downloads/movie.part", false, true},
		{"basename glob miss", []string{"*.part"}, "downloads/movie.mkv", false, false},
		{"exact name", []string{"Thumbs.db"}, "photos/Thumbs.db", false, true},
		{"directory pattern on dir", []string{"node_modules/"}, "web/node_modules", true, true},
		{"directory pattern on file name", []string{"node_modules/"}, "web/node_modules", false, false},
		{"file under directory pattern", []string{".git/"}, "repo/.git/config.txt", false, true},
		{"path glob", []string{"downloads/*.tmp"}, "downloads/a.tmp", false, true},
		{"path glob other dir", []string{"downloads/*.tmp"}, "other/a.tmp", false, false},
		{"deep pattern", []string{"**/cache/*"}, "a/b/cache/x.bin", false, true},
		{"deep pattern at top", []string{"**/cache/*"}, "cache/x.bin", false, true},
		{"deep basename", []string{"**/*.bak"}, "a/b/c.bak", false, true},
		{"pattern with surrounding space", []string{" *.tmp "}, "a.tmp", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newExcludeSet(tt.patterns)
			if got := s.match(tt.path, tt.isDir); got != tt.want {
				t.Errorf("match(%q, %v) = %v, want %v", tt.path, tt.isDir, got, tt.want)
			}
		})
	}
}
