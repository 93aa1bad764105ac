package textutil

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Doblaje Español (Latino).mp3", "Doblaje_Espanol_Latino"},
		{"/media/dubs/Tom & Jerry [v2].mkv", "Tom_and_Jerry_v2"},
		{"a  b  c.wav", "a_b_c"},
		{"__x__.flac", "x"},
		{"¿Qué?.m4a", "¿Que"},
		{"!!!.mp3", "unnamed"},
		{"", "unnamed"},
		{"no_extension", "no_extension"},
		{"track.01.final.wav", "track.01.final"},
	}
	for _, tt := range tests {
		if got := CleanName(tt.in); got != tt.want {
			t.Fatalf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldAccents(t *testing.T) {
	if got := FoldAccents("Ñandú àéîõü"); got != "Nandu aeiou" {
		t.Fatalf("FoldAccents = %q", got)
	}
}

func TestUniqueNames(t *testing.T) {
	got := UniqueNames([]string{"a b.mp3", "a_b.wav", "A B.flac", "c.mp3", "a_b_2.mp3"})
	want := []string{"a_b", "a_b_2", "A_B_3", "c", "a_b_2_2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UniqueNames()[%d] = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}
