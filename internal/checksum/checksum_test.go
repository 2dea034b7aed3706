package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

const emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func TestSum(t *testing.T) {
	got := Sum([]byte("lifeflow"))
	if len(got) != 64 {
		t.Fatalf("len = %d, want 64", len(got))
	}
	if got == Sum([]byte("lifeflow ")) {
		t.Error("different input produced the same digest")
	}
	if Sum(nil) != emptySHA {
		t.Errorf("Sum(nil) = %s", Sum(nil))
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	if err := os.WriteFile(path, []byte("lifeflow"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := File(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != Sum([]byte("lifeflow")) {
		t.Errorf("File = %s, want Sum of contents", got)
	}

	if _, err := File(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestMatch(t *testing.T) {
	sum := Sum([]byte("x"))
	cases := []struct {
		header string
		want   bool
	}{
		{ETag(sum), true},
		{sum, true},
		{"W/" + ETag(sum), true},
		{`"other", ` + ETag(sum), true},
		{"*", true},
		{`"other"`, false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Match(tc.header, sum); got != tc.want {
			t.Errorf("Match(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}
