package version

import "testing"

func TestString(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "v1.2.3", ""
	if got := String(); got != "v1.2.3" {
		t.Errorf("String() = %q", got)
	}

	Commit = "abc123"
	if got := String(); got != "v1.2.3 (abc123)" {
		t.Errorf("String() = %q", got)
	}
	if got := UserAgent(); got != "mtg-manabase/v1.2.3" {
		t.Errorf("UserAgent() = %q", got)
	}
}
