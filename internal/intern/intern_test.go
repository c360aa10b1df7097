package intern

import (
	"sync"
	"testing"
)

func TestInternReturnsCanonicalCopy(t *testing.T) {
	in := NewInterner(0)

	a := in.Intern("--phase")
	b := in.Intern("--" + "phase")
	if a != b {
		t.Error("interned strings should be equal")
	}
	if in.Len() != 1 {
		t.Errorf("len = %d", in.Len())
	}
}

func TestInternPreload(t *testing.T) {
	in := NewInterner(8)
	in.Preload([]string{"deploy", "store", "compact"})
	if in.Len() != 3 {
		t.Errorf("len = %d", in.Len())
	}
	if in.Intern("deploy") != "deploy" {
		t.Error("preloaded string should intern to itself")
	}
}

func TestInternConcurrent(t *testing.T) {
	in := NewInterner(0)
	names := []string{"--env", "-e", "--verbose", "-v", "deploy", "store"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				for _, name := range names {
					if got := in.Intern(name); got != name {
						t.Errorf("intern(%q) = %q", name, got)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	if in.Len() != len(names) {
		t.Errorf("len = %d, want %d", in.Len(), len(names))
	}
}

func TestPackageLevelIntern(t *testing.T) {
	if Intern("--batch") != "--batch" {
		t.Error("package-level intern should round-trip")
	}
	Preload([]string{"--table"})
	if Intern("--table") != "--table" {
		t.Error("preload then intern should round-trip")
	}
}
