package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/teamfit/internal/domain/zodiac"
)

func TestDecodeProfiles(t *testing.T) {
	ps, err := DecodeProfiles(strings.NewReader(`
profiles:
  - id: ada
    name: Ada
    sign: aquarius
    active: true
  - id: sam
    sign: Scorpio
    element: water
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(ps))
	}
	if ps[0].Sign != zodiac.Aquarius || !ps[0].Active || ps[0].Name != "Ada" {
		t.Errorf("unexpected first profile %+v", ps[0])
	}
	if ps[1].Element != zodiac.Water || ps[1].Active {
		t.Errorf("unexpected second profile %+v", ps[1])
	}
}

func TestDecodeProfiles_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown sign": "profiles:\n  - id: x\n    sign: ophiuchus\n",
		"unknown key":  "profiles:\n  - id: x\n    sign: leo\n    mood: happy\n",
		"not a list":   "profiles: 3\n",
	} {
		if _, err := DecodeProfiles(strings.NewReader(doc)); !errors.Is(err, ErrDecode) {
			t.Errorf("%s: expected ErrDecode, got %v", name, err)
		}
	}

	ps, err := DecodeProfiles(strings.NewReader(""))
	if err != nil || len(ps) != 0 {
		t.Errorf("expected empty document to yield no profiles, got %v %v", ps, err)
	}
}

func TestLoadProfilesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte("profiles:\n  - id: lee\n    sign: libra\n    active: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	ps, err := LoadProfilesFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 || ps[0].ID != "lee" {
		t.Errorf("unexpected profiles %v", ps)
	}

	if _, err := LoadProfilesFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}
