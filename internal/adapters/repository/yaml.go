package repository

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/teamfit/internal/domain/model"
)

// profileFile is the YAML layout of a profile seed file:
//
//	profiles:
//	  - id: ada
//	    name: Ada
//	    sign: aquarius
//	    active: true
type profileFile struct {
	Profiles []model.Profile `yaml:"profiles"`
}

// DecodeProfiles reads a profile seed document. Unknown keys are rejected.
func DecodeProfiles(r io.Reader) ([]model.Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f profileFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Profile{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if f.Profiles == nil {
		f.Profiles = []model.Profile{}
	}
	return f.Profiles, nil
}

// LoadProfilesFile decodes the profile seed file at path.
func LoadProfilesFile(path string) ([]model.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()
	return DecodeProfiles(f)
}
