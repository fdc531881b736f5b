package keychain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseKdfParams decodes KDF parameters from the server's JSON policy or a
// YAML profile. Both a bare object and one nested under a "kdf" key are
// accepted. A document without any parameters is an error; the result is
// validated.
func ParseKdfParams(data []byte) (KdfParams, error) {
	var doc struct {
		KdfParams `yaml:",inline"`
		Kdf       *KdfParams `yaml:"kdf"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return KdfParams{}, &MalformedInputError{Field: "kdf params", Err: err}
	}

	params := doc.KdfParams
	if doc.Kdf != nil {
		params = *doc.Kdf
	}
	if params == (KdfParams{}) {
		return KdfParams{}, &MalformedInputError{Field: "kdf params", Err: fmt.Errorf("no n, r, p or bits found")}
	}
	if err := params.Validate(); err != nil {
		return KdfParams{}, err
	}
	return params, nil
}

// LoadKdfParams reads a profile file and parses it with ParseKdfParams.
func LoadKdfParams(path string) (KdfParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KdfParams{}, fmt.Errorf("read kdf profile: %w", err)
	}
	return ParseKdfParams(data)
}
