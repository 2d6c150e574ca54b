package definition

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/arthur-debert/sifter/pkg/errors"
)

// SupportedVersions is the range of definition versions this build reads.
const SupportedVersions = ">=1.0, <2.0"

// CurrentVersion is written by Scaffold.
const CurrentVersion = "1.0"

const schemaURL = "https://sifter.schemas.local/definition.schema.json"

//go:embed embedded/schema.json
var schemaSource string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON schema definitions are validated against.
func Schema() string { return schemaSource }

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateSchema checks a decoded document. The document goes through JSON
// first so that parser-specific number and map types become plain JSON values.
func validateSchema(raw map[string]interface{}) error {
	s, err := schema()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "definition schema does not compile")
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, errors.ErrDefinitionInvalid, "definition is not representable as JSON")
	}
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return errors.Wrap(err, errors.ErrDefinitionInvalid, "definition is not representable as JSON")
	}

	if err := s.Validate(doc); err != nil {
		return errors.Wrap(err, errors.ErrDefinitionInvalid, "definition does not match the schema")
	}
	return nil
}

func checkVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDefinitionVersion, "invalid definition version %q", version)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "invalid version constraint")
	}
	if !constraint.Check(v) {
		return errors.Newf(errors.ErrDefinitionVersion, "definition version %s is not supported (want %s)", version, SupportedVersions).
			WithDetail("version", version)
	}
	return nil
}
