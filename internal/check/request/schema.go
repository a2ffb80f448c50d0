package request

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"onboard/internal/check/models"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	schemasOnce sync.Once
	schemas     map[models.PayloadKind]*gojsonschema.Schema
	schemasErr  error
)

func loadSchemas() (map[models.PayloadKind]*gojsonschema.Schema, error) {
	schemasOnce.Do(func() {
		out := make(map[models.PayloadKind]*gojsonschema.Schema)
		for _, kind := range []models.PayloadKind{
			models.PayloadIdentityScreening,
			models.PayloadElectronicVerification,
			models.PayloadBusinessVerification,
		} {
			data, err := schemaFiles.ReadFile("schemas/" + string(kind) + ".json")
			if err != nil {
				schemasErr = fmt.Errorf("read schema %s: %w", kind, err)
				return
			}
			s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", kind, err)
				return
			}
			out[kind] = s
		}
		schemas = out
	})
	return schemas, schemasErr
}

// checkSchema verifies p against the provider schema for its kind.
func checkSchema(p models.Payload) error {
	all, err := loadSchemas()
	if err != nil {
		return err
	}
	s, ok := all[p.Kind]
	if !ok {
		return fmt.Errorf("no schema for payload kind %q", p.Kind)
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(p))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload %s failed schema: %s", p.Kind, strings.Join(errs, "; "))
	}
	return nil
}
