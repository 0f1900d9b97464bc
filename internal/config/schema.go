package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/calvinalkan/task-manager/config.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add config schema: %w", err)
	}

	return compiler.Compile(schemaURL)
})

// validate checks a decoded config document. Every leaf violation is
// reported, joined, as "<key>: <message>".
func validate(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	var errs []error

	collectSchemaErrors(ve, &errs)

	if len(errs) == 0 {
		return errors.New(ve.Message)
	}

	return errors.Join(errs...)
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]error) {
	if len(ve.Causes) == 0 {
		*errs = append(*errs, fmt.Errorf("%s: %s", pointerToKey(ve.InstanceLocation), ve.Message))

		return
	}

	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// pointerToKey turns a JSON pointer like "/log_level" into "log_level".
func pointerToKey(ptr string) string {
	key := strings.TrimPrefix(ptr, "/")
	if key == "" {
		return "config"
	}

	return strings.ReplaceAll(key, "/", ".")
}
