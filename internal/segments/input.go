package segments

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/antonholmquist/jason"

	"github.com/albatross-proto/albatross-data/internal/errors"
)

// ReadInput returns the raw submission from path, or from stdin when path is
// empty. A path that does not exist is reported with CategoryNotFound.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		if stdin == nil {
			return nil, errors.Newf("no input file and no standard input").
				Component("segments").
				Category(errors.CategoryFileIO).
				Build()
		}
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.New(fmt.Errorf("error reading standard input: %w", err)).
				Component("segments").
				Category(errors.CategoryFileIO).
				Build()
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		category := errors.CategoryFileIO
		if os.IsNotExist(err) {
			category = errors.CategoryNotFound
		}
		return nil, errors.New(fmt.Errorf("cannot read %s: %w", path, err)).
			Component("segments").
			Category(category).
			FileContext(path, 0).
			Build()
	}
	return raw, nil
}

// Parse decodes raw as a single JSON value. Surrounding whitespace is allowed;
// anything after the value is a parse error. Numbers keep their literal form.
func Parse(raw []byte) (*jason.Value, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, parseError(err)
	}

	v, err := jason.NewValueFromBytes(probe)
	if err != nil {
		return nil, parseError(err)
	}
	return v, nil
}

func parseError(err error) error {
	return errors.New(fmt.Errorf("invalid JSON: %w", err)).
		Component("segments").
		Category(errors.CategoryParse).
		Build()
}
