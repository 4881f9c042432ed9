// Package codec converts store documents to and from the tagged schemas in
// models, validating records on both paths.
package codec

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"cleaningmanager/database/store"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field errors are reported under the
// record's json field names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Decode fills out from doc and validates it. out must be a pointer to a
// struct with mapstructure tags; the document key is decoded into "id".
func Decode(collection string, doc store.Document, out any) error {
	data := make(map[string]any, len(doc.Data)+1)
	for k, v := range doc.Data {
		data[k] = v
	}
	data["id"] = doc.ID

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(data); err != nil {
		return store.Invalid("%s/%s: %v", collection, doc.ID, err)
	}
	if err := Validator().Struct(out); err != nil {
		return store.Invalid("%s/%s: %v", collection, doc.ID, err)
	}
	return nil
}

// Check validates a record before it is written.
func Check(collection string, record any) error {
	if err := Validator().Struct(record); err != nil {
		return store.Invalid("%s: %v", collection, err)
	}
	return nil
}

// Rejected is a stored document that does not match its schema.
type Rejected struct {
	ID   string
	Data map[string]any
	Err  error
}

// DecodeEach decodes every document it can and returns the others as rejected.
func DecodeEach[T any](collection string, docs []store.Document) ([]T, []Rejected) {
	out := make([]T, 0, len(docs))
	var rejected []Rejected
	for _, doc := range docs {
		var record T
		if err := Decode(collection, doc, &record); err != nil {
			rejected = append(rejected, Rejected{ID: doc.ID, Data: doc.Data, Err: err})
			continue
		}
		out = append(out, record)
	}
	return out, rejected
}

// StringField returns data[key] when it holds a string.
func StringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// DecodeAll decodes every document, stopping at the first invalid one.
func DecodeAll[T any](collection string, docs []store.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var record T
		if err := Decode(collection, doc, &record); err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}
