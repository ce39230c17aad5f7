package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/abhisek/lingua/internal/store"
)

// SchemaVersion is written into every encoded envelope. Envelopes with a
// different major version are rejected.
const SchemaVersion = "v1.0.0"

var (
	// ErrMalformedEnvelope is returned when a payload does not have the
	// envelope shape.
	ErrMalformedEnvelope = errors.New("malformed sync envelope")

	// ErrIncompatibleVersion is returned for an envelope written by an
	// incompatible schema version.
	ErrIncompatibleVersion = errors.New("incompatible sync envelope version")
)

// Envelope is the unit exchanged with remote storage for one language.
type Envelope struct {
	SchemaVersion string             `json:"schema_version,omitempty"`
	Language      string             `json:"language,omitempty"`
	DeviceID      string             `json:"device_id,omitempty"`
	UpdatedAt     int64              `json:"updated_at,omitempty"`
	History       []store.RecordData `json:"history"`
	Due           []string           `json:"due"`

	// Skipped counts history and due entries that could not be decoded.
	Skipped int `json:"-"`
}

// envelopeSchema constrains only the envelope shape. Individual records
// are decoded one by one and bad ones are dropped, so one corrupt record
// cannot hide the rest of the history.
const envelopeSchema = `{
  "type": "object",
  "properties": {
    "schema_version": {"type": "string"},
    "language": {"type": "string"},
    "device_id": {"type": "string"},
    "updated_at": {"type": "integer"},
    "history": {"type": ["array", "null"]},
    "due": {"type": ["array", "null"]}
  }
}`

// wireEnvelope defers decoding of list items so each can fail on its own.
type wireEnvelope struct {
	SchemaVersion string            `json:"schema_version"`
	Language      string            `json:"language"`
	DeviceID      string            `json:"device_id"`
	UpdatedAt     int64             `json:"updated_at"`
	History       []json.RawMessage `json:"history"`
	Due           []json.RawMessage `json:"due"`
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(envelopeSchema)))
	if err != nil {
		return nil, fmt.Errorf("parse envelope schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://envelope.json", doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile("schema://envelope.json")
})

// Decode parses and validates a raw envelope. An empty or null payload
// decodes to nil with no error.
func Decode(raw []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedEnvelope, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	var w wireEnvelope
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if err := checkVersion(w.SchemaVersion); err != nil {
		return nil, err
	}

	env := &Envelope{
		SchemaVersion: w.SchemaVersion,
		Language:      w.Language,
		DeviceID:      w.DeviceID,
		UpdatedAt:     w.UpdatedAt,
	}
	for _, item := range w.History {
		var d store.RecordData
		if err := json.Unmarshal(item, &d); err != nil {
			env.Skipped++
			continue
		}
		env.History = append(env.History, d)
	}
	for _, item := range w.Due {
		var k string
		if err := json.Unmarshal(item, &k); err != nil {
			env.Skipped++
			continue
		}
		env.Due = append(env.Due, k)
	}
	return env, nil
}

// Encode stamps env with SchemaVersion and serializes it.
func Encode(env *Envelope) ([]byte, error) {
	out := *env
	out.SchemaVersion = SchemaVersion
	if out.History == nil {
		out.History = []store.RecordData{}
	}
	if out.Due == nil {
		out.Due = []string{}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return b, nil
}

// checkVersion accepts unversioned envelopes and any version sharing the
// current major.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrIncompatibleVersion, v)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return fmt.Errorf("%w: %s (want %s)", ErrIncompatibleVersion, v, semver.Major(SchemaVersion))
	}
	return nil
}
