/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/readmescope/readmescope/evaluate/pipeline"
)

var (
	eventsSchemaOnce sync.Once
	eventsSchemaData []byte
	eventsSchemaErr  error
)

// eventsSchemaJSON reflects the stream-event wire contract into a JSON
// Schema document, once per process. Clients use it to generate typed
// consumers of the SSE stream.
func eventsSchemaJSON() ([]byte, error) {
	eventsSchemaOnce.Do(func() {
		reflector := &jsonschema.Reflector{}
		schema := reflector.Reflect(&pipeline.StreamEvent{})
		schema.ID = "https://readmescope.dev/schemas/stream-events.schema.json"
		schema.Title = "Evaluation stream events"
		eventsSchemaData, eventsSchemaErr = json.MarshalIndent(schema, "", "  ")
	})
	return eventsSchemaData, eventsSchemaErr
}
