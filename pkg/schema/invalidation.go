package schema

const InvalidationSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "invalidation",
	"fields" : [
		{"name": "tag", "type": "string"},
		{"name": "topic", "type": "string"},
		{"name": "occurred_at", "type": "long"}
	]
}`

// InvalidationV1 announces that cached responses carrying Tag are stale.
// OccurredAt is in unix milliseconds.
type InvalidationV1 struct {
	Tag        string `avro:"tag"`
	Topic      string `avro:"topic"`
	OccurredAt int64  `avro:"occurred_at"`
}
