package queue

const TypeDocsIngest = "docs:ingest"

type DocsIngestPayload struct {
	Path string `json:"path"`
}
