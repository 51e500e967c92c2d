package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers prefix keys by entity kind so different entities never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// NodeAggregateID returns a stable aggregate identifier for a node path
// inside a site, e.g. ("neosdemo", "/features/multi-column").
func NodeAggregateID(site, path string) string {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	return UUID("cmsui:node:" + strings.ToLower(strings.TrimSpace(site)) + ":" + path).String()
}

// ContentStreamID returns the content stream identifier backing a workspace.
func ContentStreamID(workspace string) string {
	return UUID("cmsui:content_stream:" + strings.TrimSpace(workspace)).String()
}

// NodeRecordID returns the storage key of a node row, unique per content
// stream, dimension point hash and aggregate id.
func NodeRecordID(contentStream, dimensionHash, aggregateID string) uuid.UUID {
	return UUID("cmsui:node_record:" + contentStream + ":" + dimensionHash + ":" + aggregateID)
}
