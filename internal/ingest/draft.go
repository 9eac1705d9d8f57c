package ingest

import (
	"context"
	"io"

	"booructl/internal/booru"
	"booructl/internal/sidecar"
)

// API is the slice of the transport layer the reconciliation pipeline
// consumes. *booru.Client satisfies it.
type API interface {
	UploadTemporaryFile(ctx context.Context, filename string, content io.Reader) (string, error)
	ReverseSearch(ctx context.Context, contentToken string) (*booru.ReverseSearchResult, error)
	GetPost(ctx context.Context, id booru.PostID) (*booru.Post, error)
	CreatePost(ctx context.Context, draft *booru.CreateUpdatePost) (*booru.Post, error)
	UpdatePost(ctx context.Context, id booru.PostID, draft *booru.CreateUpdatePost) (*booru.Post, error)
	MergePosts(ctx context.Context, req *booru.MergeRequest) (*booru.Post, error)
	CreatePostPool(ctx context.Context, req *booru.CreatePool) (*booru.Pool, error)
}

// Draft is the in-memory, not-yet-submitted representation of a post's
// editable fields. Constructed fresh per file, mutated only during the
// single merge step, then consumed exactly once by a create or update call.
type Draft struct {
	Tags         []string
	Safety       booru.Safety
	Source       string
	Relations    []booru.PostID
	ContentToken string
	Version      *int64
}

func draftFromMetadata(meta *sidecar.Metadata, contentToken string) *Draft {
	return &Draft{
		Tags:         meta.Tags,
		Safety:       meta.Safety,
		Source:       meta.Source,
		ContentToken: contentToken,
	}
}

// createPayload serializes the draft for the create-new path. Uploads are
// never anonymous.
func (d *Draft) createPayload() *booru.CreateUpdatePost {
	anonymous := false
	return &booru.CreateUpdatePost{
		Tags:         d.Tags,
		Safety:       d.Safety,
		Source:       d.Source,
		Relations:    d.Relations,
		ContentToken: d.ContentToken,
		Anonymous:    &anonymous,
	}
}
