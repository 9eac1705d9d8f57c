package booru

// PostID is the server-assigned post identifier. Stable once assigned.
type PostID int64

// Safety is the post safety rating vocabulary used on the wire.
type Safety string

const (
	SafetySafe    Safety = "safe"
	SafetySketchy Safety = "sketchy"
	SafetyUnsafe  Safety = "unsafe"
)

// TagResource is a tag as returned inside a post resource. Only the first
// name is authoritative for reconciliation.
type TagResource struct {
	Names    []string `json:"names"`
	Category string   `json:"category"`
}

// MicroPost is the compact post reference used inside relation lists.
type MicroPost struct {
	ID PostID `json:"id"`
}

// Post is the authoritative server-side state of a post. Version is a
// pointer because some endpoints omit it; reconciliation must treat an
// absent version as fatal rather than guessing.
type Post struct {
	ID        PostID        `json:"id"`
	Version   *int64        `json:"version"`
	Safety    Safety        `json:"safety"`
	Source    string        `json:"source"`
	Tags      []TagResource `json:"tags"`
	Relations []MicroPost   `json:"relations"`
}

// TagNames flattens the post's tag resources to their primary names.
func (p *Post) TagNames() []string {
	if p == nil || len(p.Tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		if len(tag.Names) > 0 {
			names = append(names, tag.Names[0])
		}
	}
	return names
}

// RelationIDs flattens the post's relation references to their IDs.
func (p *Post) RelationIDs() []PostID {
	if p == nil || len(p.Relations) == 0 {
		return nil
	}
	ids := make([]PostID, 0, len(p.Relations))
	for _, rel := range p.Relations {
		ids = append(ids, rel.ID)
	}
	return ids
}

// SimilarPost is one ranked reverse-search candidate. Distance is a
// similarity score in [0,1]; higher means closer.
type SimilarPost struct {
	Distance float64 `json:"distance"`
	Post     Post    `json:"post"`
}

// ReverseSearchResult is the server's duplicate-detection verdict for one
// uploaded file: an optional byte-identical match plus ranked near matches.
type ReverseSearchResult struct {
	ExactPost    *Post         `json:"exactPost"`
	SimilarPosts []SimilarPost `json:"similarPosts"`
}

// TemporaryUpload is the handle returned after uploading raw bytes.
type TemporaryUpload struct {
	Token string `json:"token"`
}

// CreateUpdatePost is the request body for post create and update calls.
// Absent fields are omitted from the payload and left untouched server-side.
type CreateUpdatePost struct {
	Version      *int64   `json:"version,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Safety       Safety   `json:"safety,omitempty"`
	Source       string   `json:"source,omitempty"`
	Relations    []PostID `json:"relations,omitempty"`
	ContentToken string   `json:"contentToken,omitempty"`
	Anonymous    *bool    `json:"anonymous,omitempty"`
}

// MergeRequest merges RemovePost into MergeToPost, deleting the former.
// Both versions are required by the server's optimistic locking.
type MergeRequest struct {
	RemovePostVersion int64  `json:"removePostVersion"`
	RemovePost        PostID `json:"removePost"`
	MergeToVersion    int64  `json:"mergeToVersion"`
	MergeToPost       PostID `json:"mergeToPost"`
	ReplaceContent    bool   `json:"replacePostContent"`
}

// CreatePool is the request body for pool creation.
type CreatePool struct {
	Names []string `json:"names"`
	Posts []PostID `json:"posts,omitempty"`
}

// Pool is the pool resource returned by the server.
type Pool struct {
	ID    int64    `json:"id"`
	Names []string `json:"names"`
	Posts []PostID `json:"posts"`
}
