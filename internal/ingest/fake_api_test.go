package ingest

import (
	"context"
	"fmt"
	"io"

	"booructl/internal/booru"
)

// fakeAPI records transport calls and serves canned responses.
type fakeAPI struct {
	uploadToken string
	uploadErr   error
	uploads     []string

	search    *booru.ReverseSearchResult
	searchErr error

	posts  map[booru.PostID]*booru.Post
	getErr error

	created      []*booru.CreateUpdatePost
	createErr    error
	createResult *booru.Post

	updated      map[booru.PostID]*booru.CreateUpdatePost
	updateErr    error
	updateResult *booru.Post

	merges   []*booru.MergeRequest
	mergeErr error

	pools   []*booru.CreatePool
	poolErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		uploadToken: "tok-1",
		search:      &booru.ReverseSearchResult{},
		posts:       make(map[booru.PostID]*booru.Post),
		updated:     make(map[booru.PostID]*booru.CreateUpdatePost),
	}
}

func (f *fakeAPI) UploadTemporaryFile(_ context.Context, filename string, content io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, content)
	f.uploads = append(f.uploads, filename)
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadToken, nil
}

func (f *fakeAPI) ReverseSearch(context.Context, string) (*booru.ReverseSearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.search, nil
}

func (f *fakeAPI) GetPost(_ context.Context, id booru.PostID) (*booru.Post, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	post, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("%w: post %d", booru.ErrNotFound, id)
	}
	return post, nil
}

func (f *fakeAPI) CreatePost(_ context.Context, draft *booru.CreateUpdatePost) (*booru.Post, error) {
	f.created = append(f.created, draft)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &booru.Post{ID: 100}, nil
}

func (f *fakeAPI) UpdatePost(_ context.Context, id booru.PostID, draft *booru.CreateUpdatePost) (*booru.Post, error) {
	f.updated[id] = draft
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateResult != nil {
		return f.updateResult, nil
	}
	return &booru.Post{ID: id}, nil
}

func (f *fakeAPI) MergePosts(_ context.Context, req *booru.MergeRequest) (*booru.Post, error) {
	f.merges = append(f.merges, req)
	if f.mergeErr != nil {
		return nil, f.mergeErr
	}
	return &booru.Post{ID: req.MergeToPost}, nil
}

func (f *fakeAPI) CreatePostPool(_ context.Context, req *booru.CreatePool) (*booru.Pool, error) {
	f.pools = append(f.pools, req)
	if f.poolErr != nil {
		return nil, f.poolErr
	}
	return &booru.Pool{ID: 7, Names: req.Names, Posts: req.Posts}, nil
}
