// internal/storage/store.go

// Package storage proxies media bytes to Supabase Storage, assigning each
// object a unique name and returning a dereferenceable URL. When no backend
// is configured it falls back to a temp-media directory under the served
// root.
package storage

import (
	"context"
	"log"

	"github.com/propreach/outreach-backend/internal/apperrors"
	"github.com/propreach/outreach-backend/internal/model"
)

// Store routes uploads to Supabase with a local-disk fallback.
type Store struct {
	Supabase *SupabaseClient
	Local    *LocalStore
}

// NewStore builds the storage proxy. Local may be nil to disable fallback.
func NewStore(supabase *SupabaseClient, local *LocalStore) *Store {
	return &Store{Supabase: supabase, Local: local}
}

// Put stores data under a freshly generated name and returns the media
// reference. contentType is inferred from ext when empty.
func (s *Store) Put(ctx context.Context, data []byte, ext, bucket, contentType string) (model.MediaReference, error) {
	if contentType == "" {
		contentType = ContentTypeFor(ext)
	}
	return s.PutNamed(ctx, data, GenerateName(ext), bucket, contentType)
}

// PutNamed stores data under a caller-chosen name, for callers that track
// uploads by prospect. The same fallback rules apply.
func (s *Store) PutNamed(ctx context.Context, data []byte, name, bucket, contentType string) (model.MediaReference, error) {
	url, err := s.Supabase.Upload(ctx, data, name, bucket, contentType)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindBackendUnavailable || s.Local == nil {
			return model.MediaReference{}, err
		}
		log.Println("⚠️ object store unavailable, falling back to local disk:", err)
		url, err = s.Local.Upload(ctx, data, name)
		if err != nil {
			return model.MediaReference{}, err
		}
	}
	return model.MediaReference{StorageKey: name, PublicURL: url, ContentType: contentType}, nil
}
