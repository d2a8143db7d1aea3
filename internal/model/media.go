// internal/model/media.go
package model

// MediaReference points at an uploaded media object.
type MediaReference struct {
	StorageKey  string `json:"storageKey"`
	PublicURL   string `json:"publicUrl"`
	ContentType string `json:"contentType"`
}
