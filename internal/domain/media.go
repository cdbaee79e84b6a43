package domain

import "time"

// MediaType вид файла в медиатеке
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// MediaStatus состояние модерации
type MediaStatus string

const (
	MediaPending  MediaStatus = "pending"
	MediaApproved MediaStatus = "approved"
	MediaRejected MediaStatus = "rejected"
)

// Valid известный ли статус
func (s MediaStatus) Valid() bool {
	switch s {
	case MediaPending, MediaApproved, MediaRejected:
		return true
	}
	return false
}

// MediaMetadata описательные поля файла
type MediaMetadata struct {
	Title       string   `json:"title,omitempty" yaml:"title"`
	Alt         string   `json:"alt,omitempty" yaml:"alt"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
}

// MediaItem файл медиатеки. Загрузка вне этого сервиса, здесь только учёт и модерация.
type MediaItem struct {
	ID         string        `json:"id"`
	URL        string        `json:"url"`
	Name       string        `json:"name"`
	Type       MediaType     `json:"type"`
	SizeKB     int           `json:"size"`
	UploadedBy string        `json:"uploaded_by"`
	Status     MediaStatus   `json:"status"`
	Metadata   MediaMetadata `json:"metadata"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Clone копия без общих срезов
func (m MediaItem) Clone() MediaItem {
	cp := m
	cp.Metadata.Tags = append([]string(nil), m.Metadata.Tags...)
	return cp
}
