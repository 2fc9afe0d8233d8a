package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeVideo = "video/"
	MimeImage = "image/"
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}
)
