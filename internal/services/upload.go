package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/packtrace/sdp-backend/internal/ingestion"
	"github.com/packtrace/sdp-backend/internal/platform/azureblob"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

// pendingPrefix marks evidence URLs written while the storage backend was
// unreachable. Rows carrying it get retried out of band.
const pendingPrefix = "pending-azure-upload"

type UploadedFile struct {
	OriginalName string `json:"originalName"`
	BlobName     string `json:"blobName"`
	BlobURL      string `json:"blobUrl"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
}

type UploadError struct {
	FileName string `json:"fileName"`
	Category string `json:"category"`
	Error    string `json:"error"`
}

// UploadResult aggregates one batch. Success stays true while the backend
// is reachable; per-file failures only land in Errors. Only a full fallback
// to pending URLs flips it to false.
type UploadResult struct {
	Success       bool                      `json:"success"`
	UploadedFiles map[string][]UploadedFile `json:"uploadedFiles"`
	Errors        []UploadError             `json:"errors"`
}

func (r *UploadResult) TotalUploaded() int {
	total := 0
	for _, files := range r.UploadedFiles {
		total += len(files)
	}
	return total
}

// UploadService walks the fixed category order and pushes each classified
// file to blob storage. A nil backend puts the whole batch into fallback
// mode instead of failing the ingestion.
type UploadService struct {
	log  *logger.Logger
	blob azureblob.Service
	now  func() time.Time
}

func NewUploadService(log *logger.Logger, blob azureblob.Service) *UploadService {
	return &UploadService{
		log:  log.With("service", "UploadService"),
		blob: blob,
		now:  time.Now,
	}
}

func (s *UploadService) Upload(ctx context.Context, filesByCategory map[string][]ingestion.FileRecord, year, cmCode, skuCode, componentCode string) *UploadResult {
	result := &UploadResult{
		Success:       true,
		UploadedFiles: map[string][]UploadedFile{},
	}

	if s.blob == nil {
		return s.fallback(filesByCategory, result)
	}

	for _, category := range ingestion.Categories {
		files := filesByCategory[category.Name]
		for _, file := range files {
			if len(file.Buffer) == 0 {
				result.Errors = append(result.Errors, UploadError{
					FileName: file.Filename,
					Category: category.Name,
					Error:    "empty or missing file buffer",
				})
				continue
			}
			blobName := dedupeFileName(file.Filename, s.now())
			key := fmt.Sprintf("%s/%s/%s/%s/%s/%s", year, cmCode, skuCode, componentCode, category.Folder, blobName)
			url, err := s.blob.Upload(ctx, category.Container, key, file.Buffer, file.MimeType)
			if err != nil {
				s.log.Warn("Blob upload failed", "file", file.Filename, "category", category.Name, "error", err)
				result.Errors = append(result.Errors, UploadError{
					FileName: file.Filename,
					Category: category.Name,
					Error:    err.Error(),
				})
				continue
			}
			result.UploadedFiles[category.Name] = append(result.UploadedFiles[category.Name], UploadedFile{
				OriginalName: file.OriginalName,
				BlobName:     blobName,
				BlobURL:      url,
				Size:         file.Size,
				MimeType:     file.MimeType,
			})
		}
	}
	return result
}

// fallback still returns an entry per file so evidence metadata can be
// persisted, but every URL is a pending placeholder and Success is false.
func (s *UploadService) fallback(filesByCategory map[string][]ingestion.FileRecord, result *UploadResult) *UploadResult {
	result.Success = false
	for _, category := range ingestion.Categories {
		for _, file := range filesByCategory[category.Name] {
			s.log.Warn("Storage backend unavailable, recording pending upload", "file", file.Filename, "category", category.Name)
			result.UploadedFiles[category.Name] = append(result.UploadedFiles[category.Name], UploadedFile{
				OriginalName: file.OriginalName,
				BlobName:     file.Filename,
				BlobURL:      fmt.Sprintf("%s/%s", pendingPrefix, file.Filename),
				Size:         file.Size,
				MimeType:     file.MimeType,
			})
		}
	}
	return result
}

// dedupeFileName appends a millisecond timestamp before the extension so
// repeated uploads of the same name never collide.
func dedupeFileName(name string, at time.Time) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", base, at.UnixMilli(), ext)
}
