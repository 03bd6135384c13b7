package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/techagentng/ain/db"
	apiError "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"go.uber.org/zap"
)

const (
	MaxUploadSize  = 32 << 20
	thumbnailSize  = 320
	thumbnailAlias = "thumb_"
)

var (
	errFileTooLarge  = apiError.New("file too large", http.StatusRequestEntityTooLarge)
	errNoFile        = apiError.New("No file uploaded", http.StatusBadRequest)
	errInvalidUpload = apiError.New("invalid file name", http.StatusBadRequest)
)

type AttachmentService interface {
	Upload(ctx context.Context, reportID uuid.UUID, header *multipart.FileHeader) (*models.Attachment, *apiError.Error)
	Locate(storedName string) (string, bool, *apiError.Error)
}

type attachmentService struct {
	attachmentRepo db.AttachmentRepository
	reportRepo     db.ReportRepository
	store          FileStore
	logger         *zap.Logger
}

func NewAttachmentService(attachmentRepo db.AttachmentRepository, reportRepo db.ReportRepository, store FileStore, logger *zap.Logger) AttachmentService {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		reportRepo:     reportRepo,
		store:          store,
		logger:         logger,
	}
}

// StoredName is the on-disk name of an upload: a fresh uuid and the base file name.
func StoredName(fileName string) string {
	return uuid.New().String() + "_" + filepath.Base(filepath.Clean("/"+fileName))
}

func (s *attachmentService) Upload(ctx context.Context, reportID uuid.UUID, header *multipart.FileHeader) (*models.Attachment, *apiError.Error) {
	if header == nil || header.Size == 0 {
		return nil, errNoFile
	}
	if _, err := s.reportRepo.GetReportByID(ctx, reportID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errReportNotFound
		}
		s.logger.Error("get report", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}

	file, err := header.Open()
	if err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	defer file.Close()

	data, err := readAll(file, MaxUploadSize)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			return nil, errFileTooLarge
		}
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if len(data) == 0 {
		return nil, errNoFile
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	storedName := StoredName(header.Filename)
	storagePath, err := s.store.Save(ctx, storedName, data, contentType)
	if err != nil {
		s.logger.Error("save upload", zap.String("name", storedName), zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}

	attachment := &models.Attachment{
		ID:          uuid.New(),
		ReportID:    reportID,
		FileName:    filepath.Base(header.Filename),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		StoragePath: storagePath,
	}
	if strings.HasPrefix(contentType, "image/") {
		attachment.ThumbnailPath = s.thumbnail(ctx, storedName, data, contentType)
	}

	if err := s.attachmentRepo.CreateAttachment(ctx, attachment); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errReportNotFound
		}
		s.logger.Error("create attachment", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	return attachment, nil
}

// thumbnail returns "" when the image cannot be decoded; the upload still succeeds.
func (s *attachmentService) thumbnail(ctx context.Context, storedName string, data []byte, contentType string) string {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		s.logger.Warn("decode image for thumbnail", zap.String("name", storedName), zap.Error(err))
		return ""
	}
	format, err := imaging.FormatFromFilename(storedName)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	thumb := imaging.Thumbnail(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		s.logger.Warn("encode thumbnail", zap.String("name", storedName), zap.Error(err))
		return ""
	}
	thumbPath, err := s.store.Save(ctx, thumbnailAlias+storedName, buf.Bytes(), contentType)
	if err != nil {
		s.logger.Warn("save thumbnail", zap.String("name", storedName), zap.Error(err))
		return ""
	}
	return thumbPath
}

func (s *attachmentService) Locate(storedName string) (string, bool, *apiError.Error) {
	name := filepath.Base(storedName)
	if name != storedName || name == "." || name == "/" || strings.HasPrefix(name, "..") {
		return "", false, errInvalidUpload
	}
	location, remote := s.store.Locate(name)
	return location, remote, nil
}
