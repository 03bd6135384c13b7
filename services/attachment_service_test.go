package services

import (
	"bytes"
	"context"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/techagentng/ain/db/dbtest"
	"github.com/techagentng/ain/models"
	"go.uber.org/zap"
)

func fileHeader(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(640, 480, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newAttachmentFixture(t *testing.T) (AttachmentService, *LocalStore, *models.Report) {
	t.Helper()
	store := dbtest.NewStore()
	report := &models.Report{ID: uuid.New(), Title: "Flooding", Category: models.CategoryEnvironment,
		Visibility: models.VisibilityPublic, Status: models.StatusPending}
	if err := store.Reports().CreateReport(context.Background(), report); err != nil {
		t.Fatal(err)
	}
	files := &LocalStore{Root: filepath.Join(t.TempDir(), "uploads")}
	return NewAttachmentService(store.Attachments(), store.Reports(), files, zap.NewNop()), files, report
}

func TestUploadImage(t *testing.T) {
	svc, files, report := newAttachmentFixture(t)

	att, apiErr := svc.Upload(context.Background(), report.ID, fileHeader(t, "street.png", "image/png", pngBytes(t)))
	if apiErr != nil {
		t.Fatalf("Upload: %v", apiErr)
	}
	stored := filepath.Base(att.StoragePath)
	if !strings.HasSuffix(stored, "_street.png") {
		t.Errorf("stored name = %q", stored)
	}
	if _, err := os.Stat(att.StoragePath); err != nil {
		t.Errorf("original not written: %v", err)
	}
	if att.ThumbnailPath == "" {
		t.Fatal("thumbnail path empty")
	}
	thumb, err := imaging.Open(att.ThumbnailPath)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != thumbnailSize || b.Dy() != thumbnailSize {
		t.Errorf("thumbnail size = %v", b.Size())
	}

	loc, remote, apiErr := svc.Locate(stored)
	if apiErr != nil || remote || loc != filepath.Join(files.Root, stored) {
		t.Errorf("Locate = %q, %v, %v", loc, remote, apiErr)
	}
}

func TestUploadDocumentHasNoThumbnail(t *testing.T) {
	svc, _, report := newAttachmentFixture(t)

	att, apiErr := svc.Upload(context.Background(), report.ID, fileHeader(t, "notes.txt", "text/plain", []byte("water rising")))
	if apiErr != nil {
		t.Fatalf("Upload: %v", apiErr)
	}
	if att.ThumbnailPath != "" {
		t.Errorf("unexpected thumbnail %q", att.ThumbnailPath)
	}
	if att.SizeBytes != int64(len("water rising")) || att.FileName != "notes.txt" {
		t.Errorf("attachment = %+v", att)
	}
}

func TestUploadErrors(t *testing.T) {
	svc, _, report := newAttachmentFixture(t)

	tests := []struct {
		name     string
		reportID uuid.UUID
		header   *multipart.FileHeader
		want     int
	}{
		{name: "no file", reportID: report.ID, header: nil, want: http.StatusBadRequest},
		{name: "empty file", reportID: report.ID, header: fileHeader(t, "empty.txt", "text/plain", nil), want: http.StatusBadRequest},
		{name: "missing report", reportID: uuid.New(), header: fileHeader(t, "a.txt", "text/plain", []byte("x")), want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, apiErr := svc.Upload(context.Background(), tt.reportID, tt.header)
			if apiErr == nil || apiErr.Status != tt.want {
				t.Fatalf("got %v, want %d", apiErr, tt.want)
			}
		})
	}
}

func TestUploadCorruptImageStillStored(t *testing.T) {
	svc, _, report := newAttachmentFixture(t)

	att, apiErr := svc.Upload(context.Background(), report.ID, fileHeader(t, "bad.png", "image/png", []byte("not really a png")))
	if apiErr != nil {
		t.Fatalf("Upload: %v", apiErr)
	}
	if att.ThumbnailPath != "" {
		t.Errorf("thumbnail should be skipped, got %q", att.ThumbnailPath)
	}
}

func TestLocateRejectsTraversal(t *testing.T) {
	svc, _, _ := newAttachmentFixture(t)
	for _, name := range []string{"../secret", "a/b.png", ".."} {
		if _, _, apiErr := svc.Locate(name); apiErr == nil {
			t.Errorf("Locate(%q) should fail", name)
		}
	}
}

func TestStoredName(t *testing.T) {
	name := StoredName("../../etc/passwd")
	if strings.Contains(name, "/") || !strings.HasSuffix(name, "_passwd") {
		t.Errorf("StoredName = %q", name)
	}
	if _, err := uuid.Parse(strings.SplitN(name, "_", 2)[0]); err != nil {
		t.Errorf("prefix is not a uuid: %q", name)
	}
}

func TestS3StoreLocate(t *testing.T) {
	s := &S3Store{Bucket: "ain-media", Region: "eu-west-1", Prefix: "uploads"}
	loc, remote := s.Locate("abc_photo.jpg")
	if !remote || loc != "https://ain-media.s3.eu-west-1.amazonaws.com/uploads/abc_photo.jpg" {
		t.Errorf("Locate = %q, %v", loc, remote)
	}
}

