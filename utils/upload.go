package utils

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores request images either on Cloudinary (when
// CLOUDINARY_URL is configured) or under a local uploads directory
// served at /uploads.
type Uploader struct {
	cld *cloudinary.Cloudinary
	dir string
}

// NewUploader picks the storage backend from the environment.
func NewUploader() *Uploader {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}

	u := &Uploader{dir: dir}
	if os.Getenv("CLOUDINARY_URL") != "" {
		cld, err := cloudinary.New()
		if err != nil {
			log.Println("Cloudinary init failed, falling back to local uploads:", err)
		} else {
			u.cld = cld
		}
	}
	return u
}

// Dir returns the local uploads directory.
func (u *Uploader) Dir() string {
	return u.dir
}

// SaveImage reads the named multipart file field and stores it under
// the given folder, returning the public URL. A request without the
// field yields an empty URL and no error.
func (u *Uploader) SaveImage(r *http.Request, field, folder string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		// The image field is optional; anything beyond an absent file
		// is a malformed body and surfaces to the caller.
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", fmt.Errorf("read form file: %w", err)
	}
	defer file.Close()

	if u.cld != nil {
		resp, err := u.cld.Upload.Upload(r.Context(), file, uploader.UploadParams{
			Folder: path.Join("quickbite", folder),
		})
		if err != nil {
			return "", fmt.Errorf("cloudinary upload: %w", err)
		}
		return resp.SecureURL, nil
	}

	if err := os.MkdirAll(filepath.Join(u.dir, folder), os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(u.dir, folder, filename))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("save upload file: %w", err)
	}

	return "/" + path.Join("uploads", folder, filename), nil
}
