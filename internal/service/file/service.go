package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/infinite-track/hris-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

var ErrInvalidFileType = errors.New("invalid file type")

var (
	imageExts      = []string{".jpg", ".jpeg", ".png"}
	attachmentExts = []string{".jpg", ".jpeg", ".png", ".pdf"}
)

type FileService interface {
	// UploadProfilePhoto stores a user's profile photo.
	UploadProfilePhoto(ctx context.Context, userID int64, file io.Reader, filename string) (string, error)

	// UploadAttendanceImage stores the check-in/out proof photo, compressed to JPEG.
	UploadAttendanceImage(ctx context.Context, userID int64, date time.Time, file io.Reader, filename string, action string) (string, error)

	// UploadLeaveAttachment stores the supporting document of a leave request.
	UploadLeaveAttachment(ctx context.Context, userID int64, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

func checkExt(filename string, allowed []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: only %s allowed", ErrInvalidFileType, strings.Join(allowed, ", "))
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}

func (s *fileServiceImpl) UploadProfilePhoto(ctx context.Context, userID int64, file io.Reader, filename string) (string, error) {
	ext, err := checkExt(filename, imageExts)
	if err != nil {
		return "", err
	}

	id := strconv.FormatInt(userID, 10)
	key := path.Join("profiles", id, fmt.Sprintf("%s-%s%s", id, uuid.NewString(), ext))

	uploaded, err := s.storage.Upload(ctx, file, key, contentTypeFor(ext))
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}
	return uploaded, nil
}

// UploadAttendanceImage compresses the photo to between 50KB and 150KB.
func (s *fileServiceImpl) UploadAttendanceImage(ctx context.Context, userID int64, date time.Time, file io.Reader, filename string, action string) (string, error) {
	if _, err := checkExt(filename, imageExts); err != nil {
		return "", err
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(buffer, 150*1024, 50*1024)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	// attendance/{date}/{userID}-{action}-{unix}.jpg
	name := fmt.Sprintf("%d-%s-%d.jpg", userID, action, s.now().Unix())
	key := path.Join("attendance", date.Format("2006-01-02"), name)

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance image: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, userID int64, file io.Reader, filename string) (string, error) {
	ext, err := checkExt(filename, attachmentExts)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%d%s", uuid.NewString(), s.now().Unix(), ext)
	key := path.Join("leave", strconv.FormatInt(userID, 10), name)

	uploaded, err := s.storage.Upload(ctx, file, key, contentTypeFor(ext))
	if err != nil {
		return "", fmt.Errorf("failed to upload leave attachment: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL returns "" for an empty path.
func (s *fileServiceImpl) GetFileURL(path string) string {
	if path == "" {
		return ""
	}
	return s.storage.URL(path)
}

const (
	minJPEGQuality   = 50
	startJPEGQuality = 85
	resizeQuality    = 70
	minResizeWidth   = 600
	minResizeHeight  = 400
)

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// compressImage re-encodes buffer as JPEG within [minSize, maxSize] bytes,
// lowering quality first and resizing only when that is not enough.
// Inputs already inside the range are returned untouched.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	if len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var out []byte
	for quality := startJPEGQuality; quality >= minJPEGQuality; quality -= 5 {
		out, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		size := len(out)
		if size <= maxSize && (size >= minSize || quality <= 60) {
			return out, nil
		}
		if size < minSize {
			// already small at high quality; going lower won't help
			return out, nil
		}
	}

	// still too large: scale toward the middle of the range
	ratio := math.Sqrt(float64((maxSize+minSize)/2) / float64(len(out)))
	bounds := img.Bounds()
	width := max(int(float64(bounds.Dx())*ratio), minResizeWidth)
	height := max(int(float64(bounds.Dy())*ratio), minResizeHeight)

	return encodeJPEG(resizeImage(img, width, height), resizeQuality)
}

// resizeImage scales src with CatmullRom interpolation.
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
