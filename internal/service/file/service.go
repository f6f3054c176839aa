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
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var ErrInvalidImageType = errors.New("invalid file type: only jpg, jpeg, png allowed")

// maxImageEdge bounds the longest side of stored employee photos.
const maxImageEdge = 512

type FileService interface {
	// UploadQRCode stores an employee's QR credential, replacing any previous one
	UploadQRCode(ctx context.Context, employeeID string, png []byte) (string, error)

	// UploadEmployeeImage stores a downscaled JPEG of an employee photo
	UploadEmployeeImage(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)

	// Generic operations
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// QRCodePath is the storage key of an employee's QR image.
func QRCodePath(employeeID string) string {
	return path.Join("qrcodes", employeeID+".png")
}

// UploadQRCode implements FileService.
func (s *fileServiceImpl) UploadQRCode(ctx context.Context, employeeID string, png []byte) (string, error) {
	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(png), QRCodePath(employeeID), "image/png")
	if err != nil {
		return "", fmt.Errorf("failed to upload qr code: %w", err)
	}

	return uploadedPath, nil
}

// UploadEmployeeImage implements FileService.
func (s *fileServiceImpl) UploadEmployeeImage(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	// Validate file extension
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrInvalidImageType
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := shrinkImage(buffer, maxImageEdge)
	if err != nil {
		return "", err
	}

	// Always JPEG after shrinking
	newFilename := fmt.Sprintf("%s-%s.jpg", employeeID, uuid.New().String())
	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), path.Join("employees", employeeID, newFilename), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload employee image: %w", err)
	}

	return uploadedPath, nil
}

// OpenFile implements FileService.
func (s *fileServiceImpl) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, path)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// ==================== HELPER FUNCTIONS ====================

// shrinkImage decodes a JPEG or PNG, scales it so the longest edge is at
// most maxEdge and re-encodes it as JPEG.
func shrinkImage(buffer []byte, maxEdge int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageType, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if longest := max(width, height); longest > maxEdge {
		width = max(1, width*maxEdge/longest)
		height = max(1, height*maxEdge/longest)
		img = resizeImage(img, width, height)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
