package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"agora/internal/config"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/observability"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageUploadDir       = "uploads"
	DefaultImageMaxUploadSizeMB = 5
	IdeaImageMaxSize            = 1440
	AvatarSize                  = 256
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// Image kinds, also the sub-directory under the upload root and under the
// public /uploads prefix.
const (
	ImageKindIdea   = "ideas"
	ImageKindAvatar = "avatars"
)

type UploadImageInput struct {
	Kind        string
	OwnerID     uuid.UUID
	Filename    string
	ContentType string
	Content     []byte
}

// StoredImage describes the files written for one upload.
type StoredImage struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Path         string
	URL          string
	WebPURL      string
}

// ImageService normalizes uploads to a JPEG plus a WebP sibling on disk.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeBytes := int64(DefaultImageMaxUploadSizeMB) * 1024 * 1024

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxUploadMB > 0 {
			maxUploadSizeBytes = cfg.MaxUploadBytes()
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: maxUploadSizeBytes,
	}
}

// UploadDir is the directory served under /uploads.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

func (s *ImageService) Store(ctx context.Context, in UploadImageInput) (img *StoredImage, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ImageService", "Store")
	defer func() {
		observability.EndSpan(span, err)
		result := "ok"
		if err != nil {
			result = "error"
		}
		observability.ImageUploads.WithLabelValues(in.Kind, result).Inc()
	}()

	if in.Kind != ImageKindIdea && in.Kind != ImageKindAvatar {
		return nil, models.NewInternalError(fmt.Errorf("unknown image kind %q", in.Kind))
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Only image files are allowed")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	sourceMimeType := decodedFormatToMime(format)
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, sourceMimeType) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	var out image.Image
	switch in.Kind {
	case ImageKindAvatar:
		x, y, side := squareCrop(decoded.Bounds().Dx(), decoded.Bounds().Dy())
		out = resizeToFit(cropToRect(decoded, x, y, side, side), AvatarSize, AvatarSize)
	default:
		out = resizeToFit(flatten(decoded), IdeaImageMaxSize, IdeaImageMaxSize)
	}

	jpgBytes, err := encodeJPEG(out, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	webpBytes, err := encodeWebP(out, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hash := contentHash(in.OwnerID, jpgBytes)
	jpgName := hash + ".jpg"
	webpName := hash + ".webp"
	jpgAbs := filepath.Join(s.uploadDir, in.Kind, jpgName)
	webpAbs := filepath.Join(s.uploadDir, in.Kind, webpName)

	if err := writeBytesToFile(jpgAbs, jpgBytes); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpAbs, webpBytes); err != nil {
		cleanupImageFiles([]string{jpgAbs})
		return nil, models.NewInternalError(err)
	}

	middleware.Logger.DebugContext(ctx, "image stored",
		"kind", in.Kind, "file", jpgName, "bytes", len(jpgBytes), "source_format", format)

	return &StoredImage{
		Filename:     jpgName,
		OriginalName: filepath.Base(in.Filename),
		MimeType:     "image/jpeg",
		Size:         int64(len(jpgBytes)),
		Path:         jpgAbs,
		URL:          publicURL(in.Kind, jpgName),
		WebPURL:      publicURL(in.Kind, webpName),
	}, nil
}

// Remove deletes a stored image and its WebP sibling.
func (s *ImageService) Remove(img *StoredImage) {
	if img == nil {
		return
	}
	cleanupImageFiles([]string{img.Path, strings.TrimSuffix(img.Path, ".jpg") + ".webp"})
}

func publicURL(kind, name string) string {
	return fmt.Sprintf("/uploads/%s/%s", kind, name)
}

// squareCrop returns the centered square of a w x h image.
func squareCrop(w, h int) (x, y, side int) {
	side = min(w, h)
	if side < 1 {
		side = 1
	}
	return (w - side) / 2, (h - side) / 2, side
}

func cropToRect(src image.Image, x, y, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	origin := src.Bounds().Min
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: origin.X + x, Y: origin.Y + y}, draw.Over)
	return dst
}

// flatten composites src over white so transparent areas survive JPEG.
func flatten(src image.Image) image.Image {
	b := src.Bounds()
	return cropToRect(src, 0, 0, b.Dx(), b.Dy())
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func isSupportedDecodedFormat(format string) bool {
	return decodedFormatToMime(format) != ""
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func contentHash(ownerID uuid.UUID, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s:", ownerID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func cleanupImageFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
