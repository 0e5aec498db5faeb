package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/infra/memstore"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestProcessScalesDown(t *testing.T) {
	out, err := Process(pngOf(t, 1024, 512))
	if err != nil {
		t.Fatal(err)
	}
	if !isWebP(out) {
		t.Fatal("output should be webp")
	}

	img, err := webp.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 256 {
		t.Fatalf("unexpected size %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessKeepsSmallImages(t *testing.T) {
	out, err := Process(pngOf(t, 100, 300))
	if err != nil {
		t.Fatal(err)
	}
	img, err := webp.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 300 {
		t.Fatalf("unexpected size %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessAcceptsWebP(t *testing.T) {
	first, err := Process(pngOf(t, 600, 600))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Process(first); err != nil {
		t.Fatalf("webp input should be accepted: %v", err)
	}
}

func TestProcessRejects(t *testing.T) {
	if _, err := Process([]byte("not an image")); err != ErrUnsupportedImage {
		t.Fatalf("expected unsupported_image, got %v", err)
	}
	if _, err := Process(make([]byte, MaxUploadBytes+1)); err != ErrImageTooLarge {
		t.Fatalf("expected image_too_large, got %v", err)
	}
}

func TestUploadResourcePhoto(t *testing.T) {
	store := memstore.New()
	biz := store.AddBusiness(models.Business{Slug: "studio"})
	res := store.AddResource(models.Resource{BusinessID: biz.ID, Name: "Ana"})

	objects := NewMemory("https://cdn.example.com")
	dispatcher := audit.NewDispatcher(audit.NewMemory(), zap.NewNop())
	defer dispatcher.Close()

	uc := NewUploadResourcePhoto(store, objects, dispatcher)

	url, err := uc.Execute(context.Background(), biz.ID, nil, res.ID, pngOf(t, 64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/resources/") || !strings.HasSuffix(url, ".webp") {
		t.Fatalf("unexpected url %q", url)
	}

	key := strings.TrimPrefix(url, "https://cdn.example.com/")
	if _, ok := objects.Get(key); !ok {
		t.Fatal("object not stored")
	}

	got, err := store.GetResource(context.Background(), biz.ID, res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.PhotoURL != url {
		t.Fatalf("resource not updated, got %q", got.PhotoURL)
	}

	if _, err := uc.Execute(context.Background(), biz.ID, nil, 999, pngOf(t, 8, 8)); err == nil {
		t.Fatal("unknown resource should fail")
	}
}
