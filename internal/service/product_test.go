package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"go-inventory-api/internal/core/cache"
)

func newProductService(repo *memProductRepo, up *fakeUploader) *ProductService {
	return NewProductService(repo, up, nil) // 缓存关着跑
}

func validInput() ProductInput {
	return ProductInput{
		Name:        "Widget",
		SKU:         "WDG-001",
		Category:    "tools",
		Quantity:    "12",
		Price:       "9.99",
		Description: "a widget",
	}
}

func imageHeader(t *testing.T, name, content, ctype string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, name))
	h.Set("Content-Type", ctype)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["image"][0]
}

func TestCreateProduct_Validation(t *testing.T) {
	t.Parallel()

	s := newProductService(newMemProductRepo(), &fakeUploader{})
	ctx := context.Background()

	for _, strip := range []func(*ProductInput){
		func(in *ProductInput) { in.Name = "" },
		func(in *ProductInput) { in.SKU = "" },
		func(in *ProductInput) { in.Category = "" },
		func(in *ProductInput) { in.Quantity = "" },
		func(in *ProductInput) { in.Price = "" },
		func(in *ProductInput) { in.Description = "" },
	} {
		in := validInput()
		strip(&in)
		_, err := s.Create(ctx, "owner-1", in, nil)
		wantAErr(t, err, http.StatusBadRequest)
	}
}

func TestCreateProduct_WithImage(t *testing.T) {
	t.Parallel()

	up := &fakeUploader{}
	s := newProductService(newMemProductRepo(), up)

	file := imageHeader(t, "photo.png", "pngbytes", "image/png")
	p, err := s.Create(context.Background(), "owner-1", validInput(), file)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if up.calls != 1 {
		t.Fatalf("uploader calls: got %d want 1", up.calls)
	}
	img := p.Image
	if img.FileName != "photo.png" || img.FileType != "image/png" {
		t.Fatalf("image metadata: %+v", img)
	}
	if img.FilePath != "https://media.example.com/inventory/photo.png" {
		t.Fatalf("hosted url: %q", img.FilePath)
	}
	if img.FileSize != "8.00 B" {
		t.Fatalf("formatted size: %q", img.FileSize)
	}
}

func TestCreateProduct_UploadFailure(t *testing.T) {
	t.Parallel()

	repo := newMemProductRepo()
	s := newProductService(repo, &fakeUploader{fail: true})

	file := imageHeader(t, "photo.png", "pngbytes", "image/png")
	_, err := s.Create(context.Background(), "owner-1", validInput(), file)
	wantAErr(t, err, http.StatusInternalServerError)
	if ps, _ := repo.ListByUser("owner-1"); len(ps) != 0 {
		t.Fatalf("nothing should be persisted on upload failure, have %d", len(ps))
	}
}

func TestProduct_OwnershipIsolation(t *testing.T) {
	t.Parallel()

	s := newProductService(newMemProductRepo(), &fakeUploader{})
	ctx := context.Background()

	p, err := s.Create(ctx, "user-a", validInput(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = s.Get(ctx, "user-b", p.ID)
	wantAErr(t, err, http.StatusUnauthorized)
	_, err = s.Update(ctx, "user-b", p.ID, ProductInput{Name: "steal"}, nil)
	wantAErr(t, err, http.StatusUnauthorized)
	err = s.Delete(ctx, "user-b", p.ID)
	wantAErr(t, err, http.StatusUnauthorized)

	la, err := s.List(ctx, "user-a")
	if err != nil || len(la) != 1 {
		t.Fatalf("list(owner) = %d items, err %v", len(la), err)
	}
	lb, err := s.List(ctx, "user-b")
	if err != nil || len(lb) != 0 {
		t.Fatalf("list(other) = %d items, err %v", len(lb), err)
	}

	if _, err := s.Get(ctx, "user-a", p.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
}

func TestProduct_GetUnknown(t *testing.T) {
	t.Parallel()

	s := newProductService(newMemProductRepo(), &fakeUploader{})
	_, err := s.Get(context.Background(), "user-a", "no-such-id")
	wantAErr(t, err, http.StatusNotFound)
}

func TestListProducts_NewestFirst(t *testing.T) {
	t.Parallel()

	s := newProductService(newMemProductRepo(), &fakeUploader{})
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		in := validInput()
		in.Name = name
		if _, err := s.Create(ctx, "user-a", in, nil); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	ps, err := s.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ps) != 3 {
		t.Fatalf("len: %d", len(ps))
	}
	for i, want := range []string{"third", "second", "first"} {
		if ps[i].Name != want {
			t.Fatalf("order[%d]: got %q want %q", i, ps[i].Name, want)
		}
	}
}

func TestListProducts_CacheReadThroughAndInvalidation(t *testing.T) {
	t.Parallel()

	repo := newMemProductRepo()
	s := NewProductService(repo, &fakeUploader{}, cache.NewWithStore(newMemCacheStore()))
	ctx := context.Background()

	p1, err := s.Create(ctx, "user-a", validInput(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ps, err := s.List(ctx, "user-a")
	if err != nil || len(ps) != 1 || ps[0].ID != p1.ID {
		t.Fatalf("first list: %d items, err %v", len(ps), err)
	}

	// 绕过 service 直接删库：缓存还在，读到的仍是旧列表
	if err := repo.Delete(p1.ID); err != nil {
		t.Fatalf("repo delete: %v", err)
	}
	ps, err = s.List(ctx, "user-a")
	if err != nil || len(ps) != 1 || ps[0].ID != p1.ID {
		t.Fatalf("cached list must still serve: %d items, err %v", len(ps), err)
	}

	// 写路径失效：新建后立刻可见
	in := validInput()
	in.Name = "Gadget"
	p2, err := s.Create(ctx, "user-a", in, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ps, err = s.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list after create: %v", err)
	}
	if len(ps) != 1 || ps[0].ID != p2.ID {
		t.Fatalf("list after invalidation: %+v", ps)
	}
}

func TestDeleteProduct_InvalidatesCache(t *testing.T) {
	t.Parallel()

	s := NewProductService(newMemProductRepo(), &fakeUploader{}, cache.NewWithStore(newMemCacheStore()))
	ctx := context.Background()

	p, err := s.Create(ctx, "user-a", validInput(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ps, _ := s.List(ctx, "user-a"); len(ps) != 1 {
		t.Fatalf("prime cache: %d items", len(ps))
	}
	if err := s.Delete(ctx, "user-a", p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ps, err := s.List(ctx, "user-a")
	if err != nil || len(ps) != 0 {
		t.Fatalf("deleted product still listed: %d items, err %v", len(ps), err)
	}
}

func TestUpdateProduct_ImageSemantics(t *testing.T) {
	t.Parallel()

	s := newProductService(newMemProductRepo(), &fakeUploader{})
	ctx := context.Background()

	p, err := s.Create(ctx, "user-a", validInput(), imageHeader(t, "orig.png", "original", "image/png"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	origImage := p.Image

	// 没给新图：原图原样保留
	upd, err := s.Update(ctx, "user-a", p.ID, ProductInput{Quantity: "5"}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Image != origImage {
		t.Fatalf("image must be untouched: got %+v want %+v", upd.Image, origImage)
	}
	if upd.Quantity != "5" {
		t.Fatalf("quantity not applied: %q", upd.Quantity)
	}
	if upd.Name != "Widget" {
		t.Fatalf("absent fields keep prior values: %q", upd.Name)
	}

	// 给了新图：整体替换
	upd, err = s.Update(ctx, "user-a", p.ID, ProductInput{}, imageHeader(t, "new.jpg", "replacement!", "image/jpeg"))
	if err != nil {
		t.Fatalf("update with image: %v", err)
	}
	if upd.Image == origImage {
		t.Fatal("image must be replaced")
	}
	if upd.Image.FileName != "new.jpg" || upd.Image.FileType != "image/jpeg" {
		t.Fatalf("replacement metadata: %+v", upd.Image)
	}
}

func TestUpdateProduct_AllowsRename(t *testing.T) {
	t.Parallel()

	s := newProductService(newMemProductRepo(), &fakeUploader{})
	ctx := context.Background()

	p, err := s.Create(ctx, "user-a", validInput(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	upd, err := s.Update(ctx, "user-a", p.ID, ProductInput{Name: "Gadget"}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Name != "Gadget" {
		t.Fatalf("rename not applied: %q", upd.Name)
	}
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	s := newProductService(newMemProductRepo(), &fakeUploader{})
	ctx := context.Background()

	p, err := s.Create(ctx, "user-a", validInput(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, "user-a", p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = s.Get(ctx, "user-a", p.ID)
	wantAErr(t, err, http.StatusNotFound)
}
