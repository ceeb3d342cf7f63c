package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusmarket/internal/core/models"
	"campusmarket/pkg/apperror"
)

type staticTokens struct{ token string }

func (s staticTokens) Token() (string, error) {
	if s.token == "" {
		return "", &apperror.AuthError{}
	}
	return s.token, nil
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, 100, tokens, nil, "[test]")
}

func Test_listSendsScopeAndBearer(t *testing.T) {
	var gotAuth, gotSeller string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSeller = r.URL.Query().Get("sellerId")
		json.NewEncoder(w).Encode([]models.Product{{ID: "1", Name: "Pen", Price: 10}})
	})

	client := NewProductsClient(newTestClient(t, handler, staticTokens{token: "tok123"}))
	products, err := client.List(context.Background(), "seller1")
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].ID != "1" {
		t.Errorf("unexpected products: %+v", products)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotSeller != "seller1" {
		t.Errorf("expected sellerId scope, got %q", gotSeller)
	}
}

func Test_anonymousCallOmitsAuthorization(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})

	client := NewProductsClient(newTestClient(t, handler, staticTokens{}))
	if _, err := client.List(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("anonymous call must not send a credential, got %q", gotAuth)
	}
}

func Test_backendErrorMessageIsDecoded(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "Product not found"}`))
	})

	client := NewProductsClient(newTestClient(t, handler, nil))
	_, err := client.MarkSold(context.Background(), "missing")

	var fe *apperror.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Status != http.StatusNotFound || fe.Message != "Product not found" {
		t.Errorf("lost the backend's message: %+v", fe)
	}
}

func Test_markSoldToleratesEmptyBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/products/p1/sell" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	client := NewProductsClient(newTestClient(t, handler, nil))
	updated, err := client.MarkSold(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if updated != nil {
		t.Errorf("empty body should yield no product, got %+v", updated)
	}
}

func Test_uploadImage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatal(err)
		}
		defer file.Close()
		if header.Filename != "pen.jpg" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "/uploads/products/pen.jpg"})
	})

	client := NewUploadClient(newTestClient(t, handler, nil))
	url, err := client.UploadImage(context.Background(), "pen.jpg", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if url != "/uploads/products/pen.jpg" {
		t.Errorf("unexpected url %q", url)
	}
}

func Test_uploadRejectsNonImageWithoutNetwork(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	client := NewUploadClient(newTestClient(t, handler, nil))
	_, err := client.UploadImage(context.Background(), "notes.txt", strings.NewReader("x"))
	if !apperror.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if called {
		t.Error("rejected upload must not reach the backend")
	}
}

func Test_profilePutOmitsYearForFaculty(t *testing.T) {
	var form map[string][]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		form = r.MultipartForm.Value
		w.WriteHeader(http.StatusOK)
	})

	client := NewProfileClient(newTestClient(t, handler, staticTokens{token: "t"}))
	record := models.ProfileRecord{
		Name:       "Asha",
		Email:      "asha@mgits.ac.in",
		Phone:      "1234567890",
		Role:       models.RoleFaculty,
		Department: "ECE",
		Year:       "should not be sent",
	}
	if _, err := client.Put(context.Background(), record, "", nil); err != nil {
		t.Fatal(err)
	}

	if _, present := form["year"]; present {
		t.Errorf("year must be omitted for faculty, got form %v", form)
	}
	if got := form["role"]; len(got) != 1 || got[0] != "faculty" {
		t.Errorf("role must go up lowercase, got %v", got)
	}
}

func Test_isImageFilename(t *testing.T) {
	yes := []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "e.bmp", "f.WEBP", "/path/to/pic.Jpeg"}
	no := []string{"a.txt", "b", "c.pdf", "d.png.exe"}
	for _, name := range yes {
		if !IsImageFilename(name) {
			t.Errorf("%q should be accepted", name)
		}
	}
	for _, name := range no {
		if IsImageFilename(name) {
			t.Errorf("%q should be rejected", name)
		}
	}
}
