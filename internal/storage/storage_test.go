package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"
)

func TestObjectPathKeysAreASCIISafe(t *testing.T) {
	cases := []struct {
		fileName string
		wantExt  string
	}{
		{"receipt.pdf", ".pdf"},
		{"PHOTO.JPG", ".jpg"},
		{"archive.tar.gz", ".gz"},
		{"קבלה.pdf", ".pdf"},
		{"חוזה.מסמך", ""},
		{"noextension", ""},
		{"trailingdot.", ""},
	}
	for _, tc := range cases {
		key := ObjectPath("documents", tc.fileName)
		if !strings.HasPrefix(key, "documents/") {
			t.Errorf("%q: key %q missing prefix", tc.fileName, key)
		}
		base := path.Base(key)
		if tc.wantExt == "" {
			if strings.Contains(base, ".") {
				t.Errorf("%q: key %q kept an unsafe extension", tc.fileName, key)
			}
		} else if !strings.HasSuffix(base, tc.wantExt) {
			t.Errorf("%q: key %q, want extension %q", tc.fileName, key, tc.wantExt)
		}
		for _, r := range key {
			if r > 127 {
				t.Errorf("%q: key %q is not ASCII", tc.fileName, key)
				break
			}
		}
	}
}

func TestObjectPathKeysAreUnique(t *testing.T) {
	a := ObjectPath("documents", "same.pdf")
	b := ObjectPath("documents", "same.pdf")
	if a == b {
		t.Fatalf("identical keys for repeated upload: %q", a)
	}
}

func TestUploadReturnsPublicURL(t *testing.T) {
	var gotPath, gotMime string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMime = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "bucket")
	url, err := c.Upload(context.Background(), "documents/abc.pdf", []byte("data"), "application/pdf")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if gotPath != "/storage/v1/object/bucket/documents/abc.pdf" {
		t.Fatalf("upload path: %q", gotPath)
	}
	if gotMime != "application/pdf" {
		t.Fatalf("mime: %q", gotMime)
	}
	want := srv.URL + "/storage/v1/object/public/bucket/documents/abc.pdf"
	if url != want {
		t.Fatalf("public url:\n got %q\nwant %q", url, want)
	}
}

func TestRemoveToleratesMissingObjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "bucket")
	if err := c.Remove(context.Background(), "documents/gone.pdf"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func TestRemoveSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "bucket")
	if err := c.Remove(context.Background(), "documents/x.pdf"); err == nil {
		t.Fatal("expected error")
	}
}
