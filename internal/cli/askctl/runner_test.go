package askctl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/storage"
)

const priceAnswer = `{"sql":"SELECT id, price FROM products","results":[{"id":1,"price":9.5},{"id":2,"price":4.0}]}`

func newAskServer(t *testing.T, status int, body string, gotQuestion *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ask" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if gotQuestion != nil {
			*gotQuestion = payload["question"]
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAskPrintsSQLTableAndChart(t *testing.T) {
	var question string
	srv := newAskServer(t, http.StatusOK, priceAnswer, &question)

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"ask", "--base-url", srv.URL, "List", "product", "prices"}, Options{
		Stdout:  &stdout,
		Stderr:  &stderr,
		Timeout: 2 * time.Second,
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr.String())
	}
	if question != "List product prices" {
		t.Fatalf("question = %q", question)
	}
	out := stdout.String()
	for _, want := range []string{"SELECT id, price FROM products", "id", "price", "9.5", "chart: x=id lines=price"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAskEmptyResult(t *testing.T) {
	srv := newAskServer(t, http.StatusOK, `{"sql":"SELECT id FROM orders WHERE 1 = 0","results":[]}`, nil)

	var stdout bytes.Buffer
	code := Run(context.Background(), []string{"--base-url", srv.URL, "ask", "none"}, Options{Stdout: &stdout})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), "No data returned.") || strings.Contains(stdout.String(), "chart:") {
		t.Fatalf("output = %s", stdout.String())
	}
}

func TestAskErrorIsPrintedToStderr(t *testing.T) {
	srv := newAskServer(t, http.StatusBadRequest, `{"error":"Only safe SELECT queries are allowed"}`, nil)

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"--base-url", srv.URL, "ask", "delete", "everything"}, Options{Stdout: &stdout, Stderr: &stderr})
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr.String(), "Only safe SELECT queries are allowed") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestAskFormats(t *testing.T) {
	srv := newAskServer(t, http.StatusOK, priceAnswer, nil)

	var jsonOut bytes.Buffer
	if code := Run(context.Background(), []string{"--base-url", srv.URL, "ask", "--format", "json", "q"}, Options{Stdout: &jsonOut}); code != 0 {
		t.Fatalf("json exit code = %d", code)
	}
	var decoded map[string]any
	if err := json.Unmarshal(jsonOut.Bytes(), &decoded); err != nil {
		t.Fatalf("json output: %v\n%s", err, jsonOut.String())
	}
	if decoded["sql"] != "SELECT id, price FROM products" {
		t.Fatalf("sql = %v", decoded["sql"])
	}

	var csvOut bytes.Buffer
	if code := Run(context.Background(), []string{"--base-url", srv.URL, "ask", "--format", "csv", "q"}, Options{Stdout: &csvOut}); code != 0 {
		t.Fatalf("csv exit code = %d", code)
	}
	if csvOut.String() != "id,price\n1,9.5\n2,4.0\n" {
		t.Fatalf("csv = %q", csvOut.String())
	}
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"ask"},
		{"ask", "--format", "xml", "q"},
		{"ask", "--upload", "q"},
		{"ask", "--no-such-flag", "q"},
		{"health", "extra"},
	} {
		var stderr bytes.Buffer
		if code := Run(context.Background(), args, Options{Stderr: &stderr}); code != 2 {
			t.Fatalf("Run(%v) exit code = %d, stderr=%s", args, code, stderr.String())
		}
	}
}

type memoryUploader struct {
	objects map[string][]byte
	opts    storage.PutOptions
}

func (m *memoryUploader) Put(_ context.Context, key string, body io.Reader, _ int64, opts storage.PutOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	m.objects[key] = data
	m.opts = opts
	return storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (m *memoryUploader) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	data, ok := m.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (m *memoryUploader) URL(key string) string {
	return "s3://test-bucket/" + key
}

func TestAskExportAndUpload(t *testing.T) {
	srv := newAskServer(t, http.StatusOK, priceAnswer, nil)
	exportPath := filepath.Join(t.TempDir(), "prices.csv")
	uploader := &memoryUploader{objects: map[string][]byte{}}
	var gotCfg config.ObjectStoreConfig

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"--base-url", srv.URL, "ask", "--export", exportPath, "--upload", "prices"}, Options{
		Stdout:      &stdout,
		Stderr:      &stderr,
		ObjectStore: config.ObjectStoreConfig{Endpoint: "localhost:9000", Bucket: "test-bucket"},
		OpenStore: func(_ context.Context, cfg config.ObjectStoreConfig) (Uploader, error) {
			gotCfg = cfg
			return uploader, nil
		},
		Clock: func() time.Time { return time.Date(2026, time.October, 17, 8, 30, 0, 0, time.UTC) },
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr.String())
	}

	written, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(written) != "id,price\n1,9.5\n2,4.0\n" {
		t.Fatalf("export = %q", string(written))
	}
	if gotCfg.Bucket != "test-bucket" {
		t.Fatalf("object store config = %+v", gotCfg)
	}
	if len(uploader.objects) != 1 {
		t.Fatalf("uploads = %d", len(uploader.objects))
	}
	for key, data := range uploader.objects {
		if !strings.HasPrefix(key, "exports/date=2026-10-17/answer-083000-") || !bytes.Equal(data, written) {
			t.Fatalf("upload %q = %q", key, data)
		}
	}
	if uploader.opts.ContentType != "text/csv" {
		t.Fatalf("content type = %q", uploader.opts.ContentType)
	}
	if !strings.Contains(stdout.String(), "uploaded s3://test-bucket/exports/") {
		t.Fatalf("stdout = %s", stdout.String())
	}
}

func TestAskExportParquetWithExplicitKey(t *testing.T) {
	srv := newAskServer(t, http.StatusOK, priceAnswer, nil)
	exportPath := filepath.Join(t.TempDir(), "prices.parquet")
	uploader := &memoryUploader{objects: map[string][]byte{}}

	code := Run(context.Background(), []string{"--base-url", srv.URL, "ask", "--export", exportPath, "--upload-key", "reports/prices.parquet", "prices"}, Options{
		OpenStore: func(context.Context, config.ObjectStoreConfig) (Uploader, error) { return uploader, nil },
	})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	data, ok := uploader.objects["reports/prices.parquet"]
	if !ok || !bytes.HasPrefix(data, []byte("PAR1")) {
		t.Fatalf("uploaded objects = %v", uploader.objects)
	}
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"status":"ok","service":"askdata-api"}`)
	}))
	defer srv.Close()

	var stdout bytes.Buffer
	if code := Run(context.Background(), []string{"--base-url", srv.URL, "health"}, Options{Stdout: &stdout}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), `"status": "ok"`) {
		t.Fatalf("stdout = %s", stdout.String())
	}
}
