package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/pdf2docx/internal/config"
	"github.com/dgallion1/pdf2docx/internal/convert"
)

func testServer(cfg config.Config) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	converter := convert.NewConverter(cfg, log)
	return NewServer(converter, log, cfg)
}

func multipartUpload(t *testing.T, filename, content string, pageBreaks bool) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if pageBreaks {
		mw.WriteField("page_breaks", "true")
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestHandleConvert_EndToEnd(t *testing.T) {
	cfg := config.Config{
		MaxUploadBytes:    1 << 20,
		MaxParagraphChars: 1000,
		JobTTL:            time.Hour,
	}
	srv := testServer(cfg)

	body, contentType := multipartUpload(t, "notes.txt", "Page one here.\fPage two here.", true)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID      string `json:"job_id"`
		OutputName string `json:"output_name"`
		PollURL    string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted.OutputName != "notes.docx" {
		t.Errorf("expected output name notes.docx, got %q", accepted.OutputName)
	}

	// Poll until the conversion settles.
	var status struct {
		Status      string `json:"status"`
		Error       string `json:"error"`
		DownloadURL string `json:"download_url"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatalf("conversion did not finish, last status %q", status.Status)
		}
		req := httptest.NewRequest(http.MethodGet, accepted.PollURL, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status request: %d", rec.Code)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if status.Status == "completed" || status.Status == "failed" {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if status.Status != "completed" {
		t.Fatalf("expected completed, got %q (%s)", status.Status, status.Error)
	}

	req = httptest.NewRequest(http.MethodGet, status.DownloadURL, nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "notes.docx") {
		t.Errorf("expected attachment name in disposition, got %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("expected a zip-packaged document")
	}
}

// Repeated sequential uploads keep the accept response stable even while the
// conversion goroutine is mutating the job.
func TestHandleConvert_RepeatedUploads(t *testing.T) {
	cfg := config.Config{
		MaxUploadBytes:    1 << 20,
		MaxParagraphChars: 1000,
		JobTTL:            time.Hour,
	}
	srv := testServer(cfg)

	for i := 0; i < 20; i++ {
		body, contentType := multipartUpload(t, "notes.txt", "One short sentence here.", false)
		req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("upload %d: expected 202, got %d: %s", i, rec.Code, rec.Body.String())
		}
		var accepted struct {
			Status  string `json:"status"`
			PollURL string `json:"poll_url"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
			t.Fatalf("upload %d: decode response: %v", i, err)
		}
		if accepted.Status != string(convert.StatusQueued) {
			t.Fatalf("upload %d: expected queued in accept response, got %q", i, accepted.Status)
		}

		// Drain the job so the busy flag is free for the next round.
		deadline := time.Now().Add(5 * time.Second)
		for {
			if time.Now().After(deadline) {
				t.Fatalf("upload %d: conversion did not finish", i)
			}
			req := httptest.NewRequest(http.MethodGet, accepted.PollURL, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
				t.Fatalf("upload %d: decode status: %v", i, err)
			}
			if status.Status == "completed" || status.Status == "failed" {
				break
			}
			time.Sleep(2 * time.Millisecond)
		}
	}
}

func TestHandleConvert_OversizedUpload(t *testing.T) {
	// The request body limit is MaxUploadBytes plus form overhead, so the
	// payload has to clear both to trip MaxBytesReader.
	srv := testServer(config.Config{MaxUploadBytes: 16, JobTTL: time.Hour})

	body, contentType := multipartUpload(t, "big.txt", strings.Repeat("x", 2<<20), false)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleConvert_UnsupportedType(t *testing.T) {
	srv := testServer(config.Config{MaxUploadBytes: 1 << 20, JobTTL: time.Hour})

	body, contentType := multipartUpload(t, "malware.exe", "MZ", false)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleConvert_MissingFile(t *testing.T) {
	srv := testServer(config.Config{MaxUploadBytes: 1 << 20, JobTTL: time.Hour})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("page_breaks", "true")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleStatus_UnknownJob(t *testing.T) {
	srv := testServer(config.Config{MaxUploadBytes: 1 << 20, JobTTL: time.Hour})

	req := httptest.NewRequest(http.MethodGet, "/api/convert/nope/status", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RequiredWhenConfigured(t *testing.T) {
	srv := testServer(config.Config{MaxUploadBytes: 1 << 20, JobTTL: time.Hour, APIKey: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/api/convert/any/status", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without bearer token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/convert/any/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 with valid token and unknown job, got %d", rec.Code)
	}

	// Health stays public.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for /health, got %d", rec.Code)
	}
}
