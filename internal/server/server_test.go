// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/pdiddy/resconv/internal/convert"
	"github.com/pdiddy/resconv/internal/history"
	"github.com/pdiddy/resconv/internal/server"
	"github.com/pdiddy/resconv/pkg/types"
)

// idleTier is a conversion tier that never produces output.
type idleTier struct{}

func (idleTier) Name() string { return "idle" }

func (idleTier) Convert(context.Context, string, string) error { return nil }

// fakeConverter writes a canned result to the destination, or fails.
type fakeConverter struct {
	err  error
	reqs []types.ConversionRequest
}

func (f *fakeConverter) Convert(_ context.Context, req types.ConversionRequest) (convert.Outcome, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return convert.Outcome{Direction: req.Direction}, f.err
	}
	Expect(os.WriteFile(req.DestinationPath, []byte("converted:"+string(req.Direction)), 0o644)).To(Succeed())
	return convert.Outcome{Direction: req.Direction, Tier: "office"}, nil
}

// memRecorder keeps recorded entries in memory.
type memRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (m *memRecorder) Record(_ context.Context, e history.Entry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return int64(len(m.entries)), nil
}

func uploadRequest(filename, content string, fields map[string]string, accept string) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
	}
	for k, v := range fields {
		Expect(w.WriteField(k, v)).To(Succeed())
	}
	Expect(w.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/convert", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return req
}

var _ = Describe("Server", func() {
	var (
		workDir string
		conv    *fakeConverter
		rec     *memRecorder
		srv     *server.Server
	)

	BeforeEach(func() {
		var err error
		workDir, err = os.MkdirTemp("", "resconv-server-test-*")
		Expect(err).NotTo(HaveOccurred())
		conv = &fakeConverter{}
		rec = &memRecorder{}
		srv = server.New(types.ServerConfig{WorkDir: workDir}, conv, rec, zap.NewNop())
	})

	AfterEach(func() {
		os.RemoveAll(workDir)
	})

	workspaceEntries := func() []os.DirEntry {
		entries, err := os.ReadDir(workDir)
		Expect(err).NotTo(HaveOccurred())
		return entries
	}

	Describe("GET /health", func() {
		It("reports ok", func() {
			resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["status"]).To(Equal("ok"))
		})
	})

	Describe("GET /", func() {
		It("renders the upload form", func() {
			resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/html"))

			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(ContainSubstring(`accept=".pdf,.docx"`))
			Expect(string(body)).To(ContainSubstring("Convert"))
		})
	})

	Describe("POST /convert", func() {
		It("converts a docx upload into a pdf download", func() {
			resp, err := srv.App().Test(uploadRequest("resume.docx", "docx", nil, ""), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Disposition")).To(ContainSubstring("resume.pdf"))
			Expect(resp.Header.Get(server.TierHeader)).To(Equal("office"))

			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal("converted:DOCX_TO_PDF"))

			Expect(conv.reqs).To(HaveLen(1))
			Expect(filepath.Base(conv.reqs[0].SourcePath)).To(Equal("resume.docx"))
			Expect(filepath.Base(conv.reqs[0].DestinationPath)).To(Equal("resume.pdf"))
		})

		It("converts a pdf upload into a docx download", func() {
			resp, err := srv.App().Test(uploadRequest("cv.v2.pdf", "pdf", nil, ""), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Disposition")).To(ContainSubstring("cv.v2.docx"))
			Expect(conv.reqs[0].Direction).To(Equal(types.PDFToDocx))
		})

		It("discards the request workspace", func() {
			_, err := srv.App().Test(uploadRequest("resume.docx", "docx", nil, ""), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(workspaceEntries()).To(BeEmpty())
		})

		It("records history without local paths", func() {
			_, err := srv.App().Test(uploadRequest("resume.docx", "docx", nil, ""), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.entries).To(HaveLen(1))
			Expect(rec.entries[0].Source).To(Equal("resume.docx"))
			Expect(rec.entries[0].Status).To(Equal(history.StatusOK))
			Expect(rec.entries[0].Tier).To(Equal("office"))
		})

		DescribeTable("rejects bad requests with 400",
			func(filename string, fields map[string]string) {
				resp, err := srv.App().Test(uploadRequest(filename, "data", fields, "application/json"), -1)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

				var body map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
				Expect(body["error"]).NotTo(BeEmpty())
				Expect(conv.reqs).To(BeEmpty())
				Expect(workspaceEntries()).To(BeEmpty())
			},
			Entry("no file", "", nil),
			Entry("unsupported extension", "notes.txt", nil),
			Entry("same format override", "resume.docx", map[string]string{"to": "docx"}),
		)

		It("renders errors into the form for browsers", func() {
			resp, err := srv.App().Test(uploadRequest("notes.txt", "data", nil, "text/html"), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(ContainSubstring("only .docx and .pdf files are supported"))
		})

		DescribeTable("maps conversion errors to statuses",
			func(kind types.ErrorKind, status int) {
				conv.err = types.NewError(kind, "conversion broke", nil)
				resp, err := srv.App().Test(uploadRequest("resume.docx", "docx", nil, "application/json"), -1)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(status))

				var body map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
				Expect(body["kind"]).To(Equal(string(kind)))
				Expect(rec.entries).To(HaveLen(1))
				Expect(rec.entries[0].Status).To(Equal(history.StatusFailed))
			},
			Entry("dependency missing", types.KindDependencyMissing, http.StatusServiceUnavailable),
			Entry("conversion failed", types.KindConversionFailed, http.StatusUnprocessableEntity),
		)

		It("maps a cancelled conversion to 422", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			orch := convert.NewWithTiers([]convert.Converter{idleTier{}}, nil, nil)
			dir := GinkgoT().TempDir()

			_, err := orch.DocxToPDF(ctx, filepath.Join(dir, "resume.docx"), filepath.Join(dir, "resume.pdf"))
			Expect(err).To(MatchError(context.Canceled))
			Expect(server.StatusFor(err)).To(Equal(http.StatusUnprocessableEntity))
		})
	})
})
