package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mcatarino/order-extractor/constants"
	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/entity"
	"github.com/mcatarino/order-extractor/internal/jobs"
	"github.com/mcatarino/order-extractor/internal/jsonutil"
)

// handleProcess accepts a multipart upload, registers a job and starts the
// extraction in the background. The response carries the job id to poll.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if !constants.ExtensionAllowed(ext) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file type %q", constants.NormalizeExt(ext)))
		return
	}

	path, err := s.saveUpload(file, ext)
	if err != nil {
		s.log.Error("server.upload.save_failed", "filename", header.Filename, "err", err)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	job := jobs.NewJob(path, header.Filename)
	if err := s.store.Create(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, "could not register job")
		return
	}
	s.log.Info("server.job.accepted", "job_id", job.ID, "filename", header.Filename)

	_ = s.queue.Enqueue(r.Context(), job)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":  job.ID,
		"status":  job.Status,
		"message": "document accepted for processing",
	})
}

func (s *Server) saveUpload(src io.Reader, ext string) (string, error) {
	dir := s.cfg.Storage.TempDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+"."+constants.NormalizeExt(ext))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

// runJob executes one extraction on a queue worker. Progress updates are
// best-effort; a failed store write never aborts the extraction.
func (s *Server) runJob(ctx context.Context, job jobs.Job) {
	job.Status = constants.JobStatusRunning
	if err := s.store.Update(ctx, job); err != nil {
		s.log.Error("server.job.update_failed", "job_id", job.ID, "err", err)
	}

	result, err := s.processor.ProcessDocument(ctx, job.FilePath, func(pct float64) {
		job.Progress = pct
		if err := s.store.Update(ctx, job); err != nil {
			s.log.Warn("server.job.progress_failed", "job_id", job.ID, "err", err)
		}
	})
	if err != nil {
		s.log.Error("server.job.failed", "job_id", job.ID, "err", err)
		job.Status = constants.JobStatusFailed
		job.Error = err.Error()
	} else {
		job.Status = constants.JobStatusCompleted
		job.Progress = 100
		job.Result = result
	}
	if err := s.store.Update(ctx, job); err != nil {
		s.log.Error("server.job.update_failed", "job_id", job.ID, "err", err)
	}
	s.log.Info("server.job.done", "job_id", job.ID, "status", job.Status)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list jobs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": summaries, "count": len(summaries)})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleJobJSON downloads the raw extraction result. Numbers that survived
// as non-finite anywhere in the payload become nulls, never NaN literals.
func (s *Server) handleJobJSON(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}
	payload := jsonutil.SanitizeNull(resultDocument(job.Result))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportName(job.Filename, "json")))
	writeJSON(w, http.StatusOK, payload)
}

// handleJobExcel downloads the result as a workbook. The zero policy applies
// here so spreadsheet cells carry numbers, not blanks.
func (s *Server) handleJobExcel(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}
	season := r.URL.Query().Get("season")
	data, err := s.exporter.ExportXLSX(job.Result, season)
	if err != nil {
		s.log.Error("server.export.failed", "job_id", job.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not build workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportName(job.Filename, "xlsx")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) loadJob(w http.ResponseWriter, r *http.Request) (jobs.Job, bool) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
		} else {
			writeError(w, http.StatusInternalServerError, "could not load job")
		}
		return jobs.Job{}, false
	}
	return job, true
}

func (s *Server) completedJob(w http.ResponseWriter, r *http.Request) (jobs.Job, bool) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return jobs.Job{}, false
	}
	if job.Status != constants.JobStatusCompleted || job.Result == nil {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("job is %s, result not available", job.Status))
		return jobs.Job{}, false
	}
	return job, true
}

// resultDocument converts the typed result into the generic tree the
// sanitizers walk.
func resultDocument(result *entity.ExtractionResult) map[string]any {
	return map[string]any{
		"products":   productsTree(result.Products),
		"order_info": result.OrderInfo,
		"page_count": result.PageCount,
		"pages_used": result.PagesUsed,
		"supplier":   result.Supplier,
		"warnings":   result.Warnings,
	}
}

func productsTree(products []entity.Product) []any {
	out := make([]any, 0, len(products))
	for _, p := range products {
		colors := make([]any, 0, len(p.Colors))
		for _, c := range p.Colors {
			sizes := make([]any, 0, len(c.Sizes))
			for _, sz := range c.Sizes {
				sizes = append(sizes, map[string]any{
					"size":     sz.Size,
					"quantity": sz.Quantity,
				})
			}
			colors = append(colors, map[string]any{
				"color_code":  c.ColorCode,
				"color_name":  c.ColorName,
				"sizes":       sizes,
				"unit_price":  c.UnitPrice,
				"sales_price": c.SalesPrice,
				"subtotal":    c.Subtotal,
				"supplier":    c.Supplier,
			})
		}
		references := make([]any, 0, len(p.References))
		for _, ref := range p.References {
			references = append(references, map[string]any{
				"reference":   ref.Reference,
				"counter":     ref.Counter,
				"color_code":  ref.ColorCode,
				"color_name":  ref.ColorName,
				"size":        ref.Size,
				"quantity":    ref.Quantity,
				"description": ref.Description,
				"barcode":     ref.Barcode,
				"supplier":    ref.Supplier,
			})
		}
		out = append(out, map[string]any{
			"name":          p.Name,
			"material_code": p.MaterialCode,
			"category":      p.Category,
			"model":         p.Model,
			"composition":   p.Composition,
			"brand":         p.Brand,
			"supplier":      p.Supplier,
			"colors":        colors,
			"references":    references,
			"total_price":   p.TotalPrice,
		})
	}
	return out
}

func exportName(filename, ext string) string {
	base := filepath.Base(filename)
	if dot := filepath.Ext(base); dot != "" {
		base = base[:len(base)-len(dot)]
	}
	if base == "" {
		base = "extraction-" + time.Now().UTC().Format("20060102")
	}
	return base + "." + ext
}
