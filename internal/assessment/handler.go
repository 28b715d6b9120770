package assessment

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"triage-advisor/internal/emergency"
	"triage-advisor/internal/pipeline"
	"triage-advisor/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxBodyBytes = 1 << 20

type Handler struct {
	svc    Service
	pdf    *report.PDFRenderer
	pages  *template.Template
	md     goldmark.Markdown
	logger *zap.Logger
}

func NewHandler(svc Service, pdf *report.PDFRenderer, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pages, err := template.New("pages").Funcs(template.FuncMap{
		"contains": func(list []string, s string) bool {
			for _, v := range list {
				if strings.EqualFold(v, s) {
					return true
				}
			}
			return false
		},
		"eqfold": strings.EqualFold,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handler{
		svc:    svc,
		pdf:    pdf,
		pages:  pages,
		md:     goldmark.New(),
		logger: logger.Named("http"),
	}, nil
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Form)
	r.Post("/assess", h.SubmitForm)
	r.Get("/assessments/{id}/report.{format}", h.Download)
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/assessments", h.CreateAssessment)
		r.Post("/classify", h.Classify)
		r.Get("/demo", h.Demo)
	})
}

type formPage struct {
	Form      Request
	Error     string
	Field     string
	Symptoms  []string
	Severity  []string
	Locations []string
}

func newFormPage(req Request) formPage {
	return formPage{
		Form:      req,
		Symptoms:  SymptomOptions,
		Severity:  SeverityOptions,
		Locations: Locations,
	}
}

type resultPage struct {
	ID          string
	Patient     string
	Emergency   bool
	Matches     []string
	Tier        string
	Body        template.HTML
	Downloads   []download
	Error       string
	Remediation string
}

type download struct {
	Label string
	URL   string
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	req := Request{Age: pipeline.AgeOf(pipeline.DefaultAge), Severity: "moderate"}
	if r.URL.Query().Get("demo") != "" {
		req = DemoPatient()
	}
	h.render(w, http.StatusOK, "form.html", newFormPage(req))
}

func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	req := requestFromForm(r)

	out, err := h.svc.Assess(r.Context(), req)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			page := newFormPage(req)
			page.Error, page.Field = vErr.Message, vErr.Field
			h.render(w, http.StatusBadRequest, "form.html", page)
			return
		}
		status, remediation := h.classifyError(err)
		h.render(w, status, "result.html", resultPage{
			Patient:     req.Name,
			Error:       err.Error(),
			Remediation: remediation,
		})
		return
	}

	body, err := h.markdownHTML(out.Markdown())
	if err != nil {
		h.logger.Error("failed to render report", zap.Error(err))
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
		return
	}
	page := resultPage{
		ID:        out.ID.String(),
		Patient:   req.Name,
		Emergency: out.IsEmergency(),
		Matches:   out.Classification.Matches,
		Body:      body,
	}
	if out.Report != nil {
		page.Tier = string(out.Report.Tier)
		page.Downloads = downloads(out.ID)
	}
	h.render(w, http.StatusOK, "result.html", page)
}

func requestFromForm(r *http.Request) Request {
	var age *int
	if raw := strings.TrimSpace(r.PostFormValue("age")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = -1
		}
		age = &n
	}
	return Request{
		Name:            r.PostFormValue("name"),
		Age:             age,
		Gender:          r.PostFormValue("gender"),
		Location:        r.PostFormValue("location"),
		Phone:           r.PostFormValue("phone"),
		MedicalHistory:  r.PostFormValue("medical_history"),
		Symptoms:        r.PostFormValue("symptoms"),
		Severity:        r.PostFormValue("severity"),
		CheckedSymptoms: r.PostForm["checked_symptoms"],
		Emergency:       r.PostFormValue("emergency") != "",
	}
}

// AssessmentResponse is the JSON result of POST /api/assessments.
type AssessmentResponse struct {
	ID             string                   `json:"id"`
	Emergency      bool                     `json:"emergency"`
	Classification emergency.Classification `json:"classification"`
	Tier           string                   `json:"tier,omitempty"`
	Markdown       string                   `json:"markdown"`
	Stages         []pipeline.StageResult   `json:"stages,omitempty"`
	Downloads      map[string]string        `json:"downloads,omitempty"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Field       string `json:"field,omitempty"`
	Stage       string `json:"stage,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request"})
		return
	}

	out, err := h.svc.Assess(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := AssessmentResponse{
		ID:             out.ID.String(),
		Emergency:      out.IsEmergency(),
		Classification: out.Classification,
		Markdown:       out.Markdown(),
	}
	if out.Report != nil {
		resp.Tier = string(out.Report.Tier)
		resp.Stages = out.Report.Stages
		resp.Downloads = make(map[string]string)
		for _, d := range downloads(out.ID) {
			resp.Downloads[d.Label] = d.URL
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = "Anonymous"
	}
	c, err := h.svc.Classify(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) Demo(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("scenario"); name != "" {
		req, ok := Scenarios[name]
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown scenario %q", name)})
			return
		}
		writeJSON(w, http.StatusOK, req)
		return
	}
	writeJSON(w, http.StatusOK, DemoPatient())
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid assessment ID", http.StatusBadRequest)
		return
	}
	format, ok := report.ParseFormat(chi.URLParam(r, "format"))
	if !ok {
		http.Error(w, "Unknown report format", http.StatusNotFound)
		return
	}
	rep, err := h.svc.Report(id)
	if err != nil {
		http.Error(w, "Report not found or expired", http.StatusNotFound)
		return
	}

	var data []byte
	switch format {
	case report.FormatMarkdown:
		data = []byte(report.Markdown(rep))
	case report.FormatText:
		data = []byte(report.PlainText(rep))
	case report.FormatPDF:
		if h.pdf == nil {
			http.Error(w, "PDF export is not configured", http.StatusServiceUnavailable)
			return
		}
		data, err = h.pdf.Render(rep)
		if err != nil {
			h.logger.Error("pdf export failed", zap.String("assessment_id", id.String()), zap.Error(err))
			status := http.StatusInternalServerError
			if errors.Is(err, report.ErrNoFont) {
				status = http.StatusServiceUnavailable
			}
			http.Error(w, "PDF export failed", status)
			return
		}
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(rep, format)))
	w.Write(data)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"stored_reports": h.svc.Stored(),
	})
}

// classifyError maps a failed run to an HTTP status and the advice shown to the user.
func (h *Handler) classifyError(err error) (int, string) {
	var callErr *pipeline.ExternalCallError
	if errors.As(err, &callErr) {
		return http.StatusBadGateway, callErr.Remediation()
	}
	h.logger.Error("assessment failed", zap.Error(err))
	return http.StatusInternalServerError, ""
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Message, Field: vErr.Field})
		return
	}
	status, remediation := h.classifyError(err)
	resp := errorResponse{Error: err.Error(), Remediation: remediation}
	var callErr *pipeline.ExternalCallError
	if errors.As(err, &callErr) {
		resp.Stage = string(callErr.Stage)
	}
	if status == http.StatusInternalServerError {
		resp.Error = "Assessment failed"
	}
	writeJSON(w, status, resp)
}

func (h *Handler) markdownHTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	// goldmark omits raw HTML unless WithUnsafe is set.
	return template.HTML(buf.String()), nil
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func downloads(id uuid.UUID) []download {
	base := "/assessments/" + id.String() + "/report."
	return []download{
		{Label: "markdown", URL: base + string(report.FormatMarkdown)},
		{Label: "text", URL: base + string(report.FormatText)},
		{Label: "pdf", URL: base + string(report.FormatPDF)},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
