package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/export"
)

// Report formats accepted by the centers export.
const (
	ReportFormatPDF = "pdf"
	ReportFormatCSV = "csv"
)

type candidateFinder interface {
	FindByID(ctx context.Context, id string) (*models.CandidateDetail, error)
}

type rankingProvider interface {
	CentersRanking(ctx context.Context) ([]models.CenterRanking, error)
}

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type reportSigner interface {
	Generate(reportID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (reportID, relPath string, expiresAt time.Time, err error)
}

// BundleResult is a rendered candidate ZIP archive.
type BundleResult struct {
	Filename string
	Data     []byte
}

// ReportResult references a rendered centers report and its signed
// download token.
type ReportResult struct {
	ReportID    string    `json:"reportId"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ExportService renders candidate document bundles and centers reports.
type ExportService struct {
	candidates candidateFinder
	ranking    rankingProvider
	documents  documentStorage
	reports    reportStorage
	signer     reportSigner
	bundler    *export.ZIPBundler
	pdf        *export.PDFExporter
	csv        *export.CSVExporter
	retention  time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewExportService constructs the export service.
func NewExportService(
	candidates candidateFinder,
	ranking rankingProvider,
	documents documentStorage,
	reports reportStorage,
	signer reportSigner,
	retention time.Duration,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retention <= 0 {
		retention = 30 * time.Minute
	}
	return &ExportService{
		candidates: candidates,
		ranking:    ranking,
		documents:  documents,
		reports:    reports,
		signer:     signer,
		bundler:    export.NewZIPBundler(),
		pdf:        export.NewPDFExporter(),
		csv:        export.NewCSVExporter(),
		retention:  retention,
		logger:     logger,
		now:        time.Now,
	}
}

// CandidateBundle assembles a ZIP with the candidate's profile summary and
// both stored documents.
func (s *ExportService) CandidateBundle(ctx context.Context, candidateID string) (*BundleResult, error) {
	detail, err := s.candidates.FindByID(ctx, candidateID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "candidate not found")
	}
	AttachRemainingTime(detail, s.now())

	entries := []export.BundleEntry{
		{Name: "info.txt", Data: []byte(s.candidateSummary(detail))},
	}
	if detail.CVPath != "" {
		data, err := s.documents.Read(detail.CVPath)
		if err != nil {
			s.logger.Warn("cv missing from storage", zap.String("candidate_id", candidateID), zap.Error(err))
		} else {
			entries = append(entries, export.BundleEntry{Name: bundleDocName("cv", detail.CVName), Data: data})
		}
	}
	if detail.CoverPath != "" {
		data, err := s.documents.Read(detail.CoverPath)
		if err != nil {
			s.logger.Warn("cover letter missing from storage", zap.String("candidate_id", candidateID), zap.Error(err))
		} else {
			entries = append(entries, export.BundleEntry{Name: bundleDocName("cover", detail.CoverName), Data: data})
		}
	}

	archive, err := s.bundler.Bundle(entries)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build bundle")
	}

	filename := fmt.Sprintf("%s-dossier.zip", slugify(detail.FullName))
	return &BundleResult{Filename: filename, Data: archive}, nil
}

// CentersReport renders the ranking table in the requested format, stores
// it and returns a signed download reference.
func (s *ExportService) CentersReport(ctx context.Context, format string) (*ReportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ReportFormatPDF
	}
	if format != ReportFormatPDF && format != ReportFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}

	s.sweepExpiredReports()

	ranking, err := s.ranking.CentersRanking(ctx)
	if err != nil {
		return nil, err
	}

	dataset := rankingDataset(ranking)

	var rendered []byte
	var contentType string
	switch format {
	case ReportFormatPDF:
		rendered, err = s.pdf.Render(dataset, "Statistiques des centres")
		contentType = "application/pdf"
	case ReportFormatCSV:
		rendered, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	reportID := uuid.NewString()
	relPath := fmt.Sprintf("reports/%s/centres.%s", reportID, format)
	if _, err := s.reports.Save(relPath, rendered); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	token, expiresAt, err := s.signer.Generate(reportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign report url")
	}

	s.logger.Info("centers report rendered",
		zap.String("report_id", reportID),
		zap.String("format", format))

	return &ReportResult{
		ReportID:    reportID,
		Filename:    fmt.Sprintf("statistiques-centres-%s.%s", s.now().Format("2006-01-02"), format),
		ContentType: contentType,
		Token:       token,
		ExpiresAt:   expiresAt,
	}, nil
}

// OpenReport resolves a signed token back to the stored report bytes.
func (s *ExportService) OpenReport(token string) (*DocumentFile, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	data, err := s.reports.Read(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "report no longer available")
	}
	contentType := "application/pdf"
	name := "centres.pdf"
	if strings.HasSuffix(relPath, ".csv") {
		contentType = "text/csv"
		name = "centres.csv"
	}
	return &DocumentFile{Name: name, ContentType: contentType, Data: data}, nil
}

// sweepExpiredReports drops stored reports whose signed tokens can no
// longer pass validation. Best effort: a failed sweep never blocks a
// fresh render.
func (s *ExportService) sweepExpiredReports() {
	deleted, err := s.reports.CleanupOlderThan(s.retention)
	if err != nil {
		s.logger.Warn("failed to sweep expired reports", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("expired reports removed", zap.Int("count", len(deleted)), zap.Strings("files", deleted))
	}
}

func (s *ExportService) candidateSummary(detail *models.CandidateDetail) string {
	var b strings.Builder
	write := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	write("Nom complet", detail.FullName)
	write("LinkedIn", detail.LinkedIn)
	write("Portfolio", detail.Portfolio)
	write("Centre", deref(detail.CenterName))
	write("Filiere", deref(detail.FiliereName))
	write("Statut", string(detail.StatusTracking.CurrentStatus))

	if stage := detail.StatusTracking.Internship; stage != nil {
		write("Entreprise (stage)", stage.Company)
		write("Poste (stage)", stage.Title)
		write("Type de stage", stage.Type)
		write("Debut du stage", formatDate(stage.StartDate))
		write("Fin du stage", formatDate(stage.EndDate))
		write("Temps restant", detail.StatusTracking.RemainingTime)
	}
	if job := detail.StatusTracking.Employment; job != nil {
		write("Entreprise", job.Company)
		write("Poste", job.Title)
		write("Type de contrat", job.ContractType)
		write("Date d'embauche", formatDate(job.StartDate))
	}

	write("Inscrit le", detail.CreatedAt.Format("02/01/2006"))
	return b.String()
}

func rankingDataset(ranking []models.CenterRanking) export.Dataset {
	headers := []string{"Centre", "Disponible", "En Stage", "En Travail", "Total"}
	rows := make([]map[string]string, 0, len(ranking)+1)

	totals := models.StatusCounts{}
	for _, entry := range ranking {
		rows = append(rows, map[string]string{
			"Centre":     entry.CenterName,
			"Disponible": strconv.Itoa(entry.Counts.Available),
			"En Stage":   strconv.Itoa(entry.Counts.Internship),
			"En Travail": strconv.Itoa(entry.Counts.Employed),
			"Total":      strconv.Itoa(entry.Total),
		})
		totals.Available += entry.Counts.Available
		totals.Internship += entry.Counts.Internship
		totals.Employed += entry.Counts.Employed
	}
	rows = append(rows, map[string]string{
		"Centre":     "TOTAL",
		"Disponible": strconv.Itoa(totals.Available),
		"En Stage":   strconv.Itoa(totals.Internship),
		"En Travail": strconv.Itoa(totals.Employed),
		"Total":      strconv.Itoa(totals.Total()),
	})

	return export.Dataset{Headers: headers, Rows: rows}
}

func bundleDocName(kind, original string) string {
	if original == "" {
		return kind + ".pdf"
	}
	return fmt.Sprintf("%s-%s", kind, original)
}

func slugify(raw string) string {
	slug := strings.TrimSpace(strings.ToLower(raw))
	slug = strings.Join(strings.Fields(slug), "-")
	if slug == "" {
		return "candidat"
	}
	return slug
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}
