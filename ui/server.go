package ui

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"dataqc/domain/core"
	"dataqc/domain/validation"
	"dataqc/ports"
)

// Server exposes validation report history over HTTP: JSON list/detail
// endpoints plus an HTML summary rendered from markdown.
type Server struct {
	router  *gin.Engine
	reports ports.ReportRepository
}

// NewServer creates the report server over the given repository.
func NewServer(reports ports.ReportRepository, ginMode string) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	s := &Server{
		router:  gin.Default(),
		reports: reports,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/reports", s.handleListReports)
		api.GET("/reports/:id", s.handleGetReport)
	}

	s.router.GET("/reports/:id/summary", s.handleReportSummary)
}

// Run starts the HTTP server on the given port.
func (s *Server) Run(port string) error {
	log.Printf("[Server] report server listening on :%s", port)
	return s.router.Run(":" + port)
}

// Router exposes the underlying handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListReports(c *gin.Context) {
	reports, err := s.reports.ListRecent(c.Request.Context(), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, 0, len(reports))
	for _, sr := range reports {
		items = append(items, gin.H{
			"id":                sr.ID,
			"dataset":           sr.Dataset,
			"created_at":        sr.CreatedAt,
			"total_validations": sr.Report.TotalValidations,
			"passed":            sr.Report.Passed,
			"failed":            sr.Report.Failed,
		})
	}
	c.JSON(http.StatusOK, gin.H{"reports": items})
}

func (s *Server) handleGetReport(c *gin.Context) {
	sr, err := s.loadReport(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, sr)
}

func (s *Server) handleReportSummary(c *gin.Context) {
	sr, err := s.loadReport(c)
	if err != nil {
		return
	}

	md := buildMarkdownSummary(sr)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	page := markdown.ToHTML([]byte(md), p, renderer)

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) loadReport(c *gin.Context) (*ports.StoredReport, error) {
	id := core.ReportID(c.Param("id"))
	sr, err := s.reports.GetByID(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsNotFoundError(err) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, err
	}
	return sr, nil
}

// buildMarkdownSummary renders a stored report as a markdown document.
func buildMarkdownSummary(sr *ports.StoredReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report %s\n\n", sr.ID)
	fmt.Fprintf(&b, "Dataset: `%s`  \n", sr.Dataset)
	fmt.Fprintf(&b, "Generated: %s\n\n", sr.CreatedAt)
	fmt.Fprintf(&b, "**%d validations — %d passed, %d failed**\n\n",
		sr.Report.TotalValidations, sr.Report.Passed, sr.Report.Failed)

	for _, result := range sr.Report.Results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "## %s — %s\n\n", result.Type, status)
		writeResultDetail(&b, result)
	}

	return b.String()
}

func writeResultDetail(b *strings.Builder, result validation.Result) {
	switch result.Type {
	case validation.TypeSchema:
		for _, e := range result.Errors {
			if len(e.Columns) > 0 {
				fmt.Fprintf(b, "- %s: %s\n", e.Kind, strings.Join(e.Columns, ", "))
			} else if len(e.Mismatches) > 0 {
				for _, m := range e.Mismatches {
					fmt.Fprintf(b, "- %s: %s expected %s, got %s\n", e.Kind, m.Column, m.Expected, m.Actual)
				}
			} else {
				fmt.Fprintf(b, "- %s: %s\n", e.Kind, e.Message)
			}
		}
	case validation.TypeStatistical:
		for _, cv := range result.Violations {
			for _, v := range cv.Violations {
				fmt.Fprintf(b, "- %s.%s = %.4f (%s %.4f)\n", cv.Column, v.Stat, v.Value, v.Kind, v.Threshold)
			}
		}
	case validation.TypeFreshness:
		if result.Details != nil {
			if result.Details.Error != "" {
				fmt.Fprintf(b, "- %s\n", result.Details.Error)
			} else {
				fmt.Fprintf(b, "- staleness %.2fh of %gh allowed (latest %s)\n",
					result.Details.StalenessHours, result.Details.MaxStalenessHours, result.Details.LatestTimestamp)
			}
		}
	case validation.TypeSuite:
		fmt.Fprintf(b, "Suite: `%s`\n\n", result.SuiteName)
		if result.Error != "" {
			fmt.Fprintf(b, "- error: %s\n", result.Error)
		}
		for _, fe := range result.FailedExpectations {
			fmt.Fprintf(b, "- failed: %s %v\n", fe.Expectation, fe.Kwargs)
		}
	}
	b.WriteString("\n")
}
