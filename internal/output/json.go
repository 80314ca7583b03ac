package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/source"
)

type jsonScore struct {
	Score int    `json:"score"`
	Band  string `json:"band"`
}

type jsonRequest struct {
	ID        string       `json:"id"`
	Filename  string       `json:"filename"`
	Language  string       `json:"language"`
	SizeBytes int64        `json:"size_bytes"`
	Size      string       `json:"size"`
	Status    model.Status `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type jsonReport struct {
	Request     jsonRequest          `json:"request"`
	ReportID    string               `json:"report_id"`
	Overall     jsonScore            `json:"overall"`
	Scores      map[string]jsonScore `json:"scores"`
	Summary     string               `json:"summary"`
	Counts      analysis.Counts      `json:"counts"`
	Suggestions []model.Suggestion   `json:"suggestions"`
}

func score(n int) jsonScore {
	return jsonScore{Score: n, Band: model.BandFor(n).String()}
}

// JSON writes the review as an indented JSON document. The source content is
// omitted.
func JSON(w io.Writer, rev model.Review) error {
	req, rep := rev.Request, rev.Report
	out := jsonReport{
		Request: jsonRequest{
			ID:        req.ID,
			Filename:  req.Filename,
			Language:  req.Language,
			SizeBytes: req.SizeBytes,
			Size:      source.FormatSize(req.SizeBytes),
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
		},
		ReportID: rep.ID,
		Overall:  score(rep.Overall),
		Scores: map[string]jsonScore{
			"readability":    score(rep.Readability),
			"modularity":     score(rep.Modularity),
			"best_practices": score(rep.BestPractices),
		},
		Summary:     rep.Summary,
		Counts:      analysis.CountBySeverity(rev.Suggestions),
		Suggestions: rev.Suggestions,
	}
	if out.Suggestions == nil {
		out.Suggestions = []model.Suggestion{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
