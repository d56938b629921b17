package redline

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gardar/redliner/pkg/rederr"
)

// Job is one entry of a batch list.
type Job struct {
	DocNumber string `yaml:"doc_number"`
	Name      string `yaml:"name"`
	Link      string `yaml:"link"`
	Output    string `yaml:"output,omitempty"`
}

// Report is the result of one Job.
type Report struct {
	DocNumber string  `yaml:"doc_number"`
	Name      string  `yaml:"name"`
	Result    string  `yaml:"result"`
	Outcome   Outcome `yaml:"outcome"`
}

// LoadJobs reads a YAML list of jobs. The list ends at the first entry
// without a document number.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rederr.Configuration("cannot read batch list %s: %v", path, err)
	}
	var jobs []Job
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return nil, rederr.Configuration("cannot parse batch list %s: %v", path, err)
	}
	for i, j := range jobs {
		if j.DocNumber == "" {
			return jobs[:i], nil
		}
	}
	return jobs, nil
}

// RunBatch redlines jobs one after the other. A failing job is reported and
// the batch moves on. Jobs without an explicit output are written to
// outDir as <doc number>_annotated.pdf; outDir is created when missing.
func (s *Session) RunBatch(ctx context.Context, jobs []Job, outDir string) ([]Report, error) {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, rederr.Save(err, "cannot create output directory %s", outDir)
		}
	}
	reports := make([]Report, 0, len(jobs))
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		out := j.Output
		if out == "" {
			out = filepath.Join(outDir, j.DocNumber+"_annotated.pdf")
		}
		o, _ := s.MakeRedline(ctx, j.Link, out)
		reports = append(reports, Report{
			DocNumber: j.DocNumber,
			Name:      j.Name,
			Result:    o.Status,
			Outcome:   o,
		})
	}
	return reports, nil
}

// WriteReport saves reports as YAML.
func WriteReport(path string, reports []Report) error {
	data, err := yaml.Marshal(reports)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
