package stage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teranos/carousel/render"
)

// Report is a stage session rendered for people: the actions taken, the
// terminal views along the way and the captured frames.
type Report struct {
	Name      string
	Success   bool
	Duration  time.Duration
	Error     string
	Actions   []StageAction
	Snapshots []ReportSnapshot
	Frames    []ReportFrame
}

// ReportSnapshot is a terminal view with escapes stripped.
type ReportSnapshot struct {
	Reason string
	Offset time.Duration // since the first snapshot
	Index  int
	Title  string
	View   string
}

// ReportFrame is one captured PNG, embedded as a data URL.
type ReportFrame struct {
	Label   string
	DataURL template.URL
}

// NewReport collects a result and the frames an Operator wrote.
func NewReport(name string, result *StageResult, frames []string) (Report, error) {
	report := Report{
		Name:     name,
		Success:  result.Success,
		Duration: result.Duration,
		Error:    result.ErrorMessage,
		Actions:  result.Actions,
	}

	var first time.Time
	for i, s := range result.Snapshots {
		if i == 0 {
			first = s.Timestamp
		}
		report.Snapshots = append(report.Snapshots, ReportSnapshot{
			Reason: s.Reason,
			Offset: s.Timestamp.Sub(first),
			Index:  s.State.Index,
			Title:  s.State.Title,
			View:   render.StripANSI(s.View),
		})
	}

	for _, f := range frames {
		url, err := convertImageToDataURL(f)
		if err != nil {
			return Report{}, err
		}
		label := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		report.Frames = append(report.Frames, ReportFrame{Label: label, DataURL: url})
	}
	return report, nil
}

// reportMetadata is written next to index.html so a dashboard can list
// reports without parsing them.
type reportMetadata struct {
	Name       string `json:"name"`
	Success    bool   `json:"success"`
	Duration   string `json:"duration"`
	FrameCount int    `json:"frame_count"`
	Error      string `json:"error,omitempty"`
}

// WriteHTML writes the report to dir/index.html, with its metadata in
// dir/report.json, and returns the HTML path.
func (r Report) WriteHTML(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, "index.html")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, r); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	meta, err := json.MarshalIndent(reportMetadata{
		Name:       r.Name,
		Success:    r.Success,
		Duration:   r.Duration.String(),
		FrameCount: len(r.Frames),
		Error:      r.Error,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), meta, 0644); err != nil {
		return "", fmt.Errorf("failed to write report metadata: %w", err)
	}
	return path, nil
}

// convertImageToDataURL reads an image file and converts it to a base64 data URL.
func convertImageToDataURL(imagePath string) (template.URL, error) {
	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}

	var mimeType string
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".gif":
		mimeType = "image/gif"
	default:
		mimeType = "image/png"
	}

	data := base64.StdEncoding.EncodeToString(imageBytes)
	return template.URL(fmt.Sprintf("data:%s;base64,%s", mimeType, data)), nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
body { background: #141312; color: #f2eee6; font-family: sans-serif; margin: 2em; }
.pass { color: #5b8c5a; } .fail { color: #e07a3f; }
pre { background: #000; padding: 0.5em; overflow-x: auto; }
figure { display: inline-block; margin: 0.5em; }
figcaption { font-size: 0.8em; color: #8a8580; }
td { padding: 0 1em 0 0; }
</style>
</head>
<body>
<h1>{{.Name}} <span class="{{if .Success}}pass{{else}}fail{{end}}">{{if .Success}}passed{{else}}failed{{end}}</span></h1>
<p>Staged {{.Duration}} of virtual time.</p>
{{if .Error}}<p class="fail">{{.Error}}</p>{{end}}
<h2>Frames</h2>
{{range .Frames}}<figure><img src="{{.DataURL}}" alt="{{.Label}}"><figcaption>{{.Label}}</figcaption></figure>
{{end}}
<h2>Actions</h2>
<table>
{{range .Actions}}<tr><td>{{.Type}}</td><td>{{printf "%v" .Details}}</td></tr>
{{end}}</table>
<h2>Views</h2>
{{range .Snapshots}}<h3>+{{.Offset}} {{.Reason}} (index {{.Index}}, {{.Title}})</h3>
<pre>{{.View}}</pre>
{{end}}
</body>
</html>
`))
