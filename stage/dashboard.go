package stage

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const metadataFile = "report.json"

// DashboardEntry is one report found under a dashboard directory.
type DashboardEntry struct {
	Name         string
	Success      bool
	Duration     string
	FrameCount   int
	Error        string
	RelativePath string
	CreatedAt    time.Time
}

// ScanReports finds every report written below baseDir, newest first.
// Directories without report metadata are skipped.
func ScanReports(baseDir string) ([]DashboardEntry, error) {
	var entries []DashboardEntry

	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != metadataFile {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var meta reportMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		index := filepath.Join(filepath.Dir(path), "index.html")
		rel, err := filepath.Rel(baseDir, index)
		if err != nil {
			rel = index
		}
		entries = append(entries, DashboardEntry{
			Name:         meta.Name,
			Success:      meta.Success,
			Duration:     meta.Duration,
			FrameCount:   meta.FrameCount,
			Error:        meta.Error,
			RelativePath: filepath.ToSlash(rel),
			CreatedAt:    info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// GenerateDashboard writes baseDir/index.html linking every report below
// baseDir and returns the number of reports listed.
func GenerateDashboard(baseDir string) (int, error) {
	entries, err := ScanReports(baseDir)
	if err != nil {
		return 0, fmt.Errorf("failed to scan reports: %w", err)
	}

	file, err := os.Create(filepath.Join(baseDir, "index.html"))
	if err != nil {
		return 0, fmt.Errorf("failed to create dashboard file: %w", err)
	}
	defer file.Close()

	passed := 0
	for _, e := range entries {
		if e.Success {
			passed++
		}
	}
	data := struct {
		Reports     []DashboardEntry
		Passed      int
		GeneratedAt time.Time
	}{entries, passed, time.Now()}

	if err := dashboardTemplate.Execute(file, data); err != nil {
		return 0, fmt.Errorf("failed to render dashboard: %w", err)
	}
	return len(entries), nil
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Gallery stage reports</title>
<style>
body { background: #141312; color: #f2eee6; font-family: sans-serif; margin: 2em; }
a { color: #d4a017; }
.pass { color: #5b8c5a; } .fail { color: #e07a3f; }
td, th { padding: 0.2em 1em 0.2em 0; text-align: left; }
</style>
</head>
<body>
<h1>Stage reports</h1>
<p>{{.Passed}} of {{len .Reports}} passed. Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}.</p>
<table>
<tr><th>Session</th><th>Result</th><th>Duration</th><th>Frames</th></tr>
{{range .Reports}}<tr>
<td><a href="{{.RelativePath}}">{{.Name}}</a></td>
<td class="{{if .Success}}pass{{else}}fail{{end}}">{{if .Success}}passed{{else}}failed{{end}}</td>
<td>{{.Duration}}</td>
<td>{{.FrameCount}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))
