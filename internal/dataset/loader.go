package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/types"
)

// LoadManifest reads media paths from the first sheet of an .xlsx file. The
// path column is detected from the header row; relative paths resolve
// against the manifest's directory.
func LoadManifest(path string) ([]types.ManifestRecord, error) {
	log := logger.New().Component("dataset.manifest").WithField("path", path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	pathIdx, labelIdx := detectColumns(rows[0])
	log.WithField("path_col", pathIdx).WithField("label_col", labelIdx).Debug("detected manifest columns")

	base := filepath.Dir(path)
	var out []types.ManifestRecord
	for i, r := range rows {
		if i == 0 {
			continue
		}
		if pathIdx >= len(r) {
			continue
		}
		p := strings.TrimSpace(r[pathIdx])
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		rec := types.ManifestRecord{Row: i + 1, Path: p}
		if labelIdx >= 0 && labelIdx < len(r) {
			rec.Label = strings.TrimSpace(r[labelIdx])
		}
		out = append(out, rec)
	}
	log.WithField("records", len(out)).Info("manifest loaded")
	return out, nil
}

// detectColumns picks the media path and label columns by header name,
// falling back to the first column for paths.
func detectColumns(header []string) (pathIdx, labelIdx int) {
	pathIdx, labelIdx = -1, -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "path") || strings.Contains(l, "file") || strings.Contains(l, "media") || strings.Contains(l, "video") || strings.Contains(l, "audio"):
			if pathIdx == -1 {
				pathIdx = i
			}
		case strings.Contains(l, "label") || strings.Contains(l, "name") || strings.Contains(l, "speaker") || strings.Contains(l, "id"):
			if labelIdx == -1 {
				labelIdx = i
			}
		}
	}
	if pathIdx == -1 {
		pathIdx = 0
		if labelIdx == 0 {
			labelIdx = -1
		}
	}
	return pathIdx, labelIdx
}
