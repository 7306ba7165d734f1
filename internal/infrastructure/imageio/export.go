package imageio

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"robodoc/internal/domain/entity"
)

// ContourRecord описывает геометрию одного контура в contours.json.
type ContourRecord struct {
	Area   int      `json:"area"`
	Bounds [4]int   `json:"bounds"` // x0, y0, x1, y1
	Points [][2]int `json:"points"`
	Raw    [][2]int `json:"raw,omitempty"`
}

// GeometryRecord задаёт содержимое contours.json.
type GeometryRecord struct {
	RunID       string          `json:"run_id"`
	Threshold   int             `json:"threshold"`
	LineDensity int             `json:"line_density"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Contours    []ContourRecord `json:"contours"`
}

// Geometry переводит результат в сериализуемую запись.
func Geometry(result *entity.CompositeResult, withRaw bool) GeometryRecord {
	rec := GeometryRecord{
		RunID:       result.RunID,
		Threshold:   result.Params.Threshold,
		LineDensity: result.Params.LineDensity,
		Width:       result.Mask.Width,
		Height:      result.Mask.Height,
		Contours:    make([]ContourRecord, 0, len(result.Contours)),
	}
	for _, c := range result.Contours {
		cr := ContourRecord{
			Area:   c.Area,
			Bounds: [4]int{c.Bounds.Min.X, c.Bounds.Min.Y, c.Bounds.Max.X, c.Bounds.Max.Y},
			Points: pairs(c.Points),
		}
		if withRaw {
			cr.Raw = pairs(c.Raw)
		}
		rec.Contours = append(rec.Contours, cr)
	}
	return rec
}

func pairs(points []image.Point) [][2]int {
	out := make([][2]int, len(points))
	for i, p := range points {
		out[i] = [2]int{p.X, p.Y}
	}
	return out
}

// Export сохраняет изображения результата и геометрию контуров в каталог.
// cutout может быть nil.
func Export(dir string, result *entity.CompositeResult, cutout image.Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name string
		img  image.Image
	}{
		{"mask.png", result.MaskImage},
		{"overlay.png", result.Overlay},
		{"hatched.png", result.Hatched},
		{"panel.png", result.Panel},
	}
	if cutout != nil {
		files = append(files, struct {
			name string
			img  image.Image
		}{"cutout.png", cutout})
	}

	written := make([]string, 0, len(files)+1)
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := Save(path, f.img); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	data, err := json.MarshalIndent(Geometry(result, true), "", "  ")
	if err != nil {
		return written, fmt.Errorf("marshal geometry: %w", err)
	}
	path := filepath.Join(dir, "contours.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return written, fmt.Errorf("write geometry: %w", err)
	}
	return append(written, path), nil
}
