package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	app "robodoc/internal/application"
	"robodoc/internal/infrastructure/vision"
)

// Tuning содержит настройки сглаживания, фильтрации и отрисовки из YAML-файла.
type Tuning struct {
	Blur struct {
		Kernel int     `yaml:"kernel"`
		Sigma  float64 `yaml:"sigma"`
	} `yaml:"blur"`

	Contours struct {
		MinArea int     `yaml:"minArea"`
		Max     int     `yaml:"max"`
		Color   string  `yaml:"color"`
		Width   float64 `yaml:"width"`
	} `yaml:"contours"`

	Hatch struct {
		Color string  `yaml:"color"`
		Width float64 `yaml:"width"`
	} `yaml:"hatch"`

	Panel struct {
		Gap          int    `yaml:"gap"`
		Background   string `yaml:"background"`
		MaxPhotoSide int    `yaml:"maxPhotoSide"`
	} `yaml:"panel"`
}

// DefaultTuning возвращает настройки, совпадающие с vision.DefaultOptions.
func DefaultTuning() *Tuning {
	opts := vision.DefaultOptions()
	t := &Tuning{}

	t.Blur.Kernel = opts.BlurKernel
	t.Blur.Sigma = opts.BlurSigma

	t.Contours.MinArea = opts.MinContourArea
	t.Contours.Max = opts.MaxContours
	t.Contours.Color = hexColor(opts.ContourColor)
	t.Contours.Width = opts.ContourWidth

	t.Hatch.Color = hexColor(opts.HatchColor)
	t.Hatch.Width = opts.HatchWidth

	t.Panel.Gap = opts.PanelGap
	t.Panel.Background = hexColor(opts.PanelBackground)
	t.Panel.MaxPhotoSide = app.DefaultMaxPhotoSide

	return t
}

// LoadTuning читает настройки из YAML. Если файла нет, возвращаются настройки по умолчанию.
func LoadTuning(path string) (*Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading tuning file: %w", err)
	}

	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("error parsing tuning file: %w", err)
	}

	if _, err := t.Options(); err != nil {
		return nil, err
	}
	return t, nil
}

// SaveTuning записывает настройки в YAML.
func SaveTuning(t *Tuning, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating tuning directory: %w", err)
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("error marshaling tuning: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing tuning file: %w", err)
	}
	return nil
}

// Options переводит настройки в параметры конвейера.
func (t *Tuning) Options() (vision.Options, error) {
	opts := vision.DefaultOptions()

	if t.Blur.Kernel < 0 || (t.Blur.Kernel > 0 && t.Blur.Kernel%2 == 0) {
		return opts, fmt.Errorf("blur.kernel must be 0 or odd, got %d", t.Blur.Kernel)
	}
	if t.Contours.MinArea < 0 || t.Contours.Max < 0 {
		return opts, fmt.Errorf("contours.minArea and contours.max must not be negative")
	}

	opts.BlurKernel = t.Blur.Kernel
	opts.BlurSigma = t.Blur.Sigma
	opts.MinContourArea = t.Contours.MinArea
	opts.MaxContours = t.Contours.Max
	opts.ContourWidth = t.Contours.Width
	opts.HatchWidth = t.Hatch.Width
	opts.PanelGap = t.Panel.Gap

	var err error
	if opts.ContourColor, err = parseHexColor(t.Contours.Color); err != nil {
		return opts, fmt.Errorf("contours.color: %w", err)
	}
	if opts.HatchColor, err = parseHexColor(t.Hatch.Color); err != nil {
		return opts, fmt.Errorf("hatch.color: %w", err)
	}
	if opts.PanelBackground, err = parseHexColor(t.Panel.Background); err != nil {
		return opts, fmt.Errorf("panel.background: %w", err)
	}
	return opts, nil
}

// parseHexColor разбирает цвет вида #rrggbb или #rrggbbaa.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.RGBA{A: 255}

	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, fmt.Errorf("invalid color %q", s)
	}
	if err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

func hexColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
