package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"strings"

	"robodoc/config"
	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
	"robodoc/internal/infrastructure/imageio"
	"robodoc/internal/infrastructure/report"
	"robodoc/internal/infrastructure/vision"
)

func main() {
	var (
		imagePath   = flag.String("image", "", "source photo containing both regions")
		injuryRect  = flag.String("injury", "", "injury rectangle x,y,w,h within -image")
		controlRect = flag.String("control", "", "control rectangle x,y,w,h within -image")
		injuryFile  = flag.String("injury-file", "", "injury region as a separate image")
		controlFile = flag.String("control-file", "", "control region as a separate image")
		threshold   = flag.Int("threshold", entity.DefaultThreshold, "sensitivity threshold (3-190)")
		density     = flag.Int("density", entity.DefaultLineDensity, "line density (1-50)")
		outDir      = flag.String("out", "robodoc-out", "output directory")
		tuningPath  = flag.String("tuning", "", "YAML tuning file")
		saveTuning  = flag.String("save-tuning", "", "write the effective tuning to this YAML file")
		backend     = flag.String("backend", config.BackendGo, "analyzer backend: go or opencv")
	)
	flag.Parse()

	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}
	opts, err := tuning.Options()
	if err != nil {
		log.Fatalf("Invalid tuning: %v", err)
	}

	// Шаблон настроек можно получить без анализа.
	if *saveTuning != "" {
		if err := config.SaveTuning(tuning, *saveTuning); err != nil {
			log.Fatalf("Failed to save tuning: %v", err)
		}
		log.Printf("Tuning written to %s", *saveTuning)
		if *imagePath == "" && *injuryFile == "" && *controlFile == "" {
			return
		}
	}

	injury, control, err := loadRegions(*imagePath, *injuryRect, *controlRect, *injuryFile, *controlFile)
	if err != nil {
		log.Fatalf("Failed to load regions: %v", err)
	}

	var analyzer port.InjuryAnalyzer
	switch *backend {
	case config.BackendGo:
		analyzer = vision.NewAnalyzer(opts)
	case config.BackendOpenCV:
		analyzer = vision.NewOpenCVAnalyzer(opts)
	default:
		log.Fatalf("Unknown backend %q", *backend)
	}

	ctx := context.Background()
	params := entity.Parameters{Threshold: *threshold, LineDensity: *density}

	result, err := analyzer.Run(ctx, injury, control, params)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	files, err := imageio.Export(*outDir, result, vision.Cutout(injury.Image, result.Contours))
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	desc, err := report.NewTextDescriber().Describe(ctx, result)
	if err != nil {
		log.Fatalf("Describe failed: %v", err)
	}

	fmt.Println(desc.Text)
	for _, f := range files {
		fmt.Println(f)
	}
}

// loadRegions читает области либо из двух файлов, либо как прямоугольники одного фото.
func loadRegions(imagePath, injuryRect, controlRect, injuryFile, controlFile string) (entity.Region, entity.Region, error) {
	if injuryFile != "" || controlFile != "" {
		if injuryFile == "" || controlFile == "" {
			return entity.Region{}, entity.Region{}, fmt.Errorf("both -injury-file and -control-file are required")
		}
		inj, err := imageio.Load(injuryFile)
		if err != nil {
			return entity.Region{}, entity.Region{}, err
		}
		ctl, err := imageio.Load(controlFile)
		if err != nil {
			return entity.Region{}, entity.Region{}, err
		}
		return entity.NewRegion(inj, entity.RegionInjury), entity.NewRegion(ctl, entity.RegionControl), nil
	}

	if imagePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	img, err := imageio.Load(imagePath)
	if err != nil {
		return entity.Region{}, entity.Region{}, err
	}

	ir, err := parseRect(injuryRect)
	if err != nil {
		return entity.Region{}, entity.Region{}, fmt.Errorf("-injury: %w", err)
	}
	cr, err := parseRect(controlRect)
	if err != nil {
		return entity.Region{}, entity.Region{}, fmt.Errorf("-control: %w", err)
	}

	inj, err := imageio.Crop(img, ir, entity.RegionInjury)
	if err != nil {
		return entity.Region{}, entity.Region{}, err
	}
	ctl, err := imageio.Crop(img, cr, entity.RegionControl)
	if err != nil {
		return entity.Region{}, entity.Region{}, err
	}
	return inj, ctl, nil
}

// parseRect разбирает "x,y,w,h".
func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("expected x,y,w,h, got %q", s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("expected x,y,w,h, got %q", s)
		}
		v[i] = n
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}
