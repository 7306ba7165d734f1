//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
)

// OpenCVAvailable показывает, собран ли бинарник с OpenCV.
const OpenCVAvailable = true

// OpenCVAnalyzer выполняет подготовку, разность, порог и поиск контуров средствами OpenCV.
// Прореживание и отрисовка общие с конвейером на чистом Go.
type OpenCVAnalyzer struct {
	opts Options
}

// NewOpenCVAnalyzer создаёт анализатор на OpenCV.
func NewOpenCVAnalyzer(opts Options) *OpenCVAnalyzer {
	return &OpenCVAnalyzer{opts: opts}
}

// Run сравнивает область повреждения с контрольной.
func (a *OpenCVAnalyzer) Run(ctx context.Context, injury, control entity.Region, params entity.Parameters) (*entity.CompositeResult, error) {
	started := time.Now()

	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := entity.CheckPair(injury, control); err != nil {
		return nil, err
	}

	injBlur, err := a.prepareMat(injury)
	if err != nil {
		return nil, err
	}
	defer injBlur.Close()

	ctlBlur, err := a.prepareMat(control)
	if err != nil {
		return nil, err
	}
	defer ctlBlur.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Считаем абсолютную разницу и усиливаем отличия порогом.
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(injBlur, ctlBlur, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, float32(params.Threshold), 255, gocv.ThresholdBinary)

	mask := entity.NewBinaryMask(thresh.Cols(), thresh.Rows())
	dm := &DifferenceMap{Width: diff.Cols(), Height: diff.Rows(), Pix: make([]float64, diff.Cols()*diff.Rows())}
	for y := 0; y < thresh.Rows(); y++ {
		for x := 0; x < thresh.Cols(); x++ {
			mask.Set(x, y, thresh.GetUCharAt(y, x) != 0)
			dm.Pix[y*dm.Width+x] = float64(diff.GetUCharAt(y, x))
		}
	}

	found := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer found.Close()

	contours := make(entity.ContourSet, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		c := found.At(i)
		area := int(gocv.ContourArea(c))
		if area < a.opts.MinContourArea {
			continue
		}
		contours = append(contours, entity.Contour{
			Raw:    c.ToPoints(),
			Area:   area,
			Bounds: gocv.BoundingRect(c),
		})
	}
	contours = finishContours(contours, params.LineDensity, a.opts.MaxContours)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Compose(injury.Image, mask, contours, params.LineDensity, a.opts)
	if err != nil {
		return nil, err
	}

	result.RunID = uuid.NewString()
	result.Params = params
	result.Stats = dm.Stats()
	result.Elapsed = time.Since(started)
	return result, nil
}

// prepareMat переводит фрагмент в серый и сглаживает его.
func (a *OpenCVAnalyzer) prepareMat(region entity.Region) (gocv.Mat, error) {
	src, err := gocv.ImageToMatRGB(region.Image)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer src.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	if a.opts.BlurKernel < 3 {
		return gray, nil
	}
	defer gray.Close()

	k := a.opts.BlurKernel | 1
	blur := gocv.NewMat()
	gocv.GaussianBlur(gray, &blur, image.Pt(k, k), a.opts.sigma(), a.opts.sigma(), gocv.BorderReplicate)
	return blur, nil
}

// Проверка реализации интерфейса
var _ port.InjuryAnalyzer = (*OpenCVAnalyzer)(nil)
