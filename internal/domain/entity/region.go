package entity

import (
	"fmt"
	"image"
)

// RegionKind задаёт происхождение фрагмента изображения.
type RegionKind string

const (
	RegionInjury  RegionKind = "injury"  // область повреждения
	RegionControl RegionKind = "control" // контрольная здоровая ткань
)

// Region представляет фрагмент изображения с меткой происхождения. Ядро его не изменяет.
type Region struct {
	Image image.Image
	Kind  RegionKind
}

// NewRegion создаёт фрагмент заданного вида.
func NewRegion(img image.Image, kind RegionKind) Region {
	return Region{Image: img, Kind: kind}
}

// Size возвращает ширину и высоту фрагмента.
func (r Region) Size() (int, int) {
	if r.Image == nil {
		return 0, 0
	}
	b := r.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Channels возвращает число цветовых каналов фрагмента.
func (r Region) Channels() (int, error) {
	switch r.Image.(type) {
	case *image.Gray, *image.Gray16:
		return 1, nil
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64,
		*image.YCbCr, *image.NYCbCrA, *image.CMYK, *image.Paletted:
		return 3, nil
	case nil:
		return 0, fmt.Errorf("%w: %s region has no image", ErrInvalidRegion, r.Kind)
	default:
		return 0, fmt.Errorf("%w: %s region has unsupported layout %T", ErrInvalidRegion, r.Kind, r.Image)
	}
}

// Validate проверяет размеры и раскладку каналов.
func (r Region) Validate() error {
	if _, err := r.Channels(); err != nil {
		return err
	}
	w, h := r.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %s region is %dx%d", ErrInvalidRegion, r.Kind, w, h)
	}
	return nil
}

// CheckPair проверяет, что фрагменты повреждения и контроля совместимы.
func CheckPair(injury, control Region) error {
	if err := injury.Validate(); err != nil {
		return err
	}
	if err := control.Validate(); err != nil {
		return err
	}

	iw, ih := injury.Size()
	cw, ch := control.Size()
	if iw != cw || ih != ch {
		return fmt.Errorf("%w: injury %dx%d, control %dx%d", ErrDimensionMismatch, iw, ih, cw, ch)
	}

	ic, _ := injury.Channels()
	cc, _ := control.Channels()
	if ic != cc {
		return fmt.Errorf("%w: injury has %d channels, control has %d", ErrDimensionMismatch, ic, cc)
	}
	return nil
}
