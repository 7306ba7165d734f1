package vision

import "image/color"

// Options задаёт настройки конвейера, не влияющие на контракт ядра.
type Options struct {
	BlurKernel      int     // нечётный размер гауссова ядра; 0 отключает сглаживание
	BlurSigma       float64 // при 0 вычисляется из размера ядра, как в OpenCV
	MinContourArea  int     // области меньше этой площади считаются шумом
	MaxContours     int     // 0 снимает ограничение
	ContourColor    color.RGBA
	ContourWidth    float64
	HatchColor      color.RGBA
	HatchWidth      float64
	PanelGap        int
	PanelBackground color.RGBA
}

// DefaultOptions возвращает настройки по умолчанию: ядро 19x19 и контур толщиной 5.
func DefaultOptions() Options {
	return Options{
		BlurKernel:      19,
		MinContourArea:  50,
		ContourColor:    color.RGBA{A: 255},
		ContourWidth:    5,
		HatchColor:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		HatchWidth:      2,
		PanelGap:        8,
		PanelBackground: color.RGBA{R: 40, G: 40, B: 40, A: 255},
	}
}

func (o Options) sigma() float64 {
	if o.BlurSigma > 0 {
		return o.BlurSigma
	}
	return 0.3*(float64(o.BlurKernel-1)*0.5-1) + 0.8
}
