package entity

import "image"

// BinaryMask хранит бинарную маску того же размера, что и фрагменты; 1 означает передний план.
type BinaryMask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBinaryMask создаёт пустую маску (весь фон).
func NewBinaryMask(width, height int) BinaryMask {
	return BinaryMask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At возвращает true для пикселя переднего плана. Вне маски считается фон.
func (m BinaryMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Set помечает пиксель как передний план или фон.
func (m BinaryMask) Set(x, y int, on bool) {
	if on {
		m.Pix[y*m.Width+x] = 1
	} else {
		m.Pix[y*m.Width+x] = 0
	}
}

// Count возвращает число пикселей переднего плана.
func (m BinaryMask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Ratio возвращает долю пикселей переднего плана.
func (m BinaryMask) Ratio() float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	return float64(m.Count()) / float64(len(m.Pix))
}

// Image отображает маску: передний план белый, фон чёрный.
func (m BinaryMask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v != 0 {
			img.Pix[i] = 0xff
		}
	}
	return img
}
