package telegram

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	app "robodoc/internal/application"
	"robodoc/internal/domain/entity"
)

var errBadArgs = errors.New("bad command arguments")

// parseRect разбирает "x y w h" (допускаются запятые) в прямоугольник.
func parseRect(args string) (image.Rectangle, error) {
	fields := strings.FieldsFunc(args, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 4 {
		return image.Rectangle{}, errBadArgs
	}

	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return image.Rectangle{}, errBadArgs
		}
		v[i] = n
	}
	if v[0] < 0 || v[1] < 0 || v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, errBadArgs
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

func parseInt(args string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return 0, errBadArgs
	}
	return n, nil
}

// userMessage переводит ошибку сценария в сообщение для пользователя.
func userMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNoSource):
		return msgNoSource
	case errors.Is(err, app.ErrRegionsNotSelected):
		return msgRegionsNotSet
	case errors.Is(err, entity.ErrInvalidRegion):
		return msgInvalidRegion
	case errors.Is(err, entity.ErrDimensionMismatch):
		return msgDimensionMismatch
	case errors.Is(err, entity.ErrParameterOutOfRange):
		return msgOutOfRange
	default:
		return msgProcessingError
	}
}

func settingsText(s *entity.Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚙️ Порог: %d\nПлотность линий: %d\n", s.Threshold, s.LineDensity)
	fmt.Fprintf(&sb, "Область повреждения: %s\n", formatRect(s.Injury))
	fmt.Fprintf(&sb, "Контрольная область: %s", formatRect(s.Control))
	return sb.String()
}

func formatRect(r image.Rectangle) string {
	if r.Empty() {
		return "не выбрана"
	}
	return fmt.Sprintf("x=%d y=%d %d×%d", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

func kindName(kind entity.RegionKind) string {
	if kind == entity.RegionControl {
		return "контроля"
	}
	return "повреждения"
}

// truncate обрезает строку до limit символов.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
