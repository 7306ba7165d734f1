package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
)

// Сколько контуров перечисляется в описании поимённо.
const listedContours = 5

// TextDescriber строит короткое текстовое описание результата для пользователя.
type TextDescriber struct{}

// NewTextDescriber создаёт описатель.
func NewTextDescriber() *TextDescriber {
	return &TextDescriber{}
}

// Describe формирует описание: параметры, найденные области, их площадь и статистику различий.
func (d *TextDescriber) Describe(ctx context.Context, result *entity.CompositeResult) (*entity.Description, error) {
	if result == nil {
		return nil, errors.New("result is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Порог: %d, плотность линий: %d (шаг %d)\n",
		result.Params.Threshold, result.Params.LineDensity, result.Params.Stride())

	if !result.HasInjury() {
		sb.WriteString("✅ Отличий от контрольной области не найдено.\n")
	} else {
		fmt.Fprintf(&sb, "🔎 Найдено областей: %d, общая площадь %s пикс., точек контура: %s\n",
			len(result.Contours),
			humanize.Comma(int64(result.Contours.TotalArea())),
			humanize.Comma(int64(result.Contours.PointCount())))
		fmt.Fprintf(&sb, "Маска: %s%% фрагмента\n", humanize.FtoaWithDigits(100*result.Mask.Ratio(), 1))

		for i, c := range result.Contours {
			if i == listedContours {
				fmt.Fprintf(&sb, "… и ещё %d\n", len(result.Contours)-listedContours)
				break
			}
			cx, cy := c.Center()
			fmt.Fprintf(&sb, "%d. площадь %s, центр (%d, %d), %d×%d\n",
				i+1, humanize.Comma(int64(c.Area)), cx, cy, c.Bounds.Dx(), c.Bounds.Dy())
		}
	}

	fmt.Fprintf(&sb, "Различие: среднее %s, σ %s, максимум %s",
		humanize.FtoaWithDigits(result.Stats.Mean, 1),
		humanize.FtoaWithDigits(result.Stats.StdDev, 1),
		humanize.FtoaWithDigits(result.Stats.Max, 1))
	if result.Elapsed > 0 {
		fmt.Fprintf(&sb, "\nВремя: %s", result.Elapsed.Round(time.Millisecond))
	}

	return &entity.Description{Text: sb.String()}, nil
}

var _ port.ResultDescriber = (*TextDescriber)(nil)
