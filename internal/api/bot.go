package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "robodoc/internal/application"
	"robodoc/internal/container"
	"robodoc/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я сравниваю участок кожи с повреждением с контрольным участком и обвожу найденные отличия.

📋 Команды:
/check — начать новое сравнение
/settings — текущие параметры
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /check и отправьте фото
2️⃣ /injury x y w h — область повреждения
3️⃣ /control x y w h — контрольная область того же размера
4️⃣ /run — запустить анализ

⚙️ Параметры:
/threshold n — порог чувствительности (3–190)
/density n — плотность линий (1–50)

Координаты задаются в пикселях от левого верхнего угла фото.
Результат: исходный фрагмент | маска | контуры | штриховка.`

	msgAwaitingPhoto     = "📸 Отправьте фото, на котором видны повреждение и здоровая кожа."
	msgCancelled         = "❌ Операция отменена. Отправьте /check для нового сравнения."
	msgSendPhoto         = "📸 Отправьте фото или команду. /help — справка."
	msgUnknownCommand    = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing        = "⏳ Анализирую..."
	msgProcessingError   = "⚠️ Не удалось выполнить анализ. Попробуйте ещё раз."
	msgBadImage          = "⚠️ Не удалось прочитать изображение. Отправьте фото в формате JPEG или PNG."
	msgNoSource          = "📸 Сначала отправьте фото (/check)."
	msgRegionsNotSet     = "📐 Выберите обе области: /injury x y w h и /control x y w h."
	msgBadRect           = "⚠️ Укажите область так: x y w h, например /injury 10 20 100 100."
	msgBadNumber         = "⚠️ Укажите целое число, например /threshold 25."
	msgInvalidRegion     = "⚠️ Область выходит за границы фото или пуста."
	msgDimensionMismatch = "⚠️ Области повреждения и контроля должны быть одного размера."
	msgOutOfRange        = "⚠️ Значение вне допустимого диапазона: порог 3–190, плотность линий 1–50."
)

// Максимальная длина подписи к фото в Telegram.
const maxCaption = 1024

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		// Берём файл с максимальным разрешением
		b.handlePhoto(ctx, msg, msg.Photo[len(msg.Photo)-1].FileID)
		return
	}

	// Изображение, отправленное файлом, приходит без сжатия
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		b.handlePhoto(ctx, msg, msg.Document.FileID)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	sessions := b.container.SessionService
	analysis := b.container.AnalysisService

	switch msg.Command() {
	case "start":
		analysis.Forget(userID)
		if _, err := sessions.Cancel(ctx, userID, chatID); err != nil {
			log.Printf("Error resetting session: %v", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		analysis.Forget(userID)
		if _, err := sessions.BeginCheck(ctx, userID, chatID); err != nil {
			log.Printf("Error starting check: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "injury":
		b.handleRegion(ctx, msg, entity.RegionInjury)

	case "control":
		b.handleRegion(ctx, msg, entity.RegionControl)

	case "threshold":
		n, err := parseInt(msg.CommandArguments())
		if err != nil {
			b.sendMessage(chatID, msgBadNumber)
			return
		}
		session, err := sessions.SetThreshold(ctx, userID, chatID, n)
		if err != nil {
			b.sendMessage(chatID, userMessage(err))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("✅ Порог: %d", session.Threshold))

	case "density":
		n, err := parseInt(msg.CommandArguments())
		if err != nil {
			b.sendMessage(chatID, msgBadNumber)
			return
		}
		session, err := sessions.SetLineDensity(ctx, userID, chatID, n)
		if err != nil {
			b.sendMessage(chatID, userMessage(err))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("✅ Плотность линий: %d", session.LineDensity))

	case "run":
		// Анализ выполняется вне цикла обновлений; повторный /run вытесняет предыдущий.
		go b.runAnalysis(ctx, userID, chatID)

	case "settings":
		session, err := sessions.Get(ctx, userID, chatID)
		if err != nil {
			log.Printf("Error getting session: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, settingsText(session))

	case "cancel":
		analysis.Forget(userID)
		if _, err := sessions.Cancel(ctx, userID, chatID); err != nil {
			log.Printf("Error cancelling session: %v", err)
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleRegion разбирает прямоугольник и сохраняет выбор области
func (b *Bot) handleRegion(ctx context.Context, msg *tgbotapi.Message, kind entity.RegionKind) {
	rect, err := parseRect(msg.CommandArguments())
	if err != nil {
		b.sendMessage(msg.Chat.ID, msgBadRect)
		return
	}

	session, err := b.container.AnalysisService.SelectRegion(ctx, msg.From.ID, msg.Chat.ID, kind, rect)
	if err != nil {
		b.sendMessage(msg.Chat.ID, userMessage(err))
		return
	}

	text := fmt.Sprintf("✅ Область %s: %s", kindName(kind), formatRect(rect))
	if session.RegionsSelected() {
		text += "\nОбе области выбраны, запустите /run."
	}
	b.sendMessage(msg.Chat.ID, text)
}

// handlePhoto скачивает фото и делает его источником областей
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	imageData, err := b.downloadFile(fileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	log.Printf("Received image: %d bytes", len(imageData))

	if _, err := b.container.AnalysisService.AcceptSourcePhoto(ctx, msg.From.ID, msg.Chat.ID, imageData); err != nil {
		log.Printf("Error accepting photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgBadImage)
		return
	}

	size, err := b.container.AnalysisService.SourceSize(msg.From.ID)
	if err != nil {
		log.Printf("Error reading source size: %v", err)
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"🖼 Фото %d×%d получено.\nВыберите области: /injury x y w h и /control x y w h.", size.X, size.Y))
}

// runAnalysis запускает анализ и отправляет панель с описанием
func (b *Bot) runAnalysis(ctx context.Context, userID, chatID int64) {
	b.sendMessage(chatID, msgProcessing)

	out, err := b.container.AnalysisService.Analyze(ctx, userID, chatID)
	if errors.Is(err, app.ErrSuperseded) {
		log.Printf("User %d: analysis superseded", userID)
		return
	}
	if err != nil {
		log.Printf("Error analysing for user %d: %v", userID, err)
		b.sendMessage(chatID, userMessage(err))
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "panel.jpg", Bytes: out.Panel})
	if out.Description != nil {
		photo.Caption = truncate(out.Description.Text, maxCaption)
	}
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
