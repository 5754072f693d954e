package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/kitbuilder587/ad-critic/internal/imaging"
)

var (
	errNoImage          = errors.New("message has no image")
	errUnsupportedImage = errors.New("unsupported image file")
	errImageTooLarge    = errors.New("image too large")
)

// imageFile выбирает самое крупное фото или документ-картинку
func imageFile(msg *tgbotapi.Message) (fileID, ext string, err error) {
	if n := len(msg.Photo); n > 0 {
		best := msg.Photo[0]
		for _, p := range msg.Photo[1:] {
			if p.Width*p.Height > best.Width*best.Height {
				best = p
			}
		}
		// фото телеграм всегда отдает в jpeg
		return best.FileID, ".jpg", nil
	}

	if doc := msg.Document; doc != nil {
		if !imaging.SupportedExtension(doc.FileName) {
			return "", "", fmt.Errorf("%w: %q", errUnsupportedImage, doc.FileName)
		}
		return doc.FileID, strings.ToLower(filepath.Ext(doc.FileName)), nil
	}
	return "", "", errNoImage
}

// download сохраняет файл из телеграма в каталог загрузок
func (b *Bot) download(ctx context.Context, fileID, ext string) (string, error) {
	url, err := b.tg.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(b.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(b.downloadDir, uuid.NewString()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(resp.Body, b.maxDownload+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		err = fmt.Errorf("write file: %w", err)
	case closeErr != nil:
		err = fmt.Errorf("close file: %w", closeErr)
	case n > b.maxDownload:
		err = fmt.Errorf("%w: limit %d bytes", errImageTooLarge, b.maxDownload)
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
