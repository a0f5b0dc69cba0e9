package fetch

import (
	"context"
	"net/url"

	"github.com/cavaliergopher/grab/v3"
	"github.com/pkg/errors"
)

type Downloader interface {
	// Download скачивает url в dst (файл перезаписывается), возвращает число байт.
	Download(ctx context.Context, fileURL, dst string) (int64, error)
}

type GrabDownloader struct {
	client *grab.Client
}

func NewGrabDownloader() *GrabDownloader {
	client := grab.NewClient()
	client.UserAgent = "voice_relay"
	return &GrabDownloader{client: client}
}

func (d *GrabDownloader) Download(ctx context.Context, fileURL, dst string) (int64, error) {
	req, err := grab.NewRequest(dst, fileURL)
	if err != nil {
		return 0, errors.Wrap(err, "build download request")
	}
	req = req.WithContext(ctx)
	// временный файл уже создан пустым, докачка не нужна
	req.NoResume = true

	resp := d.client.Do(req)
	if err := resp.Err(); err != nil {
		// *url.Error содержит адрес файла, а в нём токен бота
		var uErr *url.Error
		if errors.As(err, &uErr) {
			err = uErr.Err
		}
		return 0, errors.Wrap(err, "download voice file")
	}

	return resp.BytesComplete(), nil
}
