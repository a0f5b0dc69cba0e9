// Package tempfile выдаёт уникальные временные файлы под скачанное аудио.
package tempfile

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// VoiceExt — контейнер голосовых Telegram (ogg/opus).
const VoiceExt = ".ogg"

type File struct {
	path string
}

// Acquire создаёт пустой файл с уникальным именем в dir.
// Вызывающий обязан сделать defer f.Release().
func Acquire(dir, ext string) (*File, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, "voice_"+uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "create temp file")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, errors.Wrap(err, "close temp file")
	}

	return &File{path: path}, nil
}

func (f *File) Path() string {
	return f.path
}

// Release удаляет файл. Ошибки (файла уже нет и т.п.) игнорируются.
func (f *File) Release() {
	if f == nil || f.path == "" {
		return
	}
	_ = os.Remove(f.path)
}
