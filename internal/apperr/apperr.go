// Package apperr renders launcher errors as short Russian messages for the
// kiosk screen. Logs keep the full wrapped error.
package apperr

import (
	"errors"
	"fmt"

	"github.com/five82/drova-launcher/internal/catalog"
	"github.com/five82/drova-launcher/internal/drova"
	"github.com/five82/drova-launcher/internal/imagecache"
	"github.com/five82/drova-launcher/internal/launch"
	"github.com/five82/drova-launcher/internal/state"
	"github.com/five82/drova-launcher/internal/station"
)

// Message returns the user-facing text for err. Unknown errors fall back to
// err.Error(); nil yields an empty string.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var (
		credErr      *station.CredentialsError
		transportErr *drova.TransportError
		statusErr    *drova.StatusError
		decodeErr    *drova.DecodeError
		spawnErr     *launch.SpawnError
		argsErr      *launch.ArgsError
		urlErr       *imagecache.FileURLError
	)
	switch {
	case errors.As(err, &credErr):
		if credErr.Err == nil {
			return fmt.Sprintf("%s не задан", credErr.Key)
		}
		return "Не удалось получить данные станции"
	case errors.Is(err, state.ErrLocked):
		return "Состояние заблокировано"
	case errors.Is(err, catalog.ErrEmptyCatalog):
		return "Список игр пуст"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Сервер вернул ошибку HTTP %d", statusErr.Code)
	case errors.As(err, &decodeErr):
		return "Некорректный ответ сервера"
	case errors.As(err, &transportErr):
		return "Не удалось подключиться к серверу"
	case errors.Is(err, launch.ErrNotFound):
		return "Не найдено описание запуска"
	case errors.Is(err, launch.ErrEmptyPath):
		return "Пустой путь запуска"
	case errors.As(err, &argsErr):
		return "Некорректные аргументы запуска"
	case errors.As(err, &spawnErr):
		return fmt.Sprintf("Не удалось запустить игру: %v", spawnErr.Err)
	case errors.As(err, &urlErr):
		return "Не удалось создать file URL"
	}
	return err.Error()
}
