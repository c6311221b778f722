// Package jwt реализует генерацию и парсинг JWT токенов участников расписания.
// Выпуск токенов принадлежит внешнему сервису аутентификации, здесь только
// граница интерфейса: проверка подписи и извлечение идентификатора участника.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создаёт токен участника с идентификатором и ролью.
	GenerateToken(partyUID, role string) (string, error)
	// ParseToken возвращает *PartyClaims с идентификатором и ролью участника.
	ParseToken(tokenStr string) (*PartyClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
