package uri

import "strings"

// Composer собирает публичные URI картинок каталога из базового адреса
// и относительной ссылки, хранящейся в каталожной карточке.
type Composer struct {
	baseURL string
}

// NewComposer создаёт composer для заданного базового адреса.
func NewComposer(baseURL string) *Composer {
	return &Composer{baseURL: strings.TrimRight(baseURL, "/")}
}

// ComposePicURI возвращает абсолютный URI картинки. Уже абсолютные
// ссылки возвращаются без изменений.
func (c *Composer) ComposePicURI(pictureURI string) string {
	if pictureURI == "" {
		return ""
	}
	if strings.HasPrefix(pictureURI, "http://") || strings.HasPrefix(pictureURI, "https://") {
		return pictureURI
	}
	if c.baseURL == "" {
		return pictureURI
	}
	return c.baseURL + "/" + strings.TrimLeft(pictureURI, "/")
}
