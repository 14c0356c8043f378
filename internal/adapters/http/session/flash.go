package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/karyawan-web/internal/platform/logger"
)

const (
	defaultCookieName = "karyawan_flash"
	flashContextKey   = "flash"
	maxCookieBytes    = 4096
)

var (
	ErrMalformedFlash = errors.New("session: malformed flash cookie")
	ErrInvalidFlash   = errors.New("session: flash signature mismatch")
)

// Flash はリダイレクト後の次のページで一度だけ表示される情報です。
type Flash struct {
	Success string              `json:"success,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Old     map[string]string   `json:"old,omitempty"`
}

// Empty は表示すべき内容がないかを返します。
func (f Flash) Empty() bool {
	return f.Success == "" && len(f.Errors) == 0 && len(f.Old) == 0
}

// FirstError は指定項目の先頭エラーメッセージを返します。
func (f Flash) FirstError(field string) string {
	if msgs := f.Errors[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Store は HMAC 署名付きクッキーでフラッシュを保持します。
type Store struct {
	secret     []byte
	cookieName string
	secure     bool
}

// Option は Store の設定を変更します。
type Option func(*Store)

// WithCookieName はクッキー名を変更します。
func WithCookieName(name string) Option {
	return func(s *Store) {
		s.cookieName = name
	}
}

// WithSecure は Secure 属性を付与します。
func WithSecure(secure bool) Option {
	return func(s *Store) {
		s.secure = secure
	}
}

// NewStore は Store を生成します。
func NewStore(secret []byte, opts ...Option) *Store {
	s := &Store{secret: secret, cookieName: defaultCookieName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set はフラッシュをレスポンスのクッキーに書き込みます。
func (s *Store) Set(c echo.Context, f Flash) error {
	value, err := s.encode(f)
	if err != nil {
		return err
	}
	c.SetCookie(s.cookie(value, 0))
	return nil
}

// Pop はリクエストのフラッシュを取り出し、クッキーを削除します。
// 改ざん・破損したクッキーは破棄して空のフラッシュを返します。
func (s *Store) Pop(c echo.Context) (Flash, error) {
	ck, err := c.Cookie(s.cookieName)
	if err != nil || ck.Value == "" {
		return Flash{}, nil
	}

	c.SetCookie(s.cookie("", -1))

	f, err := s.decode(ck.Value)
	if err != nil {
		return Flash{}, err
	}
	return f, nil
}

// Middleware は GET リクエストでフラッシュを取り出しコンテキストに格納します。
func (s *Store) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet {
				f, err := s.Pop(c)
				if err != nil {
					logger.FromContext(c.Request().Context()).Warn().Err(err).Msg("discarding flash cookie")
				}
				c.Set(flashContextKey, f)
			}
			return next(c)
		}
	}
}

// FromContext はミドルウェアが格納したフラッシュを返します。
func FromContext(c echo.Context) Flash {
	f, _ := c.Get(flashContextKey).(Flash)
	return f
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Store) encode(f Flash) (string, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("session: encode flash: %w", err)
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	value := body + "." + base64.RawURLEncoding.EncodeToString(s.sign(body))
	if len(value) > maxCookieBytes {
		return "", fmt.Errorf("session: flash exceeds %d bytes", maxCookieBytes)
	}
	return value, nil
}

func (s *Store) decode(value string) (Flash, error) {
	body, sig, ok := strings.Cut(value, ".")
	if !ok {
		return Flash{}, ErrMalformedFlash
	}

	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return Flash{}, ErrMalformedFlash
	}
	if !hmac.Equal(mac, s.sign(body)) {
		return Flash{}, ErrInvalidFlash
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return Flash{}, ErrMalformedFlash
	}

	var f Flash
	if err := json.Unmarshal(payload, &f); err != nil {
		return Flash{}, ErrMalformedFlash
	}
	return f, nil
}

func (s *Store) sign(body string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(body))
	return h.Sum(nil)
}
