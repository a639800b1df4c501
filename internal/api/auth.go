package api

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mhutchens/flaretrack/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const authTokenTTL = 30 * 24 * time.Hour

const minPasswordLength = 8

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	payload := credentialsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	email := normalizeEmail(payload.Email)
	if email == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid email")
	}
	if len(payload.Password) < minPasswordLength {
		return apiError(c, fiber.StatusBadRequest, "password too short")
	}

	exists, err := handler.repos.Users.ExistsByNormalizedEmail(email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "registration failed")
	}
	if exists {
		return apiError(c, fiber.StatusConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "registration failed")
	}

	user := models.User{Email: email, PasswordHash: string(hash)}
	if err := handler.repos.Users.Create(&user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "registration failed")
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "registration failed")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": user.ID, "email": user.Email})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	payload := credentialsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	email := normalizeEmail(payload.Email)
	if email == "" {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	user, err := handler.repos.Users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return apiError(c, fiber.StatusInternalServerError, "login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "login failed")
	}
	return c.JSON(fiber.Map{"id": user.ID, "email": user.Email})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextUserKey, user)
	return c.Next()
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	tokenValue := strings.TrimSpace(c.Cookies(authCookieName))
	if tokenValue == "" {
		return nil, errors.New("missing auth cookie")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	user, err := handler.repos.Users.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (handler *Handler) setAuthCookie(c *fiber.Ctx, user *models.User) error {
	now := time.Now()
	claims := authClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(authTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  now.Add(authTokenTTL),
	})
	return nil
}

func normalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}
