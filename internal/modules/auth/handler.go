package auth

import (
	"context"
	"errors"
	"time"

	"github.com/eyxpoliba/emotion-core/internal/config"
	"github.com/eyxpoliba/emotion-core/internal/middleware"
	"github.com/eyxpoliba/emotion-core/internal/models"
	jwtpkg "github.com/eyxpoliba/emotion-core/internal/pkg/jwt"
	"github.com/eyxpoliba/emotion-core/internal/pkg/response"
	"github.com/eyxpoliba/emotion-core/internal/pkg/revocation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionImageCount is how many candidate images a fresh session receives.
const sessionImageCount = 10

// ImageSource supplies the candidate image names handed out on login.
type ImageSource interface {
	RandomImageNames(ctx context.Context, n int) ([]string, error)
}

// Registrar resolves a login payload to a participant row.
type Registrar interface {
	Login(ctx context.Context, dto *LoginDTO) (*models.UserModel, error)
	GoogleLogin(ctx context.Context, identity *GoogleIdentity, dto *GoogleLoginDTO) (*models.UserModel, error)
}

type Handler struct {
	svc       Registrar
	verifier  CredentialVerifier
	store     revocation.Store
	images    ImageSource
	transport string
	log       *zap.Logger
}

func NewHandler(svc Registrar, verifier CredentialVerifier, store revocation.Store, images ImageSource, transport string, log *zap.Logger) *Handler {
	return &Handler{
		svc:       svc,
		verifier:  verifier,
		store:     store,
		images:    images,
		transport: transport,
		log:       log,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
	rg.POST("/google-login", h.googleLogin)
	rg.POST("/logout", h.logout)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Login(c.Request.Context(), &dto)
	if err != nil {
		h.log.Error("login failed", zap.Error(err))
		response.InternalError(c, "login failed")
		return
	}

	h.openSession(c, u)
}

func (h *Handler) googleLogin(c *gin.Context) {
	var dto GoogleLoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), dto.Credential)
	if err != nil {
		if errors.Is(err, ErrInvalidCredential) {
			response.BadRequest(c, "Invalid Google credential")
			return
		}
		h.log.Error("google credential verification failed", zap.Error(err))
		response.InternalError(c, "login failed")
		return
	}

	u, err := h.svc.GoogleLogin(c.Request.Context(), identity, &dto)
	if err != nil {
		h.log.Error("google login failed", zap.Error(err))
		response.InternalError(c, "login failed")
		return
	}

	h.openSession(c, u)
}

// openSession mints both tokens and delivers them together with the 201
// response. A success response without both tokens must never happen, so
// any minting failure aborts before anything is written.
func (h *Handler) openSession(c *gin.Context, u *models.UserModel) {
	access, err := jwtpkg.Sign(u.Nickname, u.ID, true)
	if err != nil {
		h.log.Error("access token minting failed", zap.Error(err))
		response.InternalError(c, "login failed")
		return
	}
	refresh, err := jwtpkg.Sign(u.Nickname, u.ID, false)
	if err != nil {
		h.log.Error("refresh token minting failed", zap.Error(err))
		response.InternalError(c, "login failed")
		return
	}

	images, err := h.images.RandomImageNames(c.Request.Context(), sessionImageCount)
	if err != nil {
		h.log.Error("image selection failed", zap.Error(err))
		response.InternalError(c, "login failed")
		return
	}

	body := loginResponse{ID: u.ID, Images: images}
	if h.transport == config.TransportCookie {
		c.SetCookie(middleware.AccessTokenCookie, access, int(jwtpkg.AccessTTL().Seconds()), "/", "", false, true)
		c.SetCookie("refreshToken", refresh, int(jwtpkg.RefreshTTL().Seconds()), "/", "", false, true)
	} else {
		body.AccessToken = access
		body.RefreshToken = refresh
	}
	response.Created(c, body)
}

// logout applies the protected-transport policy itself so that the missing
// and repeated cases answer with their own 400-level contract instead of
// the gate's 401.
func (h *Handler) logout(c *gin.Context) {
	token, _, ok := middleware.ExtractToken(c, h.transport)
	if !ok {
		response.BadRequest(c, "JWT token is required")
		return
	}

	err := h.store.Revoke(c.Request.Context(), token, time.Now())
	if errors.Is(err, revocation.ErrAlreadyRevoked) {
		response.BadRequest(c, "Already logged out")
		return
	}
	if err != nil {
		h.log.Error("revocation failed", zap.Error(err))
		response.InternalError(c, "logout failed")
		return
	}

	if h.transport == config.TransportCookie {
		// MaxAge -1 serializes as Max-Age=0, which deletes the cookie.
		c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
		c.SetCookie("refreshToken", "", -1, "/", "", false, true)
	}
	response.OK(c, "logout successful")
}
