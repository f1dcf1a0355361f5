// Package account 实现注册、登录、个人资料与图片上传
package account

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/logger"
	"quilkalam-api/pkg/metrics"
)

const (
	minPhoneLength    = 10
	minPasswordLength = 6

	profileNamespace = "profiles"
	uploadNamespace  = "uploads"
)

// 登录失败统一提示，不区分手机号与密码
var errBadCredentials = apperrors.Unauthenticated("invalid phone number or password")

// Service 账号服务
type Service struct {
	users    repository.UserRepository
	identity service.IdentityProvider
	blobs    service.BlobStore
	validate *validator.Validate
}

// NewService 创建账号服务
func NewService(users repository.UserRepository, identity service.IdentityProvider, blobs service.BlobStore) *Service {
	return &Service{
		users:    users,
		identity: identity,
		blobs:    blobs,
		validate: validator.New(),
	}
}

// AuthResult 注册或登录结果
type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// Register 使用手机号注册
func (s *Service) Register(ctx context.Context, phone, password, displayName string) (*AuthResult, error) {
	phone = strings.TrimSpace(phone)
	if len(phone) < minPhoneLength {
		return nil, apperrors.Validation("phoneNumber must be at least 10 characters")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.Validation("password must be at least 6 characters")
	}

	exists, err := s.users.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if exists {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, apperrors.Conflict("phone number already registered")
	}

	user := entity.NewUser(phone, strings.TrimSpace(displayName))
	if err := user.SetPassword(password); err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, apputil.StorageError(err)
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	logger.Info(ctx, "user registered", "user_id", user.ID)
	return result, nil
}

// Login 手机号密码登录，仅限启用中的账号
func (s *Service) Login(ctx context.Context, phone, password string) (*AuthResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, apperrors.Validation("phoneNumber and password are required")
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if user == nil || !user.IsActive || !user.CheckPassword(password) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return nil, errBadCredentials
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return result, nil
}

func (s *Service) issue(ctx context.Context, user *entity.User) (*AuthResult, error) {
	token, err := s.identity.Issue(ctx, service.Identity{UserID: user.ID, PhoneNumber: user.PhoneNumber})
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// GetProfile 读取调用方资料
func (s *Service) GetProfile(ctx context.Context, identity service.Identity) (*entity.User, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// ProfilePatch 资料稀疏更新，nil 表示不修改
type ProfilePatch struct {
	DisplayName  *string
	Email        *string
	Bio          *string
	ProfileImage *string
}

var profileFields = []apputil.Field[ProfilePatch]{
	{Name: "displayName", Column: "display_name", Value: apputil.Ptr(func(p ProfilePatch) *string { return p.DisplayName })},
	{Name: "email", Column: "email", Value: apputil.Ptr(func(p ProfilePatch) *string { return p.Email })},
	{Name: "bio", Column: "bio", Value: apputil.Ptr(func(p ProfilePatch) *string { return p.Bio })},
	{Name: "profileImage", Column: "profile_image_url", Value: apputil.Ptr(func(p ProfilePatch) *string { return p.ProfileImage })},
}

// UpdateProfile 更新资料，内联头像先上传
func (s *Service) UpdateProfile(ctx context.Context, identity service.Identity, patch ProfilePatch) (*entity.User, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if patch.Email != nil && *patch.Email != "" {
		if err := s.validate.Var(*patch.Email, "email"); err != nil {
			return nil, apperrors.Validation("email must be a valid email address")
		}
	}

	set, err := apputil.Build(profileFields, patch)
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return nil, apperrors.Validation("no fields to update")
	}

	if patch.ProfileImage != nil && service.IsInlineImage(*patch.ProfileImage) {
		ref, err := s.put(ctx, *patch.ProfileImage, profileNamespace)
		if err != nil {
			return nil, err
		}
		patch.ProfileImage = &ref.URL
		if set, err = apputil.Build(profileFields, patch); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateFields(ctx, identity.UserID, set.Values(time.Now())); err != nil {
		return nil, apputil.StorageError(err)
	}
	return s.GetProfile(ctx, identity)
}

// UploadImage 上传图片，folder 为空时存入默认目录
func (s *Service) UploadImage(ctx context.Context, identity service.Identity, image, folder string) (*service.BlobRef, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if !service.IsInlineImage(image) {
		return nil, apperrors.Validation("image must be a base64 data URL")
	}
	if folder == "" {
		folder = uploadNamespace
	}
	return s.put(ctx, image, folder)
}

func (s *Service) put(ctx context.Context, dataURL, namespace string) (*service.BlobRef, error) {
	if s.blobs == nil {
		return nil, apperrors.ErrStorage.WithDetail("blob store not configured")
	}
	ref, err := s.blobs.Put(ctx, dataURL, namespace)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrStorage.WithError(err)
	}
	return ref, nil
}
