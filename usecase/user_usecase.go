package usecase

import (
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"partysense/domain/dto"
	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/logger"
	"partysense/infrastructure/utils"
)

// IUserUsecase covers account provisioning, login and device preferences.
type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.Res
	Register(ctx context.Context, req model.ReqRegister) dto.Res
	GetPreferences(ctx context.Context, userID string) (model.Preferences, error)
	UpdatePreferences(ctx context.Context, user model.User, req dto.PreferencesRequest) (model.Preferences, error)
}

type userUsecase struct {
	userRepo  repository.IUser
	tokens    ITokenManager
	playback  IPlaybackUsecase
	secretKey string
}

func NewUserUsecase(userRepo repository.IUser, tokens ITokenManager, playback IPlaybackUsecase, secretKey string) IUserUsecase {
	return &userUsecase{
		userRepo:  userRepo,
		tokens:    tokens,
		playback:  playback,
		secretKey: secretKey,
	}
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) dto.Res {
	var res dto.Res
	res.ResponseCode = "401"
	res.ResponseMessage = "Unauthorized"

	user, err := u.userRepo.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("user_name", req.UserName).Info("Login attempt for unknown user")
		return res
	}
	hashed := fmt.Sprintf("%x", md5.Sum([]byte(req.Password)))
	if user.Password != hashed {
		return res
	}

	token, err := utils.GenerateToken(map[string]interface{}{
		"user_name": user.UserName,
		"iss":       user.ID,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}, u.secretKey)
	if err != nil {
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal Server Error"
		return res
	}

	res.ResponseCode = "00"
	res.ResponseMessage = "Success"
	res.Data = map[string]interface{}{"token": token}
	return res
}

// Register creates the account and provisions its channel pair with initial
// grants. The password arrives pre-hashed from the handler.
func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	var res dto.Res

	if _, err := u.userRepo.GetByUserName(ctx, req.UserName); err == nil {
		res.ResponseCode = "409"
		res.ResponseMessage = "User name already taken"
		return res
	}

	now := utils.GetCurrentTime()
	id := bson.NewObjectID().Hex()
	user := model.User{
		ID:                  id,
		Name:                req.Name,
		UserName:            req.UserName,
		Email:               req.Email,
		Password:            req.Password,
		ChannelNameCommands: model.ChannelName(id, model.ChannelCommands),
		ChannelNameStatus:   model.ChannelName(id, model.ChannelStatus),
		Preferences:         model.DefaultPreferences(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := u.userRepo.CreateUser(ctx, user); err != nil {
		logger.GetLogger().WithField("error", err).Error("Creating user failed")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal Server Error"
		return res
	}

	if _, err := u.tokens.EnsureFresh(ctx, user); err != nil {
		// Account exists; grants will be issued on the first authenticated
		// request instead.
		logger.GetLogger().WithField("user_id", id).WithField("error", err).
			Warn("Initial grant issuance failed")
	}

	res.ResponseCode = "00"
	res.ResponseMessage = "Success"
	res.Data = map[string]interface{}{"id": id}
	return res
}

func (u *userUsecase) GetPreferences(ctx context.Context, userID string) (model.Preferences, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return model.Preferences{}, err
	}
	return user.Preferences, nil
}

// UpdatePreferences applies a partial update, persists it and pushes the full
// preference set to the device.
func (u *userUsecase) UpdatePreferences(ctx context.Context, user model.User, req dto.PreferencesRequest) (model.Preferences, error) {
	prefs := user.Preferences
	if req.Volume != nil {
		if *req.Volume < 0 || *req.Volume > 1 {
			return prefs, &model.ValidationError{Field: "volume", Reason: "must be between 0 and 1"}
		}
		prefs.Volume = *req.Volume
	}
	if req.LEDMode != nil {
		switch *req.LEDMode {
		case model.ModeDefault, model.ModeParty, model.ModeChill:
			prefs.LEDMode = *req.LEDMode
		default:
			return prefs, &model.ValidationError{Field: "led_mode", Reason: fmt.Sprintf("unsupported value %q", *req.LEDMode)}
		}
	}
	if req.MotionDetection != nil {
		prefs.MotionDetection = *req.MotionDetection
	}

	if err := u.userRepo.UpdatePreferences(ctx, user.ID, prefs); err != nil {
		return prefs, err
	}
	if u.playback != nil {
		if err := u.playback.Dispatch(ctx, user, model.UpdatePreferencesCommand{Preferences: prefs}); err != nil {
			logger.GetLogger().WithField("user_id", user.ID).WithField("error", err).
				Warn("Pushing preferences to device failed")
		}
	}
	return prefs, nil
}
